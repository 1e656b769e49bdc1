package logging

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angas/spotslots-go/database"
)

func testDb(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "log.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func TestSQLiteHandlerWritesRecords(t *testing.T) {
	db := testDb(t)
	logger := slog.New(NewSQLiteHandler(db, slog.LevelInfo, LogAttrFormatJSON)).
		With("module", "planner")

	logger.Info("calculation done", "zone", "SE3")
	logger.Debug("below min level, must be dropped")

	entries, err := db.GetLogEntries(context.Background(), slog.LevelDebug, 1, 10)
	if err != nil {
		t.Fatalf("fetching log entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, wanted 1", len(entries))
	}
	if entries[0].Message != "calculation done" {
		t.Errorf("got message %q", entries[0].Message)
	}
	if entries[0].Level != int(slog.LevelInfo) {
		t.Errorf("got level %d, wanted info", entries[0].Level)
	}
	// Attrs bound with With() land next to the record's own.
	for _, want := range []string{`"module":"planner"`, `"zone":"SE3"`} {
		if !strings.Contains(entries[0].Attrs, want) {
			t.Errorf("attrs %q missing %s", entries[0].Attrs, want)
		}
	}
}

func TestSQLiteHandlerTextAttrs(t *testing.T) {
	db := testDb(t)
	logger := slog.New(NewSQLiteHandler(db, slog.LevelInfo, LogAttrFormatText))

	logger.Warn("tomorrow missing", "zone", "SE1", "attempts", 3)

	entries, err := db.GetLogEntries(context.Background(), slog.LevelDebug, 1, 10)
	if err != nil {
		t.Fatalf("fetching log entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, wanted 1", len(entries))
	}
	if entries[0].Attrs != "zone=SE1 attempts=3" {
		t.Errorf("got attrs %q", entries[0].Attrs)
	}
}

func TestSQLiteHandlerEnabled(t *testing.T) {
	h := NewSQLiteHandler(nil, slog.LevelWarn, LogAttrFormatJSON)
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled below a warn threshold")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled above a warn threshold")
	}
}
