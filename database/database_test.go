package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func testDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func TestKvRoundTrip(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()

	if _, ok, err := db.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("got ok=%v err=%v for missing key", ok, err)
	}

	if err := db.Set(ctx, "k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("setting value: %v", err)
	}
	got, ok, err := db.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("got ok=%v err=%v after set", ok, err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("got %q, wanted the stored value back", got)
	}

	// Overwrite must replace, not duplicate.
	if err := db.Set(ctx, "k", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("overwriting value: %v", err)
	}
	got, _, _ = db.Get(ctx, "k")
	if string(got) != `{"a":2}` {
		t.Errorf("got %q after overwrite, wanted the new value", got)
	}
}

func TestCalculationHistory(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()

	row := CalculationRow{
		When:            time.Now().UTC().Add(-48 * time.Hour).Truncate(time.Second),
		Zone:            "SE3",
		DurationMinutes: 60,
		TopN:            3,
		WindowStart:     0,
		WindowEnd:       24,
		CacheHit:        true,
		Status:          "192 periods loaded from cache",
		Slots:           "[]",
	}
	if err := db.SaveCalculation(ctx, row); err != nil {
		t.Fatalf("saving calculation: %v", err)
	}

	rows, err := db.GetCalculations(ctx, 10)
	if err != nil {
		t.Fatalf("fetching calculations: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, wanted 1", len(rows))
	}
	if rows[0].Zone != "SE3" || !rows[0].CacheHit || rows[0].DurationMinutes != 60 {
		t.Errorf("row came back mangled: %+v", rows[0])
	}

	if err := db.PurgeCalculations(ctx, 1); err != nil {
		t.Fatalf("purging calculations: %v", err)
	}
	rows, _ = db.GetCalculations(ctx, 10)
	if len(rows) != 0 {
		t.Errorf("got %d rows after purge, wanted 0", len(rows))
	}
}

func TestLogPurgeKeepsNewest(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := db.SaveLogEntry(ctx, LogEntryRow{
			Timestamp: time.Now(),
			Level:     0,
			Message:   "entry",
		})
		if err != nil {
			t.Fatalf("saving log entry: %v", err)
		}
	}

	if err := db.PurgeLog(ctx, 2); err != nil {
		t.Fatalf("purging log: %v", err)
	}
	entries, err := db.GetLogEntries(ctx, -8, 1, 10)
	if err != nil {
		t.Fatalf("fetching log entries: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries after purge, wanted 2", len(entries))
	}
}
