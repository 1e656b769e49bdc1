package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

const testConfig = `
api:
  address: "0.0.0.0"
  port: 8080
database:
  path: "spotslots.db"
energy_price:
  grid_fee: 0.25
  energy_tax: 0.55
  vat_percent: 25.0
  zone: "SE3"
  run_at: "15 14,15,16 * * *"
slots:
  duration_minutes: 120
  top_n: 5
gui:
  timezone: "Europe/Stockholm"
`

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	config, err := Load(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	t.Run("Energy Price", func(t *testing.T) {
		if config.EnergyPrice.GridFee != 0.25 {
			t.Errorf("Expected grid fee 0.25, got %f", config.EnergyPrice.GridFee)
		}
		if config.EnergyPrice.EnergyTax != 0.55 {
			t.Errorf("Expected energy tax 0.55, got %f", config.EnergyPrice.EnergyTax)
		}
		if config.EnergyPrice.VatPercent != 25.0 {
			t.Errorf("Expected VAT 25.0, got %f", config.EnergyPrice.VatPercent)
		}
		if config.EnergyPrice.Zone != "SE3" {
			t.Errorf("Expected zone SE3, got %s", config.EnergyPrice.Zone)
		}
	})

	t.Run("Slot Defaults", func(t *testing.T) {
		if config.Slots.GetDurationMinutes() != 120 {
			t.Errorf("Expected duration 120, got %d", config.Slots.GetDurationMinutes())
		}
		if config.Slots.GetTopN() != 5 {
			t.Errorf("Expected top_n 5, got %d", config.Slots.GetTopN())
		}
		if config.Slots.GetWindowStartHour() != 0 || config.Slots.GetWindowEndHour() != 24 {
			t.Errorf("Expected default full-day window, got [%d,%d)",
				config.Slots.GetWindowStartHour(), config.Slots.GetWindowEndHour())
		}
	})

	t.Run("Fallback Defaults", func(t *testing.T) {
		if config.Database.GetHistoryRetentionDays() != 90 {
			t.Errorf("Expected retention 90, got %d", config.Database.GetHistoryRetentionDays())
		}
		if config.Mqtt.GetTopicPrefix() != "spotslots" {
			t.Errorf("Expected topic prefix spotslots, got %s", config.Mqtt.GetTopicPrefix())
		}
		if config.Logging.GetDbMaxEntries() != 10000 {
			t.Errorf("Expected max log entries 10000, got %d", config.Logging.GetDbMaxEntries())
		}
		if config.Logging.GetConsoleLevel() != slog.LevelInfo {
			t.Errorf("Expected default console level info, got %v", config.Logging.GetConsoleLevel())
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"DEBUG":   slog.LevelDebug,
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"VERBOSE": slog.LevelInfo,
	}
	for name, want := range cases {
		if got := ParseLogLevel(name); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", name, got, want)
		}
	}
}
