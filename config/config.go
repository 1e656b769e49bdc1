package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/angas/spotslots-go/logging"
	"github.com/spf13/viper"
)

type AppConfigApi struct {
	Address string
	Port    int16
}

type AppConfigDatabase struct {
	Path string
	// How many days calculation history is stored before it gets purged
	HistoryRetentionDays *int `mapstructure:"history_retention_days"`
}

func (d AppConfigDatabase) GetHistoryRetentionDays() int {
	if d.HistoryRetentionDays == nil {
		return 90
	}
	return *d.HistoryRetentionDays
}

type AppConfigEnergyPrice struct {
	GridFee    float64 `mapstructure:"grid_fee"`    // Grid transfer fee in SEK/kWh (elöverföring)
	EnergyTax  float64 `mapstructure:"energy_tax"`  // Energy tax in SEK/kWh (energiskatt)
	VatPercent float64 `mapstructure:"vat_percent"` // VAT percentage (moms)
	Zone       string  `mapstructure:"zone"`        // "SE1", "SE2", "SE3", "SE4"
	RunAt      string  `mapstructure:"run_at"`      // Cron expression for the refresh task
}

type AppConfigSlots struct {
	// Defaults applied when a request leaves a parameter out
	DurationMinutes *int `mapstructure:"duration_minutes"`
	TopN            *int `mapstructure:"top_n"`
	WindowStartHour *int `mapstructure:"window_start_hour"`
	WindowEndHour   *int `mapstructure:"window_end_hour"`
}

func (s AppConfigSlots) GetDurationMinutes() int {
	if s.DurationMinutes == nil {
		return 60
	}
	return *s.DurationMinutes
}

func (s AppConfigSlots) GetTopN() int {
	if s.TopN == nil {
		return 3
	}
	return *s.TopN
}

func (s AppConfigSlots) GetWindowStartHour() int {
	if s.WindowStartHour == nil {
		return 0
	}
	return *s.WindowStartHour
}

func (s AppConfigSlots) GetWindowEndHour() int {
	if s.WindowEndHour == nil {
		return 24
	}
	return *s.WindowEndHour
}

type AppConfigMqtt struct {
	Enabled  bool
	Host     string
	Port     int16
	Username string
	Password string
	// Topic prefix for slot announcements, default: "spotslots"
	TopicPrefix *string `mapstructure:"topic_prefix"`
}

func (m AppConfigMqtt) GetTopicPrefix() string {
	if m.TopicPrefix == nil {
		return "spotslots"
	}
	return *m.TopicPrefix
}

type AppConfigGui struct {
	// Timezone for displaying times, default: UTC
	Timezone *string `mapstructure:"timezone"`
}

func (g AppConfigGui) GetTimezone() string {
	if g.Timezone == nil {
		return "UTC"
	}
	return *g.Timezone
}

type AppConfigLogging struct {
	// Min log level for database: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	if l.DbLevel == nil {
		return slog.LevelInfo
	}
	return ParseLogLevel(*l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	if l.DbAttrsFormat == nil {
		return "JSON"
	}
	if strings.EqualFold(*l.DbAttrsFormat, "text") {
		return "TEXT"
	}
	return "JSON"
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	if l.ConsoleLevel == nil {
		return slog.LevelInfo
	}
	return ParseLogLevel(*l.ConsoleLevel)
}

// ParseLogLevel maps a level name to its slog level; empty or unknown
// names fall back to info.
func ParseLogLevel(name string) slog.Level {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type AppConfig struct {
	Api         AppConfigApi
	Database    AppConfigDatabase
	EnergyPrice AppConfigEnergyPrice `mapstructure:"energy_price"`
	Slots       AppConfigSlots       `mapstructure:"slots"`
	Mqtt        AppConfigMqtt        `mapstructure:"mqtt"`
	Gui         AppConfigGui         `mapstructure:"gui"`
	Logging     AppConfigLogging     `mapstructure:"logging"`
}

func Load(path string) (*AppConfig, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath("config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c AppConfig

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	return &c, nil
}
