package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/angas/spotslots-go/announce"
	"github.com/angas/spotslots-go/config"
	"github.com/angas/spotslots-go/database"
	"github.com/angas/spotslots-go/elprisetjustnu"
	"github.com/angas/spotslots-go/logging"
	"github.com/angas/spotslots-go/periods"
	"github.com/angas/spotslots-go/planner"
	"github.com/angas/spotslots-go/pricefeed"
	"github.com/angas/spotslots-go/retry"
	"github.com/angas/spotslots-go/task"
	"github.com/angas/spotslots-go/types"
	"github.com/angas/spotslots-go/www"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	current := config.NewCurrent(cnfg)

	if err := periods.SetGuiTimezone(cnfg.Gui.GetTimezone()); err != nil {
		panic(fmt.Sprintf("failed to set GUI timezone: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	})
	slog.New(consoleHandler).Debug("spotslots is starting...", slog.String("version", Version))

	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to database: %v", err))
	}
	defer db.Close()

	logger := slog.New(logging.NewMultiHandler(
		consoleHandler,
		logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
	slog.SetDefault(logger)

	// Now we can use the logger to log database operations into the database itself
	db.SetLogger(logger.With("module", "database"))

	if err := config.Watch(logger.With("module", "config"), current.Set); err != nil {
		logger.Warn("config watching disabled", slog.Any("error", err))
	}

	fetcher := pricefeed.New(
		logger.With("module", "pricefeed"),
		db,
		elprisetjustnu.New(),
		retry.Default())
	pl := planner.New(logger.With("module", "planner"), fetcher)

	var announcer *announce.Announcer
	if cnfg.Mqtt.Enabled {
		announcer = announce.New(
			cnfg.Mqtt.Host,
			cnfg.Mqtt.Port,
			cnfg.Mqtt.Username,
			cnfg.Mqtt.Password,
			cnfg.Mqtt.GetTopicPrefix())
		if isDevMode() {
			logger.Info("dev mode, skipping mqtt connection")
			announcer = nil
		} else if err := announcer.Connect(); err != nil {
			logger.Error("mqtt connection error, announcements disabled", slog.Any("error", err))
			announcer = nil
		} else {
			defer announcer.Disconnect()
		}
	}

	var server *www.Server
	onFresh := func(zone types.Zone, res *planner.Result) {
		if server != nil {
			server.NotifyFreshPrices(zone, res)
		}
		if announcer != nil {
			if err := announcer.PublishSlots(zone, res.Slots); err != nil {
				logger.Error("failed to announce slots", slog.Any("error", err))
			}
		}
	}

	tasks := task.NewTasks(db, pl, fetcher, current, onFresh)
	if isDevMode() {
		logger.Info("dev mode, skipping task scheduling")
	} else {
		tasks.Run()
		defer tasks.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ctx.Done():
			logger.Info("main context done")
		case sig := <-sigCh:
			logger.Info("received signal", slog.Any("signal", sig))
			cancel()
		}
	}()

	server = www.StartServer(db, pl, fetcher, tasks, current, Version)
	server.Run(ctx)
}

func isDevMode() bool {
	return strings.EqualFold(os.Getenv("APP_ENV"), "development")
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}
	if syncer, ok := logger.Handler().(interface{ Sync() error }); ok {
		if syncErr := syncer.Sync(); syncErr != nil {
			logger.Error("failed to flush logger", slog.Any("error", syncErr))
		}
	}

	time.Sleep(2 * time.Second)
	os.Exit(1)
}
