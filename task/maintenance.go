package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/angas/spotslots-go/config"
	"github.com/angas/spotslots-go/database"
)

func NewMaintenanceTask(logger *slog.Logger, db *database.Database, cnfg *config.Current) func() {
	return func() {
		logger.Debug("running maintenance task...")

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		c := cnfg.Get()

		if err := db.PurgeLog(ctx, c.Logging.GetDbMaxEntries()); err != nil {
			logger.Error("log maintenance error", slog.Any("error", err))
		}

		if err := db.PurgeCalculations(ctx, c.Database.GetHistoryRetentionDays()); err != nil {
			logger.Error("calculation maintenance error", slog.Any("error", err))
		}

		if err := db.Optimize(ctx); err != nil {
			logger.Error("database optimize error", slog.Any("error", err))
		}

		logger.Info("maintenance task done")
	}
}
