package task

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/angas/spotslots-go/config"
	"github.com/angas/spotslots-go/database"
	"github.com/angas/spotslots-go/planner"
	"github.com/angas/spotslots-go/pricefeed"
	"github.com/angas/spotslots-go/types"
)

type Tasks struct {
	cron             *cron.Cron
	cnfg             *config.Current
	PriceRefreshTask func()
	MaintenanceTask  func()
}

// OnFreshPrices is invoked after a refresh that actually hit the remote
// source, so downstream consumers (websocket hub, MQTT) can be notified.
type OnFreshPrices func(zone types.Zone, res *planner.Result)

func NewTasks(
	db *database.Database,
	pl *planner.Planner,
	fetcher *pricefeed.Fetcher,
	cnfg *config.Current,
	onFresh OnFreshPrices,
) *Tasks {
	logger := slog.Default().With("module", "tasks")
	return &Tasks{
		cron:             cron.New(),
		cnfg:             cnfg,
		PriceRefreshTask: NewPriceRefreshTask(logger.With(slog.String("task", "price_refresh")), db, pl, fetcher, cnfg, onFresh),
		MaintenanceTask:  NewMaintenanceTask(logger.With(slog.String("task", "maintenance")), db, cnfg),
	}
}

func (t *Tasks) Run() {
	_, err := t.cron.AddFunc(t.cnfg.Get().EnergyPrice.RunAt, t.PriceRefreshTask)
	if err != nil {
		panic(err)
	}
	_, err = t.cron.AddFunc("30 2 * * *", t.MaintenanceTask)
	if err != nil {
		panic(err)
	}
	t.cron.Start()
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
