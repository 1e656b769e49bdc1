package task

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/angas/spotslots-go/config"
	"github.com/angas/spotslots-go/database"
	"github.com/angas/spotslots-go/planner"
	"github.com/angas/spotslots-go/pricefeed"
	"github.com/angas/spotslots-go/types"
)

// NewPriceRefreshTask keeps the price cache warm. Until tomorrow's prices
// have been published the cache is never written, so the cron schedule
// effectively polls for them through the afternoon.
func NewPriceRefreshTask(
	logger *slog.Logger,
	db *database.Database,
	pl *planner.Planner,
	fetcher *pricefeed.Fetcher,
	cnfg *config.Current,
	onFresh OnFreshPrices,
) func() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if needImmediatePriceRefresh(ctx, fetcher, cnfg) {
		logger.Info("need an immediate refresh of energy prices")
		runPriceRefreshTask(logger, db, pl, cnfg, onFresh)
	} else {
		logger.Debug("no need for immediate refresh of energy prices")
	}

	return func() { runPriceRefreshTask(logger, db, pl, cnfg, onFresh) }
}

func runPriceRefreshTask(
	logger *slog.Logger,
	db *database.Database,
	pl *planner.Planner,
	cnfg *config.Current,
	onFresh OnFreshPrices,
) {
	logger.Debug("running price refresh task...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := cnfg.Get()
	zone, err := types.ParseZone(c.EnergyPrice.Zone)
	if err != nil {
		logger.Error("price refresh task error, bad zone in config", slog.Any("error", err))
		return
	}

	req := planner.Request{
		Zone:            zone,
		DurationMinutes: c.Slots.GetDurationMinutes(),
		TopN:            c.Slots.GetTopN(),
		WindowStartHour: c.Slots.GetWindowStartHour(),
		WindowEndHour:   c.Slots.GetWindowEndHour(),
		Fees: types.FeeConfig{
			GridFee:    c.EnergyPrice.GridFee,
			EnergyTax:  c.EnergyPrice.EnergyTax,
			VatPercent: c.EnergyPrice.VatPercent,
		},
	}

	res, err := pl.Calculate(ctx, req, time.Now())
	if err != nil {
		logger.Warn("price refresh task, calculation failed", slog.Any("error", err))
		return
	}

	slotsJSON, err := json.Marshal(res.Slots)
	if err != nil {
		logger.Error("price refresh task error, marshalling slots", slog.Any("error", err))
		slotsJSON = []byte("[]")
	}
	if err := db.SaveCalculation(ctx, database.CalculationRow{
		When:            time.Now(),
		Zone:            string(req.Zone),
		DurationMinutes: req.DurationMinutes,
		TopN:            req.TopN,
		WindowStart:     req.WindowStartHour,
		WindowEnd:       req.WindowEndHour,
		CacheHit:        res.CacheHit,
		Status:          res.Status,
		Slots:           string(slotsJSON),
	}); err != nil {
		logger.Error("price refresh task error, saving calculation", slog.Any("error", err))
	}

	if !res.CacheHit && onFresh != nil {
		onFresh(zone, res)
	}

	logger.Info("price refresh task done",
		slog.Int("noOfSlots", len(res.Slots)),
		slog.Bool("cacheHit", res.CacheHit))
}

func needImmediatePriceRefresh(ctx context.Context, fetcher *pricefeed.Fetcher, cnfg *config.Current) bool {
	zone, err := types.ParseZone(cnfg.Get().EnergyPrice.Zone)
	if err != nil {
		return false
	}
	return !fetcher.Cached(ctx, zone, time.Now())
}
