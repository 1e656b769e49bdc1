package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/angas/spotslots-go/elprisetjustnu"
	"github.com/angas/spotslots-go/periods"
	"github.com/angas/spotslots-go/planner"
	"github.com/angas/spotslots-go/pricefeed"
	"github.com/angas/spotslots-go/retry"
	"github.com/angas/spotslots-go/types"
)

// One-shot slot search against the live price source, no database needed.
func main() {
	zoneFlag := flag.String("zone", "SE3", "price zone (SE1-SE4)")
	duration := flag.Int("duration", 60, "appliance run time in minutes")
	top := flag.Int("top", 3, "number of slots to find")
	windowStart := flag.Int("window-start", 0, "first eligible hour")
	windowEnd := flag.Int("window-end", 24, "hour after the last eligible one")
	gridFee := flag.Float64("grid-fee", 0, "grid fee in SEK/kWh")
	energyTax := flag.Float64("energy-tax", 0, "energy tax in SEK/kWh")
	vat := flag.Float64("vat", 25.0, "VAT percentage")
	flag.Parse()

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelWarn,
		TimeFormat: time.RFC3339,
	}))
	slog.SetDefault(logger)

	zone, err := types.ParseZone(*zoneFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fetcher := pricefeed.New(logger, pricefeed.NewMemoryStore(), elprisetjustnu.New(), retry.Default())
	pl := planner.New(logger, fetcher)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res, err := pl.Calculate(ctx, planner.Request{
		Zone:            zone,
		DurationMinutes: *duration,
		TopN:            *top,
		WindowStartHour: *windowStart,
		WindowEndHour:   *windowEnd,
		Fees: types.FeeConfig{
			GridFee:    *gridFee,
			EnergyTax:  *energyTax,
			VatPercent: *vat,
		},
	}, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(res.Status)
	for _, s := range res.Slots {
		fmt.Printf("#%d  %s - %s  total %.4f SEK/kWh·periods  avg %.4f SEK/kWh\n",
			s.Rank,
			periods.FormatInGuiTimezone(s.Start),
			periods.FormatInGuiTimezone(s.End),
			s.TotalCost,
			s.AveragePrice)
	}
}
