package planner

import (
	"context"
	"log/slog"
	"time"

	"github.com/angas/spotslots-go/periods"
	"github.com/angas/spotslots-go/pricefeed"
	"github.com/angas/spotslots-go/slots"
	"github.com/angas/spotslots-go/types"
)

const (
	MinDurationMinutes = 15
	MaxDurationMinutes = 48 * 60
)

type Request struct {
	Zone            types.Zone
	DurationMinutes int
	TopN            int
	WindowStartHour int // inclusive
	WindowEndHour   int // exclusive, 24 = end of day
	Fees            types.FeeConfig
}

// FullDay reports whether the request leaves the hour window wide open.
func (r Request) FullDay() bool {
	return r.WindowStartHour == 0 && r.WindowEndHour == 24
}

type Result struct {
	// Series is the full annotated series, unfiltered, for charting context.
	Series   []slots.PricedPeriod
	Slots    []slots.Slot
	Status   string
	CacheHit bool
}

type Planner struct {
	logger  *slog.Logger
	fetcher *pricefeed.Fetcher
}

func New(logger *slog.Logger, fetcher *pricefeed.Fetcher) *Planner {
	return &Planner{logger: logger, fetcher: fetcher}
}

// Calculate runs one slot search: validate, fetch two days of prices,
// build the annotated series, narrow it to eligible future periods, and
// pick the cheapest blocks. now is supplied by the caller so the whole
// chain stays deterministic under test.
func (p *Planner) Calculate(ctx context.Context, req Request, now time.Time) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	fetched := p.fetcher.Fetch(ctx, req.Zone, now)
	if len(fetched.Periods) == 0 {
		return nil, &NoDataError{Status: fetched.Status}
	}

	series := slots.BuildSeries(fetched.Periods, req.Fees, now)
	eligible := filterEligible(series, req)

	available := len(eligible) * periods.Minutes
	if available < req.DurationMinutes {
		return nil, &InsufficientAvailabilityError{
			RequiredMinutes:  req.DurationMinutes,
			AvailableMinutes: available,
		}
	}

	found := slots.FindTopSlots(eligible, req.DurationMinutes, req.TopN)
	if len(found) == 0 {
		return nil, ErrNoFeasibleSlot
	}

	p.logger.Debug("calculation done",
		slog.String("zone", string(req.Zone)),
		slog.Int("durationMinutes", req.DurationMinutes),
		slog.Int("noOfSlots", len(found)),
		slog.Bool("cacheHit", fetched.CacheHit))

	return &Result{
		Series:   series,
		Slots:    found,
		Status:   fetched.Status,
		CacheHit: fetched.CacheHit,
	}, nil
}

func validate(req Request) error {
	if req.Zone == "" {
		return ErrUnknownZone
	}
	if _, err := types.ParseZone(string(req.Zone)); err != nil {
		return ErrUnknownZone
	}
	if req.DurationMinutes < MinDurationMinutes || req.DurationMinutes > MaxDurationMinutes {
		return &InvalidDurationError{Minutes: req.DurationMinutes}
	}
	if req.TopN < 1 {
		return ErrInvalidTopN
	}
	if req.WindowStartHour < 0 || req.WindowEndHour > 24 || req.WindowStartHour >= req.WindowEndHour {
		return ErrInvalidWindow
	}
	return nil
}

func filterEligible(series []slots.PricedPeriod, req Request) []slots.PricedPeriod {
	eligible := make([]slots.PricedPeriod, 0, len(series))
	for _, p := range series {
		if p.IsPast {
			continue
		}
		if !req.FullDay() {
			hour := periods.HourOf(p.Start)
			if hour < req.WindowStartHour || hour >= req.WindowEndHour {
				continue
			}
		}
		eligible = append(eligible, p)
	}
	return eligible
}
