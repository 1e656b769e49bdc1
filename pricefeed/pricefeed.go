package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/angas/spotslots-go/periods"
	"github.com/angas/spotslots-go/retry"
	"github.com/angas/spotslots-go/types"
)

// CacheKey is the single key today's and tomorrow's raw prices live under.
const CacheKey = "electricity_prices_cache"

const attemptTimeout = 10 * time.Second

// CacheEntry is the stored shape. It is only valid for the zone it was
// fetched for and on the local calendar day it was fetched, so a day
// boundary crossed mid-session invalidates it on the next check.
type CacheEntry struct {
	DateFetched string                 `json:"dateFetched"`
	Zone        types.Zone             `json:"zone"`
	Today       []types.RawPricePeriod `json:"today"`
	Tomorrow    []types.RawPricePeriod `json:"tomorrow"`
}

// Result is what a fetch resolves to. Per-day failures never surface as
// errors, only as human-readable status text; a fully failed fetch is an
// empty Periods slice.
type Result struct {
	Periods  []types.RawPricePeriod
	Status   string
	CacheHit bool
}

type Fetcher struct {
	logger   *slog.Logger
	store    Store
	provider types.PriceDayProvider
	policy   retry.Policy
}

func New(logger *slog.Logger, store Store, provider types.PriceDayProvider, policy retry.Policy) *Fetcher {
	return &Fetcher{
		logger:   logger,
		store:    store,
		provider: provider,
		policy:   policy,
	}
}

// Fetch returns two days of raw prices for the zone, from cache when a
// valid entry exists, otherwise fetching today and tomorrow concurrently.
// The merged result is cached only when both days returned data, so a
// not-yet-published tomorrow forces a re-fetch on the next invocation.
func (f *Fetcher) Fetch(ctx context.Context, zone types.Zone, now time.Time) Result {
	if entry, ok := f.checkCache(ctx, zone, now); ok {
		merged := mergePeriods(entry.Today, entry.Tomorrow)
		f.logger.Debug("price cache hit",
			slog.String("zone", string(zone)),
			slog.Int("noOfPeriods", len(merged)))
		return Result{
			Periods:  merged,
			Status:   fmt.Sprintf("%d periods loaded from cache", len(merged)),
			CacheHit: true,
		}
	}

	var wg sync.WaitGroup
	var today, tomorrow dayResult
	wg.Add(2)
	go func() {
		defer wg.Done()
		today = f.fetchDay(ctx, now, zone)
	}()
	go func() {
		defer wg.Done()
		tomorrow = f.fetchDay(ctx, now.AddDate(0, 0, 1), zone)
	}()
	wg.Wait()

	if len(today.periods) > 0 && len(tomorrow.periods) > 0 {
		f.saveCache(ctx, CacheEntry{
			DateFetched: periods.DayLabel(now),
			Zone:        zone,
			Today:       today.periods,
			Tomorrow:    tomorrow.periods,
		})
	}

	return Result{
		Periods: mergePeriods(today.periods, tomorrow.periods),
		Status:  strings.Join([]string{today.status, tomorrow.status}, "; "),
	}
}

// Cached reports whether a valid cache entry with both days present exists.
func (f *Fetcher) Cached(ctx context.Context, zone types.Zone, now time.Time) bool {
	entry, ok := f.checkCache(ctx, zone, now)
	return ok && len(entry.Tomorrow) > 0
}

func (f *Fetcher) checkCache(ctx context.Context, zone types.Zone, now time.Time) (CacheEntry, bool) {
	raw, ok, err := f.store.Get(ctx, CacheKey)
	if err != nil {
		f.logger.Warn("price cache read failed", slog.Any("error", err))
		return CacheEntry{}, false
	}
	if !ok {
		return CacheEntry{}, false
	}

	var entry CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		f.logger.Warn("price cache entry unreadable", slog.Any("error", err))
		return CacheEntry{}, false
	}

	if entry.Zone != zone || entry.DateFetched != periods.DayLabel(now) {
		return CacheEntry{}, false
	}

	return entry, true
}

func (f *Fetcher) saveCache(ctx context.Context, entry CacheEntry) {
	raw, err := json.Marshal(entry)
	if err != nil {
		f.logger.Warn("price cache entry marshal failed", slog.Any("error", err))
		return
	}
	if err := f.store.Set(ctx, CacheKey, raw); err != nil {
		f.logger.Warn("price cache write failed", slog.Any("error", err))
	}
}

type dayResult struct {
	periods []types.RawPricePeriod
	status  string
}

func (f *Fetcher) fetchDay(ctx context.Context, date time.Time, zone types.Zone) dayResult {
	day := periods.DayLabel(date)

	var fetched []types.RawPricePeriod
	err := f.policy.Do(ctx, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		defer cancel()

		got, err := f.provider.FetchDay(attemptCtx, date, zone)
		if errors.Is(err, types.ErrNotYetPublished) {
			return retry.Permanent(err)
		}
		if err != nil {
			return err
		}
		fetched = got
		return nil
	})

	switch {
	case errors.Is(err, types.ErrNotYetPublished):
		f.logger.Debug("prices not yet released", slog.String("day", day))
		return dayResult{status: fmt.Sprintf("prices for %s not yet released", day)}
	case err != nil:
		f.logger.Warn("price fetch failed",
			slog.String("day", day), slog.Any("error", err))
		return dayResult{status: fmt.Sprintf("no prices for %s: %v", day, err)}
	}

	return dayResult{
		periods: fetched,
		status:  fmt.Sprintf("%d periods for %s", len(fetched), day),
	}
}

func mergePeriods(today, tomorrow []types.RawPricePeriod) []types.RawPricePeriod {
	merged := make([]types.RawPricePeriod, 0, len(today)+len(tomorrow))
	merged = append(merged, today...)
	merged = append(merged, tomorrow...)
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].TimeStart.Before(merged[j].TimeStart)
	})
	return merged
}
