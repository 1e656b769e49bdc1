package types

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Zone is a Nordic electricity price area.
type Zone string

const (
	ZoneSE1 Zone = "SE1"
	ZoneSE2 Zone = "SE2"
	ZoneSE3 Zone = "SE3"
	ZoneSE4 Zone = "SE4"
)

func ParseZone(str string) (Zone, error) {
	switch z := Zone(strings.ToUpper(strings.TrimSpace(str))); z {
	case ZoneSE1, ZoneSE2, ZoneSE3, ZoneSE4:
		return z, nil
	default:
		return "", fmt.Errorf("unknown price zone: %q", str)
	}
}

// RawPricePeriod is one 15-minute spot price record as published by the
// remote source. The price excludes VAT and all fees.
type RawPricePeriod struct {
	TimeStart time.Time `json:"time_start"`
	SEKPerKWh float64   `json:"SEK_per_kWh"`
}

// FeeConfig holds the per-kWh charges added on top of the spot price.
type FeeConfig struct {
	GridFee    float64 // Grid transfer fee in SEK/kWh (elöverföring)
	EnergyTax  float64 // Energy tax in SEK/kWh (energiskatt)
	VatPercent float64 // VAT in percent, applied on top of price plus fees (moms)
}

// ErrNotYetPublished marks a day whose prices the market has not released
// yet. Tomorrow's prices are commonly unavailable until mid-afternoon, so
// this is a normal outcome and must not be retried.
var ErrNotYetPublished = errors.New("prices not yet published")

type PriceDayProvider interface {
	FetchDay(ctx context.Context, date time.Time, zone Zone) ([]RawPricePeriod, error)
}
