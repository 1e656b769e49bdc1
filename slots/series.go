package slots

import (
	"sort"
	"time"

	"github.com/angas/spotslots-go/calc"
	"github.com/angas/spotslots-go/periods"
	"github.com/angas/spotslots-go/types"
)

// PricedPeriod is one 15-minute interval annotated for slot selection.
// A series of these is always sorted ascending by Start with unique starts.
type PricedPeriod struct {
	Start      time.Time `json:"start"`
	BasePrice  float64   `json:"basePrice"`
	AllInPrice float64   `json:"allInPrice"`
	IsPast     bool      `json:"isPast"`
	Day        string    `json:"day"`
}

// BuildSeries turns raw spot price records into an annotated series. Input
// order is not trusted; the result is sorted ascending by start time.
// An empty input yields an empty series. Pure with respect to now.
func BuildSeries(raw []types.RawPricePeriod, fees types.FeeConfig, now time.Time) []PricedPeriod {
	series := make([]PricedPeriod, 0, len(raw))
	for _, r := range raw {
		series = append(series, PricedPeriod{
			Start:      r.TimeStart,
			BasePrice:  r.SEKPerKWh,
			AllInPrice: calc.AllInPrice(r.SEKPerKWh, fees.VatPercent, fees.EnergyTax, fees.GridFee),
			IsPast:     r.TimeStart.Before(now),
			Day:        periods.DayLabel(r.TimeStart),
		})
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Start.Before(series[j].Start)
	})

	return series
}
