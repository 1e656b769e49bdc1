package www

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/angas/spotslots-go/config"
	"github.com/angas/spotslots-go/planner"
	"github.com/angas/spotslots-go/pricefeed"
	"github.com/angas/spotslots-go/slots"
	"github.com/angas/spotslots-go/types"
)

type pricesResponse struct {
	Zone     types.Zone           `json:"zone"`
	Series   []slots.PricedPeriod `json:"series"`
	Status   string               `json:"status"`
	CacheHit bool                 `json:"cacheHit"`
}

// NewPricesHandler serves the full annotated two-day series without
// running slot selection, for charting.
func NewPricesHandler(logger *slog.Logger, cnfg *config.Current, fetcher *pricefeed.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		c := cnfg.Get()
		zone, err := types.ParseZone(stringOrDefault(r.URL, "zone", c.EnergyPrice.Zone))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("unknown_zone", err.Error()))
			return
		}

		now := time.Now()
		fetched := fetcher.Fetch(r.Context(), zone, now)
		if len(fetched.Periods) == 0 {
			err := &planner.NoDataError{Status: fetched.Status}
			writeJSON(w, http.StatusServiceUnavailable, errorBody("no_data", err.Error()))
			return
		}

		series := slots.BuildSeries(fetched.Periods, types.FeeConfig{
			GridFee:    c.EnergyPrice.GridFee,
			EnergyTax:  c.EnergyPrice.EnergyTax,
			VatPercent: c.EnergyPrice.VatPercent,
		}, now)

		writeJSON(w, http.StatusOK, pricesResponse{
			Zone:     zone,
			Series:   series,
			Status:   fetched.Status,
			CacheHit: fetched.CacheHit,
		})
	}
}
