package www

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/angas/spotslots-go/config"
	"github.com/angas/spotslots-go/database"
	"github.com/angas/spotslots-go/planner"
	"github.com/angas/spotslots-go/slots"
	"github.com/angas/spotslots-go/types"
)

type slotsResponse struct {
	Zone     types.Zone           `json:"zone"`
	Slots    []slots.Slot         `json:"slots"`
	Series   []slots.PricedPeriod `json:"series"`
	Status   string               `json:"status"`
	CacheHit bool                 `json:"cacheHit"`
}

func NewSlotsHandler(logger *slog.Logger, cnfg *config.Current, pl *planner.Planner, db *database.Database) http.HandlerFunc {
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

		req := planner.Request{
			Zone:            zone,
			DurationMinutes: intOrDefault(r.URL, "duration", c.Slots.GetDurationMinutes()),
			TopN:            intOrDefault(r.URL, "top", c.Slots.GetTopN()),
			WindowStartHour: intOrDefault(r.URL, "window_start", c.Slots.GetWindowStartHour()),
			WindowEndHour:   intOrDefault(r.URL, "window_end", c.Slots.GetWindowEndHour()),
			Fees: types.FeeConfig{
				GridFee:    floatOrDefault(r.URL, "grid_fee", c.EnergyPrice.GridFee),
				EnergyTax:  floatOrDefault(r.URL, "energy_tax", c.EnergyPrice.EnergyTax),
				VatPercent: floatOrDefault(r.URL, "vat_percent", c.EnergyPrice.VatPercent),
			},
		}

		res, err := pl.Calculate(r.Context(), req, time.Now())
		if err != nil {
			writeCalcError(w, err)
			return
		}

		saveCalculation(r, logger, db, req, res)

		writeJSON(w, http.StatusOK, slotsResponse{
			Zone:     zone,
			Slots:    res.Slots,
			Series:   res.Series,
			Status:   res.Status,
			CacheHit: res.CacheHit,
		})
	}
}

func errorBody(kind, message string) map[string]any {
	return map[string]any{"error": kind, "message": message}
}

// writeCalcError maps each failure kind to its own status code and error
// tag so the UI can render distinct messages.
func writeCalcError(w http.ResponseWriter, err error) {
	var invalidDuration *planner.InvalidDurationError
	var noData *planner.NoDataError
	var insufficient *planner.InsufficientAvailabilityError

	switch {
	case errors.As(err, &invalidDuration):
		writeJSON(w, http.StatusBadRequest, errorBody("invalid_duration", err.Error()))
	case errors.Is(err, planner.ErrUnknownZone),
		errors.Is(err, planner.ErrInvalidTopN),
		errors.Is(err, planner.ErrInvalidWindow):
		writeJSON(w, http.StatusBadRequest, errorBody("invalid_request", err.Error()))
	case errors.As(err, &noData):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("no_data", err.Error()))
	case errors.As(err, &insufficient):
		body := errorBody("insufficient_availability", err.Error())
		body["requiredMinutes"] = insufficient.RequiredMinutes
		body["availableMinutes"] = insufficient.AvailableMinutes
		writeJSON(w, http.StatusUnprocessableEntity, body)
	case errors.Is(err, planner.ErrNoFeasibleSlot):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("no_feasible_slot", err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody("internal", err.Error()))
	}
}

func saveCalculation(r *http.Request, logger *slog.Logger, db *database.Database, req planner.Request, res *planner.Result) {
	slotsJSON, err := json.Marshal(res.Slots)
	if err != nil {
		logger.Error("marshalling slots for history", slog.Any("error", err))
		slotsJSON = []byte("[]")
	}
	if err := db.SaveCalculation(r.Context(), database.CalculationRow{
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
		logger.Error("saving calculation history", slog.Any("error", err))
	}
}
