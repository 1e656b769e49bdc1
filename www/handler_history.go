package www

import (
	"log/slog"
	"net/http"

	"github.com/angas/spotslots-go/database"
)

func NewHistoryHandler(logger *slog.Logger, db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		limit := intOrDefault(r.URL, "limit", 25)
		rows, err := db.GetCalculations(r.Context(), limit)
		if err != nil {
			logger.Error("handling history request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, rows)
	}
}
