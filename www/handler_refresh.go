package www

import (
	"log/slog"
	"net/http"
)

// NewRefreshHandler triggers the price refresh task out of band. The task
// is not re-entrant safe by design (single in-flight calculation), so the
// caller disables its trigger control while a refresh is running.
func NewRefreshHandler(logger *slog.Logger, refreshTask func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		logger.Debug("manual price refresh requested")
		refreshTask()
		w.WriteHeader(http.StatusNoContent)
	}
}
