package www

import (
	"log/slog"
	"net/http"
	"runtime"
	"time"
)

type SysInfo struct {
	Version   string    `json:"version"`
	StartedAt time.Time `json:"startedAt"`
}

func NewSysInfoHandler(logger *slog.Logger, sysInfo SysInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := struct {
			SysInfo
			GoVersion string `json:"goVersion"`
			Uptime    string `json:"uptime"`
		}{
			SysInfo:   sysInfo,
			GoVersion: runtime.Version(),
			Uptime:    time.Since(sysInfo.StartedAt).Round(time.Second).String(),
		}
		writeJSON(w, http.StatusOK, body)
	}
}
