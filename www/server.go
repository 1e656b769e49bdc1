package www

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/angas/spotslots-go/config"
	"github.com/angas/spotslots-go/database"
	"github.com/angas/spotslots-go/planner"
	"github.com/angas/spotslots-go/pricefeed"
	"github.com/angas/spotslots-go/task"
	"github.com/angas/spotslots-go/types"
)

type Server struct {
	logger *slog.Logger
	cnfg   *config.Current
	db     *database.Database
	hub    *Hub
}

func StartServer(
	db *database.Database,
	pl *planner.Planner,
	fetcher *pricefeed.Fetcher,
	tasks *task.Tasks,
	cnfg *config.Current,
	version string,
) *Server {
	logger := slog.Default().With("module", "www")

	s := &Server{
		logger: logger,
		cnfg:   cnfg,
		db:     db,
		hub:    NewHub(logger),
	}

	go s.hub.Run()

	logReqMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("remoteAddr", r.RemoteAddr))
			next.ServeHTTP(w, r)
		})
	}

	http.Handle("/api/slots", logReqMW(NewSlotsHandler(
		logger.With(slog.String("handler", "slots")),
		cnfg,
		pl,
		s.db)))

	http.Handle("/api/prices", logReqMW(NewPricesHandler(
		logger.With(slog.String("handler", "prices")),
		cnfg,
		fetcher)))

	http.Handle("/api/history", logReqMW(NewHistoryHandler(
		logger.With(slog.String("handler", "history")),
		s.db)))

	http.Handle("/api/log", logReqMW(NewLogHandler(
		logger.With(slog.String("handler", "log")),
		s.db)))

	http.Handle("/api/refresh", logReqMW(NewRefreshHandler(
		logger.With(slog.String("handler", "refresh")),
		tasks.PriceRefreshTask)))

	http.Handle("/api/sys_info", logReqMW(NewSysInfoHandler(
		logger.With(slog.String("handler", "sys_info")),
		SysInfo{Version: version, StartedAt: time.Now()})))

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		name := r.Header.Get("User-Agent")
		client, err := NewClient(s.hub, w, r, name)
		if err != nil {
			s.logger.Error("new websocket client failed", slog.Any("error", err))
			return
		}
		s.hub.Register <- client
		go client.WritePump()
		go client.ReadPump()
	})

	return s
}

// NotifyFreshPrices pushes a refresh event to every connected websocket
// client after the scheduled task pulled new prices from the remote source.
func (s *Server) NotifyFreshPrices(zone types.Zone, res *planner.Result) {
	event := struct {
		Event     string     `json:"event"`
		Zone      types.Zone `json:"zone"`
		Status    string     `json:"status"`
		NoOfSlots int        `json:"noOfSlots"`
	}{
		Event:     "prices_refreshed",
		Zone:      zone,
		Status:    res.Status,
		NoOfSlots: len(res.Slots),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshalling refresh event", slog.Any("error", err))
		return
	}
	s.hub.Broadcast <- payload
}

func (s *Server) Run(ctx context.Context) {
	api := s.cnfg.Get().Api
	s.logger.Info("starting server...", "port", api.Port)
	srv := &http.Server{
		Addr: fmt.Sprintf("%s:%d", api.Address, api.Port),
	}

	srvErrors := make(chan error, 1)

	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	for {
		select {
		case err := <-srvErrors:
			if err != nil {
				s.logger.Error("server error", slog.Any("error", err))
			}

		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("server shutdown failed", slog.Any("error", err))
			}
			return
		}
	}
}
