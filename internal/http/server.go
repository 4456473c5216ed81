package http

import (
	"net/http"

	"github.com/mkrogh/courtline/internal/config"
	"github.com/mkrogh/courtline/internal/engine"
	"github.com/mkrogh/courtline/internal/metrics"
	"github.com/mkrogh/courtline/internal/notifier"
	"github.com/mkrogh/courtline/internal/session"
)

func NewServer(store session.SessionStore, eng *engine.Engine, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier) *Server {
	server := &Server{
		Store:          store,
		Engine:         eng,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("POST /sessions", Chain(s.CreateSessionHandler(), paramsMiddleware))
	s.Router.Handle("GET /sessions", Chain(s.ListSessionsHandler(), paramsMiddleware))
	s.Router.Handle("GET /sessions/{id}", Chain(s.GetSessionHandler(), paramsMiddleware))
	s.Router.Handle("PUT /sessions/{id}/end", Chain(s.EndSessionHandler(), paramsMiddleware))
	s.Router.Handle("GET /sessions/{id}/summary", Chain(s.SummaryHandler(), paramsMiddleware))

	s.Router.Handle("POST /sessions/{id}/players", Chain(s.AddPlayersHandler(), paramsMiddleware))
	s.Router.Handle("GET /sessions/{id}/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("GET /sessions/{id}/waiting", Chain(s.WaitingPlayersHandler(), paramsMiddleware))

	s.Router.Handle("POST /sessions/{id}/games", Chain(s.RecordGameHandler(), paramsMiddleware))
	s.Router.Handle("GET /sessions/{id}/games", Chain(s.ListGamesHandler(), paramsMiddleware))

	s.Router.Handle("POST /sessions/{id}/next-matches", Chain(s.NextMatchesHandler(), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/assign-court", Chain(s.AssignCourtHandler(), paramsMiddleware))
	s.Router.Handle("GET /sessions/{id}/courts", Chain(s.ListCourtsHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /sessions/{id}/courts/{court}", Chain(s.ClearCourtHandler(), paramsMiddleware))

	s.Router.Handle("POST /sessions/{id}/notify-summary", Chain(s.NotifySummaryHandler(), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/notify-waiting", Chain(s.NotifyWaitingHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
