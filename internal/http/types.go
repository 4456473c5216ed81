package http

import (
	"net/http"

	"github.com/mkrogh/courtline/internal/config"
	"github.com/mkrogh/courtline/internal/engine"
	"github.com/mkrogh/courtline/internal/metrics"
	"github.com/mkrogh/courtline/internal/notifier"
	"github.com/mkrogh/courtline/internal/session"
)

type Server struct {
	Store          session.SessionStore
	Engine         *engine.Engine
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
}
