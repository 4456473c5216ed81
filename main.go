package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mkrogh/courtline/internal/config"
	"github.com/mkrogh/courtline/internal/database"
	"github.com/mkrogh/courtline/internal/engine"
	server "github.com/mkrogh/courtline/internal/http"
	"github.com/mkrogh/courtline/internal/metrics"
	"github.com/mkrogh/courtline/internal/notifier"
	slacknotifier "github.com/mkrogh/courtline/internal/notifier/slack"
	"github.com/mkrogh/courtline/internal/pubsub"
	"github.com/mkrogh/courtline/internal/session"
)

func main() {
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()

	db, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		db.Close()
	}()

	store := session.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	var pubsubClient pubsub.PubSubClient
	if cfg.ProjectID != "" {
		pubsubClient = pubsub.New(cfg.ProjectID)
	} else {
		log.Info("No GCP project configured, game events will not be published")
		pubsubClient = pubsub.NewNoop()
	}

	var notif notifier.Notifier
	if cfg.Slack.Token != "" {
		notif = slacknotifier.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Info("No Slack token configured, notifications will be dropped")
		notif = notifier.NewNoop()
	}

	eng := engine.New(store, metricsSvc, pubsubClient)
	s := server.NewServer(store, eng, metricsSvc, metricsHandler, cfg, notif)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
