package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TriColor-Initiatives/minus/internal/api"
	"github.com/TriColor-Initiatives/minus/internal/config"
	"github.com/TriColor-Initiatives/minus/internal/game"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Parse command line flags
	var (
		port        = flag.String("port", cfg.Port, "Server port")
		frontendURL = flag.String("frontend", cfg.FrontendURL, "Frontend URL for CORS")
		policy      = flag.String("policy", string(cfg.Policy), "Default legality policy: follow, beat or beat-lowest")
	)
	flag.Parse()

	logger, err := cfg.NewLogger()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to configure logger")
	}

	defaultPolicy, err := game.ParsePolicy(*policy)
	if err != nil {
		logger.WithError(err).Fatal("Invalid policy")
	}

	rules := api.NewRules(defaultPolicy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize WebSocket hub
	hub := api.NewHub(rules, logger)
	go hub.Run(ctx)
	logger.Info("WebSocket hub started")

	handlers := api.NewHandlers(rules, hub, logger)

	r := mux.NewRouter()
	handlers.RegisterRoutes(r)

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{*frontendURL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      c.Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":   *port,
			"policy": defaultPolicy,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a termination signal
	<-stop
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := hub.Broadcast(shutdownCtx, api.Reply{Type: "serverShutdown"}); err != nil {
		logger.WithError(err).Warn("Failed to notify websocket clients")
	}
	// Hijacked websocket connections are not tracked by srv.Shutdown.
	cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
	logger.Info("Server stopped")
}
