/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the target engine server: configuration,
  dependency injection, the background sweep scheduler, and graceful
  shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse flags
  2. Initialize SQLite store
  3. Create API handler with dependencies
  4. Start the sweep scheduler
  5. Start server with graceful shutdown

CONFIGURATION:
  Flags, each overridable via environment (flag default reads the env
  var):
  -port            HTTP server port          (PORT, default 8080)
  -db              SQLite database path      (DB_PATH, default targets.db;
                   use ":memory:" for in-memory)
  -sweep-interval  Scheduler check interval  (SWEEP_INTERVAL, default 1h)
  -log-level       logrus level              (LOG_LEVEL, default info)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the sweep scheduler (in-flight units finish)
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

SEE ALSO:
  - api/server.go: Router configuration
  - api/scheduler.go: Background sweeps
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/warp/target-engine/api"
	"github.com/warp/target-engine/store/sqlite"
)

func main() {
	// .env is optional; flags still win over a missing file.
	_ = godotenv.Load()

	port := flag.String("port", envOr("PORT", "8080"), "HTTP server port")
	dbPath := flag.String("db", envOr("DB_PATH", "targets.db"), "SQLite database path")
	sweepInterval := flag.Duration("sweep-interval", envDurationOr("SWEEP_INTERVAL", time.Hour), "Sweep scheduler check interval")
	logLevel := flag.String("log-level", envOr("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	flag.Parse()

	log := logrus.New()
	if level, err := logrus.ParseLevel(*logLevel); err == nil {
		log.SetLevel(level)
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.WithField("error", err).Fatal("failed to initialize database")
	}
	defer store.Close()

	// Initialize handler and router
	handler := api.NewHandler(store, log)
	router := api.NewRouter(handler)

	// Background sweeps
	scheduler := api.NewSweepScheduler(handler.Manager, log)
	scheduler.CheckInterval = *sweepInterval
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithField("error", err).Fatal("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithField("error", err).Fatal("server forced to shutdown")
	}

	log.Info("server stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
