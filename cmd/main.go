package main

//
//  @title           spimexpulse API
//  @version         1.0
//  @description     SPIMEX oil trading-results ingestion & query service.
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        results
//  @tag.description Endpoints for querying persisted trading results
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ovolkov/spimexpulse/config"
	_ "github.com/ovolkov/spimexpulse/docs" // swagger docs
	"github.com/ovolkov/spimexpulse/internal/app"
	"github.com/ovolkov/spimexpulse/internal/ingestion"
	"github.com/ovolkov/spimexpulse/internal/logger"
	"github.com/ovolkov/spimexpulse/internal/storage"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown terminates the HTTP server and runs cleanup when an OS
// interrupt signal (SIGINT, SIGTERM) is received.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the spimexpulse application.
//
// Modes (selected via --mode flag):
//   - ingest: Downloads and persists SPIMEX oil bulletins from today back
//     to --date.
//   - api:    Starts the REST API exposing persisted trading results.
//
// Flags:
//   - --mode:     Execution mode ("ingest" or "api"). Default: "ingest".
//   - --date:     Oldest bulletin date to ingest, YYYY-MM-DD (required for ingest).
//   - --parallel: How many dates to process concurrently (default 1, max 4).
//   - --port:     Port for API mode. Defaults to SERVER_PORT from config.
func main() {
	ctx := context.Background()

	config.LoadConfig()
	logger.Init()

	mode := flag.String("mode", "ingest", "Mode: ingest or api")
	dateStr := flag.String("date", "", "Oldest bulletin date to ingest (YYYY-MM-DD)")
	parallel := flag.Int("parallel", 1, "How many dates to process concurrently (1-4)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "ingest":
		if *dateStr == "" {
			logger.L().Fatal().Msg("--date is required in ingest mode")
		}
		target, err := time.Parse("2006-01-02", *dateStr)
		if err != nil {
			logger.L().Fatal().Str("date", *dateStr).Err(err).Msg("invalid --date, expected YYYY-MM-DD")
		}

		db, err := app.InitPostgres(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("db connect error")
		}
		defer func() { _ = db.Close() }()

		fetcher := ingestion.NewBulletinFetcher(config.AppConfig.Spimex)
		repo := storage.NewResultsRepository(db)
		ingestor := ingestion.NewIngestor(fetcher, repo, *parallel)

		report, err := ingestor.Run(ctx, target)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("ingestion failed")
		}
		logger.L().Info().
			Int("dates", report.DatesAttempted).
			Int("skipped", report.DatesSkipped).
			Int("rows", report.RowsPersisted).
			Msg("ingestion completed successfully")

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
