package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/ovolkov/spimexpulse/config"
	"github.com/ovolkov/spimexpulse/internal/api"
	"github.com/ovolkov/spimexpulse/internal/service"
	"github.com/ovolkov/spimexpulse/internal/storage"
)

// InitializeApp wires the API mode dependencies and returns a configured
// Gin router, a cleanup function for graceful shutdown, and any error
// encountered during initialization.
//
// Wiring order: Postgres → repository → service → handler → router →
// health probes.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	repo := storage.NewResultsRepository(db)
	svc := service.NewTradingResultsService(repo)
	handler := api.NewHandler(svc)
	router := api.NewRouter(handler)

	healthHandler := api.NewHealthHandler(db.Ping)
	healthHandler.Register(router)

	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}
