// Command server bootstraps the HTTP surface around the optimization
// engine: load configuration, build the logger, wire a Google-backed
// MatrixProvider, and serve.
package main

import (
	"log"

	"github.com/qroute/optimizer/internal/config"
	"github.com/qroute/optimizer/internal/engine"
	"github.com/qroute/optimizer/internal/httpapi"
	"github.com/qroute/optimizer/internal/logging"
	"github.com/qroute/optimizer/internal/provider"
)

func main() {
	cfg := config.Load()
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	matrixProvider := provider.NewGoogleMatrixProvider(cfg.GoogleMapsAPIKeyDefault)
	matrixProvider.Timeout = cfg.MatrixProviderTimeout

	eng := engine.New(matrixProvider, logger)
	server := httpapi.NewServer(eng, logger, cfg.GoogleMapsAPIKeyDefault)

	logger.Info("starting quantum route optimizer", "port", cfg.Port)
	if err := server.Router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
