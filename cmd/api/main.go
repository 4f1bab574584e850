package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"royalty-backend/internal/config"
	"royalty-backend/pkg/logger"
)

func main() {
	// ========================================
	// LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.App.Environment, cfg.LogLevel)

	// ========================================
	// SET GIN MODE
	// ========================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("Starting")

	Serve(cfg)
}
