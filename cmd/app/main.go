package main

import (
	"bedcall/config"
	"bedcall/di"
	"bedcall/helper"
	"bedcall/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title bedcall API
// @version 1.0
// @description Bed coordination calling service.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg := config.Get()

	logger.InitLogger()

	if file := logger.AttachFile(cfg); file != nil {
		defer file.Close()
	}

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	http, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}

	http.Serve()
}
