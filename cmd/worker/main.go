package main

import (
	"bedcall/config"
	"bedcall/di"
	"bedcall/shared/logger"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	if file := logger.AttachFile(cfg); file != nil {
		defer file.Close()
	}

	logger.SetLogLevel(cfg)

	worker, err := di.InitializeWorker()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("Worker started.")

	if err = worker.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Worker stopped with error")

		return
	}

	log.Info().Msg("Worker stopped.")
}
