package main

import (
	"bedcall/cmd/cli/commands"
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
	logger.InitLogger()

	provide := func() (*commands.App, error) {
		logger.SetLogLevel(config.Get())

		operator, err := di.InitializeOperator()
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		return &commands.App{Campaigns: operator.Campaigns, Queue: operator.Queue}, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Root(provide).ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		stop()
		os.Exit(1)
	}
}
