package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wallet/internal/shared/config"
	"wallet/internal/shared/logging"
)

const shutdownTimeout = 30 * time.Second

func main() {
	var envFile string

	cmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "R4VEN wallet dashboard",
		Long:          "Serves the wallet dashboard, reading stocks, funds and income from the wallet spreadsheet.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), envFile)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "env file read before the environment")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("application error")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log)

	deps, err := NewDependencies(ctx, cfg)
	if err != nil {
		return err
	}

	handler := SetupRoutes(deps, cfg)
	srv, redirectSrv := StartServers(NewServerConfigFromConfig(handler, cfg))

	<-ctx.Done()
	GracefulShutdown(srv, redirectSrv, deps, shutdownTimeout)
	return nil
}
