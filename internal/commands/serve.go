package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/conciliador/internal/api"
	"github.com/cleared-dev/conciliador/internal/bills"
	"github.com/cleared-dev/conciliador/internal/reconcile"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(g *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the statement upload API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.load(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			svc := reconcile.NewService(bills.File{Path: cfg.BillsPath, Log: log}, reconcile.OptionsFromConfig(cfg), log)
			app := api.NewApp(api.NewHandler(svc, cfg.Import.MaxBytes(), log))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.Server.Addr).Str("bills", cfg.BillsPath).Msg("listening")
				errCh <- app.Listen(cfg.Server.Addr)
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("serving: %w", err)
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("shutting down: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config server.addr)")

	return cmd
}
