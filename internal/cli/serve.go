package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/jobcopilot/autofill/internal/config"
	"github.com/jobcopilot/autofill/internal/server"
	"github.com/spf13/cobra"
)

func (c *CLI) newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local backend service (profile, AI answers, audit, job tracking)",
		Example: `  # Serve on the default address
  autofill serve

  # Override settings through the environment
  JOBCOPILOT_LISTEN=127.0.0.1:9000 JOBCOPILOT_DB=work.db autofill serve

  # Enable LLM-backed answering
  JOBCOPILOT_ANTHROPIC_API_KEY=sk-... autofill serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			srv, err := server.New(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = srv.Close() }()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = srv.ListenAndServe(ctx)
			slog.Info("Backend stopped")
			return err
		},
	}
}
