package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"multirag/internal/app"
	"multirag/internal/config"
	"multirag/internal/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat API server",
	Long:  `Starts the HTTP server exposing the retrieval-augmented chat endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prod, _ := cmd.Flags().GetBool("prod")
		log := logger.New(prod)
		defer log.Sync()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.ValidateServe(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := app.NewApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		errCh := make(chan error, 1)
		go func() {
			errCh <- a.Server.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.Server.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
