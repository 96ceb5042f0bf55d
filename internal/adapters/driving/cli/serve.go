package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vigia-labs/radar-cli/internal/adapters/driving/httpapi"
	"github.com/vigia-labs/radar-cli/internal/core/domain"
	"github.com/vigia-labs/radar-cli/internal/core/services"
	"github.com/vigia-labs/radar-cli/internal/logger"
)

// serveShutdownTimeout bounds the drain of in-flight requests.
const serveShutdownTimeout = 10 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the periodic sync scheduler",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}

	addr := cfg.HTTPAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SchedulerEnabled {
		scheduler := services.NewScheduler(domain.SchedulerConfig{
			Enabled:  true,
			Interval: cfg.SyncInterval,
		}, store.SchedulerStore(), syncRunner)
		go func() {
			// Start blocks until Stop or context cancellation.
			if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("scheduler stopped: %v", err)
			}
		}()
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:    addr,
		Handler: httpapi.NewServer(syncRunner, eventStore, syncLogStore),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving HTTP API on %s", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
