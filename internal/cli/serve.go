package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/exam-calendar/internal/api"
	"github.com/pfrederiksen/exam-calendar/internal/config"
	"github.com/pfrederiksen/exam-calendar/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the exam snapshot over HTTP",
		Long: `Start the read-only JSON API over the exam snapshot.

With --refresh the server also scrapes on a cron schedule, replaces the
snapshot and reloads it without a restart. A failed scheduled scrape leaves
the served data untouched.`,
		Example: `  examcal serve --listen :5000 --data data/exams.json
  examcal serve --refresh "0 */6 * * *"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts.cfg)
		},
	}

	cmd.Flags().String("listen", "", "address to listen on (default 127.0.0.1:5000)")
	cmd.Flags().String("data", "", "snapshot path to serve")
	cmd.Flags().String("refresh", "", `cron schedule for re-scraping, e.g. "0 */6 * * *"`)
	cmd.Flags().StringSlice("cors-origin", nil, "allowed CORS origin (repeatable, * for any)")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	if err := cfg.Serve.Validate(); err != nil {
		return fmt.Errorf("invalid serve configuration: %w", err)
	}

	repo := api.NewRepository(cfg.Serve.DataPath)
	if err := repo.Reload(); err != nil {
		// requests keep retrying the load until the file shows up
		logger.Warn("Snapshot not loaded", logger.Fields{
			"path":  cfg.Serve.DataPath,
			"error": err.Error(),
		})
	}

	if cfg.Serve.Refresh != "" {
		stop, err := startRefresh(ctx, cfg.Serve.Refresh, NewRefresher(cfg.Scrape, repo))
		if err != nil {
			return err
		}
		defer stop()
	}

	server := &http.Server{
		Addr:              cfg.Serve.Listen,
		Handler:           api.NewServer(repo, api.Options{CORSOrigins: cfg.Serve.CORSOrigins}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", logger.Fields{
			"addr": cfg.Serve.Listen,
			"data": cfg.Serve.DataPath,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("Server stopped", nil)
	return nil
}
