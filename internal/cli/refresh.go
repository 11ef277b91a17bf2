package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/pfrederiksen/exam-calendar/internal/api"
	"github.com/pfrederiksen/exam-calendar/internal/config"
	"github.com/pfrederiksen/exam-calendar/internal/logger"
)

// Refresher re-scrapes into the served snapshot and reloads the repository.
type Refresher struct {
	cfg  config.Scrape
	repo *api.Repository

	// one run at a time; overlapping schedule ticks are skipped
	mu sync.Mutex
}

// NewRefresher creates a Refresher. Scrapes are written to the file repo
// reads from, overriding cfg.Output.
func NewRefresher(cfg config.Scrape, repo *api.Repository) *Refresher {
	if path := repo.Path(); path != "" {
		cfg.Output = path
	}
	return &Refresher{cfg: cfg, repo: repo}
}

// Run performs one refresh. On failure the snapshot and the cached records
// are left as they were.
func (r *Refresher) Run(ctx context.Context) error {
	if !r.mu.TryLock() {
		logger.Warn("Refresh already running, skipping", nil)
		return nil
	}
	defer r.mu.Unlock()

	summary, err := runScrape(ctx, r.cfg)
	if err != nil {
		logger.IncrCounter("refresh.failures")
		return err
	}

	if err := r.repo.Reload(); err != nil {
		return fmt.Errorf("reloading snapshot: %w", err)
	}

	logger.IncrCounter("refresh.runs")
	logger.Info("Snapshot refreshed", logger.Fields{
		"records":  summary.Records,
		"pages":    summary.Pages,
		"duration": summary.Duration,
	})
	return nil
}

// startRefresh schedules r on a standard five-field cron spec. The returned
// function stops the scheduler and waits for a running refresh to finish.
func startRefresh(ctx context.Context, spec string, r *Refresher) (func(), error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if err := r.Run(ctx); err != nil {
			logger.Error("Scheduled refresh failed", logger.Fields{"schedule": spec}, err)
		}
	}); err != nil {
		return nil, fmt.Errorf("scheduling refresh: %w", err)
	}

	c.Start()
	logger.Info("Scheduled snapshot refresh", logger.Fields{"schedule": spec})

	return func() {
		<-c.Stop().Done()
	}, nil
}
