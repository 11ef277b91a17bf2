package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/exam-calendar/internal/config"
	"github.com/pfrederiksen/exam-calendar/internal/exam"
	"github.com/pfrederiksen/exam-calendar/internal/logger"
	"github.com/pfrederiksen/exam-calendar/internal/scraper"
	"github.com/pfrederiksen/exam-calendar/internal/storage"
)

func newScrapeCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch the exam calendar and write the JSON snapshot",
		Long: `Fetch every page of the final exam calendar for the configured date range,
normalize and deduplicate the exams, and replace the snapshot file.

The snapshot is only written when every page was fetched successfully.`,
		Example: `  examcal scrape --start-date 20251206 --end-date 20251212
  examcal scrape --output /srv/exams.json --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := OutputFormat(strings.ToLower(format))
			if f != FormatText && f != FormatJSON {
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", format)
			}

			logger.DefaultMetrics().Reset()
			summary, err := runScrape(cmd.Context(), opts.cfg.Scrape)
			if err != nil {
				return err
			}
			return WriteSummary(cmd.OutOrStdout(), summary, f, opts.verbose)
		},
	}

	cmd.Flags().String("start-date", "", "first exam day, YYYYMMDD")
	cmd.Flags().String("end-date", "", "last exam day, YYYYMMDD (inclusive)")
	cmd.Flags().String("output", "", "snapshot path")
	cmd.Flags().Duration("delay", 0, "pause between page requests")
	cmd.Flags().Int("retries", 0, "retries per failed page request")
	cmd.Flags().StringVar(&format, "format", "text", "summary format: text or json")

	return cmd
}

// runScrape validates cfg, scrapes the range and writes the snapshot. Nothing
// is written if any step fails.
func runScrape(ctx context.Context, cfg config.Scrape) (*ScrapeSummary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scrape configuration: %w", err)
	}
	dateRange, err := cfg.DateRange()
	if err != nil {
		return nil, err
	}

	metrics := logger.DefaultMetrics()
	pagesBefore := metrics.Counter("scrape.pages")
	rowsBefore := metrics.Counter("scrape.rows")
	start := time.Now()

	records, err := scraper.New(cfg).Run(ctx, dateRange)
	if err != nil {
		logger.Error("Scrape failed", logger.Fields{"range": dateRange.String()}, err)
		return nil, fmt.Errorf("scraping %s: %w", dateRange, err)
	}

	diff := diffPrevious(cfg.Output, records)

	if err := storage.SaveSnapshot(cfg.Output, records); err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}
	logger.Info("Saved snapshot", logger.Fields{
		"path":    cfg.Output,
		"records": len(records),
	})

	rows := metrics.Counter("scrape.rows") - rowsBefore
	return &ScrapeSummary{
		FinishedAt: time.Now().UTC(),
		Duration:   time.Since(start).Round(time.Millisecond).String(),
		DateRange:  dateRange.String(),
		Output:     cfg.Output,
		Pages:      metrics.Counter("scrape.pages") - pagesBefore,
		Rows:       rows,
		Records:    len(records),
		Duplicates: rows - int64(len(records)),
		Changes:    diff,
		Metrics:    logger.GetMetricsSnapshot(),
	}, nil
}

// diffPrevious compares records with the snapshot currently at path. It
// returns nil when there is no readable previous snapshot.
func diffPrevious(path string, records []exam.ExamRecord) *exam.DiffResult {
	previous, err := storage.LoadSnapshot(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Previous snapshot unreadable, skipping diff", logger.Fields{
				"path":  path,
				"error": err.Error(),
			})
		}
		return nil
	}

	diff := exam.Diff(previous, records)
	if !diff.Empty() {
		logger.Info("Snapshot changed", logger.Fields{
			"added":   diff.Added,
			"removed": diff.Removed,
			"changed": diff.Changed,
		})
	}
	for _, c := range diff.Changes {
		if c.Type == exam.ChangeTime || c.Type == exam.ChangeRoom {
			logger.Debug("Exam moved", logger.Fields{
				"course": c.Course,
				"type":   c.Type,
				"old":    c.OldValue,
				"new":    c.NewValue,
			})
		}
	}
	return &diff
}
