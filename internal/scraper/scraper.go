package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/pfrederiksen/exam-calendar/internal/config"
	"github.com/pfrederiksen/exam-calendar/internal/exam"
	"github.com/pfrederiksen/exam-calendar/internal/logger"
)

// MaxBodySize caps how much of a single page is read.
const MaxBodySize = 8 << 20

// ErrUpstreamStatus is returned when the widget answers with a non-2xx status.
var ErrUpstreamStatus = errors.New("unexpected upstream status")

// StatusError carries the status code of a failed page request.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d from %s", ErrUpstreamStatus, e.StatusCode, e.URL)
}

func (e *StatusError) Unwrap() error {
	return ErrUpstreamStatus
}

// Scraper fetches and parses widget pages
type Scraper struct {
	client *http.Client
	cfg    config.Scrape

	// first wait between retries; grows exponentially
	retryInterval time.Duration
}

// New creates a Scraper for the given settings. cfg is expected to have
// passed Validate.
func New(cfg config.Scrape) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		cfg:           cfg,
		retryInterval: 500 * time.Millisecond,
	}
}

// PageURL builds the widget URL for one day and row offset.
func (s *Scraper) PageURL(date string, index int) string {
	params := url.Values{}
	params.Set("calendar", s.cfg.Calendar)
	params.Set("widget", "main")
	params.Set("date", date)
	params.Set("index", strconv.Itoa(index))
	params.Set("spudformat", "xhr")

	return s.cfg.BaseURL + "?" + params.Encode()
}

// FetchPage downloads one page and returns its body as text. Failed requests
// are retried up to cfg.Retries times; client errors (4xx) are not.
func (s *Scraper) FetchPage(ctx context.Context, date string, index int) (string, error) {
	pageURL := s.PageURL(date, index)

	var body string
	operation := func() error {
		start := time.Now()
		text, err := s.get(ctx, pageURL)
		logger.RecordTiming("scrape.fetch", time.Since(start))
		if err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		body = text
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.retryInterval
	retries := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(s.cfg.Retries)), ctx)

	notify := func(err error, wait time.Duration) {
		logger.IncrCounter("scrape.retries")
		logger.Warn("Retrying page fetch", logger.Fields{
			"date":  date,
			"index": index,
			"wait":  wait.String(),
			"error": err.Error(),
		})
	}

	if err := backoff.RetryNotify(operation, retries, notify); err != nil {
		return "", fmt.Errorf("fetching %s index %d: %w", date, index, err)
	}

	logger.IncrCounter("scrape.pages")
	return body, nil
}

func (s *Scraper) get(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxBodySize))
		return "", &StatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}

	return string(data), nil
}

// Run scrapes every day of r and returns the normalized, deduplicated
// records in first-seen order. Any fetch failure aborts the run and no
// partial result is returned.
func (s *Scraper) Run(ctx context.Context, r exam.DateRange) ([]exam.ExamRecord, error) {
	days := r.Days()
	logger.Info("Starting scrape", logger.Fields{
		"range":  r.String(),
		"days":   len(days),
		"source": s.cfg.BaseURL,
	})

	var rows []exam.RawRow
	for _, day := range days {
		dayRows, err := s.scrapeDay(ctx, day)
		if err != nil {
			return nil, err
		}
		logger.Info("Finished day", logger.Fields{
			"date": day,
			"rows": len(dayRows),
		})
		rows = append(rows, dayRows...)
	}

	records := exam.Dedupe(exam.NormalizeAll(rows))

	logger.SetGauge("scrape.records", float64(len(records)))
	logger.Info("Scrape complete", logger.Fields{
		"rows":       len(rows),
		"records":    len(records),
		"duplicates": len(rows) - len(records),
	})

	return records, nil
}

// scrapeDay walks the index cursor for one day until the page is empty, the
// next-page hint is missing, or the cursor passes index_end.
func (s *Scraper) scrapeDay(ctx context.Context, day string) ([]exam.RawRow, error) {
	var rows []exam.RawRow

	index := s.cfg.IndexStart
	for {
		body, err := s.FetchPage(ctx, day, index)
		if err != nil {
			return nil, err
		}

		pageRows := ExtractRows(body, day)
		logger.AddCounter("scrape.rows", int64(len(pageRows)))
		if len(pageRows) == 0 {
			logger.Debug("Empty page, day done", logger.Fields{"date": day, "index": index})
			return rows, nil
		}
		rows = append(rows, pageRows...)

		next := index + s.cfg.IndexStep
		if next > s.cfg.IndexEnd {
			logger.Debug("Index bound reached, day done", logger.Fields{"date": day, "next": next})
			return rows, nil
		}
		if !HasNextPageHint(body, next) {
			logger.Debug("No next-page hint, day done", logger.Fields{"date": day, "next": next})
			return rows, nil
		}

		if err := sleep(ctx, s.cfg.Delay); err != nil {
			return nil, err
		}
		index = next
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
