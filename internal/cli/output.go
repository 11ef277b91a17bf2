package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/exam-calendar/internal/exam"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

// ScrapeSummary describes one finished scrape run
type ScrapeSummary struct {
	FinishedAt time.Time              `json:"finished_at"`
	Duration   string                 `json:"duration"`
	DateRange  string                 `json:"date_range"`
	Output     string                 `json:"output"`
	Pages      int64                  `json:"pages"`
	Rows       int64                  `json:"rows"`
	Records    int                    `json:"records"`
	Duplicates int64                  `json:"duplicates"`
	Changes    *exam.DiffResult       `json:"changes,omitempty"`
	Metrics    map[string]interface{} `json:"metrics,omitempty"`
}

// WriteSummary writes the summary in the specified format
func WriteSummary(w io.Writer, summary *ScrapeSummary, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, summary)
	case FormatText:
		return writeText(w, summary, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}

// writeText outputs the summary as human-readable text
func writeText(w io.Writer, s *ScrapeSummary, verbose bool) error {
	if s.Records == 0 {
		fmt.Fprintf(w, "No exams found for %s.\n", s.DateRange)
	} else {
		fmt.Fprintf(w, "Scraped %d exams for %s.\n", s.Records, s.DateRange)
	}

	fmt.Fprintf(w, "  Pages fetched: %d\n", s.Pages)
	fmt.Fprintf(w, "  Rows parsed:   %d\n", s.Rows)
	if s.Duplicates > 0 {
		fmt.Fprintf(w, "  Duplicates:    %d\n", s.Duplicates)
	}
	if s.Changes != nil {
		fmt.Fprintf(w, "  Changes:       %d added, %d removed, %d moved\n", s.Changes.Added, s.Changes.Removed, s.Changes.Changed)
	}
	fmt.Fprintf(w, "  Snapshot:      %s\n", s.Output)
	fmt.Fprintf(w, "  Took:          %s\n", s.Duration)

	if verbose {
		if timings, ok := s.Metrics["timings"].(map[string]map[string]interface{}); ok {
			if fetch, ok := timings["scrape.fetch"]; ok {
				fmt.Fprintf(w, "  Fetch latency: avg %v, min %v, max %v\n", fetch["average"], fetch["min"], fetch["max"])
			}
		}
		if s.Changes != nil {
			for _, c := range s.Changes.Changes {
				writeChange(w, c)
			}
		}
	}

	return nil
}

// writeRecordsText prints one line per exam
func writeRecordsText(w io.Writer, records []exam.ExamRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No exams found.")
		return err
	}

	for _, rec := range records {
		when := rec.ExamDateISO
		if rec.StartTimeDisplay != "" {
			when = fmt.Sprintf("%s %s-%s", rec.ExamDateISO, rec.StartTimeDisplay, rec.EndTimeDisplay)
		} else if when != "" {
			when += " TBA"
		}
		room := rec.Classroom
		if room == "" {
			room = "TBA"
		}
		if _, err := fmt.Fprintf(w, "%-32s %-28s %s\n", rec.CourseName, when, room); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nTotal: %d exams\n", len(records))
	return err
}

func writeChange(w io.Writer, c exam.Change) {
	switch c.Type {
	case exam.ChangeAdded:
		fmt.Fprintf(w, "    + %s\n", c.Course)
	case exam.ChangeRemoved:
		fmt.Fprintf(w, "    - %s\n", c.Course)
	default:
		fmt.Fprintf(w, "    ~ %s %s: %s -> %s\n", c.Course, c.Type, c.OldValue, c.NewValue)
	}
}
