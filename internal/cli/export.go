package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/exam-calendar/internal/api"
	"github.com/pfrederiksen/exam-calendar/internal/calendar"
	"github.com/pfrederiksen/exam-calendar/internal/storage"
)

type exportOptions struct {
	format   string
	query    string
	date     string
	location string
	sort     string
	name     string
	out      string
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var eo exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the snapshot as iCalendar, JSON or text",
		Example: `  examcal export --format ics --q "CS 010" --out cs010.ics
  examcal export --format text --date 2025-12-08 --sort room`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.OutOrStdout(), opts.cfg.Serve.DataPath, eo)
		},
	}

	cmd.Flags().StringVar(&eo.format, "format", "ics", "output format: ics, json or text")
	cmd.Flags().StringVar(&eo.query, "q", "", "course number, name or CRN substring")
	cmd.Flags().StringVar(&eo.date, "date", "", "exam day, YYYY-MM-DD")
	cmd.Flags().StringVar(&eo.location, "location", "", "classroom substring")
	cmd.Flags().StringVar(&eo.sort, "sort", "", "sort order: date, course or room (default snapshot order)")
	cmd.Flags().StringVar(&eo.name, "name", calendar.DefaultName, "calendar name for ics output")
	cmd.Flags().StringVar(&eo.out, "out", "", "write to file instead of stdout")
	cmd.Flags().String("data", "", "snapshot path to read")

	return cmd
}

func runExport(stdout io.Writer, dataPath string, eo exportOptions) error {
	format := OutputFormat(strings.ToLower(eo.format))
	if format != FormatICS && format != FormatJSON && format != FormatText {
		return fmt.Errorf("invalid format: %s (must be 'ics', 'json' or 'text')", eo.format)
	}
	order, ok := parseSortOrder(eo.sort)
	if !ok {
		return fmt.Errorf("invalid sort order: %s (must be 'date', 'course' or 'room')", eo.sort)
	}
	if eo.date != "" {
		if _, err := time.Parse("2006-01-02", eo.date); err != nil {
			return fmt.Errorf("invalid date %q: use YYYY-MM-DD", eo.date)
		}
	}

	records, err := storage.LoadSnapshot(dataPath)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	filter := api.Filter{Query: eo.query, Date: eo.date, Location: eo.location}
	records = filter.Apply(records)
	sortRecords(records, order)

	var buf bytes.Buffer
	switch format {
	case FormatICS:
		buf.WriteString(calendar.GenerateICS(records, eo.name))
	case FormatJSON:
		err = writeJSON(&buf, records)
	case FormatText:
		err = writeRecordsText(&buf, records)
	}
	if err != nil {
		return fmt.Errorf("rendering %s: %w", format, err)
	}

	if eo.out == "" {
		_, err = stdout.Write(buf.Bytes())
		return err
	}

	if err := os.WriteFile(eo.out, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", eo.out, err)
	}
	fmt.Fprintf(stdout, "Exported %d exams to %s\n", len(records), eo.out)
	return nil
}
