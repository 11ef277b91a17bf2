package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pfrederiksen/exam-calendar/internal/exam"
)

func TestWriteSummary_Text(t *testing.T) {
	summary := &ScrapeSummary{
		Duration:   "1.2s",
		DateRange:  "20251206-20251212",
		Output:     "data/exams.json",
		Pages:      9,
		Rows:       210,
		Records:    205,
		Duplicates: 5,
		Changes: &exam.DiffResult{
			Added:   1,
			Changed: 1,
			Changes: []exam.Change{
				{Course: "CS 010A 001 12345", Type: exam.ChangeAdded},
				{Course: "MATH 009B 020 33515", Type: exam.ChangeRoom, OldValue: "SSC 335", NewValue: "MSE 116"},
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteSummary(&buf, summary, FormatText, true); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Scraped 205 exams for 20251206-20251212.",
		"Pages fetched: 9",
		"Duplicates:    5",
		"Changes:       1 added, 0 removed, 1 moved",
		"+ CS 010A 001 12345",
		"~ MATH 009B 020 33515 room: SSC 335 -> MSE 116",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSummary_NoExams(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, &ScrapeSummary{DateRange: "20251206-20251206"}, FormatText, false); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "No exams found for 20251206-20251206.") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "Duplicates") || strings.Contains(buf.String(), "Changes") {
		t.Error("zero duplicates and nil changes should be omitted")
	}
}

func TestWriteSummary_UnknownFormat(t *testing.T) {
	if err := WriteSummary(&bytes.Buffer{}, &ScrapeSummary{}, FormatICS, false); err == nil {
		t.Error("expected error for ics summary")
	}
}

func TestWriteRecordsText(t *testing.T) {
	records := []exam.ExamRecord{
		{CourseName: "CS 010A 001 12345", ExamDateISO: "2025-12-08", StartTimeDisplay: "8:00 AM", EndTimeDisplay: "11:00 AM", Classroom: "SSC 335"},
		{CourseName: "MATH 009B 020 33515", ExamDateISO: "2025-12-09"},
	}

	var buf bytes.Buffer
	if err := writeRecordsText(&buf, records); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, "2025-12-08 8:00 AM-11:00 AM") || !strings.Contains(out, "SSC 335") {
		t.Errorf("timed exam line missing:\n%s", out)
	}
	if !strings.Contains(out, "2025-12-09 TBA") {
		t.Errorf("unscheduled exam should show TBA:\n%s", out)
	}
	if !strings.Contains(out, "Total: 2 exams") {
		t.Errorf("missing total:\n%s", out)
	}

	buf.Reset()
	if err := writeRecordsText(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "No exams found.\n" {
		t.Errorf("empty output = %q", buf.String())
	}
}
