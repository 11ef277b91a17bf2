package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/exam-calendar/internal/exam"
)

func sampleRecords() []exam.ExamRecord {
	return []exam.ExamRecord{
		exam.Normalize(exam.RawRow{
			EventID:        "1337687736",
			Title:          "EXAM: CS 009A 001 34028",
			ExamDateLabel:  "Dec 6",
			StartTimeLabel: "11:30am",
			Location:       "OLMH 1208",
			QueryDate:      "20251206",
		}),
		exam.Normalize(exam.RawRow{
			EventID:        "1337687801",
			Title:          "EXAM: ENGL 001B 012 40211",
			ExamDateLabel:  "Dec 6",
			StartTimeLabel: "TBA",
			Location:       "Humanities & Social Sciences <1500>",
			QueryDate:      "20251206",
		}),
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "exams.json")
	records := sampleRecords()

	if err := SaveSnapshot(path, records); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}

	if len(loaded) != len(records) {
		t.Fatalf("loaded %d records, want %d", len(loaded), len(records))
	}
	for i := range records {
		if loaded[i] != records[i] {
			t.Errorf("record %d = %+v, want %+v", i, loaded[i], records[i])
		}
	}
}

func TestSaveSnapshot_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exams.json")

	if err := SaveSnapshot(path, sampleRecords()); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	if !strings.HasPrefix(text, "[\n  {\n    \"event_id\": \"1337687736\",\n    \"final_exam\"") {
		t.Errorf("unexpected layout:\n%s", text[:min(len(text), 120)])
	}
	if !strings.Contains(text, "Humanities & Social Sciences <1500>") {
		t.Error("snapshot should not HTML-escape text")
	}
	if !strings.Contains(text, `"start_time": "2025-12-06T11:30:00"`) {
		t.Error("snapshot should carry the ISO start time")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0644 {
		t.Errorf("permissions = %o, want 644", perm)
	}
}

func TestSaveSnapshot_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exams.json")

	if err := SaveSnapshot(path, nil); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != "[]" {
		t.Errorf("empty snapshot = %q, want []", got)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if loaded == nil || len(loaded) != 0 {
		t.Errorf("LoadSnapshot() = %#v, want empty non-nil slice", loaded)
	}
}

func TestSaveSnapshot_ReplacesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exams.json")

	if err := SaveSnapshot(path, sampleRecords()); err != nil {
		t.Fatal(err)
	}
	if err := SaveSnapshot(path, sampleRecords()[:1]); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 {
		t.Errorf("loaded %d records, want 1", len(loaded))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory should only hold the snapshot, got %v", names)
	}
}

func TestSaveSnapshot_FailureKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exams.json")

	if err := SaveSnapshot(path, sampleRecords()); err != nil {
		t.Fatal(err)
	}

	// a directory in place of the parent makes the write fail
	blocked := filepath.Join(dir, "exams.json", "nested.json")
	if err := SaveSnapshot(blocked, nil); err == nil {
		t.Fatal("SaveSnapshot() expected error when parent is a file")
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 {
		t.Errorf("previous snapshot changed: %d records", len(loaded))
	}
}

func TestLoadSnapshot_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadSnapshot(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadSnapshot(missing) error = %v, want fs.ErrNotExist", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(bad); err == nil {
		t.Error("LoadSnapshot(bad) expected error")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/exams/exams.json")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "exams", "exams.json"); got != want {
		t.Errorf("ExpandPath() = %q, want %q", got, want)
	}

	if got, _ := ExpandPath("data/exams.json"); got != "data/exams.json" {
		t.Errorf("relative path changed to %q", got)
	}
}
