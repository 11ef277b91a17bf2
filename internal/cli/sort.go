package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/exam-calendar/internal/exam"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortNone     SortOrder = ""
	SortByDate   SortOrder = "date"
	SortByCourse SortOrder = "course"
	SortByRoom   SortOrder = "room"
)

func parseSortOrder(s string) (SortOrder, bool) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortNone, SortByDate, SortByCourse, SortByRoom:
		return order, true
	}
	return "", false
}

// sortRecords sorts records in place. Ties keep snapshot order.
func sortRecords(records []exam.ExamRecord, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(records, func(i, j int) bool {
			return compareByDate(records[i], records[j])
		})
	case SortByCourse:
		sort.SliceStable(records, func(i, j int) bool {
			a, b := courseKey(records[i]), courseKey(records[j])
			if a != b {
				return a < b
			}
			// If courses are equal, sort by date
			return compareByDate(records[i], records[j])
		})
	case SortByRoom:
		sort.SliceStable(records, func(i, j int) bool {
			a, b := strings.ToLower(records[i].Classroom), strings.ToLower(records[j].Classroom)
			if a != b {
				// unknown rooms last
				if a == "" || b == "" {
					return b == ""
				}
				return a < b
			}
			return compareByDate(records[i], records[j])
		})
	}
}

func courseKey(rec exam.ExamRecord) string {
	if rec.Subject != "" {
		return strings.ToLower(rec.Subject + " " + rec.CourseNumber + " " + rec.Section)
	}
	return strings.ToLower(rec.CourseName)
}

// compareByDate compares two records by their start time, falling back to
// the exam day. Returns true if i should come before j.
func compareByDate(i, j exam.ExamRecord) bool {
	startI, okI := i.Start()
	startJ, okJ := j.Start()

	if okI && okJ {
		return startI.Before(startJ)
	}

	dayI, dayJ := i.Day(), j.Day()
	if !dayI.Equal(dayJ) {
		// If only one date is valid, put the valid one first
		if dayI.IsZero() || dayJ.IsZero() {
			return !dayI.IsZero()
		}
		return dayI.Before(dayJ)
	}

	// same day: scheduled before TBA
	return okI && !okJ
}
