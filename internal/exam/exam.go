package exam

import (
	"strings"
	"time"

	"github.com/pfrederiksen/exam-calendar/internal/logger"
)

// ExamDuration is the assumed length of every exam block. The widget does not
// expose reliable end times.
const ExamDuration = 3 * time.Hour

const (
	isoLayout     = "2006-01-02T15:04:05"
	dayLayout     = "2006-01-02"
	displayLayout = "3:04 PM"
)

// RawRow is one event row as extracted from a widget page
type RawRow struct {
	EventID        string
	Title          string
	ExamDateLabel  string
	StartTimeLabel string
	Location       string
	QueryDate      string // YYYYMMDD the page was requested for
}

// ExamRecord is the normalized unit persisted in the snapshot. Field order
// here is the key order in the JSON file.
type ExamRecord struct {
	EventID          string `json:"event_id"`
	FinalExam        string `json:"final_exam"`
	Subject          string `json:"subject"`
	CourseNumber     string `json:"course_number"`
	Section          string `json:"section"`
	CRN              string `json:"crn"`
	CourseName       string `json:"course_name"`
	ExamDate         string `json:"exam_date"`
	ExamDateISO      string `json:"exam_date_iso"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	StartTimeDisplay string `json:"start_time_display"`
	EndTimeDisplay   string `json:"end_time_display"`
	Classroom        string `json:"classroom"`
	QueryDate        string `json:"query_date"`
}

// Normalize turns a RawRow into an ExamRecord. It never fails: a time label
// outside the grammar leaves the schedule fields empty, and a title that does
// not parse leaves the course fields empty (with a warning logged).
func Normalize(row RawRow) ExamRecord {
	rec := ExamRecord{
		EventID:   row.EventID,
		FinalExam: row.Title,
		ExamDate:  row.ExamDateLabel,
		Classroom: row.Location,
		QueryDate: row.QueryDate,
	}

	course, ok := ParseTitle(row.Title)
	rec.Subject = course.Subject
	rec.CourseNumber = course.CourseNumber
	rec.Section = course.Section
	rec.CRN = course.CRN
	rec.CourseName = course.CourseName
	if !ok && row.Title != "" {
		logger.Warn("Could not parse exam title", logger.Fields{
			"event_id": row.EventID,
			"title":    row.Title,
		})
	}

	day, err := time.Parse(QueryDateLayout, row.QueryDate)
	if err != nil {
		return rec
	}
	rec.ExamDateISO = day.Format(dayLayout)

	parsed, ok := ParseTimeLabel(row.StartTimeLabel)
	if !ok {
		return rec
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour, parsed.Minute, 0, 0, time.UTC)
	end := start.Add(ExamDuration)

	rec.StartTime = start.Format(isoLayout)
	rec.EndTime = end.Format(isoLayout)
	rec.StartTimeDisplay = start.Format(displayLayout)
	rec.EndTimeDisplay = end.Format(displayLayout)

	return rec
}

// NormalizeAll normalizes rows in order.
func NormalizeAll(rows []RawRow) []ExamRecord {
	records := make([]ExamRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, Normalize(row))
	}
	return records
}

// Start returns the parsed start time. ok is false when the record has no
// schedule.
func (r ExamRecord) Start() (time.Time, bool) {
	return parseISO(r.StartTime)
}

// End returns the parsed end time.
func (r ExamRecord) End() (time.Time, bool) {
	return parseISO(r.EndTime)
}

// Day returns the exam day, or the zero time if exam_date_iso is empty.
func (r ExamRecord) Day() time.Time {
	day, err := time.Parse(dayLayout, r.ExamDateISO)
	if err != nil {
		return time.Time{}
	}
	return day
}

// Building returns the first word of the classroom ("OLMH 1208" → "OLMH").
func (r ExamRecord) Building() string {
	fields := strings.Fields(r.Classroom)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func parseISO(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(isoLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
