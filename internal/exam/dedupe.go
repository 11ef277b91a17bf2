package exam

import (
	"strings"

	"github.com/pfrederiksen/exam-calendar/internal/logger"
)

// DedupeKey identifies a record across overlapping pages. The upstream event
// id wins; rows without one fall back to a composite of course and schedule
// fields.
func DedupeKey(rec ExamRecord) string {
	if rec.EventID != "" {
		return "id:" + rec.EventID
	}

	return strings.Join([]string{
		rec.Subject,
		rec.CourseNumber,
		rec.Section,
		rec.CRN,
		rec.StartTime,
		rec.Classroom,
	}, "|")
}

// Dedupe keeps the first record for every key and preserves first-seen order.
// Later duplicates are dropped even when they differ; such cases are logged
// because the upstream is assumed to repeat events byte-for-byte.
func Dedupe(records []ExamRecord) []ExamRecord {
	seen := make(map[string]int, len(records))
	unique := make([]ExamRecord, 0, len(records))

	for _, rec := range records {
		key := DedupeKey(rec)
		if idx, ok := seen[key]; ok {
			if !sameExam(unique[idx], rec) {
				logger.Warn("Dropping duplicate exam that differs from first occurrence", logger.Fields{
					"key":            key,
					"kept_start":     unique[idx].StartTime,
					"dropped_start":  rec.StartTime,
					"kept_room":      unique[idx].Classroom,
					"dropped_room":   rec.Classroom,
					"dropped_source": rec.QueryDate,
				})
			}
			continue
		}
		seen[key] = len(unique)
		unique = append(unique, rec)
	}

	return unique
}

// sameExam compares two records ignoring the query date they were found on.
func sameExam(a, b ExamRecord) bool {
	a.QueryDate, b.QueryDate = "", ""
	return a == b
}
