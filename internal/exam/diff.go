package exam

import "sort"

// Change types reported by Diff
const (
	ChangeAdded   = "added"
	ChangeRemoved = "removed"
	ChangeTime    = "time"
	ChangeRoom    = "room"
)

// Change describes one difference between two snapshots.
type Change struct {
	Key      string `json:"key"`
	Course   string `json:"course"`
	Type     string `json:"type"`
	OldValue string `json:"old_value,omitempty"`
	NewValue string `json:"new_value,omitempty"`
}

// DiffResult contains the results of comparing two snapshots
type DiffResult struct {
	Added   int      `json:"added"`
	Removed int      `json:"removed"`
	Changed int      `json:"changed"`
	Changes []Change `json:"changes,omitempty"`
}

// Empty reports whether the snapshots hold the same exams.
func (d DiffResult) Empty() bool {
	return d.Added == 0 && d.Removed == 0 && d.Changed == 0
}

// StableKey identifies an exam across scrapes. Upstream event ids are not
// guaranteed stable between publishes, so course identity is preferred.
func StableKey(rec ExamRecord) string {
	if rec.CRN != "" {
		return rec.Subject + " " + rec.CourseNumber + " " + rec.Section + " " + rec.CRN
	}
	return DedupeKey(rec)
}

// Diff compares the previous snapshot with the current one. Moved times and
// rooms are reported per exam; changes are sorted by key.
func Diff(previous, current []ExamRecord) DiffResult {
	before := make(map[string]ExamRecord, len(previous))
	for _, rec := range previous {
		before[StableKey(rec)] = rec
	}

	var result DiffResult
	seen := make(map[string]bool, len(current))

	for _, rec := range current {
		key := StableKey(rec)
		seen[key] = true

		old, ok := before[key]
		if !ok {
			result.Added++
			result.Changes = append(result.Changes, Change{Key: key, Course: rec.CourseName, Type: ChangeAdded})
			continue
		}

		changed := false
		if old.StartTime != rec.StartTime {
			result.Changes = append(result.Changes, Change{
				Key: key, Course: rec.CourseName, Type: ChangeTime,
				OldValue: old.StartTime, NewValue: rec.StartTime,
			})
			changed = true
		}
		if old.Classroom != rec.Classroom {
			result.Changes = append(result.Changes, Change{
				Key: key, Course: rec.CourseName, Type: ChangeRoom,
				OldValue: old.Classroom, NewValue: rec.Classroom,
			})
			changed = true
		}
		if changed {
			result.Changed++
		}
	}

	for key, rec := range before {
		if !seen[key] {
			result.Removed++
			result.Changes = append(result.Changes, Change{Key: key, Course: rec.CourseName, Type: ChangeRemoved})
		}
	}

	sort.SliceStable(result.Changes, func(i, j int) bool {
		if result.Changes[i].Key != result.Changes[j].Key {
			return result.Changes[i].Key < result.Changes[j].Key
		}
		return result.Changes[i].Type < result.Changes[j].Type
	})

	return result
}
