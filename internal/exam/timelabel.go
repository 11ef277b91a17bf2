package exam

import (
	"regexp"
	"strconv"
	"strings"
)

var timeLabelPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)$`)

// ParsedTime is a 24-hour wall clock time
type ParsedTime struct {
	Hour   int
	Minute int
}

// ParseTimeLabel converts widget labels such as "8am", "11:30am" or
// " 2:30 PM " into a 24-hour time. The second return value is false for
// anything outside the h[:mm]am|pm grammar ("noon", "8", "").
func ParseTimeLabel(label string) (ParsedTime, bool) {
	token := strings.ToLower(strings.TrimSpace(label))
	matches := timeLabelPattern.FindStringSubmatch(token)
	if matches == nil {
		return ParsedTime{}, false
	}

	hour, _ := strconv.Atoi(matches[1])
	minute := 0
	if matches[2] != "" {
		minute, _ = strconv.Atoi(matches[2])
	}
	if hour > 12 || minute > 59 {
		return ParsedTime{}, false
	}

	if hour == 12 {
		hour = 0
	}
	if matches[3] == "pm" {
		hour += 12
	}

	return ParsedTime{Hour: hour, Minute: minute}, true
}
