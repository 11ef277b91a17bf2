package exam

import (
	"regexp"
	"strings"
)

// Titles look like "EXAM: MATH 009B 020 33515"
var titlePattern = regexp.MustCompile(`^EXAM:\s*(\w+)\s+(\w+)\s+(\w+)\s+(\d+)`)

const titlePrefix = "EXAM:"

// CourseInfo holds the course fields encoded in an exam title
type CourseInfo struct {
	Subject      string
	CourseNumber string
	Section      string
	CRN          string
	CourseName   string
}

// ParseTitle splits an exam title into subject, course number, section and
// CRN. CourseName is the title without its "EXAM:" prefix and is filled in
// even when the rest of the grammar does not match; ok reports whether it did.
func ParseTitle(title string) (CourseInfo, bool) {
	title = strings.TrimSpace(title)

	var info CourseInfo
	if strings.HasPrefix(title, titlePrefix) {
		info.CourseName = strings.TrimSpace(strings.TrimPrefix(title, titlePrefix))
	}

	matches := titlePattern.FindStringSubmatch(title)
	if matches == nil {
		return info, false
	}

	info.Subject = matches[1]
	info.CourseNumber = matches[2]
	info.Section = matches[3]
	info.CRN = matches[4]
	return info, true
}
