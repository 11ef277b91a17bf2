package calendar

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/pfrederiksen/exam-calendar/internal/exam"
)

const (
	// TimeZone is the zone exam times are published in.
	TimeZone = "America/Los_Angeles"

	// DefaultName is used for X-WR-CALNAME when no name is given.
	DefaultName = "UCR Final Exams"

	productID = "-//exam-calendar//examcal//EN"
	uidDomain = "examcal"

	localLayout = "20060102T150405"
)

// GenerateICS builds a VCALENDAR with one VEVENT per record. Records without
// a start time become all-day events on their exam day; records with neither
// are skipped. An empty input still yields a valid, empty calendar.
func GenerateICS(records []exam.ExamRecord, name string) string {
	if name == "" {
		name = DefaultName
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(name)
	cal.SetXWRTimezone(TimeZone)

	for _, rec := range records {
		if _, ok := rec.Start(); ok {
			addTimezone(cal)
			break
		}
	}

	now := time.Now().UTC()
	for _, rec := range records {
		addEvent(cal, rec, now)
	}

	return cal.Serialize()
}

// addTimezone emits the VTIMEZONE that TZID-qualified start and end times
// refer to, using the US daylight saving rules in force since 2007.
func addTimezone(cal *ical.Calendar) {
	tz := cal.AddTimezone(TimeZone)

	daylight := &ical.Daylight{}
	setRule(&daylight.ComponentBase, "-0800", "-0700", "PDT", "19700308T020000", "FREQ=YEARLY;BYMONTH=3;BYDAY=2SU")
	standard := &ical.Standard{}
	setRule(&standard.ComponentBase, "-0700", "-0800", "PST", "19701101T020000", "FREQ=YEARLY;BYMONTH=11;BYDAY=1SU")

	tz.Components = append(tz.Components, daylight, standard)
}

func setRule(c *ical.ComponentBase, from, to, name, start, rule string) {
	c.SetProperty(ical.ComponentProperty(ical.PropertyTzoffsetfrom), from)
	c.SetProperty(ical.ComponentProperty(ical.PropertyTzoffsetto), to)
	c.SetProperty(ical.ComponentProperty(ical.PropertyTzname), name)
	c.SetProperty(ical.ComponentPropertyDtStart, start)
	c.SetProperty(ical.ComponentPropertyRrule, rule)
}

func addEvent(cal *ical.Calendar, rec exam.ExamRecord, stamp time.Time) {
	start, hasStart := rec.Start()
	day := rec.Day()
	if !hasStart && day.IsZero() {
		return
	}

	event := cal.AddEvent(uid(rec))
	event.SetDtStampTime(stamp)

	if hasStart {
		end, ok := rec.End()
		if !ok {
			end = start.Add(exam.ExamDuration)
		}
		tz := &ical.KeyValues{Key: string(ical.ParameterTzid), Value: []string{TimeZone}}
		event.SetProperty(ical.ComponentPropertyDtStart, start.Format(localLayout), tz)
		event.SetProperty(ical.ComponentPropertyDtEnd, end.Format(localLayout), tz)
	} else {
		event.SetAllDayStartAt(day)
		event.SetAllDayEndAt(day.AddDate(0, 0, 1))
	}

	event.SetSummary(summary(rec))
	event.SetDescription(description(rec))
	if rec.Classroom != "" {
		event.SetLocation(rec.Classroom)
	}
	event.SetProperty(ical.ComponentPropertyStatus, "CONFIRMED")
}

func uid(rec exam.ExamRecord) string {
	if rec.EventID != "" {
		return rec.EventID + "@" + uidDomain
	}
	key := strings.NewReplacer("|", "-", " ", "").Replace(exam.DedupeKey(rec))
	return key + "@" + uidDomain
}

func summary(rec exam.ExamRecord) string {
	if rec.Subject != "" && rec.CourseNumber != "" {
		return fmt.Sprintf("Final Exam: %s %s", rec.Subject, rec.CourseNumber)
	}
	if rec.CourseName != "" {
		return "Final Exam: " + rec.CourseName
	}
	return rec.FinalExam
}

func description(rec exam.ExamRecord) string {
	lines := []string{rec.FinalExam}
	if rec.Section != "" {
		lines = append(lines, "Section: "+rec.Section)
	}
	if rec.CRN != "" {
		lines = append(lines, "CRN: "+rec.CRN)
	}
	if rec.StartTimeDisplay != "" {
		lines = append(lines, fmt.Sprintf("Time: %s - %s", rec.StartTimeDisplay, rec.EndTimeDisplay))
	} else {
		lines = append(lines, "Time: TBA")
	}
	return strings.Join(lines, "\n")
}
