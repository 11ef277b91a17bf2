package main

import (
	"fmt"
	"os"

	"github.com/pfrederiksen/exam-calendar/internal/calendar"
	"github.com/pfrederiksen/exam-calendar/internal/exam"
)

func main() {
	// Sample rows as they come out of the widget
	records := exam.NormalizeAll([]exam.RawRow{
		{
			EventID:        "123456",
			Title:          "EXAM: CS 010A 001 34028",
			ExamDateLabel:  "Monday, December 8, 2025",
			StartTimeLabel: "11:30am",
			Location:       "OLMH 1208",
			QueryDate:      "20251208",
		},
		{
			EventID:        "123457",
			Title:          "EXAM: MATH 009B 020 33515",
			ExamDateLabel:  "Tuesday, December 9, 2025",
			StartTimeLabel: "TBA",
			QueryDate:      "20251209",
		},
	})

	icsContent := calendar.GenerateICS(records, calendar.DefaultName)

	filename := "test-exams.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated calendar file: %s\n\n", filename)
	fmt.Println("Import it into Google Calendar, Apple Calendar or Outlook to check")
	fmt.Println("the timed exam lands at 11:30 Pacific and the TBA one as all-day.")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
