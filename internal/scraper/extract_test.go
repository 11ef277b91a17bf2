package scraper

import (
	"os"
	"testing"

	"github.com/pfrederiksen/exam-calendar/internal/exam"
)

func TestExtractRows_Fixture(t *testing.T) {
	data, err := os.ReadFile("testdata/day_page.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}

	rows := ExtractRows(string(data), "20251206")

	want := []exam.RawRow{
		{
			EventID:        "1337687736",
			Title:          "EXAM: CS 009A 001 34028",
			ExamDateLabel:  "Dec 6",
			StartTimeLabel: "11:30am",
			Location:       "OLMH 1208",
			QueryDate:      "20251206",
		},
		{
			EventID:        "1337687801",
			Title:          "EXAM: ENGL 001B 012 40211",
			ExamDateLabel:  "Dec 6",
			StartTimeLabel: "3pm",
			Location:       "Humanities & Social Sciences 1500",
			QueryDate:      "20251206",
		},
		{
			EventID:        "1337687999",
			Title:          "EXAM: MATH 009B 020 33515",
			ExamDateLabel:  "Dec 6",
			StartTimeLabel: "TBA",
			Location:       "",
			QueryDate:      "20251206",
		},
	}

	if len(rows) != len(want) {
		t.Fatalf("ExtractRows() returned %d rows, want %d: %+v", len(rows), len(want), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}

	if !HasNextPageHint(string(data), 25) {
		t.Error("fixture should carry a hint for index 25")
	}
}

func TestExtractRows(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantIDs   []string
		wantTitle string
	}{
		{
			name: "compact row",
			body: `<tr class="twSimpleTableEventRow0"><a eventid="1">EXAM: MATH 006A 001 35359</a>` +
				`<span class="twStartDate">Dec 6</span><span class="twStartTime">8am</span>` +
				`<span class="twLocation">SSC 335</span></tr>`,
			wantIDs:   []string{"1"},
			wantTitle: "EXAM: MATH 006A 001 35359",
		},
		{
			name:    "missing event id",
			body:    `<tr class="twSimpleTableEventRow0"><a>EXAM: MATH 006A 001 35359</a></tr>`,
			wantIDs: []string{},
		},
		{
			name:    "non-numeric event id",
			body:    `<tr class="twSimpleTableEventRow0"><a eventid="abc">EXAM: MATH 006A 001 35359</a></tr>`,
			wantIDs: []string{},
		},
		{
			name:    "missing title",
			body:    `<tr class="twSimpleTableEventRow0"><a eventid="7">Review session</a></tr>`,
			wantIDs: []string{},
		},
		{
			name:    "lowercase prefix is not a title",
			body:    `<tr class="twSimpleTableEventRow0"><a eventid="7">exam: cs 010 001 1</a></tr>`,
			wantIDs: []string{},
		},
		{
			name:      "entities are unescaped",
			body:      `<tr class="twSimpleTableEventRow0"><a eventid="9">EXAM: BUS 100 001 1 &quot;Intro&quot; &amp; More</a></tr>`,
			wantIDs:   []string{"9"},
			wantTitle: `EXAM: BUS 100 001 1 "Intro" & More`,
		},
		{
			name: "case-insensitive row tag across lines",
			body: "<TR CLASS=\"twSimpleTableEventRow1 ebg1\">\n<a eventid=\"42\">\n  EXAM: CS 010A 001 12345\n</a>\n</TR>",
			wantIDs:   []string{"42"},
			wantTitle: "EXAM: CS 010A 001 12345",
		},
		{
			name:    "header row ignored",
			body:    `<tr class="twSimpleTableHeaderRow"><a eventid="5">EXAM: CS 010A 001 12345</a></tr>`,
			wantIDs: []string{},
		},
		{
			name: "two rows stay separate",
			body: `<tr class="twSimpleTableEventRow0"><a eventid="1">EXAM: A 1 1 1</a></tr>` +
				`<tr class="twSimpleTableEventRow1"><a eventid="2">EXAM: B 2 2 2</a></tr>`,
			wantIDs:   []string{"1", "2"},
			wantTitle: "EXAM: A 1 1 1",
		},
		{
			name:    "no rows",
			body:    "<html>No events</html>",
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := ExtractRows(tt.body, "20251206")

			if len(rows) != len(tt.wantIDs) {
				t.Fatalf("ExtractRows() returned %d rows, want %d: %+v", len(rows), len(tt.wantIDs), rows)
			}
			for i, id := range tt.wantIDs {
				if rows[i].EventID != id {
					t.Errorf("row %d EventID = %q, want %q", i, rows[i].EventID, id)
				}
				if rows[i].QueryDate != "20251206" {
					t.Errorf("row %d QueryDate = %q, want 20251206", i, rows[i].QueryDate)
				}
			}
			if len(rows) > 0 && rows[0].Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", rows[0].Title, tt.wantTitle)
			}
		})
	}
}

func TestExtractRows_MissingCellsDoNotDropRow(t *testing.T) {
	body := `<tr class="twSimpleTableEventRow0"><a eventid="3">EXAM: CS 100 001 555</a>` +
		`<span class="twLocation">WCH 205</span></tr>`

	rows := ExtractRows(body, "20251207")
	if len(rows) != 1 {
		t.Fatalf("ExtractRows() returned %d rows, want 1", len(rows))
	}

	row := rows[0]
	if row.ExamDateLabel != "" || row.StartTimeLabel != "" {
		t.Errorf("missing cells should be empty, got date=%q time=%q", row.ExamDateLabel, row.StartTimeLabel)
	}
	if row.Location != "WCH 205" {
		t.Errorf("Location = %q, want WCH 205", row.Location)
	}
}

func TestExtractRows_AttributesOnRowAndCells(t *testing.T) {
	body := `<tr class="twSimpleTableEventRow0" eventid="42">` +
		`<td><a>EXAM: CS 009A 001 34028</a></td>` +
		`<td class="twStartDate">Dec 6</td>` +
		`<td class="twStartTime">11:30am</td>` +
		`<td class="twLocation">OLMH 1208</td></tr>`

	rows := ExtractRows(body, "20251206")
	if len(rows) != 1 {
		t.Fatalf("ExtractRows() returned %d rows, want 1", len(rows))
	}

	want := exam.RawRow{
		EventID:        "42",
		Title:          "EXAM: CS 009A 001 34028",
		ExamDateLabel:  "Dec 6",
		StartTimeLabel: "11:30am",
		Location:       "OLMH 1208",
		QueryDate:      "20251206",
	}
	if rows[0] != want {
		t.Errorf("row = %+v, want %+v", rows[0], want)
	}
}

func TestHasNextPageHint(t *testing.T) {
	tests := []struct {
		name string
		body string
		next int
		want bool
	}{
		{"plain link", `<a href="s.aspx?date=20251206&index=25&spudformat=xhr">Next</a>`, 25, true},
		{"escaped ampersand", `<a href="s.aspx?date=20251206&amp;index=50">Next</a>`, 50, true},
		{"other offset only", `<a href="s.aspx?index=25">Next</a>`, 50, false},
		{"longer number", `<a href="s.aspx?index=250">Next</a>`, 25, false},
		{"prefixed name", `<a href="s.aspx?tabindex=25">Next</a>`, 25, false},
		{"several links", `index=0 index=25 index=50`, 50, true},
		{"no links", `<p>nothing here</p>`, 25, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasNextPageHint(tt.body, tt.next); got != tt.want {
				t.Errorf("HasNextPageHint(%q, %d) = %v, want %v", tt.body, tt.next, got, tt.want)
			}
		})
	}
}
