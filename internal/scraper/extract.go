package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/exam-calendar/internal/exam"
)

var (
	// Event rows are not nested, so a non-greedy match is enough to isolate
	// each one.
	eventRowPattern = regexp.MustCompile(`(?is)<tr class="twSimpleTableEventRow[^"]*".*?</tr>`)

	indexPattern = regexp.MustCompile(`\bindex=(\d+)\b`)
	digits       = regexp.MustCompile(`^\d+$`)
)

const titlePrefix = "EXAM:"

// ExtractRows returns every event row found in a widget page body, in page
// order. Rows missing an event id or an EXAM: title are dropped.
func ExtractRows(body, queryDate string) []exam.RawRow {
	fragments := eventRowPattern.FindAllString(body, -1)

	rows := make([]exam.RawRow, 0, len(fragments))
	for _, fragment := range fragments {
		row, ok := parseRow(fragment)
		if !ok {
			continue
		}
		row.QueryDate = queryDate
		rows = append(rows, row)
	}

	return rows
}

// parseRow extracts the fields of one <tr> fragment. Each field is looked up
// independently so one missing cell does not hide the others. The fragment is
// wrapped in a table; a bare <tr> parsed in body context loses its own tags
// and those of its cells, attributes included.
func parseRow(fragment string) (exam.RawRow, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table>" + fragment + "</table>"))
	if err != nil {
		return exam.RawRow{}, false
	}

	row := exam.RawRow{
		EventID:        eventID(doc.Selection),
		Title:          examTitle(doc.Selection),
		ExamDateLabel:  firstText(doc.Selection, ".twStartDate"),
		StartTimeLabel: firstText(doc.Selection, ".twStartTime"),
		Location:       firstText(doc.Selection, ".twLocation"),
	}

	if row.EventID == "" || row.Title == "" {
		return exam.RawRow{}, false
	}
	return row, true
}

func eventID(sel *goquery.Selection) string {
	var id string
	sel.Find("[eventid]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		value, _ := s.Attr("eventid")
		if digits.MatchString(value) {
			id = value
			return false
		}
		return true
	})
	return id
}

// examTitle returns the first text node, in document order, that starts with
// the EXAM: prefix.
func examTitle(sel *goquery.Selection) string {
	var title string
	sel.Contents().EachWithBreak(func(_ int, child *goquery.Selection) bool {
		node := child.Get(0)
		if node.Type == html.TextNode {
			text := strings.TrimSpace(node.Data)
			if strings.HasPrefix(text, titlePrefix) {
				title = text
				return false
			}
			return true
		}
		title = examTitle(child)
		return title == ""
	})
	return title
}

func firstText(sel *goquery.Selection, selector string) string {
	return strings.TrimSpace(sel.Find(selector).First().Text())
}

// HasNextPageHint reports whether body references the given page offset as an
// index=N parameter. The widget only emits such links when more rows exist.
func HasNextPageHint(body string, next int) bool {
	want := strconv.Itoa(next)
	for _, match := range indexPattern.FindAllStringSubmatch(body, -1) {
		if match[1] == want {
			return true
		}
	}
	return false
}
