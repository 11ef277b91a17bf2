package api

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/exam-calendar/internal/exam"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Filter narrows a record list. Empty fields match everything.
type Filter struct {
	Query    string // substring of course number, course name or CRN
	Date     string // exact exam_date_iso
	Location string // substring of classroom
}

// Match reports whether rec passes every non-empty criterion. Text
// comparisons are case-insensitive.
func (f Filter) Match(rec exam.ExamRecord) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(rec.CourseNumber), q) &&
			!strings.Contains(strings.ToLower(rec.CourseName), q) &&
			!strings.Contains(strings.ToLower(rec.CRN), q) {
			return false
		}
	}
	if f.Date != "" && rec.ExamDateISO != f.Date {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(rec.Classroom), strings.ToLower(f.Location)) {
		return false
	}
	return true
}

// Apply returns the matching records in their original order. The result is
// never nil.
func (f Filter) Apply(records []exam.ExamRecord) []exam.ExamRecord {
	out := make([]exam.ExamRecord, 0, len(records))
	for _, rec := range records {
		if f.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Pagination describes one page of a search result.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// SearchResult is the body of GET /api/exams.
type SearchResult struct {
	Data       []exam.ExamRecord `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// Location groups the rooms of one building.
type Location struct {
	Building string   `json:"building"`
	Rooms    []string `json:"rooms"`
}

// Service implements the search and filter queries on top of a Repository.
type Service struct {
	repo *Repository
}

// NewService creates a Service reading from repo.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Search filters the snapshot and returns the requested page. page and limit
// are assumed to be validated (page >= 1, 1 <= limit <= MaxLimit).
func (s *Service) Search(f Filter, page, limit int) (SearchResult, error) {
	all, err := s.repo.All()
	if err != nil {
		return SearchResult{}, err
	}

	matched := f.Apply(all)
	total := len(matched)

	// pages past the end are empty; compared before multiplying so huge
	// page numbers cannot overflow
	start := total
	if page-1 < (total+limit-1)/limit {
		start = (page - 1) * limit
	}
	end := min(start+limit, total)

	return SearchResult{
		Data: matched[start:end],
		Pagination: Pagination{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasMore: end < total,
		},
	}, nil
}

// Export returns every record matching f.
func (s *Service) Export(f Filter) ([]exam.ExamRecord, error) {
	all, err := s.repo.All()
	if err != nil {
		return nil, err
	}
	return f.Apply(all), nil
}

// Dates returns the distinct exam days, sorted.
func (s *Service) Dates() ([]string, error) {
	all, err := s.repo.All()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	dates := make([]string, 0)
	for _, rec := range all {
		if rec.ExamDateISO == "" || seen[rec.ExamDateISO] {
			continue
		}
		seen[rec.ExamDateISO] = true
		dates = append(dates, rec.ExamDateISO)
	}

	sort.Strings(dates)
	return dates, nil
}

// Locations returns the distinct classrooms grouped by building (the first
// word of the classroom), both levels sorted.
func (s *Service) Locations() ([]Location, error) {
	all, err := s.repo.All()
	if err != nil {
		return nil, err
	}

	rooms := make(map[string]map[string]bool)
	for _, rec := range all {
		room := strings.TrimSpace(rec.Classroom)
		if room == "" {
			continue
		}
		building := rec.Building()
		if rooms[building] == nil {
			rooms[building] = make(map[string]bool)
		}
		rooms[building][room] = true
	}

	locations := make([]Location, 0, len(rooms))
	for building, set := range rooms {
		list := make([]string, 0, len(set))
		for room := range set {
			list = append(list, room)
		}
		sort.Strings(list)
		locations = append(locations, Location{Building: building, Rooms: list})
	}

	sort.Slice(locations, func(i, j int) bool {
		return locations[i].Building < locations[j].Building
	})
	return locations, nil
}
