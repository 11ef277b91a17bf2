package api

import (
	"errors"
	"net/http"

	"github.com/pfrederiksen/exam-calendar/internal/calendar"
)

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleExams searches the snapshot and returns one page of results
func (s *Server) handleExams(w http.ResponseWriter, r *http.Request) {
	q, err := parseExamQuery(r.URL.Query(), true)
	if err != nil {
		badRequest(w, err)
		return
	}

	result, err := s.service.Search(q.filter(), q.Page, q.Limit)
	if err != nil {
		internalError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, result)
}

// handleCalendar returns every matching exam as an iCalendar feed
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	q, err := parseExamQuery(r.URL.Query(), false)
	if err != nil {
		badRequest(w, err)
		return
	}

	records, err := s.service.Export(q.filter())
	if err != nil {
		internalError(w, r, err)
		return
	}

	body := calendar.GenerateICS(records, s.opts.CalendarName)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="exams.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// handleDates lists the distinct exam days
func (s *Server) handleDates(w http.ResponseWriter, r *http.Request) {
	dates, err := s.service.Dates()
	if err != nil {
		internalError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"data": dates})
}

// handleLocations lists classrooms grouped by building
func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.service.Locations()
	if err != nil {
		internalError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"data": locations})
}

func badRequest(w http.ResponseWriter, err error) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		errorResponse(w, http.StatusBadRequest, reqErr.Message)
		return
	}
	errorResponse(w, http.StatusBadRequest, err.Error())
}
