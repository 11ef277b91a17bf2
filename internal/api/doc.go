// Package api serves exam snapshots over a small read-only JSON API.
//
// Routes:
//
//	GET /api/health
//	GET /api/exams                 ?q=&date=&location=&page=&limit=
//	GET /api/exams/calendar.ics    ?q=&date=&location=
//	GET /api/filters/dates
//	GET /api/filters/locations
//
// Errors are always JSON of the form {"error": "<status text>", "message": "..."}.
// The snapshot is loaded lazily on first use and cached; Repository.Reload
// swaps in a fresh copy after a scheduled scrape.
package api
