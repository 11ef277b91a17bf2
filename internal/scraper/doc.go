// Package scraper pages through the 25Live final exam widget and turns its
// HTML day views into exam records.
//
// The widget serves one day at a time in slices of index_step rows. For each
// day in the configured range the Scraper requests index_start, then
// index_start+step and so on, and stops as soon as a page has no event rows,
// the page carries no link to the next offset, or the next offset passes
// index_end. Transport failures and non-2xx responses abort the whole run.
//
// Row extraction is deliberately forgiving: rows without an event id or an
// EXAM: title are skipped, and unknown time labels simply leave the schedule
// fields empty.
package scraper
