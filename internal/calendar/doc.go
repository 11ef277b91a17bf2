// Package calendar renders exam records as an iCalendar feed.
package calendar
