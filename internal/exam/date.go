package exam

import (
	"errors"
	"fmt"
	"time"
)

// QueryDateLayout is the upstream widget's date parameter format
const QueryDateLayout = "20060102"

// ErrInvalidDateRange is returned for malformed or inverted scrape ranges.
var ErrInvalidDateRange = errors.New("invalid date range")

// DateRange is an inclusive range of calendar days
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses two YYYYMMDD dates into an inclusive range.
// It fails with ErrInvalidDateRange when either date is malformed or when
// end is before start.
func ParseDateRange(start, end string) (DateRange, error) {
	startDay, err := time.Parse(QueryDateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: start date %q is not YYYYMMDD", ErrInvalidDateRange, start)
	}
	endDay, err := time.Parse(QueryDateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: end date %q is not YYYYMMDD", ErrInvalidDateRange, end)
	}
	if endDay.Before(startDay) {
		return DateRange{}, fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidDateRange, end, start)
	}

	return DateRange{Start: startDay, End: endDay}, nil
}

// Days returns every day of the range in YYYYMMDD form, in order.
func (r DateRange) Days() []string {
	days := make([]string, 0, r.Len())
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(QueryDateLayout))
	}
	return days
}

// Len returns the number of days in the range.
func (r DateRange) Len() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// String renders the range as "YYYYMMDD-YYYYMMDD"
func (r DateRange) String() string {
	return r.Start.Format(QueryDateLayout) + "-" + r.End.Format(QueryDateLayout)
}
