package api

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// letters, digits, underscore, whitespace and - . ' "
var searchQueryPattern = regexp.MustCompile(`^[\p{L}\p{N}_\s\-.'"]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("searchquery", func(fl validator.FieldLevel) bool {
		return searchQueryPattern.MatchString(fl.Field().String())
	})
	return v
}

// examQuery holds the query parameters accepted by the exam endpoints.
type examQuery struct {
	Query    string `validate:"omitempty,max=100,searchquery"`
	Date     string `validate:"omitempty,datetime=2006-01-02"`
	Location string `validate:"omitempty,max=100"`
	Page     int    `validate:"min=1"`
	Limit    int    `validate:"min=1"`
}

// RequestError is a client error whose message is safe to return verbatim.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// parseExamQuery reads and validates the exam query parameters. withPaging
// controls whether page and limit are read; when false they are left at
// their defaults.
func parseExamQuery(values url.Values, withPaging bool) (examQuery, error) {
	q := examQuery{
		Query:    strings.TrimSpace(values.Get("q")),
		Date:     strings.TrimSpace(values.Get("date")),
		Location: strings.TrimSpace(values.Get("location")),
		Page:     1,
		Limit:    DefaultLimit,
	}

	if withPaging {
		var err error
		if q.Page, err = intParam(values, "page", 1); err != nil {
			return examQuery{}, err
		}
		if q.Limit, err = intParam(values, "limit", DefaultLimit); err != nil {
			return examQuery{}, err
		}
	}

	if err := validate.Struct(q); err != nil {
		return examQuery{}, describe(err)
	}

	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q, nil
}

func (q examQuery) filter() Filter {
	return Filter{Query: q.Query, Date: q.Date, Location: q.Location}
}

func intParam(values url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &RequestError{Message: "Page and limit must be integers."}
	}
	return n, nil
}

// describe turns the first validation failure into a user-facing message.
func describe(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return &RequestError{Message: "Invalid query parameters."}
	}

	fe := errs[0]
	switch fe.Field() {
	case "Query":
		if fe.Tag() == "max" {
			return &RequestError{Message: "Search query cannot exceed 100 characters."}
		}
		return &RequestError{Message: "Search query contains invalid characters."}
	case "Date":
		return &RequestError{Message: "Invalid date format. Use YYYY-MM-DD."}
	case "Location":
		return &RequestError{Message: "Location filter cannot exceed 100 characters."}
	case "Page":
		return &RequestError{Message: "Page must be a positive integer."}
	case "Limit":
		return &RequestError{Message: "Limit must be a positive integer."}
	}
	return &RequestError{Message: "Invalid query parameters."}
}
