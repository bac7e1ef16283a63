// Package daterange resolves symbolic periods and explicit parameters into
// inclusive calendar date intervals.
package daterange

import (
	"errors"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/habitline/habitline/server/internal/model"
)

// Layout is the only accepted wire format for dates.
const Layout = strfmt.RFC3339FullDate

// Period is a symbolic trailing window.
type Period string

const (
	Week  Period = "week"
	Month Period = "month"
	Year  Period = "year"
)

// trailing maps a period to the number of days before the end date.
var trailing = map[Period]int{
	Week:  6,
	Month: 29,
	Year:  364,
}

// Range is an inclusive interval of calendar dates. Start and End are always
// midnight UTC.
type Range struct {
	Start time.Time
	End   time.Time
}

// New builds a range from two dates, rejecting inverted bounds.
func New(start, end time.Time) (Range, error) {
	s, e := Day(start), Day(end)
	if s.After(e) {
		return Range{}, model.ValidationError{Field: "start_date", Message: model.ErrInvertedRange.Error(), Cause: model.ErrInvertedRange}
	}
	return Range{Start: s, End: e}, nil
}

const secondsPerDay = 24 * 60 * 60

// Days returns the number of dates covered by the range. It counts whole days
// between epoch day numbers, so it holds for spans beyond time.Duration's range.
func (r Range) Days() int {
	return int(r.End.Unix()/secondsPerDay-r.Start.Unix()/secondsPerDay) + 1
}

// Dates returns every date of the range in ascending order.
func (r Range) Dates() []time.Time {
	out := make([]time.Time, 0, r.Days())
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Contains reports whether d falls inside the range.
func (r Range) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

// StartDate and EndDate return the bounds in wire form.
func (r Range) StartDate() strfmt.Date { return strfmt.Date(r.Start) }
func (r Range) EndDate() strfmt.Date   { return strfmt.Date(r.End) }

// Day truncates t to its calendar date, keeping the wall-clock date of t's own
// location, and returns it as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Key formats a date for map indexing and display.
func Key(t time.Time) string { return t.Format(Layout) }

// ParseDate parses a YYYY-MM-DD string. The returned error wraps
// ErrInvalidDateFormat inside a ValidationError for field.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, model.ValidationError{Field: field, Message: model.ErrInvalidDateFormat.Error(), Cause: model.ErrInvalidDateFormat}
	}
	return t, nil
}

// Resolve turns a period keyword or explicit start/end parameters into a range
// ending at or around ref. A known period wins over explicit parameters; an
// unknown keyword is ignored. With nothing supplied the trailing week ending at
// ref is returned.
func Resolve(period, startParam, endParam string, ref time.Time) (Range, error) {
	ref = Day(ref)
	if back, ok := trailing[Period(strings.ToLower(strings.TrimSpace(period)))]; ok {
		return Range{Start: ref.AddDate(0, 0, -back), End: ref}, nil
	}

	startParam, endParam = strings.TrimSpace(startParam), strings.TrimSpace(endParam)
	if startParam == "" && endParam == "" {
		return Range{Start: ref.AddDate(0, 0, -trailing[Week]), End: ref}, nil
	}

	var start, end time.Time
	var err error
	if endParam != "" {
		if end, err = ParseDate("end_date", endParam); err != nil {
			return Range{}, err
		}
	} else {
		end = ref
	}
	if startParam != "" {
		if start, err = ParseDate("start_date", startParam); err != nil {
			return Range{}, err
		}
	} else {
		start = end.AddDate(0, 0, -trailing[Week])
	}
	return New(start, end)
}

// WeekOf returns Monday through Sunday of the ISO week containing ref.
func WeekOf(ref time.Time) Range {
	ref = Day(ref)
	// time.Weekday has Sunday=0; shift so Monday=0.
	offset := (int(ref.Weekday()) + 6) % 7
	start := ref.AddDate(0, 0, -offset)
	return Range{Start: start, End: start.AddDate(0, 0, 6)}
}

// IsInvalidDate reports whether err came from a malformed date parameter.
func IsInvalidDate(err error) bool { return errors.Is(err, model.ErrInvalidDateFormat) }
