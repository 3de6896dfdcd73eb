package utils

// daterange.go holds every date-string conversion used by the revenue
// engine.  Dates travel through the service as "YYYY-MM-DD" strings in the
// business's local calendar and months as "YYYY-MM".  Instants (time.Time)
// are turned into date strings only through ToLocalDateString so that a
// booking made at 00:30 local time never lands on the previous UTC day.

import (
	"errors"
	"fmt"
	"iter"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

var (
	// ErrInvalidDate is returned for strings that are not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
	// ErrInvalidMonth is returned for strings that are not YYYY-MM.
	ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")
	// ErrInvalidRange is returned when an end date precedes its start date.
	ErrInvalidRange = errors.New("end date is before start date")
)

// ToLocalDateString formats the calendar day of t as seen in loc.  A nil
// location means time.Local.
func ToLocalDateString(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

// ToLocalMonthString formats the calendar month of t as seen in loc.
func ToLocalMonthString(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(MonthLayout)
}

// ParseDate validates a date string and returns it as midnight UTC.  The
// value is only used for calendar arithmetic and is never formatted through
// another zone.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// ParseMonth validates a month string and returns its first day at
// midnight UTC.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return t, nil
}

// AddDays shifts a date string by n calendar days (n may be negative).
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

// ValidateRange checks both bounds and their order.
func ValidateRange(start, end string) error {
	_, _, err := parseRange(start, end)
	return err
}

// DaysInclusive returns the number of calendar days in [start, end].
func DaysInclusive(start, end string) (int, error) {
	s, e, err := parseRange(start, end)
	if err != nil {
		return 0, err
	}
	return int(e.Sub(s).Hours()/24) + 1, nil
}

// Days returns a lazy ascending sequence of every date in [start, end].
// The sequence can be ranged over any number of times.
func Days(start, end string) (iter.Seq[string], error) {
	s, e, err := parseRange(start, end)
	if err != nil {
		return nil, err
	}
	return func(yield func(string) bool) {
		for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
			if !yield(d.Format(DateLayout)) {
				return
			}
		}
	}, nil
}

// TrailingWindow returns the inclusive window of n days ending on end,
// i.e. [end-(n-1), end].  n below 1 is treated as 1.
func TrailingWindow(end string, n int) (string, string, error) {
	if n < 1 {
		n = 1
	}
	start, err := AddDays(end, -(n - 1))
	if err != nil {
		return "", "", err
	}
	return start, end, nil
}

// MonthBounds returns the first and last calendar day of month as local
// date strings.  Bookings are stored with local dates, so comparing against
// these strings counts boundary days exactly once.
func MonthBounds(month string) (string, string, error) {
	first, err := ParseMonth(month)
	if err != nil {
		return "", "", err
	}
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout), nil
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	s, err := ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if e.Before(s) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start, end)
	}
	return s, e, nil
}
