package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a plain calendar date. All tariff rules are expressed as date-range
// or date-set membership tests, so we carry year/month/day directly instead of
// a time.Time pinned to an arbitrary instant.
type Date struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// NewDate validates the components and returns the date. Dates that do not
// exist on the calendar (e.g. February 30th) return ErrInvalidDate.
func NewDate(year int, month time.Month, day int) (Date, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("%w: %d-%d-%d", ErrInvalidDate, year, month, day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// MustDate is NewDate for values known valid at compile time. It panics on
// invalid input and is intended for constants and tests.
func MustDate(year int, month time.Month, day int) Date {
	d, err := NewDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDMY parses the day-first format used by the consumption exports,
// e.g. "2/1/21" or "31/12/2021". Two-digit years are 2000-based.
func ParseDMY(s string) (Date, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		nums[i] = n
	}
	year := nums[2]
	if year < 100 {
		year += 2000
	}
	d, err := NewDate(year, time.Month(nums[1]), nums[0])
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// ISO returns the date as YYYY-MM-DD, the key format of the price archive.
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) String() string {
	return d.ISO()
}

// Time returns midnight of the date in the given location.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// Compare returns -1, 0 or 1 depending on whether d sorts before, equal to or
// after o.
func (d Date) Compare(o Date) int {
	if d.Year != o.Year {
		return cmpInt(d.Year, o.Year)
	}
	if d.Month != o.Month {
		return cmpInt(int(d.Month), int(o.Month))
	}
	return cmpInt(d.Day, o.Day)
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
