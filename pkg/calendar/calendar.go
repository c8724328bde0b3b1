// Package calendar holds the pure date rules the tariff classifier depends
// on: weekends, the national holiday table, daylight-saving membership and
// the regulatory era split.
package calendar

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/polhenarejos/factura-luz/pkg/types"
)

// PVPC schedules are defined in peninsular local time.
var madridLocation = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		panic(fmt.Errorf("failed to load madrid location: %w", err))
	}
	return loc
}()

// CutoverDate is the day the 2.0TD scheme replaced the legacy plans.
var CutoverDate = types.MustDate(2021, time.June, 1)

// IsPostCutover reports whether date falls on or after the regulatory
// cutover into the current 3-period scheme.
func IsPostCutover(d types.Date) bool {
	return !d.Before(CutoverDate)
}

//go:embed holidays.toml
var defaultHolidaysTOML []byte

type holidayFile struct {
	Holidays map[string][]string `toml:"holidays"`
}

// Calendar answers date-membership questions. It is immutable after
// construction; the holiday table is data, not logic.
type Calendar struct {
	holidays map[types.Date]struct{}
}

// New returns a Calendar with the embedded national holiday table.
func New() *Calendar {
	c, err := fromTOML(defaultHolidaysTOML)
	if err != nil {
		// The embedded table is validated by tests; a decode failure here is
		// a build defect, not a runtime condition.
		panic(fmt.Errorf("embedded holiday table: %w", err))
	}
	return c
}

// Load reads a holiday table from path, replacing the embedded one.
func Load(path string) (*Calendar, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holiday table: %w", err)
	}
	return fromTOML(raw)
}

func fromTOML(raw []byte) (*Calendar, error) {
	var f holidayFile
	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to decode holiday table: %w", err)
	}
	c := &Calendar{holidays: make(map[types.Date]struct{})}
	for year, dates := range f.Holidays {
		for _, s := range dates {
			var y, m, d int
			if _, err := fmt.Sscanf(s, "%d-%d-%d", &y, &m, &d); err != nil {
				return nil, fmt.Errorf("holiday table year %s: bad date %q", year, s)
			}
			date, err := types.NewDate(y, time.Month(m), d)
			if err != nil {
				return nil, fmt.Errorf("holiday table year %s: %w", year, err)
			}
			c.holidays[date] = struct{}{}
		}
	}
	return c, nil
}

// IsHoliday reports whether date is in the configured holiday table.
func (c *Calendar) IsHoliday(d types.Date) bool {
	_, ok := c.holidays[d]
	return ok
}

// IsWeekend reports whether date is a Saturday or Sunday.
func (c *Calendar) IsWeekend(d types.Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsOffPeakDay reports whether the whole day bills off-peak under 2.0TD:
// weekends and national holidays.
func (c *Calendar) IsOffPeakDay(d types.Date) bool {
	return c.IsWeekend(d) || c.IsHoliday(d)
}

// IsDST reports whether the date falls inside the daylight-saving period in
// peninsular Spain. Evaluated at local noon so the transition days themselves
// classify by the rule that holds for most of the day.
func (c *Calendar) IsDST(d types.Date) bool {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, madridLocation).IsDST()
}
