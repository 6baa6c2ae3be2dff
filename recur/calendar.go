/*
calendar.go - Calendar day primitives for occurrence generation

PURPOSE:
  Provides the DayDate value type and the month arithmetic every other
  part of the engine builds on: last-day-of-month lookup and clamping a
  nominal day-of-month into a possibly shorter month.

MIDDAY ANCHORING:
  A DayDate is a calendar day, not an instant. Internally it is pinned
  to 12:00 UTC so that comparisons against bounds that carry a time
  component can never flip across a day boundary (DST shifts, start-of
  vs end-of-day ambiguity). Callers should treat DayDate as opaque and
  compare with the methods here.

KEY OPERATIONS:
  - LastDayOfMonth(year, month): 28-31
  - ClampDay(day, year, month):  min(day, LastDayOfMonth)
  - MonthsBetween(a, b):         whole-month index distance
  - FirstOfMonth / NextMonth:    the generator's cursor steps

SEE ALSO:
  - generator.go: month-by-month cursor using these primitives
  - window.go:    window/lifespan intersection
*/
package recur

import (
	"fmt"
	"time"
)

// =============================================================================
// DAY DATE - A calendar day pinned at midday UTC
// =============================================================================

// DayDate represents a single calendar day. The zero value is invalid
// and means "absent"; use IsZero to test.
type DayDate struct {
	Time time.Time
}

// NewDayDate constructs a day pinned at 12:00 UTC. Out-of-range day
// values are normalized by time.Date; use ClampDay first when the day
// must stay inside the month.
func NewDayDate(year int, month time.Month, day int) DayDate {
	return DayDate{Time: time.Date(year, month, day, 12, 0, 0, 0, time.UTC)}
}

// DayOf reduces an arbitrary instant to its calendar day.
func DayOf(t time.Time) DayDate {
	return NewDayDate(t.Year(), t.Month(), t.Day())
}

const isoDayFormat = "2006-01-02"

// ParseDayDate parses an ISO-8601 calendar date (YYYY-MM-DD).
func ParseDayDate(s string) (DayDate, error) {
	t, err := time.Parse(isoDayFormat, s)
	if err != nil {
		return DayDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return NewDayDate(t.Year(), t.Month(), t.Day()), nil
}

// MustParseDayDate is a test/seed helper. Panics on invalid input.
func MustParseDayDate(s string) DayDate {
	d, err := ParseDayDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison. All comparisons are at day granularity.
func (d DayDate) Before(other DayDate) bool { return d.normalize().Before(other.normalize()) }
func (d DayDate) After(other DayDate) bool  { return d.normalize().After(other.normalize()) }
func (d DayDate) Equal(other DayDate) bool  { return d.normalize().Equal(other.normalize()) }
func (d DayDate) BeforeOrEqual(other DayDate) bool { return !d.After(other) }
func (d DayDate) AfterOrEqual(other DayDate) bool  { return !d.Before(other) }

func (d DayDate) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 12, 0, 0, 0, time.UTC)
}

// Properties
func (d DayDate) Year() int         { return d.Time.Year() }
func (d DayDate) Month() time.Month { return d.Time.Month() }
func (d DayDate) Day() int          { return d.Time.Day() }
func (d DayDate) IsZero() bool      { return d.Time.IsZero() }

// ISO returns the YYYY-MM-DD form. This is the canonical wire and
// exclusion-set representation.
func (d DayDate) ISO() string { return d.normalize().Format(isoDayFormat) }

func (d DayDate) String() string { return d.ISO() }

// FirstOfMonth returns day 1 of this date's month.
func (d DayDate) FirstOfMonth() DayDate {
	return NewDayDate(d.Year(), d.Month(), 1)
}

// NextMonth returns day 1 of the following month. time.Date normalizes
// the month overflow (December -> January of next year).
func (d DayDate) NextMonth() DayDate {
	return NewDayDate(d.Year(), d.Month()+1, 1)
}

// =============================================================================
// MONTH ARITHMETIC
// =============================================================================

// LastDayOfMonth returns the number of days in the given month (28-31).
// Day 0 of the next month is the last day of this one.
func LastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

// ClampDay reduces a nominal day-of-month to the last valid day of the
// given month. The result is always a real day of that month, e.g.
// ClampDay(31, 2025, February) == 28.
func ClampDay(day int, year int, month time.Month) int {
	if last := LastDayOfMonth(year, month); day > last {
		return last
	}
	return day
}

// MonthsBetween returns the whole-month index distance from a to b,
// ignoring the day component. Negative when b's month precedes a's.
func MonthsBetween(a, b DayDate) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
