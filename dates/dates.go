/*
Package dates provides the day-granular date type used across the system.

PURPOSE:
  Every piece of business logic in this application (vacation accrual
  windows, bulletin schedules, complaint timestamps, the calendar feed)
  operates on whole calendar days. Date wraps time.Time pinned to UTC
  midnight so comparisons and arithmetic never trip over time zones or
  clock components.

KEY CONCEPTS:
  - Date: a calendar day (no time-of-day, no location)
  - Period: an inclusive [Start, End] day range
  - BR formatting: dd/mm/yyyy, the format every label in the UI uses

DESIGN PRINCIPLES:
  1. Value semantics: Date is copied, never mutated
  2. Inclusive ranges: Period.Contains includes both endpoints, matching
     how leave records are stored (a one-day leave has Start == End)
  3. Calendar arithmetic: AddYears follows time.AddDate normalization

SEE ALSO:
  - hr/classify.go: heaviest consumer (accrual window walk)
*/
package dates

import (
	"encoding/json"
	"time"
)

const (
	// LayoutISO is the storage/wire format.
	LayoutISO = "2006-01-02"
	// LayoutBR is the display format used by every label.
	LayoutBR = "02/01/2006"
)

// =============================================================================
// DATE - A calendar day
// =============================================================================

type Date struct {
	t time.Time
}

// New builds a Date from calendar components.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates a time.Time to its calendar day.
func FromTime(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day. Business logic should receive the
// reference day as an argument instead of calling this, so tests stay
// deterministic; handlers call it once at the boundary.
func Today() Date {
	return FromTime(time.Now())
}

// ParseISO parses a yyyy-mm-dd string.
func ParseISO(s string) (Date, error) {
	t, err := time.Parse(LayoutISO, s)
	if err != nil {
		return Date{}, err
	}
	return FromTime(t), nil
}

// Comparison
func (d Date) Before(o Date) bool        { return d.t.Before(o.t) }
func (d Date) After(o Date) bool         { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool         { return d.t.Equal(o.t) }
func (d Date) BeforeOrEqual(o Date) bool { return !d.t.After(o.t) }
func (d Date) AfterOrEqual(o Date) bool  { return !d.t.Before(o.t) }
func (d Date) IsZero() bool              { return d.t.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date   { return FromTime(d.t.AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return FromTime(d.t.AddDate(0, n, 0)) }
func (d Date) AddYears(n int) Date  { return FromTime(d.t.AddDate(n, 0, 0)) }

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) Time() time.Time   { return d.t }

func (d Date) String() string { return d.t.Format(LayoutISO) }

// FormatBR renders dd/mm/yyyy.
func (d Date) FormatBR() string { return d.t.Format(LayoutBR) }

// MarshalJSON renders the date as an ISO string, empty when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts an ISO string; empty means the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseISO(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysBetween returns the number of whole days from a to b (negative when b
// is before a).
func DaysBetween(a, b Date) int {
	return int(b.t.Sub(a.t).Hours() / 24)
}

// =============================================================================
// PERIOD - Inclusive day range
// =============================================================================

type Period struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// Contains reports whether day falls within [Start, End].
func (p Period) Contains(day Date) bool {
	return day.AfterOrEqual(p.Start) && day.BeforeOrEqual(p.End)
}

// Days returns the inclusive day count of the period. A period with
// Start == End spans 1 day.
func (p Period) Days() int {
	return DaysBetween(p.Start, p.End) + 1
}

// Overlaps reports whether two inclusive ranges share at least one day.
func (p Period) Overlaps(o Period) bool {
	return p.Start.BeforeOrEqual(o.End) && o.Start.BeforeOrEqual(p.End)
}

func (p Period) String() string { return p.Start.String() + ".." + p.End.String() }

// FormatBR renders the period the way table rows display it:
// "dd/mm/yyyy a dd/mm/yyyy".
func (p Period) FormatBR() string {
	return p.Start.FormatBR() + " a " + p.End.FormatBR()
}

// YearOf returns the calendar-year period containing the date.
func YearOf(d Date) Period {
	return Period{Start: New(d.Year(), time.January, 1), End: New(d.Year(), time.December, 31)}
}
