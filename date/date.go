// Package date provides a calendar day type used to apply day based rules
// such as same-day matching and tax year boundaries.
package date

import (
	"fmt"
	"time"
)

// Layout is the ISO-8601 layout dates are written with.
const Layout = time.DateOnly

// lenient also reads single digit months and days, like 2025-7-1.
const lenient = "2006-1-2"

// Date is a calendar day, independent of any time zone. The zero value is
// not a valid day and reports IsZero.
type Date struct {
	// midnight UTC of the day, so that == compares days.
	t time.Time
}

// New returns the Date for year, month and day, normalized like time.Date:
// New(2024, 2, 30) is 2024-03-01.
func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Of returns the calendar day of the instant t, read in t's own location.
func Of(t time.Time) Date { return New(t.Date()) }

// Today returns the current day in the local time zone.
func Today() Date { return Of(time.Now()) }

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Before(x Date) bool    { return d.t.Before(x.t) }
func (d Date) After(x Date) bool     { return d.t.After(x.t) }
func (d Date) Compare(x Date) int    { return d.t.Compare(x.t) }
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// Add returns the day n days after d, or before for a negative n.
func (d Date) Add(n int) Date { return Date{d.t.AddDate(0, 0, n)} }

// DaysSince returns the number of calendar days from x to d.
func (d Date) DaysSince(x Date) int { return int(d.t.Sub(x.t) / (24 * time.Hour)) }

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time { return d.t }

func (d Date) Format(layout string) string { return d.t.Format(layout) }

func (d Date) String() string { return d.t.Format(Layout) }

// Parse reads a day written YYYY-MM-DD, leading zeros being optional.
func Parse(s string) (Date, error) {
	t, err := time.Parse(lenient, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MarshalText writes the day as YYYY-MM-DD, it is used by encoding/json.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText reads a day with Parse.
func (d *Date) UnmarshalText(text []byte) error {
	x, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = x
	return nil
}
