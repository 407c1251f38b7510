package cgt

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/etnz/cgt/date"
)

var taxYearRegex = regexp.MustCompile(`^(\d{4})-(\d{4})$`)

// TaxYear is a UK tax year, from 6 April of Start to 5 April of the next year.
type TaxYear struct {
	Start int
}

// ParseTaxYear parses a label like "2024-2025". The two years must be consecutive.
func ParseTaxYear(label string) (TaxYear, error) {
	m := taxYearRegex.FindStringSubmatch(label)
	if m == nil {
		return TaxYear{}, fmt.Errorf("%w: %q, want format YYYY-YYYY", ErrInvalidTaxYear, label)
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if end != start+1 {
		return TaxYear{}, fmt.Errorf("%w: %q, years must be consecutive", ErrInvalidTaxYear, label)
	}
	return TaxYear{Start: start}, nil
}

// MustParseTaxYear is like ParseTaxYear but panics on error.
func MustParseTaxYear(label string) TaxYear {
	y, err := ParseTaxYear(label)
	if err != nil {
		panic(err)
	}
	return y
}

// TaxYearOf returns the tax year the day belongs to.
func TaxYearOf(d date.Date) TaxYear {
	if d.Before(date.New(d.Year(), time.April, 6)) {
		return TaxYear{Start: d.Year() - 1}
	}
	return TaxYear{Start: d.Year()}
}

func (y TaxYear) String() string { return fmt.Sprintf("%d-%d", y.Start, y.Start+1) }

// Range returns the days of the tax year, boundaries included.
func (y TaxYear) Range() date.Range {
	return date.NewRange(date.New(y.Start, time.April, 6), date.New(y.Start+1, time.April, 5))
}

// Contains reports whether the day belongs to the tax year.
func (y TaxYear) Contains(d date.Date) bool { return y.Range().Contains(d) }

// ContainsTime reports whether the calendar day of t belongs to the tax year.
func (y TaxYear) ContainsTime(t time.Time) bool { return y.Contains(date.Of(t)) }

func (y TaxYear) MarshalText() ([]byte, error) { return []byte(y.String()), nil }

func (y *TaxYear) UnmarshalText(text []byte) error {
	v, err := ParseTaxYear(string(text))
	if err != nil {
		return err
	}
	*y = v
	return nil
}
