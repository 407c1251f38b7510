package cgt

import (
	"errors"
	"testing"

	"github.com/etnz/cgt/date"
)

func TestParseTaxYear(t *testing.T) {
	tests := []struct {
		label   string
		want    int
		wantErr bool
	}{
		{"2024-2025", 2024, false},
		{"1999-2000", 1999, false},
		{"2024-2026", 0, true},
		{"2025-2024", 0, true},
		{"2024/2025", 0, true},
		{"24-25", 0, true},
		{"2024-25", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseTaxYear(tt.label)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTaxYear(%q) error = %v, wantErr %v", tt.label, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidTaxYear) {
					t.Errorf("ParseTaxYear(%q) error = %v, want %v", tt.label, err, ErrInvalidTaxYear)
				}
				return
			}
			if got.Start != tt.want || got.String() != tt.label {
				t.Errorf("ParseTaxYear(%q) = %v, want start %d", tt.label, got, tt.want)
			}
		})
	}
}

func TestTaxYear_Boundaries(t *testing.T) {
	y := MustParseTaxYear("2024-2025")
	r := y.Range()
	if r.From.String() != "2024-04-06" || r.To.String() != "2025-04-05" {
		t.Errorf("Range() = %v, want 2024-04-06..2025-04-05", r)
	}

	tests := []struct {
		at   string
		want string
	}{
		{"2024-04-06 00:00:00", "2024-2025"},
		{"2024-04-05 23:59:59", "2023-2024"},
		{"2025-04-05 23:59:59", "2024-2025"},
		{"2025-04-06 00:00:00", "2025-2026"},
		{"2025-01-01 12:00:00", "2024-2025"},
	}
	for _, tt := range tests {
		instant := at(tt.at)
		if got := TaxYearOf(date.Of(instant)).String(); got != tt.want {
			t.Errorf("TaxYearOf(%s) = %s, want %s", tt.at, got, tt.want)
		}
		if in := y.ContainsTime(instant); in != (tt.want == "2024-2025") {
			t.Errorf("%v.ContainsTime(%s) = %v", y, tt.at, in)
		}
	}
}

func TestAllowanceTable_Lookup(t *testing.T) {
	table := DefaultAllowances()
	a, err := table.Lookup(MustParseTaxYear("2024-2025"))
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	assertMoney(t, "AnnualExemption", a.AnnualExemption, 3000)
	assertMoney(t, "DividendAllowance", a.DividendAllowance, 500)

	if _, err := table.Lookup(MustParseTaxYear("1990-1991")); !errors.Is(err, ErrInvalidTaxYear) {
		t.Errorf("Lookup(1990-1991) error = %v, want %v", err, ErrInvalidTaxYear)
	}
	years := table.Years()
	if years[0].String() != "2016-2017" || years[len(years)-1].String() != "2025-2026" {
		t.Errorf("Years() = %v, want 2016-2017 to 2025-2026", years)
	}
}
