package cgt

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeAllowances(t *testing.T) {
	jsonl := `
{"year":"2026-2027","annualExemption":3000,"dividendAllowance":500,"capitalGainsRate":0.18,"dividendRate":0.1075}
{"year":"2024-2025","annualExemption":3500,"dividendAllowance":500,"capitalGainsRate":0.18,"dividendRate":0.0875}
`
	table, err := DecodeAllowances(strings.NewReader(jsonl), DefaultAllowances())
	if err != nil {
		t.Fatalf("DecodeAllowances() error = %v", err)
	}
	a, err := table.Lookup(MustParseTaxYear("2026-2027"))
	if err != nil {
		t.Fatalf("Lookup(2026-2027) error = %v", err)
	}
	if !a.DividendRate.Equal(newDecimal(0.1075)) {
		t.Errorf("DividendRate = %s, want 0.1075", a.DividendRate)
	}
	a, _ = table.Lookup(MustParseTaxYear("2024-2025"))
	assertMoney(t, "overridden AnnualExemption", a.AnnualExemption, 3500)
	// the defaults are not modified
	a, _ = DefaultAllowances().Lookup(MustParseTaxYear("2024-2025"))
	assertMoney(t, "default AnnualExemption", a.AnnualExemption, 3000)
}

func TestDecodeAllowances_Errors(t *testing.T) {
	tests := []struct {
		name  string
		jsonl string
		want  error
	}{
		{"bad year", `{"year":"2024-2026","annualExemption":3000}`, ErrInvalidTaxYear},
		{"negative", `{"year":"2024-2025","annualExemption":-1}`, ErrValidation},
		{"missing year", `{"annualExemption":3000}`, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAllowances(strings.NewReader(tt.jsonl), nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("DecodeAllowances() error = %v, want %v", err, tt.want)
			}
			var pe *ParseError
			if !errors.As(err, &pe) || pe.Line != 1 {
				t.Errorf("DecodeAllowances() error = %v, want a *ParseError on line 1", err)
			}
		})
	}
}
