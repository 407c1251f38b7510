package cgt

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Allowance holds the per tax year constants of the calculation.
type Allowance struct {
	// AnnualExemption is the tax free amount of net capital gains.
	AnnualExemption Money
	// DividendAllowance is the tax free amount of dividend income.
	DividendAllowance Money
	// CapitalGainsRate and DividendRate estimate the liability, basic rate
	// band only.
	CapitalGainsRate decimal.Decimal
	DividendRate     decimal.Decimal
}

// AllowanceTable maps tax years to their allowances.
type AllowanceTable map[TaxYear]Allowance

func allowance(exemption, dividend int64, cgRate, divRate string) Allowance {
	return Allowance{
		AnnualExemption:   GBP(exemption),
		DividendAllowance: GBP(dividend),
		CapitalGainsRate:  decimal.RequireFromString(cgRate),
		DividendRate:      decimal.RequireFromString(divRate),
	}
}

// DefaultAllowances returns the HMRC figures from 2016-2017 to 2025-2026.
func DefaultAllowances() AllowanceTable {
	return AllowanceTable{
		{Start: 2016}: allowance(11100, 5000, "0.10", "0.075"),
		{Start: 2017}: allowance(11300, 5000, "0.10", "0.075"),
		{Start: 2018}: allowance(11700, 2000, "0.10", "0.075"),
		{Start: 2019}: allowance(12000, 2000, "0.10", "0.075"),
		{Start: 2020}: allowance(12300, 2000, "0.10", "0.075"),
		{Start: 2021}: allowance(12300, 2000, "0.10", "0.075"),
		{Start: 2022}: allowance(12300, 2000, "0.10", "0.0875"),
		{Start: 2023}: allowance(6000, 1000, "0.10", "0.0875"),
		{Start: 2024}: allowance(3000, 500, "0.18", "0.0875"),
		{Start: 2025}: allowance(3000, 500, "0.18", "0.0875"),
	}
}

// Lookup returns the allowances of year, or ErrInvalidTaxYear when the table
// does not cover it.
func (t AllowanceTable) Lookup(year TaxYear) (Allowance, error) {
	a, ok := t[year]
	if !ok {
		return Allowance{}, fmt.Errorf("%w: %s is not supported", ErrInvalidTaxYear, year)
	}
	return a, nil
}

// Years returns the covered tax years, oldest first.
func (t AllowanceTable) Years() []TaxYear {
	return slices.SortedFunc(maps.Keys(t), func(a, b TaxYear) int { return a.Start - b.Start })
}

// allowanceCmd is the JSONL representation of an allowance.
type allowanceCmd struct {
	Year              TaxYear         `json:"year"`
	AnnualExemption   decimal.Decimal `json:"annualExemption"`
	DividendAllowance decimal.Decimal `json:"dividendAllowance"`
	CapitalGainsRate  decimal.Decimal `json:"capitalGainsRate"`
	DividendRate      decimal.Decimal `json:"dividendRate"`
}

// DecodeAllowances reads one allowance per JSONL line from r and merges them
// over base, a nil base starts from an empty table.
func DecodeAllowances(r io.Reader, base AllowanceTable) (AllowanceTable, error) {
	table := maps.Clone(base)
	if table == nil {
		table = make(AllowanceTable)
	}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var cmd allowanceCmd
		if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		if cmd.Year.Start == 0 {
			return nil, &ParseError{Line: line, Err: validationErrorf("missing year")}
		}
		if cmd.AnnualExemption.IsNegative() || cmd.DividendAllowance.IsNegative() ||
			cmd.CapitalGainsRate.IsNegative() || cmd.DividendRate.IsNegative() {
			return nil, &ParseError{Line: line, Err: validationErrorf("allowances of %s must not be negative", cmd.Year)}
		}
		table[cmd.Year] = Allowance{
			AnnualExemption:   GBP(cmd.AnnualExemption),
			DividendAllowance: GBP(cmd.DividendAllowance),
			CapitalGainsRate:  cmd.CapitalGainsRate,
			DividendRate:      cmd.DividendRate,
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading allowances: %w", err)
	}
	return table, nil
}
