package cgt

import (
	"fmt"
	"log/slog"
)

// Calculation is the result of a calculation run for one tax year.
type Calculation struct {
	Year TaxYear
	// Disposals and CurrencyGains cover the whole history, the summary only
	// the tax year.
	Disposals     []Disposal
	CurrencyGains []CurrencyGain
	Summary       ComprehensiveTaxSummary
}

// YearDisposals returns the disposals made during the tax year.
func (c *Calculation) YearDisposals() []Disposal {
	var res []Disposal
	for _, d := range c.Disposals {
		if c.Year.Contains(d.Date) {
			res = append(res, d)
		}
	}
	return res
}

// YearCurrencyGains returns the currency gains realised during the tax year.
func (c *Calculation) YearCurrencyGains() []CurrencyGain {
	var res []CurrencyGain
	for _, g := range c.CurrencyGains {
		if c.Year.Contains(g.Date) {
			res = append(res, g)
		}
	}
	return res
}

// Report returns the flat report of the summary.
func (c *Calculation) Report() TaxCalculationReport { return GenerateTaxCalculationReport(c.Summary) }

// Calculate runs the whole pipeline over txs for year: matching, pricing of
// the disposals, currency exchanges and aggregation. Pools are created for
// the run and discarded, so repeated calls give identical results.
func Calculate(txs []Transaction, year TaxYear, table AllowanceTable, opts ...MatchOption) (*Calculation, error) {
	if _, err := table.Lookup(year); err != nil {
		return nil, err
	}
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("transaction #%d: %w", i+1, err)
		}
	}

	matches, err := MatchTransactions(txs, opts...)
	if err != nil {
		return nil, err
	}
	disposals, err := NewDisposals(matches)
	if err != nil {
		return nil, err
	}
	gains, err := ProcessCurrencyExchanges(txs, make(CurrencyPools), opts...)
	if err != nil {
		return nil, err
	}
	summary, err := NewComprehensiveTaxSummary(year, disposals, txs, gains, table)
	if err != nil {
		return nil, err
	}
	slog.Info("tax year calculated", "year", year, "transactions", len(txs), "disposals", summary.CapitalGains.Disposals,
		"net_gain", summary.CapitalGains.NetGain.Decimal(), "taxable", summary.TotalTaxableIncome.Decimal())
	return &Calculation{Year: year, Disposals: disposals, CurrencyGains: gains, Summary: summary}, nil
}
