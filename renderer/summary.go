package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/cgt"
)

// SummaryMarkdown renders the tax year summary of a calculation, followed by
// the disposals of the year.
func SummaryMarkdown(c *cgt.Calculation) string {
	var b strings.Builder
	s := c.Summary
	r := c.Report()
	yr := s.Year.Range()

	fmt.Fprintf(&b, "# UK Tax Summary %s\n\n", s.Year)
	fmt.Fprintf(&b, "From %s to %s.\n\n", yr.From, yr.To)

	cg := s.CapitalGains
	fmt.Fprint(&b, "## Capital Gains\n\n")
	fmt.Fprintln(&b, "| | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	row(&b, "Disposals", cg.Disposals)
	row(&b, "Proceeds", cg.TotalProceeds)
	row(&b, "Allowable costs", cg.AllowableCosts)
	row(&b, "Gains", cg.TotalGains)
	row(&b, "Losses", cg.TotalLosses)
	row(&b, "Net gain", cg.NetGain.SignedString())
	row(&b, "Annual exemption", cg.AnnualExemption)
	row(&b, "Exemption used", cg.ExemptionUsed)
	row(&b, "**Taxable gain**", "**"+pounds(r.CapitalGains.TaxableGain)+"**")
	fmt.Fprintln(&b)
	if cg.PartialCount > 0 {
		fmt.Fprintf(&b, "> %d disposal(s) could not be fully matched against acquisitions, only the matched part is included.\n\n", cg.PartialCount)
	}

	ConditionalBlock(&b, func(w io.Writer) bool {
		d := s.Dividends
		fmt.Fprint(w, "## Dividends\n\n")
		fmt.Fprintln(w, "| | Amount |")
		fmt.Fprintln(w, "|:---|---:|")
		row(w, "Payments", d.Dividends)
		row(w, "Gross income", d.TotalGross)
		row(w, "Withholding tax", d.WithholdingTax)
		row(w, "Net income", d.TotalNet)
		row(w, "Dividend allowance", d.Allowance)
		row(w, "Allowance used", d.AllowanceUsed)
		row(w, "**Taxable income**", "**"+pounds(r.DividendIncome.TaxableIncome)+"**")
		fmt.Fprintln(w)
		return d.Dividends > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		cur := s.CurrencyGains
		fmt.Fprint(w, "## Currency Gains\n\n")
		fmt.Fprintln(w, "| | Amount |")
		fmt.Fprintln(w, "|:---|---:|")
		row(w, "Disposals", cur.Disposals)
		row(w, "Gains", cur.TotalGains)
		row(w, "Losses", cur.TotalLosses)
		row(w, "Net gain", cur.NetGainLoss.SignedString())
		row(w, "**Taxable amount**", "**"+pounds(r.CurrencyGains.TaxableAmount)+"**")
		fmt.Fprintln(w)
		return cur.Disposals > 0
	})

	tax := r.Summary.EstimatedTaxLiability
	fmt.Fprint(&b, "## Estimated Tax\n\n")
	fmt.Fprintln(&b, "| | Rate | Amount |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	fmt.Fprintf(&b, "| Capital gains tax | %s%% | %s |\n", s.Allowance.CapitalGainsRate.Shift(2), pounds(tax.CapitalGainsTax))
	fmt.Fprintf(&b, "| Dividend tax | %s%% | %s |\n", s.Allowance.DividendRate.Shift(2), pounds(tax.DividendTax))
	fmt.Fprintf(&b, "| Currency gains tax | %s%% | %s |\n", s.Allowance.CapitalGainsRate.Shift(2), pounds(tax.CurrencyGainsTax))
	fmt.Fprintf(&b, "| **Total** | | **%s** |\n\n", pounds(tax.TotalEstimatedTax))
	fmt.Fprintln(&b, "Rates are the basic rate band ones, the actual liability depends on your income.")
	fmt.Fprintln(&b)

	if s.RequiresReturn() {
		fmt.Fprint(&b, "**This tax year must be declared on a Self Assessment return.**\n\n")
	} else {
		fmt.Fprint(&b, "Nothing to declare for this tax year.\n\n")
	}

	b.WriteString(DisposalsMarkdown("Disposals", c.YearDisposals(), false))
	return b.String()
}
