package renderer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/cgt"
)

// DisposalsMarkdown renders disposals as a table under a level 2 title. When
// detailed is set, every disposal is followed by the acquisitions it was
// matched with.
func DisposalsMarkdown(title string, disposals []cgt.Disposal, detailed bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	if len(disposals) == 0 {
		fmt.Fprint(&b, "No disposals.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Date | Security | Quantity | Rule | Proceeds | Allowable costs | Gain/Loss |")
	fmt.Fprintln(&b, "|:---|:---|---:|:---|---:|---:|---:|")
	total := cgt.GBP(0)
	for _, d := range disposals {
		quantity := d.Quantity.String()
		if d.Partial() {
			quantity += fmt.Sprintf(" (%s unmatched)", d.Unmatched)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			d.Date,
			d.Security.Symbol(),
			quantity,
			d.Rule,
			d.Proceeds,
			d.AllowableCosts(),
			d.GainOrLoss().SignedString(),
		)
		total = total.Add(d.GainOrLoss())
	}
	fmt.Fprintf(&b, "| **Total** | | | | | | **%s** |\n", total.SignedString())

	if !detailed {
		return b.String()
	}
	for _, d := range disposals {
		fmt.Fprintf(&b, "\n### %s %s on %s\n\n", d.Quantity, d.Security.Symbol(), d.Date)
		fmt.Fprintln(&b, "| Acquired | Quantity | Rule | Cost | Expenses |")
		fmt.Fprintln(&b, "|:---|---:|:---|---:|---:|")
		for _, f := range d.Fragments {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				f.Buy.Day(),
				f.Quantity,
				f.Rule,
				f.Cost().Round(),
				f.Expenses().Round(),
			)
		}
	}
	return b.String()
}

var disposalsHeader = []string{"date", "security", "symbol", "quantity", "unmatched", "rule", "proceeds", "cost_basis", "expenses", "gain"}

// DisposalsCSV writes disposals as CSV rows, amounts in pounds to the penny.
func DisposalsCSV(w io.Writer, disposals []cgt.Disposal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(disposalsHeader); err != nil {
		return err
	}
	for _, d := range disposals {
		record := []string{
			d.Date.String(),
			d.Security.Identifier(),
			d.Security.Symbol(),
			d.Quantity.String(),
			d.Unmatched.String(),
			string(d.Rule),
			d.Proceeds.Round().Decimal().StringFixed(2),
			d.CostBasis.Round().Decimal().StringFixed(2),
			d.Expenses.Round().Decimal().StringFixed(2),
			d.GainOrLoss().Round().Decimal().StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
