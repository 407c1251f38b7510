package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/cgt"
	"github.com/etnz/cgt/date"
)

// HoldingsMarkdown renders the Section 104 pools held on a day.
func HoldingsMarkdown(on date.Date, holdings []cgt.Holding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Section 104 Holdings on %s\n\n", on)
	if len(holdings) == 0 {
		fmt.Fprint(&b, "No holdings.\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| Security | Quantity | Cost Basis | Average Cost |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	total := cgt.GBP(0)
	for _, h := range holdings {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", h.Security, h.Quantity, pounds(h.CostBasis), h.AverageCost)
		total = total.Add(cgt.GBP(h.CostBasis))
	}
	fmt.Fprintf(&b, "| **Total** | | **%s** | |\n", total)
	return b.String()
}
