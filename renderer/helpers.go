package renderer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/etnz/cgt"
	"github.com/shopspring/decimal"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// pounds formats an amount of the flat report.
func pounds(d decimal.Decimal) string { return cgt.GBP(d).String() }

// row prints a two columns table row.
func row(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "| %s | %v |\n", label, value)
}
