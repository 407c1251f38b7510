package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/cgt"
	"github.com/etnz/cgt/date"
	"github.com/etnz/cgt/renderer"
	"github.com/google/subcommands"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	year    string
	format  string
	output  string
	query   string
	partial bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "compute the tax summary of a tax year" }
func (*reportCmd) Usage() string {
	return `ukcgt report [-y <tax year>] [-format <format>] [-o <file>] [-q <jsonpath>] [-partial]

  Computes the capital gains, dividends and currency gains of a tax year,
  the allowances used and the estimated tax.

  -q prints a single figure of the json report, for instance
  '$.summary.total_taxable_income'.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.year, "y", cgt.TaxYearOf(date.Today()).String(), "Tax year, like 2024-2025.")
	f.StringVar(&c.format, "format", "markdown", "Output format: markdown, html, json or csv.")
	f.StringVar(&c.output, "o", "", "Output file, standard output by default.")
	f.StringVar(&c.query, "q", "", "JSONPath query on the json report.")
	f.BoolVar(&c.partial, "partial", false, "Report partially matched sells instead of failing.")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	year, err := cgt.ParseTaxYear(c.year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing tax year: %v\n", err)
		return subcommands.ExitUsageError
	}
	format, err := renderer.ParseFormat(c.format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	calc, err := calculate(year, c.partial)
	if err != nil {
		return exitStatus(err)
	}

	if c.query != "" {
		v, err := queryReport(calc.Report(), c.query)
		if err != nil {
			return exitStatus(err)
		}
		fmt.Println(v)
		return subcommands.ExitSuccess
	}

	if format == renderer.Markdown && c.output == "" {
		printMarkdown(renderer.SummaryMarkdown(calc))
		return subcommands.ExitSuccess
	}
	g, err := renderer.NewGenerator(format)
	if err != nil {
		return exitStatus(err)
	}
	return exitStatus(writeOutput(c.output, func(w io.Writer) error { return g.Generate(w, calc) }))
}

// calculate runs the calculation of year on the configured ledger.
func calculate(year cgt.TaxYear, partial bool) (*cgt.Calculation, error) {
	txs, err := DecodeLedger()
	if err != nil {
		return nil, err
	}
	table, err := DecodeAllowances()
	if err != nil {
		return nil, err
	}
	var opts []cgt.MatchOption
	if partial {
		opts = append(opts, cgt.WithPartialMatches())
	}
	return cgt.Calculate(txs, year, table, opts...)
}

// queryReport evaluates a JSONPath expression on the json form of r.
func queryReport(r cgt.TaxCalculationReport, path string) (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	var obj any
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", err
	}
	v, err := jsonpath.Get(path, obj)
	if err != nil {
		return "", fmt.Errorf("error evaluating %q: %w", path, err)
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// writeOutput calls write on the file named output, or on stdout when empty.
// The file is only created when write succeeds.
func writeOutput(output string, write func(io.Writer) error) error {
	if output == "" {
		return write(os.Stdout)
	}
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing %q: %w", output, err)
	}
	fmt.Fprintf(os.Stderr, "Report written to %s\n", output)
	return nil
}
