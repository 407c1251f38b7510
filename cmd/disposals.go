package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cgt"
	"github.com/etnz/cgt/renderer"
	"github.com/google/subcommands"
)

// disposalsCmd holds the flags for the 'disposals' subcommand.
type disposalsCmd struct {
	year    string
	format  string
	details bool
	partial bool
}

func (*disposalsCmd) Name() string     { return "disposals" }
func (*disposalsCmd) Synopsis() string { return "list the matched disposals" }
func (*disposalsCmd) Usage() string {
	return `ukcgt disposals [-y <tax year>] [-details] [-format markdown|csv|json] [-partial]

  Lists the disposals of a tax year, or of the whole ledger when no tax year
  is given, with their matching rule, proceeds, costs and gain.
`
}

func (c *disposalsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.year, "y", "", "Tax year, like 2024-2025. All years by default.")
	f.StringVar(&c.format, "format", "markdown", "Output format: markdown, csv or json.")
	f.BoolVar(&c.details, "details", false, "Show the acquisitions matched by each disposal.")
	f.BoolVar(&c.partial, "partial", false, "Report partially matched sells instead of failing.")
}

func (c *disposalsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	title := "All Disposals"
	var year *cgt.TaxYear
	if c.year != "" {
		y, err := cgt.ParseTaxYear(c.year)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing tax year: %v\n", err)
			return subcommands.ExitUsageError
		}
		year, title = &y, "Disposals "+y.String()
	}
	format, err := renderer.ParseFormat(c.format)
	if err != nil || format == renderer.HTML {
		fmt.Fprintf(os.Stderr, "Error: unsupported format %q, want markdown, csv or json\n", c.format)
		return subcommands.ExitUsageError
	}

	txs, err := DecodeLedger()
	if err != nil {
		return exitStatus(err)
	}
	var opts []cgt.MatchOption
	if c.partial {
		opts = append(opts, cgt.WithPartialMatches())
	}
	matches, err := cgt.MatchTransactions(txs, opts...)
	if err != nil {
		return exitStatus(err)
	}
	disposals, err := cgt.NewDisposals(matches)
	if err != nil {
		return exitStatus(err)
	}
	if year != nil {
		disposals = filterDisposals(disposals, *year)
	}

	switch format {
	case renderer.CSV:
		return exitStatus(renderer.DisposalsCSV(os.Stdout, disposals))
	case renderer.JSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return exitStatus(enc.Encode(disposals))
	}
	printMarkdown(renderer.DisposalsMarkdown(title, disposals, c.details))
	return subcommands.ExitSuccess
}

func filterDisposals(disposals []cgt.Disposal, year cgt.TaxYear) []cgt.Disposal {
	var res []cgt.Disposal
	for _, d := range disposals {
		if year.Contains(d.Date) {
			res = append(res, d)
		}
	}
	return res
}

