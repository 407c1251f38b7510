package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cgt"
	"github.com/etnz/cgt/date"
	"github.com/etnz/cgt/renderer"
	"github.com/google/subcommands"
)

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	date    string
	format  string
	partial bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the Section 104 holdings" }
func (*holdingsCmd) Usage() string {
	return `ukcgt holdings [-d <date>] [-format markdown|json] [-partial]

  Displays the Section 104 pools held at the end of a day: units, allowable
  cost and average cost per unit.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Date of the holdings, formatted YYYY-MM-DD.")
	f.StringVar(&c.format, "format", "markdown", "Output format: markdown or json.")
	f.BoolVar(&c.partial, "partial", false, "Ignore the unmatched part of sells instead of failing.")
}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	format, err := renderer.ParseFormat(c.format)
	if err != nil || (format != renderer.Markdown && format != renderer.JSON) {
		fmt.Fprintf(os.Stderr, "Error: unsupported format %q, want markdown or json\n", c.format)
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
	pools, err := cgt.NewHoldings(txs, on, opts...)
	if err != nil {
		return exitStatus(err)
	}

	if format == renderer.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return exitStatus(enc.Encode(pools.Holdings()))
	}
	printMarkdown(renderer.HoldingsMarkdown(on, pools.Holdings()))
	return subcommands.ExitSuccess
}
