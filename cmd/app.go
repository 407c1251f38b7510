// Package cmd implements the ukcgt command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/cgt"
	"github.com/google/subcommands"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.
var config Config

// RegisterFlags loads the configuration and binds the global flags to it,
// flags take precedence over the environment.
func RegisterFlags(f *flag.FlagSet) {
	config = LoadConfig()
	bindFlags(f, &config)
}

func bindFlags(f *flag.FlagSet, c *Config) {
	f.StringVar(&c.Ledger, "ledger", c.Ledger, "Path to the ledger file (JSONL or CSV).")
	f.StringVar(&c.LedgerFormat, "ledger-format", c.LedgerFormat, "Format of the ledger file: jsonl or csv. Inferred from the file extension by default.")
	f.StringVar(&c.Allowances, "allowances", c.Allowances, "Path to a JSONL file of allowances overriding the built in table.")
	f.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn or error.")
	f.StringVar(&c.LogFile, "log-file", c.LogFile, "Path to the log file, standard error by default.")
}

// Commands lists the subcommands by group.
var Commands = map[string][]subcommands.Command{
	"tax":  {&reportCmd{}, &disposalsCmd{}, &holdingsCmd{}},
	"help": {&topicCmd{}, &AssistCmd{}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for group, cmds := range Commands {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
}

// DecodeLedger reads the transactions of the configured ledger file. Rows
// that cannot be read are all reported in the error.
func DecodeLedger() ([]cgt.Transaction, error) {
	format := config.LedgerFormat
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(config.Ledger), ".")
	}
	p, err := cgt.ParserFor(format)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(config.Ledger)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", config.Ledger, err)
	}
	defer f.Close()

	txs, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", config.Ledger, err)
	}
	return txs, nil
}

// DecodeAllowances returns the built in allowances, extended by the
// configured allowances file if any.
func DecodeAllowances() (cgt.AllowanceTable, error) {
	if config.Allowances == "" {
		return cgt.DefaultAllowances(), nil
	}
	f, err := os.Open(config.Allowances)
	if err != nil {
		return nil, fmt.Errorf("could not open allowances file %q: %w", config.Allowances, err)
	}
	defer f.Close()

	table, err := cgt.DecodeAllowances(f, cgt.DefaultAllowances())
	if err != nil {
		return nil, fmt.Errorf("could not decode allowances file %q: %w", config.Allowances, err)
	}
	return table, nil
}

// exitStatus reports err on stderr and maps it to an exit status.
func exitStatus(err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	if errors.Is(err, cgt.ErrInvalidTaxYear) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}
