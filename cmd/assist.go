package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/cgt/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// AssistCmd is the subcommand for the AI assistant.
type AssistCmd struct{}

// Name returns the name of the command.
func (*AssistCmd) Name() string { return "assist" }

// Synopsis returns a short-one line synopsis of the command.
func (*AssistCmd) Synopsis() string { return "ask an AI accountant about your tax years" }

// Usage returns a long-form usage string.
func (*AssistCmd) Usage() string {
	return `ukcgt assist [<question>]

  Start an interactive session with the AI assistant. It computes the
  figures of the ledger and explains them. Requires GEMINI_API_KEY.
`
}

// SetFlags sets the flags for the command.
func (*AssistCmd) SetFlags(_ *flag.FlagSet) {}

// Execute executes the command.
func (c *AssistCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	initialPrompt := strings.Join(f.Args(), " ")

	txs, err := DecodeLedger()
	if err != nil {
		return exitStatus(err)
	}
	table, err := DecodeAllowances()
	if err != nil {
		return exitStatus(err)
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	agent.Model = config.Model
	accountant := agent.NewAccountant(txs, table)
	researcher := agent.NewResearcher()
	a := agent.New(os.Stdout, os.Stdin, accountant, researcher)
	a.Print = func(w io.Writer, md string) { fmt.Fprint(w, renderMarkdown(md)) }

	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
