// Package agent runs a chat session where a facilitator model answers the
// user's questions by consulting experts, each expert being a model with its
// own tools.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"google.golang.org/genai"
)

const prompt = "assist> "

// Agent is the AI assistant that handles the chat session.
type Agent struct {
	w           io.Writer
	in          *bufio.Scanner
	Facilitator *Expert
	Experts     []*Expert
	// Print writes a markdown answer, as is by default.
	Print func(w io.Writer, markdown string)
}

// New creates a new Agent writing to w and reading the user's questions from
// r, one per line. The chats are created on the first Run.
func New(w io.Writer, r io.Reader, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		in:          bufio.NewScanner(r),
		Experts:     experts,
		Facilitator: newFacilitator(experts...),
		Print:       func(w io.Writer, markdown string) { fmt.Fprintln(w, markdown) },
	}
}

// Start creates the chats of the experts and of the facilitator.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range slices.Concat(a.Experts, []*Expert{a.Facilitator}) {
		if err := e.Start(ctx, client); err != nil {
			return fmt.Errorf("cannot start %s: %w", e.Name, err)
		}
	}
	return nil
}

// quit reports whether the user ends the session with input.
func quit(input string) bool {
	switch strings.ToLower(input) {
	case "bye", "exit", "quit":
		return true
	}
	return false
}

// Run answers questions until the user quits or the input ends. The
// questions are asked first, as if typed by the user.
func (a *Agent) Run(ctx context.Context, client *genai.Client, questions ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}
	fmt.Fprintln(a.w, "Welcome to ukcgt assist, ask about your tax years. Type 'bye' to exit.")
	return a.loop(ctx, questions...)
}

// loop is the read, ask, print loop of Run.
func (a *Agent) loop(ctx context.Context, questions ...string) error {
	for turn := 1; ; turn++ {
		fmt.Fprint(a.w, prompt)
		var input string
		if len(questions) > 0 {
			input, questions = strings.TrimSpace(questions[0]), questions[1:]
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			if !a.in.Scan() {
				return a.in.Err() // nil on Ctrl+D
			}
			input = strings.TrimSpace(a.in.Text())
		}
		if input == "" {
			continue
		}
		if quit(input) {
			return nil
		}

		slog.Debug("assist question", "turn", turn, "question", input)
		answer, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		a.Print(a.w, answer)
	}
}
