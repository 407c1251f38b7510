package cmd

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/glamour"
)

// renderMarkdown renders md for the terminal, md is returned as is if it
// cannot be rendered.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		slog.Warn("cannot create markdown renderer", "error", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		slog.Warn("cannot render markdown", "error", err)
		return md
	}
	return out
}

func printMarkdown(md string) { fmt.Print(renderMarkdown(md)) }
