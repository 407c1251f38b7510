// Package renderer turns calculation results into Markdown, HTML, JSON and
// CSV documents.
package renderer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/etnz/cgt"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Format names an output format.
type Format string

const (
	Markdown Format = "markdown"
	HTML     Format = "html"
	JSON     Format = "json"
	CSV      Format = "csv"
)

// Formats lists the supported formats.
var Formats = []Format{Markdown, HTML, JSON, CSV}

// ParseFormat parses a format name, "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Markdown, "md", "":
		return Markdown, nil
	case HTML, JSON, CSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q, want one of markdown, html, json, csv", s)
}

// Generator writes a calculation report.
type Generator interface {
	Generate(w io.Writer, c *cgt.Calculation) error
}

// NewGenerator returns the generator of a format.
func NewGenerator(f Format) (Generator, error) {
	switch f {
	case Markdown:
		return markdownGenerator{}, nil
	case HTML:
		return htmlGenerator{}, nil
	case JSON:
		return jsonGenerator{}, nil
	case CSV:
		return csvGenerator{}, nil
	}
	return nil, fmt.Errorf("no generator for format %q", f)
}

type markdownGenerator struct{}

func (markdownGenerator) Generate(w io.Writer, c *cgt.Calculation) error {
	_, err := io.WriteString(w, SummaryMarkdown(c))
	return err
}

type htmlGenerator struct{}

func (htmlGenerator) Generate(w io.Writer, c *cgt.Calculation) error {
	return ToHTML(w, "UK Tax Summary "+c.Year.String(), SummaryMarkdown(c))
}

// jsonGenerator writes the flat report.
type jsonGenerator struct{}

func (jsonGenerator) Generate(w io.Writer, c *cgt.Calculation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c.Report())
}

// csvGenerator writes the disposals of the tax year.
type csvGenerator struct{}

func (csvGenerator) Generate(w io.Writer, c *cgt.Calculation) error {
	return DisposalsCSV(w, c.YearDisposals())
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ToHTML converts a markdown document into a standalone HTML page.
func ToHTML(w io.Writer, title, markdown string) error {
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return fmt.Errorf("converting markdown to html: %w", err)
	}
	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`, html.EscapeString(title), body.String())
	return err
}
