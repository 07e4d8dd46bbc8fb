// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/datbuild/internal/dat"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCatalog outputs a human-readable summary of a built catalog.
func (p *Printer) PrintCatalog(res *dat.Result) {
	if res == nil || res.Datafile == nil {
		return
	}
	doc := res.Datafile

	var sb strings.Builder
	if h := doc.Header; h != nil {
		sb.WriteString(fmt.Sprintf("Name:     %s\n", h.Name))
		sb.WriteString(fmt.Sprintf("Version:  %s\n", h.Version))
		sb.WriteString(fmt.Sprintf("Author:   %s\n", h.Author))
	}
	if res.OutFile != "" {
		sb.WriteString(fmt.Sprintf("Output:   %s\n", res.OutFile))
	}
	sb.WriteString(fmt.Sprintf("Sources:  %d matched\n", res.Matched))
	sb.WriteString(fmt.Sprintf("Games:    %d (%d roms)\n", res.Titles, res.Roms))

	if len(doc.Games) > 0 {
		sb.WriteString("\n")
		count := min(len(doc.Games), maxItemsToShow)
		for i := 0; i < count; i++ {
			g := doc.Games[i]
			sb.WriteString(fmt.Sprintf("  • %s (%d roms)\n", g.UID, len(g.Roms)))
		}
		if len(doc.Games) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.Games)-maxItemsToShow))
		}
	}

	p.printBox("CATALOG", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFailure outputs the error that stopped a catalog build or check.
func (p *Printer) PrintFailure(name string, err error) {
	if err == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Catalog:  %s\n\n", name))

	var parseErr *dat.ParseError
	if errors.As(err, &parseErr) {
		if parseErr.File != "" {
			sb.WriteString(fmt.Sprintf("File:     %s\n", filepath.Base(parseErr.File)))
		}
		sb.WriteString(fmt.Sprintf("⚠ %s\n", parseErr.Message))
	} else {
		for _, line := range strings.Split(err.Error(), "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(fmt.Sprintf("⚠ %s\n", line))
		}
	}

	p.printBox("CATALOG FAILED", strings.TrimSuffix(sb.String(), "\n"))
}
