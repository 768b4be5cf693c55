// Package format provides utilities for rich terminal output formatting.
package format

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Colors used across agentmux output
var (
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Red    = color.New(color.FgRed)
	Cyan   = color.New(color.FgCyan)
	Bold   = color.New(color.Bold)
	Dim    = color.New(color.Faint)
)

// Out is where formatted summaries are written. Tests redirect it.
var Out io.Writer = os.Stdout

// Header prints a bold header line
func Header(format string, args ...interface{}) {
	Bold.Fprintf(Out, format+"\n", args...)
}

// Dimmed prints dimmed/muted text
func Dimmed(format string, args ...interface{}) {
	Dim.Fprintf(Out, format+"\n", args...)
}

// Item prints an indented list item
func Item(format string, args ...interface{}) {
	fmt.Fprintf(Out, "  "+format+"\n", args...)
}

// Success prints a green check line
func Success(format string, args ...interface{}) {
	Green.Fprintf(Out, "✓ "+format+"\n", args...)
}

// Truncate truncates a string to maxLen, adding "..." if truncated
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// Table provides a simple table formatter
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
}

// NewTable creates a new table with the given headers
func NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	return &Table{
		headers: headers,
		widths:  widths,
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	// Pad or truncate to match header count
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
		if len(row[i]) > t.widths[i] {
			t.widths[i] = len(row[i])
		}
	}
	t.rows = append(t.rows, row)
}

// String returns the formatted table as a string
func (t *Table) String() string {
	var sb strings.Builder

	// Header
	for i, h := range t.headers {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(fmt.Sprintf("%-*s", t.widths[i], h))
	}
	sb.WriteString("\n")

	// Separator
	for i, w := range t.widths {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(strings.Repeat("-", w))
	}
	sb.WriteString("\n")

	// Rows
	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(fmt.Sprintf("%-*s", t.widths[i], cell))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
