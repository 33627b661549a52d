// Package controller provides output adapters for displaying validation reports.
package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

// Format selects how reports are rendered.
type Format string

// Available Format values.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat converts a flag or config value into a Format.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", value)
	}
}

// UI defines the interface for displaying validation output.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	DisplayReports(ctx context.Context, reports []m.Report) error
	DisplayExplanation(ctx context.Context, source string, unit m.SourceUnit) error
	DisplayWatchEvent(ctx context.Context, changed []m.Path, invalidated bool)
}

// NewUI picks the interactive TUI for table output on a terminal and the
// plain writer otherwise.
func NewUI(cmd *cobra.Command, format Format, tty bool) UI {
	if tty && format == FormatTable {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd, format)
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
