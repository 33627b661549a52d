package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

// SimpleUI implements UI by writing to the command's output stream.
type SimpleUI struct {
	cmd    *cobra.Command
	format Format
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command, format Format) *SimpleUI {
	return &SimpleUI{cmd: cmd, format: format}
}

// DisplayReports prints every report in the configured format.
func (s *SimpleUI) DisplayReports(ctx context.Context, reports []m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := renderReports(s.format, reports)
	if err != nil {
		return err
	}

	s.printf("%s", out)

	return nil
}

// DisplayExplanation prints the generated text spliced into a snippet.
// Structured formats keep stdout machine-readable, so it goes to stderr.
func (s *SimpleUI) DisplayExplanation(ctx context.Context, source string, unit m.SourceUnit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := renderExplanation(source, unit)
	if err != nil {
		return err
	}

	if s.format == FormatTable {
		s.printf("%s\n", out)
		return nil
	}

	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), "%s\n", out)

	return nil
}

// DisplayWatchEvent notes the files that triggered a re-validation.
func (s *SimpleUI) DisplayWatchEvent(ctx context.Context, changed []m.Path, invalidated bool) {
	if err := ctx.Err(); err != nil {
		return
	}

	names := make([]string, 0, len(changed))
	for _, p := range changed {
		names = append(names, string(p))
	}

	suffix := ""
	if invalidated {
		suffix = " (declaration cache invalidated)"
	}

	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), "%s\n", mutedStyle.Render("changed: "+strings.Join(names, ", ")+suffix))
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
