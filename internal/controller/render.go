package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"
	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

var (
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

const noDiagnostic = "-"

// renderTable lays out one row per diagnostic, and one row for each snippet
// that produced none, followed by a summary line.
func renderTable(reports []m.Report) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Source", "Position", "Severity", "Code", "Message"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})

	for _, report := range reports {
		if len(report.Diagnostics) == 0 {
			table.Append([]string{report.Source, noDiagnostic, passStyle.Render("ok"), noDiagnostic, mutedStyle.Render(prependNote(report))})
			continue
		}

		for _, d := range report.Diagnostics {
			table.Append([]string{
				report.Source,
				fmt.Sprintf("%d:%d", d.Line, d.Column),
				styleSeverity(d.Severity),
				formatCode(d.Code),
				d.Message,
			})
		}
	}

	table.Render()

	return tableBuffer.String() + "\n" + renderSummary(m.Summarize(reports)) + "\n"
}

func renderSummary(s m.Summary) string {
	status := passStyle.Render("PASS")
	if !s.OK() {
		status = failStyle.Render("FAIL")
	}

	return fmt.Sprintf("%s %d snippet(s): %d passed, %d failed, %d error(s), %d warning(s)",
		status, s.Snippets, s.Passed, s.Failed, s.Errors, s.Warnings)
}

func styleSeverity(severity m.Severity) string {
	if severity == m.SeverityWarning {
		return warningStyle.Render(string(severity))
	}

	return failStyle.Render(string(severity))
}

func formatCode(code int) string {
	if code == m.CodeSyntaxError {
		return "syntax"
	}

	if code == 0 {
		return noDiagnostic
	}

	return fmt.Sprintf("%d", code)
}

func prependNote(report m.Report) string {
	if report.ImportsPrepended {
		return "library imported automatically"
	}

	return ""
}

type reportDocument struct {
	Reports []m.Report `json:"reports" yaml:"reports"`
	Summary m.Summary  `json:"summary" yaml:"summary"`
}

func newReportDocument(reports []m.Report) reportDocument {
	if reports == nil {
		reports = []m.Report{}
	}

	return reportDocument{Reports: reports, Summary: m.Summarize(reports)}
}

func renderJSON(reports []m.Report) (string, error) {
	out, err := json.MarshalIndent(newReportDocument(reports), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode reports: %w", err)
	}

	return string(out) + "\n", nil
}

func renderYAML(reports []m.Report) (string, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(newReportDocument(reports)); err != nil {
		return "", fmt.Errorf("encode reports: %w", err)
	}

	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode reports: %w", err)
	}

	return buf.String(), nil
}

func renderReports(format Format, reports []m.Report) (string, error) {
	switch format {
	case FormatJSON:
		return renderJSON(reports)
	case FormatYAML:
		return renderYAML(reports)
	default:
		return renderTable(reports), nil
	}
}

// renderExplanation shows the text the type checker saw as a unified diff
// against the caller's snippet.
func renderExplanation(source string, unit m.SourceUnit) (string, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(unit.RawText),
		B:        difflib.SplitLines(unit.EffectiveText),
		FromFile: source,
		ToFile:   source + " (checked)",
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", source, err)
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Checked source for "+source) + "\n")

	if diff == "" {
		b.WriteString(mutedStyle.Render("no generated text") + "\n")
		return b.String(), nil
	}

	b.WriteString(diff)
	fmt.Fprintf(&b, "%s\n", mutedStyle.Render(fmt.Sprintf("%d generated line(s) ahead of the snippet", unit.PrefixLineCount)))

	return b.String(), nil
}
