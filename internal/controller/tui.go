package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

// pagerChrome is the number of lines the pager reserves for its header and footer.
const pagerChrome = 3

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
	// size reports the terminal dimensions; ok is false when unknown.
	size func() (width, height int, ok bool)
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output, size: terminalSize(output)}
}

func terminalSize(output io.Writer) func() (int, int, bool) {
	return func() (int, int, bool) {
		f, ok := output.(*os.File)
		if !ok {
			return 0, 0, false
		}

		width, height, err := term.GetSize(int(f.Fd()))
		if err != nil {
			return 0, 0, false
		}

		return width, height, true
	}
}

// DisplayReports renders the report table, paging it when it is taller than
// the terminal.
func (p *TUI) DisplayReports(ctx context.Context, reports []m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return p.page(ctx, "snipcheck report", renderTable(reports))
}

// DisplayExplanation shows the checked source diff for a snippet.
func (p *TUI) DisplayExplanation(ctx context.Context, source string, unit m.SourceUnit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := renderExplanation(source, unit)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(p.output, out)

	return err
}

// DisplayWatchEvent notes the files that triggered a re-validation.
func (p *TUI) DisplayWatchEvent(ctx context.Context, changed []m.Path, invalidated bool) {
	if err := ctx.Err(); err != nil {
		return
	}

	names := make([]string, 0, len(changed))
	for _, path := range changed {
		names = append(names, string(path))
	}

	line := "changed: " + strings.Join(names, ", ")
	if invalidated {
		line += " (declaration cache invalidated)"
	}

	_, _ = fmt.Fprintln(p.output, mutedStyle.Render(line))
}

func (p *TUI) page(ctx context.Context, title, content string) error {
	model := newPagerModel(title, content)

	if width, height, ok := p.size(); ok {
		model = model.resize(width, height)
	}

	// If content is short, just print and exit
	if !model.needsPagination() {
		_, err := fmt.Fprint(p.output, content)
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(p.output), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// pagerModel is the Bubble Tea model that scrolls a long report.
type pagerModel struct {
	title    string
	content  string
	lines    int
	viewport viewport.Model
	ready    bool
	quitting bool
}

func newPagerModel(title, content string) pagerModel {
	return pagerModel{
		title:   title,
		content: content,
		lines:   strings.Count(content, "\n"),
	}
}

func (pm pagerModel) resize(width, height int) pagerModel {
	viewportHeight := height - pagerChrome
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !pm.ready {
		pm.viewport = viewport.New(width, viewportHeight)
		pm.viewport.SetContent(pm.content)
		pm.ready = true

		return pm
	}

	pm.viewport.Width = width
	pm.viewport.Height = viewportHeight

	return pm
}

// needsPagination returns true if the content is too tall for the screen.
func (pm pagerModel) needsPagination() bool {
	return pm.ready && pm.lines > pm.viewport.Height
}

func (pm pagerModel) Init() tea.Cmd {
	return nil
}

func (pm pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return pm.resize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			pm.quitting = true
			return pm, tea.Quit
		case "g", "home":
			pm.viewport.GotoTop()
			return pm, nil
		case "G", "end":
			pm.viewport.GotoBottom()
			return pm, nil
		}
	}

	var cmd tea.Cmd

	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

func (pm pagerModel) View() string {
	if pm.quitting {
		return ""
	}

	if !pm.ready {
		return pm.content
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(pm.title) + "\n")
	b.WriteString(pm.viewport.View() + "\n")
	fmt.Fprintf(&b, "%s", mutedStyle.Render(fmt.Sprintf("%3.f%% | ↑/k ↓/j scroll | g/G top/bottom | q quit", pm.viewport.ScrollPercent()*100)))

	return b.String()
}
