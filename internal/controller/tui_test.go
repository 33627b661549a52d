package controller

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

func TestTUI_DisplayReports_ShortReportPrints(t *testing.T) {
	var buf bytes.Buffer

	tui := NewTUI(&buf)
	tui.size = func() (int, int, bool) { return 120, 80, true }

	require.NoError(t, tui.DisplayReports(context.Background(), sampleReports()))
	assert.Contains(t, buf.String(), "bad.go")
	assert.Contains(t, buf.String(), "FAIL")
}

func TestTUI_DisplayReports_UnknownSizePrints(t *testing.T) {
	var buf bytes.Buffer

	tui := NewTUI(&buf)

	require.NoError(t, tui.DisplayReports(context.Background(), sampleReports()))
	assert.Contains(t, buf.String(), "ok.go")
}

func TestTUI_DisplayExplanation(t *testing.T) {
	var buf bytes.Buffer

	tui := NewTUI(&buf)
	unit := m.NewSourceUnit("var x = 1", m.Insertion{Offset: 0, Text: "package snippet\n"})

	require.NoError(t, tui.DisplayExplanation(context.Background(), "a.go", unit))
	assert.Contains(t, buf.String(), "+package snippet")
}

func TestTUI_DisplayWatchEvent(t *testing.T) {
	var buf bytes.Buffer

	NewTUI(&buf).DisplayWatchEvent(context.Background(), []m.Path{"a.go"}, false)
	assert.Contains(t, buf.String(), "changed: a.go")
	assert.NotContains(t, buf.String(), "invalidated")
}

func longContent(lines int) string {
	var b strings.Builder
	for i := 0; i < lines; i++ {
		b.WriteString("line\n")
	}

	return b.String()
}

func TestPagerModel_NeedsPagination(t *testing.T) {
	short := newPagerModel("t", longContent(5)).resize(80, 24)
	assert.False(t, short.needsPagination())

	long := newPagerModel("t", longContent(100)).resize(80, 24)
	assert.True(t, long.needsPagination())

	unsized := newPagerModel("t", longContent(100))
	assert.False(t, unsized.needsPagination())
}

func TestPagerModel_Update(t *testing.T) {
	model := newPagerModel("report", longContent(100)).resize(80, 10)

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	assert.Nil(t, cmd)

	pm, ok := updated.(pagerModel)
	require.True(t, ok)
	assert.True(t, pm.viewport.AtBottom())

	updated, _ = pm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	pm = updated.(pagerModel)
	assert.True(t, pm.viewport.AtTop())

	updated, _ = pm.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	pm = updated.(pagerModel)
	assert.Equal(t, 100, pm.viewport.Width)
	assert.Equal(t, 40-pagerChrome, pm.viewport.Height)

	updated, cmd = pm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	pm = updated.(pagerModel)
	assert.NotNil(t, cmd)
	assert.True(t, pm.quitting)
	assert.Empty(t, pm.View())
}

func TestPagerModel_View(t *testing.T) {
	pm := newPagerModel("report", longContent(50)).resize(80, 10)

	view := pm.View()
	assert.Contains(t, view, "report")
	assert.Contains(t, view, "q quit")
}
