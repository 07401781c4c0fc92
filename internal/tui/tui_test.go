package tui

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstar-studios/auto-exporter/internal/exporter"
	"github.com/wildstar-studios/auto-exporter/internal/models"
	"github.com/wildstar-studios/auto-exporter/internal/operator"
	"github.com/wildstar-studios/auto-exporter/internal/tracker"
	"github.com/wildstar-studios/auto-exporter/internal/validate"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m ConfirmModel, msgs ...tea.Msg) (ConfirmModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(ConfirmModel)
	}
	return m, cmd
}

func TestConfirm_Yes(t *testing.T) {
	m, cmd := press(NewConfirm("Delete?", []string{"a.fbx"}), runes("y"))
	assert.True(t, m.Confirmed())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestConfirm_Enter(t *testing.T) {
	m, _ := press(NewConfirm("Delete?", nil), tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.Confirmed())
}

func TestConfirm_Cancel(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runes("n"), runes("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		m, cmd := press(NewConfirm("Delete?", nil), msg)
		assert.False(t, m.Confirmed(), msg.String())
		assert.NotNil(t, cmd, msg.String())
	}
}

func TestConfirm_IgnoresOtherKeys(t *testing.T) {
	m, cmd := press(NewConfirm("Delete?", nil), runes("x"), tea.WindowSizeMsg{Width: 80})
	assert.False(t, m.Confirmed())
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Delete?")
}

func TestConfirm_Toggle(t *testing.T) {
	m := NewConfirm("Clean?", nil).WithToggle("remove empty folders", "e", false)
	assert.Contains(t, m.View(), "[ ] remove empty folders")

	m, _ = press(m, runes("e"))
	assert.True(t, m.ToggleOn())
	assert.Contains(t, m.View(), "[×] remove empty folders")

	m, _ = press(m, runes("e"), runes("e"), runes("y"))
	assert.True(t, m.ToggleOn())
	assert.True(t, m.Confirmed())
	assert.Empty(t, m.View())
}

func TestConfirm_TruncatesLongLists(t *testing.T) {
	items := make([]string, maxListed+5)
	for i := range items {
		items[i] = fmt.Sprintf("file%02d.fbx", i)
	}
	view := NewConfirm("Clean?", items).View()
	assert.Contains(t, view, "file00.fbx")
	assert.NotContains(t, view, fmt.Sprintf("file%02d.fbx", maxListed))
	assert.Contains(t, view, "and 5 more")
}

func TestRunConfirm(t *testing.T) {
	var out bytes.Buffer
	m, err := RunConfirm(NewConfirm("Delete?", []string{"a"}), strings.NewReader("y"), &out)
	require.NoError(t, err)
	assert.True(t, m.Confirmed())
}

func TestRenderIssues(t *testing.T) {
	ok := &validate.Report{}
	assert.Contains(t, RenderIssues(ok), ok.Summary())

	r := &validate.Report{
		Issues: []models.Issue{
			{Severity: models.SeverityWarning, Message: "Lamp: -sk without children"},
			{Severity: models.SeverityError, Message: "Sword: conflicting -dir"},
		},
		Errors:   1,
		Warnings: 1,
	}
	out := RenderIssues(r)
	assert.Less(t, strings.Index(out, "conflicting -dir"), strings.Index(out, "without children"))
}

func TestRenderSummary(t *testing.T) {
	s := &exporter.Summary{
		Succeeded: 1,
		Skipped:   1,
		Failed:    1,
		Results: []exporter.UnitResult{
			{Unit: "Sword", Path: "/out/Sword.fbx", Status: exporter.StatusExported},
			{Unit: "Empty", Status: exporter.StatusSkipped, Reason: "no entities"},
			{Unit: "Shield", Status: exporter.StatusFailed, Reason: "backend exploded"},
		},
		Warnings:    []string{"format OBJ does not support animation"},
		TrackingErr: "disk full",
	}
	out := RenderSummary(s)
	assert.Contains(t, out, s.String())
	assert.Contains(t, out, "/out/Sword.fbx")
	assert.Contains(t, out, "no entities")
	assert.Contains(t, out, "backend exploded")
	assert.Contains(t, out, "does not support animation")
	assert.Contains(t, out, "disk full")
}

func TestRenderOrphans(t *testing.T) {
	assert.Contains(t, RenderOrphans(nil), "No orphaned files")
	out := RenderOrphans([]string{"/out/old.fbx"})
	assert.Contains(t, out, "1 orphaned file(s)")
	assert.Contains(t, out, "/out/old.fbx")
}

func TestRenderCleanup(t *testing.T) {
	out := RenderCleanup(&tracker.CleanupReport{
		Deleted:     []string{"/out/old.fbx"},
		Failed:      []tracker.FileFailure{{Path: "/out/locked.fbx", Error: "permission denied"}},
		RemovedDirs: []string{"/out/Props"},
		Skipped:     []string{"/out/Shield.fbx"},
	})
	assert.Contains(t, out, "/out/Shield.fbx (no longer orphaned, kept)")
	assert.Contains(t, out, "Deleted 1 orphaned file(s)")
	assert.Contains(t, out, "/out/Props/")
	assert.Contains(t, out, "permission denied")
}

func TestRenderHighlight(t *testing.T) {
	out := RenderHighlight(&operator.HighlightResult{
		Entities: []string{"Sword", "Blade"},
		Units:    map[string][]string{"Sword": {"Sword", "Blade"}},
	})
	assert.Contains(t, out, "2 exportable")
	assert.Contains(t, out, "Sword, Blade")
}
