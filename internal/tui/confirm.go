package tui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// maxListed caps the items shown in a confirmation prompt.
const maxListed = 15

// Toggle is an optional switch shown in a confirmation prompt.
type Toggle struct {
	Label string
	Key   string
	On    bool
}

// ConfirmModel is a yes/no prompt over a list of affected items.
type ConfirmModel struct {
	title     string
	items     []string
	toggle    *Toggle
	confirmed bool
	done      bool
}

// NewConfirm creates a prompt.
func NewConfirm(title string, items []string) ConfirmModel {
	return ConfirmModel{title: title, items: items}
}

// WithToggle adds a switch flipped by key.
func (m ConfirmModel) WithToggle(label, key string, on bool) ConfirmModel {
	m.toggle = &Toggle{Label: label, Key: key, On: on}
	return m
}

// Confirmed reports whether the user accepted.
func (m ConfirmModel) Confirmed() bool { return m.confirmed }

// ToggleOn reports the final state of the switch.
func (m ConfirmModel) ToggleOn() bool { return m.toggle != nil && m.toggle.On }

// Init initializes the model.
func (m ConfirmModel) Init() tea.Cmd { return nil }

// Update handles key presses.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y", "enter":
		m.confirmed, m.done = true, true
		return m, tea.Quit
	case "n", "N", "q", "esc", "ctrl+c":
		m.confirmed, m.done = false, true
		return m, tea.Quit
	}
	if m.toggle != nil && key.String() == m.toggle.Key {
		t := *m.toggle
		t.On = !t.On
		m.toggle = &t
	}
	return m, nil
}

// View renders the prompt.
func (m ConfirmModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	for i, it := range m.items {
		if i == maxListed {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ... and %d more", len(m.items)-maxListed)))
			b.WriteString("\n")
			break
		}
		b.WriteString(infoStyle.Render("  • " + it))
		b.WriteString("\n")
	}
	if m.toggle != nil {
		check := "[ ]"
		if m.toggle.On {
			check = "[×]"
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  %s %s (%s)\n", check, m.toggle.Label, m.toggle.Key))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("y/enter: confirm • n/esc: cancel"))
	b.WriteString("\n")
	return b.String()
}

// RunConfirm shows m on the given terminal streams and returns its final state.
func RunConfirm(m ConfirmModel, in io.Reader, out io.Writer) (ConfirmModel, error) {
	p := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return m, fmt.Errorf("confirm prompt: %w", err)
	}
	fm, ok := final.(ConfirmModel)
	if !ok {
		return m, fmt.Errorf("confirm prompt: unexpected model %T", final)
	}
	return fm, nil
}
