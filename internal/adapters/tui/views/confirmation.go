package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"scanlog/internal/adapters/tui/styles"
	"scanlog/internal/application/commands"
)

// ConfirmKeyMap defines key bindings for confirmation views
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc", "q"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmClearModel asks before the whole history is deleted
type ConfirmClearModel struct {
	ViewState
	Count int
	Keys  ConfirmKeyMap
}

// NewConfirmClearModel creates a new clear confirmation view
func NewConfirmClearModel() *ConfirmClearModel {
	return &ConfirmClearModel{Keys: DefaultConfirmKeys}
}

// SetCount sets how many records would be removed
func (m *ConfirmClearModel) SetCount(n int) {
	m.Count = n
}

// Update handles messages for the confirmation view
func (m *ConfirmClearModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.Keys.Cancel):
		return m, func() tea.Msg { return ClearCancelledMsg{} }
	case key.Matches(keyMsg, m.Keys.Confirm):
		return m, func() tea.Msg { return ClearConfirmedMsg{} }
	}
	return m, nil
}

// View renders the confirmation prompt
func (m *ConfirmClearModel) View() string {
	return NewViewBuilder().
		Title("Clear history").
		Line(styles.InputLabel.Render(fmt.Sprintf("%d records will be deleted", m.Count))).
		BlankLine().
		Line(RenderConfirmPrompt(commands.ClearPrompt)).
		String()
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}
