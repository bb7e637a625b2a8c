package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"scanlog/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, HelpKeys.Close) {
		return m, func() tea.Msg { return SwitchToScannerMsg{} }
	}
	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("scanlog help"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Scanning"))
	b.WriteString("\n")
	b.WriteString(helpLine("s / Enter", "Start scanning"))
	b.WriteString(helpLine("Enter", "Record the typed or scanned code"))
	b.WriteString(helpLine("Esc", "Stop scanning"))
	b.WriteString(styles.MutedText.Render("  The same code is recorded once per two seconds."))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("History"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move up/down"))
	b.WriteString(helpLine("h / l / ← / →", "Previous/next page"))
	b.WriteString(helpLine("y", "Copy selected code"))
	b.WriteString(helpLine("e", "Export CSV (qr-history.csv)"))
	b.WriteString(helpLine("o", "Export CSV and open it"))
	b.WriteString(helpLine("c", "Clear history"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Backup"))
	b.WriteString("\n")
	b.WriteString(helpLine("t", "Set access token"))
	b.WriteString(helpLine("u", "Upload history"))
	b.WriteString(helpLine("d", "Download and merge history"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit"))
	b.WriteString("\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
