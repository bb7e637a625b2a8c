package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"scanlog/internal/adapters/tui/styles"
	"scanlog/internal/domain"
)

// RenderKeyHelp formats a key binding as help text (key + description).
// Disabled bindings stay visible but struck through, like a greyed-out button.
func RenderKeyHelp(b key.Binding) string {
	help := b.Help()
	if !b.Enabled() {
		return styles.HelpDisabled.Render(help.Key + " " + help.Desc)
	}
	return fmt.Sprintf("%s %s",
		styles.HelpKey.Render(help.Key),
		styles.HelpDesc.Render(help.Desc),
	)
}

// RenderHelpLine renders multiple key bindings as a help line separated by bullets
func RenderHelpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, RenderKeyHelp(b))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage renders a message with appropriate styling based on isError
func RenderMessage(message string, isError bool) string {
	if message == "" {
		return ""
	}
	if isError {
		return styles.ErrorMsg.Render(message)
	}
	return styles.Success.Render(message)
}

// RenderRecord renders one history row, truncating the text to width columns
func RenderRecord(rec domain.ScanRecord, selected bool, width int) string {
	ts := rec.Timestamp
	if t, ok := rec.Time(); ok {
		ts = t.Local().Format("2006-01-02 15:04:05")
	}

	text := singleLine(rec.Text)
	if avail := width - len(ts) - 6; width > 0 && avail > 8 {
		text = truncate(text, avail)
	}

	if selected {
		return styles.RecordSelected.Render(ts + "  " + text)
	}
	return styles.RecordTime.Render(ts) + "  " + styles.RecordText.Render(text)
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// ViewBuilder helps construct view output with consistent formatting
type ViewBuilder struct {
	b strings.Builder
}

// NewViewBuilder creates a new view builder
func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

// Title adds a title section
func (v *ViewBuilder) Title(title string) *ViewBuilder {
	v.b.WriteString(styles.Title.Render(title))
	v.b.WriteString("\n\n")
	return v
}

// Section adds a section heading
func (v *ViewBuilder) Section(heading string) *ViewBuilder {
	v.b.WriteString(styles.Section.Render(heading))
	v.b.WriteString("\n")
	return v
}

// Line adds a line of text
func (v *ViewBuilder) Line(text string) *ViewBuilder {
	v.b.WriteString(text)
	v.b.WriteString("\n")
	return v
}

// BlankLine adds a blank line
func (v *ViewBuilder) BlankLine() *ViewBuilder {
	v.b.WriteString("\n")
	return v
}

// Muted adds muted text followed by a newline
func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	v.b.WriteString(styles.MutedText.Render(text))
	v.b.WriteString("\n")
	return v
}

// Message adds a message if non-empty, with appropriate error/success styling
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message == "" {
		return v
	}
	v.b.WriteString(RenderMessage(message, isError))
	v.b.WriteString("\n\n")
	return v
}

// Help adds a help line with key bindings
func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	v.b.WriteString(RenderHelpLine(bindings...))
	return v
}

// String returns the built view string wrapped in the app style
func (v *ViewBuilder) String() string {
	return styles.App.Render(v.b.String())
}
