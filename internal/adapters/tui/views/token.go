package views

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"scanlog/internal/adapters/tui/styles"
	"scanlog/internal/application/commands"
)

// SwitchToTokenMsg opens the access token form
type SwitchToTokenMsg struct{}

// TokenKeyMap defines key bindings for the token form
type TokenKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

// TokenKeys are the default token form bindings
var TokenKeys = TokenKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// TokenModel asks for the remote host access token
type TokenModel struct {
	ViewState
	svc   Services
	input textinput.Model
}

// NewTokenModel creates a new token form
func NewTokenModel(svc Services) *TokenModel {
	input := textinput.New()
	input.Placeholder = "paste access token"
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'

	return &TokenModel{svc: svc, input: input}
}

type tokenSavedMsg struct {
	err error
}

// Init shows the current token masked and focuses the input
func (m *TokenModel) Init() tea.Cmd {
	m.input.Reset()
	m.ClearMessage()
	if cred, err := m.svc.Session.Credential(context.Background()); err == nil {
		m.SetMessage("Current token: "+commands.MaskToken(cred), false)
	}
	return m.input.Focus()
}

// Update handles messages for the token form
func (m *TokenModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tokenSavedMsg:
		if msg.err != nil {
			m.SetStatus("save token", msg.err)
			return m, nil
		}
		return m, func() tea.Msg {
			return StatusMsg{Op: "save token", Detail: "Access token saved"}
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, TokenKeys.Cancel):
			m.input.Blur()
			return m, func() tea.Msg { return SwitchToScannerMsg{} }

		case key.Matches(msg, TokenKeys.Submit):
			cmd := commands.NewSetTokenCommand(m.svc.Session, m.input.Value())
			if err := cmd.Validate(); err != nil {
				m.SetStatus("save token", err)
				return m, nil
			}
			return m, func() tea.Msg {
				_, err := cmd.Execute(context.Background())
				return tokenSavedMsg{err: err}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the token form
func (m *TokenModel) View() string {
	return NewViewBuilder().
		Title("Remote access token").
		Line(styles.InputLabel.Render("Token")).
		Line(styles.InputFocused.Render(m.input.View())).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Help(TokenKeys.Submit, TokenKeys.Cancel).
		String()
}
