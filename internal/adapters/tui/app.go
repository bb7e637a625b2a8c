package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"scanlog/internal/adapters/tui/views"
	"scanlog/internal/application/commands"
	"scanlog/internal/domain"
	"scanlog/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewScanner ViewState = iota
	ViewConfirmClear
	ViewToken
	ViewHelp
)

// App is the main TUI application model
type App struct {
	svc    views.Services
	opener ports.FileOpener

	state   ViewState
	scanner *views.ScannerModel
	confirm *views.ConfirmClearModel
	token   *views.TokenModel
	help    *views.HelpModel

	updates     chan domain.HistoryLog
	unsubscribe func()

	width  int
	height int
}

// NewApp creates a new TUI application. opener may be nil, in which case
// exported files are written but not opened.
func NewApp(svc views.Services, opener ports.FileOpener) *App {
	a := &App{
		svc:     svc,
		opener:  opener,
		state:   ViewScanner,
		scanner: views.NewScannerModel(svc),
		confirm: views.NewConfirmClearModel(),
		token:   views.NewTokenModel(svc),
		help:    views.NewHelpModel(),
		updates: make(chan domain.HistoryLog, 1),
	}
	a.unsubscribe = svc.Session.Store().Subscribe(a.push)
	return a
}

// push runs under the store lock, so it never blocks: a pending log that
// has not been picked up yet is replaced by the newer one
func (a *App) push(history domain.HistoryLog) {
	for {
		select {
		case a.updates <- history:
			return
		default:
		}
		select {
		case <-a.updates:
		default:
		}
	}
}

func (a *App) waitForHistory() tea.Msg {
	history, ok := <-a.updates
	if !ok {
		return nil
	}
	return views.HistoryChangedMsg{History: history}
}

// Close removes the store subscription
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.scanner.Init(), a.waitForHistory)
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.scanner.SetSize(msg.Width, msg.Height)
		a.confirm.SetSize(msg.Width, msg.Height)
		a.token.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.HistoryChangedMsg:
		_, cmd := a.scanner.Update(msg)
		return a, tea.Batch(cmd, a.waitForHistory)

	// View switching messages
	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToTokenMsg:
		a.state = ViewToken
		return a, a.token.Init()

	case views.SwitchToConfirmClearMsg:
		a.state = ViewConfirmClear
		a.confirm.SetCount(msg.Count)
		return a, nil

	case views.SwitchToScannerMsg, views.ClearCancelledMsg:
		a.state = ViewScanner
		return a, nil

	case views.ClearConfirmedMsg:
		a.state = ViewScanner
		return a, a.clear()

	case views.StatusMsg:
		// Background results always land on the scanner view
		if a.state == ViewToken && msg.Op == "save token" {
			a.state = ViewScanner
		}
		_, cmd := a.scanner.Update(msg)
		return a, cmd

	case views.BackupFinishedMsg:
		_, cmd := a.scanner.Update(msg)
		return a, cmd

	case views.OpenFileMsg:
		return a, a.openFile(msg.Path)

	case openFinishedMsg:
		if msg.err != nil {
			_, cmd := a.scanner.Update(views.StatusMsg{Op: "open", Err: msg.err})
			return a, cmd
		}
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewScanner:
		_, cmd = a.scanner.Update(msg)
	case ViewConfirmClear:
		_, cmd = a.confirm.Update(msg)
	case ViewToken:
		_, cmd = a.token.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

func (a *App) clear() tea.Cmd {
	cmd := commands.NewClearCommand(a.svc.Session.Store(), true)
	return func() tea.Msg {
		res, err := cmd.Execute(context.Background())
		if err != nil {
			return views.StatusMsg{Op: "clear", Err: err}
		}
		return views.StatusMsg{Op: "clear", Detail: res.Message}
	}
}

type openFinishedMsg struct{ err error }

func (a *App) openFile(path string) tea.Cmd {
	if a.opener == nil {
		return nil
	}

	cmd, err := a.opener.Command(path)
	if err != nil {
		return func() tea.Msg {
			return openFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return openFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewConfirmClear:
		return a.confirm.View()
	case ViewToken:
		return a.token.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.scanner.View()
	}
}

// Bell returns an admit hook that rings the terminal bell on w
func Bell(w io.Writer) func(domain.ScanRecord) {
	return func(domain.ScanRecord) {
		_, _ = io.WriteString(w, "\a")
	}
}
