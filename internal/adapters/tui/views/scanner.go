package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"scanlog/internal/adapters/tui/styles"
	"scanlog/internal/application/commands"
	"scanlog/internal/domain"
)

// sessionRows is how many of this session's scans are listed
const sessionRows = 5

// ScannerKeyMap defines key bindings for the scanner view
type ScannerKeyMap struct {
	Start    key.Binding
	Stop     key.Binding
	Submit   key.Binding
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Copy     key.Binding
	Upload   key.Binding
	Download key.Binding
	Export   key.Binding
	Open     key.Binding
	Clear    key.Binding
	Token    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// NewScannerKeys returns the default scanner key bindings
func NewScannerKeys() ScannerKeyMap {
	return ScannerKeyMap{
		Start: key.NewBinding(
			key.WithKeys("s", "enter"),
			key.WithHelp("s", "start scanning"),
		),
		Stop: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "stop"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "record"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("l", "right", "pgdown"),
			key.WithHelp("l/→", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("h", "left", "pgup"),
			key.WithHelp("h/←", "prev page"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upload"),
		),
		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export csv"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "export & open"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Token: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "token"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScannerModel is the main view: scanner input, session list and paginated history
type ScannerModel struct {
	ViewState
	svc     Services
	keys    ScannerKeyMap
	input   textinput.Model
	history domain.HistoryLog
	pager   *Paginator
	busy    bool
}

// NewScannerModel creates a new scanner model
func NewScannerModel(svc Services) *ScannerModel {
	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "point the scanner at a code"
	input.CharLimit = 0

	return &ScannerModel{
		svc:   svc,
		keys:  NewScannerKeys(),
		input: input,
		pager: NewPaginator(10),
	}
}

type scanResultMsg struct {
	result *commands.RecordScanResult
	err    error
}

type exportDoneMsg struct {
	result *commands.ExportResult
	open   bool
	err    error
}

// Init loads the persisted history
func (m *ScannerModel) Init() tea.Cmd {
	return m.loadHistory
}

func (m *ScannerModel) loadHistory() tea.Msg {
	history, err := m.svc.store().All(context.Background())
	if err != nil {
		return StatusMsg{Op: "load history", Err: err}
	}
	return HistoryChangedMsg{History: history}
}

// Scanning reports whether the scanner input is active
func (m *ScannerModel) Scanning() bool {
	return m.svc.Session.Scanning()
}

// Busy reports whether an upload or download is running
func (m *ScannerModel) Busy() bool {
	return m.busy
}

// SetSize updates the view dimensions and the history page size
func (m *ScannerModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.input.Width = max(width-12, 20)
	m.pager.SetPageSize(max(height-18, 5))
}

// Update handles messages for the scanner view
func (m *ScannerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case HistoryChangedMsg:
		m.history = msg.History
		m.pager.SetTotal(len(msg.History))
		return m, nil

	case scanResultMsg:
		switch {
		case msg.err != nil:
			m.SetStatus("scan", msg.err)
		case msg.result.Admitted:
			m.SetMessage(msg.result.Message, false)
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.SetStatus("export", msg.err)
			return m, nil
		}
		m.SetMessage(msg.result.Message, false)
		if msg.open {
			path := msg.result.Path
			return m, func() tea.Msg { return OpenFileMsg{Path: path} }
		}
		return m, nil

	case BackupFinishedMsg:
		m.setBusy(false)
		m.showStatus(msg.StatusMsg)
		return m, nil

	case StatusMsg:
		m.showStatus(msg)
		return m, nil

	case tea.KeyMsg:
		if m.Scanning() {
			return m.updateScanning(msg)
		}
		return m.updateIdle(msg)
	}

	if m.Scanning() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *ScannerModel) updateScanning(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Stop):
		m.svc.Session.Stop()
		m.input.Blur()
		m.input.Reset()
		m.SetMessage("Scanner stopped", false)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		text := m.input.Value()
		m.input.Reset()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		return m, m.intake(text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ScannerModel) updateIdle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Start):
		m.svc.Session.Start()
		m.ClearMessage()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Up):
		m.pager.CursorUp()
	case key.Matches(msg, m.keys.Down):
		m.pager.CursorDown()
	case key.Matches(msg, m.keys.NextPage):
		m.pager.NextPage()
	case key.Matches(msg, m.keys.PrevPage):
		m.pager.PrevPage()

	case key.Matches(msg, m.keys.Copy):
		m.copySelected()

	case key.Matches(msg, m.keys.Upload):
		return m, m.upload()
	case key.Matches(msg, m.keys.Download):
		return m, m.download()

	case key.Matches(msg, m.keys.Export):
		return m, m.export(false)
	case key.Matches(msg, m.keys.Open):
		return m, m.export(true)

	case key.Matches(msg, m.keys.Clear):
		if len(m.history) == 0 {
			m.SetMessage("No history to clear.", false)
			return m, nil
		}
		count := len(m.history)
		return m, func() tea.Msg { return SwitchToConfirmClearMsg{Count: count} }

	case key.Matches(msg, m.keys.Token):
		return m, func() tea.Msg { return SwitchToTokenMsg{} }

	case key.Matches(msg, m.keys.Help):
		return m, func() tea.Msg { return SwitchToHelpMsg{} }
	}
	return m, nil
}

func (m *ScannerModel) intake(text string) tea.Cmd {
	session := m.svc.Session
	return func() tea.Msg {
		res, err := commands.NewRecordScanCommand(session, text).Execute(context.Background())
		return scanResultMsg{result: res, err: err}
	}
}

func (m *ScannerModel) copySelected() {
	if len(m.history) == 0 {
		return
	}
	rec := m.history[m.pager.Cursor()]
	if err := m.svc.copyText(rec.Text); err != nil {
		m.SetStatus("copy", err)
		return
	}
	m.SetMessage("Copied to clipboard", false)
}

// upload and download are disabled while either is running
func (m *ScannerModel) upload() tea.Cmd {
	if m.busy {
		return nil
	}
	m.setBusy(true)
	m.SetMessage("Uploading…", false)

	cmd := commands.NewUploadCommand(m.svc.Guard, m.svc.Remote, m.svc.store(), m.svc.Session)
	return func() tea.Msg {
		res, err := cmd.Execute(context.Background())
		done := StatusMsg{Op: "upload", Err: err}
		if err == nil {
			done.Detail = res.Message
		}
		return BackupFinishedMsg{StatusMsg: done}
	}
}

func (m *ScannerModel) download() tea.Cmd {
	if m.busy {
		return nil
	}
	m.setBusy(true)
	m.SetMessage("Downloading…", false)

	cmd := commands.NewDownloadCommand(m.svc.Guard, m.svc.Remote, m.svc.store(), m.svc.Session)
	return func() tea.Msg {
		res, err := cmd.Execute(context.Background())
		done := StatusMsg{Op: "download", Err: err}
		if err == nil {
			done.Detail = res.Message
		}
		return BackupFinishedMsg{StatusMsg: done}
	}
}

func (m *ScannerModel) export(open bool) tea.Cmd {
	cmd := commands.NewExportCommand(m.svc.store(), m.svc.Exporter, "")
	return func() tea.Msg {
		res, err := cmd.Execute(context.Background())
		return exportDoneMsg{result: res, open: open, err: err}
	}
}

func (m *ScannerModel) setBusy(busy bool) {
	m.busy = busy
	m.keys.Upload.SetEnabled(!busy)
	m.keys.Download.SetEnabled(!busy)
}

func (m *ScannerModel) showStatus(msg StatusMsg) {
	if msg.Err == nil && msg.Detail != "" {
		m.SetMessage(msg.Detail, false)
		return
	}
	m.SetStatus(msg.Op, msg.Err)
}

// View renders the scanner view
func (m *ScannerModel) View() string {
	v := NewViewBuilder()
	v.Line(styles.Title.Render("scanlog") + "  " + m.badge())
	v.BlankLine()

	if m.Scanning() {
		v.Line(styles.InputFocused.Render(m.input.View()))
		v.BlankLine()
	}

	v.Section("This session")
	reported := m.svc.Session.Reported()
	if len(reported) == 0 {
		v.Muted("  Nothing scanned yet")
	}
	for i, text := range reported {
		if i == sessionRows {
			v.Muted(fmt.Sprintf("  … %d more", len(reported)-sessionRows))
			break
		}
		v.Line("  " + styles.RecordSession.Render(truncate(singleLine(text), max(m.Width-8, 20))))
	}
	v.BlankLine()

	v.Section(fmt.Sprintf("History (%d items)", len(m.history)))
	if len(m.history) == 0 {
		v.Muted("  No history")
	} else {
		start, end := m.pager.VisibleRange()
		for i := start; i < end; i++ {
			selected := !m.Scanning() && i == m.pager.Cursor()
			v.Line("  " + RenderRecord(m.history[i], selected, m.Width-4))
		}
		if m.pager.TotalPages() > 1 {
			v.Muted("  " + m.pager.PageLabel())
		}
	}
	v.BlankLine()

	v.Message(m.Message, m.MessageErr)

	if m.Scanning() {
		v.Help(m.keys.Submit, m.keys.Stop)
	} else {
		v.Help(m.keys.Start, m.keys.Copy, m.keys.Upload, m.keys.Download,
			m.keys.Export, m.keys.Clear, m.keys.Help, m.keys.Quit)
	}
	return v.String()
}

func (m *ScannerModel) badge() string {
	switch {
	case m.busy:
		return styles.BadgeBusy.Render("SYNCING")
	case m.Scanning():
		return styles.BadgeScanning.Render("SCANNING")
	default:
		return styles.BadgeIdle.Render("IDLE")
	}
}
