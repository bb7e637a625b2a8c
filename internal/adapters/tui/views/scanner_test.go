package views

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"scanlog/internal/adapters/csvexport"
	"scanlog/internal/application"
	"scanlog/internal/application/commands"
	"scanlog/internal/testhelper"
)

// steppingClock advances one second per call so appends never share a timestamp
func steppingClock() func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func newServices(t *testing.T) (Services, *[]string) {
	t.Helper()
	store := application.NewRecordStore(testhelper.NewMemoryKV(), application.WithClock(steppingClock()))
	copied := &[]string{}
	return Services{
		Session:  application.NewSession(store, store),
		Remote:   &testhelper.FakeRemote{},
		Guard:    commands.NewBackupGuard(),
		Exporter: csvexport.New(),
		Copy: func(text string) error {
			*copied = append(*copied, text)
			return nil
		},
	}, copied
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// deliver runs cmd and feeds the resulting message back into m
func deliver(t *testing.T, m *ScannerModel, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	m.Update(msg)
	return msg
}

func TestScanner_RecordsTypedCode(t *testing.T) {
	svc, _ := newServices(t)
	m := NewScannerModel(svc)

	m.Update(runes("s"))
	if !m.Scanning() {
		t.Fatal("expected scanning after start key")
	}

	m.Update(runes("hello"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	deliver(t, m, cmd)

	if m.Message != "Recorded: hello" {
		t.Errorf("unexpected message %q", m.Message)
	}
	if got := svc.Session.Reported(); len(got) != 1 || got[0] != "hello" {
		t.Errorf("Reported() = %v", got)
	}
	history, _ := svc.Session.Store().All(context.Background())
	if len(history) != 1 {
		t.Errorf("expected 1 stored record, got %d", len(history))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Scanning() {
		t.Error("expected scanner stopped after esc")
	}
}

func TestScanner_EmptySubmitIsIgnored(t *testing.T) {
	svc, _ := newServices(t)
	m := NewScannerModel(svc)

	m.Update(runes("s"))
	m.Update(runes("   "))
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("expected no command for blank input")
	}
}

func TestScanner_UploadDisabledWhileBusy(t *testing.T) {
	svc, _ := newServices(t)
	m := NewScannerModel(svc)

	_, cmd := m.Update(runes("u"))
	if !m.Busy() {
		t.Fatal("expected busy after upload key")
	}
	if _, again := m.Update(runes("d")); again != nil {
		t.Error("expected download to be ignored while busy")
	}

	deliver(t, m, cmd)
	if m.Busy() {
		t.Error("expected idle after backup finished")
	}
	if m.Message != "No history to upload." {
		t.Errorf("unexpected message %q", m.Message)
	}
}

func TestScanner_CopySelected(t *testing.T) {
	svc, copied := newServices(t)
	m := NewScannerModel(svc)
	ctx := context.Background()

	svc.Session.Store().Append(ctx, "first")
	svc.Session.Store().Append(ctx, "second")
	deliver(t, m, m.Init())

	m.Update(runes("j"))
	m.Update(runes("y"))

	if len(*copied) != 1 || (*copied)[0] != "first" {
		t.Errorf("copied %v", *copied)
	}
	if m.Message != "Copied to clipboard" {
		t.Errorf("unexpected message %q", m.Message)
	}
}

func TestScanner_ClearAsksForConfirmation(t *testing.T) {
	svc, _ := newServices(t)
	m := NewScannerModel(svc)

	if _, cmd := m.Update(runes("c")); cmd != nil {
		t.Error("expected no confirmation for empty history")
	}

	svc.Session.Store().Append(context.Background(), "x")
	deliver(t, m, m.Init())

	_, cmd := m.Update(runes("c"))
	if cmd == nil {
		t.Fatal("expected confirmation command")
	}
	msg, ok := cmd().(SwitchToConfirmClearMsg)
	if !ok || msg.Count != 1 {
		t.Errorf("unexpected message %#v", msg)
	}
}

func TestScanner_ViewShowsHistory(t *testing.T) {
	svc, _ := newServices(t)
	m := NewScannerModel(svc)
	m.SetSize(80, 40)

	svc.Session.Store().Append(context.Background(), "https://example.com")
	deliver(t, m, m.Init())

	view := m.View()
	for _, want := range []string{"History (1 items)", "https://example.com", "IDLE"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestConfirmClear_Keys(t *testing.T) {
	m := NewConfirmClearModel()

	tests := []struct {
		key      string
		expected tea.Msg
	}{
		{"y", ClearConfirmedMsg{}},
		{"n", ClearCancelledMsg{}},
		{"q", ClearCancelledMsg{}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, cmd := m.Update(runes(tt.key))
			if cmd == nil {
				t.Fatal("expected a command")
			}
			if got := cmd(); got != tt.expected {
				t.Errorf("got %#v, expected %#v", got, tt.expected)
			}
		})
	}
}

func TestToken_SaveAndMask(t *testing.T) {
	svc, _ := newServices(t)
	m := NewTokenModel(svc)
	m.Init()

	m.Update(runes("secret-token"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected save command")
	}
	_, cmd = m.Update(cmd())
	if cmd == nil {
		t.Fatal("expected status command")
	}
	status, ok := cmd().(StatusMsg)
	if !ok || status.Err != nil {
		t.Fatalf("unexpected status %#v", status)
	}

	cred, _ := svc.Session.Credential(context.Background())
	if cred != "secret-token" {
		t.Errorf("stored credential %q", cred)
	}

	m.Init()
	if !strings.Contains(m.Message, "secr") || strings.Contains(m.Message, "secret-token") {
		t.Errorf("expected masked token, got %q", m.Message)
	}
}
