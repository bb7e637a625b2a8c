package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scanlog/internal/application"
	"scanlog/internal/domain"
	"scanlog/internal/testhelper"
)

type lineExporter struct{}

func (lineExporter) Export(w io.Writer, log domain.HistoryLog) error {
	for _, r := range log {
		if _, err := fmt.Fprintf(w, "%s %s\n", r.Timestamp, r.Text); err != nil {
			return err
		}
	}
	return nil
}

func (lineExporter) FileName() string { return "history.txt" }

var sample = []domain.ScanRecord{
	{Text: "https://example.com/a", Timestamp: "2024-01-03T00:00:00.000Z"},
	{Text: "WIFI:S:home;T:WPA;;", Timestamp: "2024-01-02T00:00:00.000Z"},
	{Text: "plain text", Timestamp: "2024-01-01T00:00:00.000Z"},
}

func TestExportCommand(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out", "history.txt")

	_, err := NewExportCommand(newStore(t), lineExporter{}, path).Execute(ctx)
	if !errors.Is(err, application.ErrEmptyHistory) {
		t.Fatalf("expected ErrEmptyHistory, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file written for empty history")
	}

	res, err := NewExportCommand(newStore(t, sample...), lineExporter{}, path).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Records != 3 || res.Path != path {
		t.Errorf("unexpected result %+v", res)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 || !strings.HasSuffix(lines[0], "https://example.com/a") {
		t.Errorf("unexpected export:\n%s", data)
	}
}

func TestExportCommand_Validate(t *testing.T) {
	cmd := NewExportCommand(newStore(t, sample...), lineExporter{}, t.TempDir())
	err := cmd.Validate()

	var valErr *application.ValidationError
	if !errors.As(err, &valErr) || valErr.Field != "outputPath" {
		t.Errorf("expected outputPath validation error, got %v", err)
	}
}

func TestClearCommand(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, sample...)

	if _, err := NewClearCommand(store, false).Execute(ctx); !errors.Is(err, application.ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	if all, _ := store.All(ctx); len(all) != 3 {
		t.Fatal("history cleared without confirmation")
	}

	res, err := NewClearCommand(store, true).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Removed != 3 {
		t.Errorf("Removed = %d, expected 3", res.Removed)
	}
	if all, _ := store.All(ctx); len(all) != 0 {
		t.Errorf("history not cleared: %v", all)
	}
}

func TestListHistoryCommand(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, sample...)

	tests := []struct {
		name   string
		limit  int
		offset int
		texts  []string
	}{
		{"all", 0, 0, []string{"https://example.com/a", "WIFI:S:home;T:WPA;;", "plain text"}},
		{"first page", 2, 0, []string{"https://example.com/a", "WIFI:S:home;T:WPA;;"}},
		{"second page", 2, 2, []string{"plain text"}},
		{"past the end", 2, 10, nil},
		{"negative offset", 1, -5, []string{"https://example.com/a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := NewListHistoryCommand(store, tt.limit, tt.offset).Execute(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page.Total != 3 {
				t.Errorf("Total = %d", page.Total)
			}
			if len(page.Records) != len(tt.texts) {
				t.Fatalf("got %d records, expected %d", len(page.Records), len(tt.texts))
			}
			for i, text := range tt.texts {
				if page.Records[i].Text != text {
					t.Errorf("record %d = %q, expected %q", i, page.Records[i].Text, text)
				}
			}
		})
	}
}

func TestCountAndLast(t *testing.T) {
	ctx := context.Background()

	n, err := NewCountHistoryCommand(newStore(t, sample...)).Execute(ctx)
	if err != nil || n != 3 {
		t.Errorf("count = %d, %v", n, err)
	}

	if _, ok, err := NewLastScanCommand(newStore(t)).Execute(ctx); ok || err != nil {
		t.Errorf("expected no last record, got ok=%v err=%v", ok, err)
	}

	rec, ok, err := NewLastScanCommand(newStore(t, sample...)).Execute(ctx)
	if err != nil || !ok || rec.Text != "https://example.com/a" {
		t.Errorf("last = %v, %v, %v", rec, ok, err)
	}
}

func TestRecordScanCommand(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	session := application.NewSession(store, store, application.WithSessionClock(func() time.Time { return clock }))

	if err := NewRecordScanCommand(session, "  ").Validate(); err == nil {
		t.Error("expected validation error for blank scan")
	}
	if err := NewRecordScanCommand(session, "\r\n").Validate(); err == nil {
		t.Error("expected validation error for empty scan")
	}

	res, err := NewRecordScanCommand(session, "code-1\n").Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Admitted || res.Record.Text != "code-1" {
		t.Errorf("unexpected result %+v", res)
	}

	res, err = NewRecordScanCommand(session, "code-1").Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Admitted {
		t.Error("repeat within the gate window should not be admitted")
	}
}

func TestTokenCommands(t *testing.T) {
	ctx := context.Background()
	kv := testhelper.NewMemoryKV()
	store := application.NewRecordStore(kv)
	session := application.NewSession(store, store)

	if _, err := NewSetTokenCommand(session, "a b").Execute(ctx); err == nil {
		t.Error("expected validation error")
	}
	if _, err := NewSetTokenCommand(session, " secret-token \n").Execute(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := kv.Raw(application.CredentialKey); v != "secret-token" {
		t.Errorf("stored token = %q", v)
	}

	tests := map[string]string{
		"":             "(not set)",
		"abc":          "***",
		"secret-token": "secr********",
	}
	for in, want := range tests {
		if got := MaskToken(in); got != want {
			t.Errorf("MaskToken(%q) = %q, expected %q", in, got, want)
		}
	}
}
