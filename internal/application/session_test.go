package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"scanlog/internal/domain"
	"scanlog/internal/ports"
	"scanlog/internal/testhelper"
)

type steppingClock struct {
	now time.Time
}

func (c *steppingClock) Now() time.Time { return c.now }

func (c *steppingClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestSession(t *testing.T) (*Session, *RecordStore, *steppingClock) {
	t.Helper()
	clock := &steppingClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewRecordStore(testhelper.NewMemoryKV(), WithClock(clock.Now))
	return NewSession(store, store, WithSessionClock(clock.Now)), store, clock
}

func TestSession_IntakeSuppressesRepeats(t *testing.T) {
	ctx := context.Background()
	s, store, clock := newTestSession(t)
	s.Start()

	steps := []struct {
		text     string
		advance  time.Duration
		admitted bool
	}{
		{"A", 0, true},
		{"A", 500 * time.Millisecond, false},
		{"A", time.Second, false},
		{"B", 100 * time.Millisecond, true},
		{"A", 100 * time.Millisecond, true},
		{"A", 2100 * time.Millisecond, true},
	}

	for i, st := range steps {
		clock.Advance(st.advance)
		res, err := s.Intake(ctx, st.text)
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		if res.Admitted != st.admitted {
			t.Errorf("step %d (%s): admitted = %v, expected %v", i, st.text, res.Admitted, st.admitted)
		}
	}

	all, _ := store.All(ctx)
	if len(all) != 4 {
		t.Errorf("expected 4 persisted records, got %d", len(all))
	}
	if got := s.Reported(); len(got) != 4 || got[0] != "A" || got[1] != "A" || got[2] != "B" {
		t.Errorf("unexpected report %v", got)
	}
}

func TestSession_StopResetsGate(t *testing.T) {
	ctx := context.Background()
	s, _, clock := newTestSession(t)

	s.Start()
	if res, _ := s.Intake(ctx, "A"); !res.Admitted {
		t.Fatal("first decode not admitted")
	}
	s.Stop()
	if s.Scanning() {
		t.Error("session still scanning after Stop")
	}
	s.Start()

	clock.Advance(100 * time.Millisecond)
	if res, _ := s.Intake(ctx, "A"); !res.Admitted {
		t.Error("repeat after restart should be admitted")
	}
}

func TestSession_IntakeTrimsTerminators(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestSession(t)

	res, err := s.Intake(ctx, "WIFI:S:home;;\r\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Record.Text != "WIFI:S:home;;" {
		t.Errorf("unexpected text %q", res.Record.Text)
	}

	if _, err := s.Intake(ctx, "\n"); err == nil {
		t.Error("expected validation error for empty decode")
	}
	all, _ := store.All(ctx)
	if len(all) != 1 {
		t.Errorf("expected 1 record, got %d", len(all))
	}
}

func TestSession_AdmitHook(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore(testhelper.NewMemoryKV())

	var admitted []domain.ScanRecord
	s := NewSession(store, store, WithAdmitHook(func(r domain.ScanRecord) {
		admitted = append(admitted, r)
	}))

	_, _ = s.Intake(ctx, "x")
	_, _ = s.Intake(ctx, "x")

	if len(admitted) != 1 || admitted[0].Text != "x" {
		t.Errorf("hook calls = %v", admitted)
	}
}

func TestSession_IntakeStorageFailure(t *testing.T) {
	ctx := context.Background()
	kv := testhelper.NewMemoryKV()
	kv.SetErr = &StorageError{Key: HistoryKey, Cause: ErrQuotaExceeded}
	store := NewRecordStore(kv)
	s := NewSession(store, store)

	res, err := s.Intake(ctx, "x")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("expected ErrQuotaExceeded, got %v", err)
	}
	if !res.Admitted {
		t.Error("decode passed the gate and should report as admitted")
	}
	if got := s.Reported(); len(got) != 1 {
		t.Errorf("value should still be shown, got %v", got)
	}
}

func TestSession_Consume(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestSession(t)

	events := make(chan ports.DecodeEvent, 5)
	events <- ports.DecodeEvent{Text: "one"}
	events <- ports.DecodeEvent{Err: errors.New("no code in frame")}
	events <- ports.DecodeEvent{Text: ""}
	events <- ports.DecodeEvent{Text: "one"}
	events <- ports.DecodeEvent{Text: "two"}
	close(events)

	n, err := s.Consume(ctx, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("admitted = %d, expected 2", n)
	}
	all, _ := store.All(ctx)
	if len(all) != 2 {
		t.Errorf("expected 2 records, got %v", all)
	}
}

func TestSession_ConsumeCancelled(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Consume(ctx, make(chan ports.DecodeEvent))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSession_Credential(t *testing.T) {
	ctx := context.Background()
	kv := testhelper.NewMemoryKV()
	store := NewRecordStore(kv)
	s := NewSession(store, store)

	if cred, _ := s.Credential(ctx); cred != "" {
		t.Errorf("expected no credential, got %q", cred)
	}

	if err := s.SetCredential(ctx, "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// cached value wins over later out-of-band changes
	kv.Put(CredentialKey, "other")
	if cred, _ := s.Credential(ctx); cred != "abc" {
		t.Errorf("Credential() = %q, expected cached value", cred)
	}

	s.OverrideCredential("env-token")
	if cred, _ := s.Credential(ctx); cred != "env-token" {
		t.Errorf("Credential() = %q, expected override", cred)
	}

	if err := s.ClearCredential(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cred, _ := s.Credential(ctx); cred != "" {
		t.Errorf("expected cleared credential, got %q", cred)
	}
	if _, ok := kv.Raw(CredentialKey); ok {
		t.Error("credential still stored")
	}
}
