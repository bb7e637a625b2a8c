package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"scanlog/internal/domain"
	"scanlog/internal/testhelper"
)

func fixedClock(ts string) func() time.Time {
	t, _ := time.Parse(time.RFC3339Nano, ts)
	return func() time.Time { return t }
}

func TestRecordStore_AppendPrepends(t *testing.T) {
	ctx := context.Background()
	kv := testhelper.NewMemoryKV()

	clock := fixedClock("2024-01-01T00:00:00Z")
	s := NewRecordStore(kv, WithClock(func() time.Time { return clock() }))

	if _, err := s.Append(ctx, "first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock = fixedClock("2024-01-01T00:00:05Z")
	rec, err := s.Append(ctx, "second")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Timestamp != "2024-01-01T00:00:05.000Z" {
		t.Errorf("unexpected timestamp %q", rec.Timestamp)
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 || all[0].Text != "second" || all[1].Text != "first" {
		t.Errorf("unexpected history: %v", all)
	}

	raw, ok := kv.Raw(HistoryKey)
	if !ok {
		t.Fatal("history not persisted under the history key")
	}
	if raw[0] != '[' {
		t.Errorf("expected JSON array, got %s", raw)
	}
}

func TestRecordStore_AllEmpty(t *testing.T) {
	s := NewRecordStore(testhelper.NewMemoryKV())

	all, err := s.All(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Errorf("expected empty non-nil log, got %#v", all)
	}
}

func TestRecordStore_CorruptDataIsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := testhelper.NewMemoryKV()
	kv.Put(HistoryKey, "{not json")
	s := NewRecordStore(kv, WithClock(fixedClock("2024-01-01T00:00:00Z")))

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("expected corrupt data to be tolerated, got %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty log, got %v", all)
	}

	// the next append starts a fresh log
	if _, err := s.Append(ctx, "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all, _ = s.All(ctx)
	if len(all) != 1 {
		t.Errorf("expected one record, got %v", all)
	}
}

func TestRecordStore_ReplaceSorts(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore(testhelper.NewMemoryKV())

	in := domain.HistoryLog{
		{Text: "old", Timestamp: "2024-01-01T00:00:00.000Z"},
		{Text: "new", Timestamp: "2024-01-03T00:00:00.000Z"},
		{Text: "mid", Timestamp: "2024-01-02T00:00:00.000Z"},
	}
	if err := s.Replace(ctx, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, _ := s.All(ctx)
	want := []string{"new", "mid", "old"}
	for i, w := range want {
		if all[i].Text != w {
			t.Errorf("position %d: got %q, expected %q", i, all[i].Text, w)
		}
	}
}

func TestRecordStore_Merge(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore(testhelper.NewMemoryKV())
	if err := s.Replace(ctx, domain.HistoryLog{{Text: "x", Timestamp: "2024-01-01T00:00:00Z"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var notified int
	s.Subscribe(func(h domain.HistoryLog) { notified = len(h) })

	stats, err := s.Merge(ctx, domain.HistoryLog{
		{Text: "x", Timestamp: "2024-01-01T00:00:00Z"},
		{Text: "y", Timestamp: "2024-01-02T00:00:00Z"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Added != 1 || stats.Total != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if notified != 2 {
		t.Errorf("observer saw %d records, expected 2", notified)
	}

	all, _ := s.All(ctx)
	if len(all) != 2 || all[0].Text != "y" || all[1].Text != "x" {
		t.Errorf("unexpected log %v", all)
	}
}

func TestRecordStore_MergeKeepsConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore(testhelper.NewMemoryKV())
	remote := domain.HistoryLog{
		{Text: "r1", Timestamp: "2024-01-01T00:00:00Z"},
		{Text: "r2", Timestamp: "2024-01-02T00:00:00Z"},
	}

	const appends = 20
	var wg sync.WaitGroup
	for i := range appends {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := s.Append(ctx, fmt.Sprintf("scan-%d", i)); err != nil {
				t.Errorf("append: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := s.Merge(ctx, remote); err != nil {
				t.Errorf("merge: %v", err)
			}
		}()
	}
	wg.Wait()

	all, _ := s.All(ctx)
	texts := make(map[string]bool, len(all))
	for _, r := range all {
		texts[r.Text] = true
	}
	for i := range appends {
		if want := fmt.Sprintf("scan-%d", i); !texts[want] {
			t.Errorf("%s was lost by a concurrent merge", want)
		}
	}
	if !texts["r1"] || !texts["r2"] || len(all) != appends+2 {
		t.Errorf("unexpected log of %d records: %v", len(all), all)
	}
}

func TestRecordStore_Clear(t *testing.T) {
	ctx := context.Background()
	kv := testhelper.NewMemoryKV()
	s := NewRecordStore(kv)

	if _, err := s.Append(ctx, "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := kv.Raw(HistoryKey); ok {
		t.Error("history key still present after clear")
	}
	all, _ := s.All(ctx)
	if len(all) != 0 {
		t.Errorf("expected empty log, got %v", all)
	}
}

func TestRecordStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore(testhelper.NewMemoryKV())

	var seen []int
	cancel := s.Subscribe(func(h domain.HistoryLog) {
		seen = append(seen, len(h))
	})

	_, _ = s.Append(ctx, "a")
	_, _ = s.Append(ctx, "b")
	_ = s.Clear(ctx)
	cancel()
	_, _ = s.Append(ctx, "c")

	expected := []int{1, 2, 0}
	if len(seen) != len(expected) {
		t.Fatalf("expected %d notifications, got %v", len(expected), seen)
	}
	for i := range expected {
		if seen[i] != expected[i] {
			t.Errorf("notification %d: got %d, expected %d", i, seen[i], expected[i])
		}
	}
}

func TestRecordStore_AppendStorageFailure(t *testing.T) {
	ctx := context.Background()
	kv := testhelper.NewMemoryKV()
	kv.SetErr = &StorageError{Key: HistoryKey, Cause: ErrQuotaExceeded}
	s := NewRecordStore(kv)

	notified := false
	s.Subscribe(func(domain.HistoryLog) { notified = true })

	_, err := s.Append(ctx, "x")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("expected ErrQuotaExceeded, got %v", err)
	}
	if notified {
		t.Error("observers notified for a failed write")
	}
}

func TestRecordStore_Credential(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore(testhelper.NewMemoryKV())

	cred, err := s.LoadCredential(ctx)
	if err != nil || cred != "" {
		t.Fatalf("LoadCredential() = %q, %v; expected empty", cred, err)
	}

	if err := s.SaveCredential(ctx, "has space"); err == nil {
		t.Error("expected validation error for token with whitespace")
	}
	if err := s.SaveCredential(ctx, "tok123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cred, _ := s.LoadCredential(ctx); cred != "tok123" {
		t.Errorf("LoadCredential() = %q", cred)
	}
	if err := s.DeleteCredential(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cred, _ := s.LoadCredential(ctx); cred != "" {
		t.Errorf("expected credential to be gone, got %q", cred)
	}
}
