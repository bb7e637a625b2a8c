package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"scanlog/internal/domain"
	"scanlog/internal/logging"
	"scanlog/internal/ports"
)

// RecordStore implements ports.RecordStore and ports.CredentialStore over a key-value store.
// The full log lives under HistoryKey as a JSON array.
type RecordStore struct {
	kv     ports.KeyValueStore
	logger logging.Logger
	now    func() time.Time

	mu        sync.Mutex
	observers map[int]func(domain.HistoryLog)
	nextObs   int
}

// Ensure RecordStore implements the store ports
var (
	_ ports.RecordStore     = (*RecordStore)(nil)
	_ ports.CredentialStore = (*RecordStore)(nil)
)

// RecordStoreOption configures a RecordStore
type RecordStoreOption func(*RecordStore)

// WithClock sets the time source used to stamp new records
func WithClock(now func() time.Time) RecordStoreOption {
	return func(s *RecordStore) { s.now = now }
}

// WithLogger sets the logger used to report recovered corruption
func WithLogger(l logging.Logger) RecordStoreOption {
	return func(s *RecordStore) { s.logger = l }
}

// NewRecordStore creates a record store on top of kv
func NewRecordStore(kv ports.KeyValueStore, opts ...RecordStoreOption) *RecordStore {
	s := &RecordStore{
		kv:        kv,
		logger:    logging.Nop(),
		now:       time.Now,
		observers: make(map[int]func(domain.HistoryLog)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append stamps text with the current time and inserts it at the head of the log
func (s *RecordStore) Append(ctx context.Context, text string) (domain.ScanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.load(ctx)
	if err != nil {
		return domain.ScanRecord{}, err
	}

	rec := domain.NewScanRecord(text, s.now())
	history = history.Prepend(rec)
	if !history.IsSorted() {
		history = history.Sorted()
	}

	if err := s.save(ctx, history); err != nil {
		return domain.ScanRecord{}, fmt.Errorf("failed to append scan: %w", err)
	}

	s.notify(history)
	return rec, nil
}

// All returns the persisted log, or an empty log when nothing is stored.
// Stored data that does not parse is treated as an empty log.
func (s *RecordStore) All(ctx context.Context) (domain.HistoryLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

// Replace overwrites the persisted log entirely
func (s *RecordStore) Replace(ctx context.Context, log domain.HistoryLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := log.Sorted()
	if err := s.save(ctx, history); err != nil {
		return fmt.Errorf("failed to replace history: %w", err)
	}

	s.notify(history)
	return nil
}

// Merge folds remote into the persisted log. Load, merge and save happen
// under one lock so a concurrent Append is never overwritten.
func (s *RecordStore) Merge(ctx context.Context, remote domain.HistoryLog) (domain.MergeStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	local, err := s.load(ctx)
	if err != nil {
		return domain.MergeStats{}, err
	}

	merged, stats := domain.MergeWithStats(local, remote)
	if err := s.save(ctx, merged); err != nil {
		return domain.MergeStats{}, fmt.Errorf("failed to merge history: %w", err)
	}

	s.notify(merged)
	return stats, nil
}

// Clear removes every record. Callers are responsible for confirming with the user first.
func (s *RecordStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, HistoryKey); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	s.notify(domain.HistoryLog{})
	return nil
}

// Subscribe registers fn to receive the log after every mutation
func (s *RecordStore) Subscribe(fn func(domain.HistoryLog)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// LoadCredential returns the stored access token, or "" when none is stored
func (s *RecordStore) LoadCredential(ctx context.Context) (string, error) {
	value, _, err := s.kv.Get(ctx, CredentialKey)
	if err != nil {
		return "", fmt.Errorf("failed to load credential: %w", err)
	}
	return value, nil
}

// SaveCredential stores the access token in plaintext
func (s *RecordStore) SaveCredential(ctx context.Context, credential string) error {
	if err := ValidateCredential(credential); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, CredentialKey, credential); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// DeleteCredential forgets the stored access token
func (s *RecordStore) DeleteCredential(ctx context.Context) error {
	if err := s.kv.Delete(ctx, CredentialKey); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

func (s *RecordStore) load(ctx context.Context) (domain.HistoryLog, error) {
	raw, ok, err := s.kv.Get(ctx, HistoryKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if !ok {
		return domain.HistoryLog{}, nil
	}

	history, err := domain.UnmarshalHistory([]byte(raw))
	if err != nil {
		s.logger.Warnw("stored history is unreadable, treating it as empty",
			"error", errors.Join(ErrLocalCorrupt, err))
		return domain.HistoryLog{}, nil
	}
	return history, nil
}

func (s *RecordStore) save(ctx context.Context, history domain.HistoryLog) error {
	data, err := domain.MarshalHistory(history)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, HistoryKey, string(data))
}

// notify must be called with mu held; observers must not call back into the store
func (s *RecordStore) notify(history domain.HistoryLog) {
	for _, fn := range s.observers {
		fn(history.Clone())
	}
}
