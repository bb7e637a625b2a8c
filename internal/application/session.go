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

// IntakeResult describes what happened to one decode event
type IntakeResult struct {
	Admitted bool
	Record   domain.ScanRecord
}

// Session holds the state that lives for one scanning activation:
// the repeat gate, the session report and the cached credential.
type Session struct {
	store       ports.RecordStore
	credentials ports.CredentialStore
	logger      logging.Logger
	now         func() time.Time
	onAdmit     func(domain.ScanRecord)

	mu         sync.Mutex
	scanning   bool
	gate       *domain.Gate
	reporter   *domain.Reporter
	credential string
	credLoaded bool
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithSessionClock sets the time source used by the repeat gate
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithSessionLogger sets the session logger
func WithSessionLogger(l logging.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// WithGateWindow overrides the repeat suppression window
func WithGateWindow(d time.Duration) SessionOption {
	return func(s *Session) { s.gate = domain.NewGate(d) }
}

// WithAdmitHook registers fn to run after each admitted and persisted scan,
// e.g. to play a confirmation tone
func WithAdmitHook(fn func(domain.ScanRecord)) SessionOption {
	return func(s *Session) { s.onAdmit = fn }
}

// NewSession creates an idle session
func NewSession(store ports.RecordStore, credentials ports.CredentialStore, opts ...SessionOption) *Session {
	s := &Session{
		store:       store,
		credentials: credentials,
		logger:      logging.Nop(),
		now:         time.Now,
		gate:        domain.NewGate(domain.DefaultGateWindow),
		reporter:    domain.NewReporter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins a scanning activation. The repeat gate starts empty.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanning = true
	s.gate.Reset()
}

// Stop ends the scanning activation and forgets the last decoded value
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanning = false
	s.gate.Reset()
}

// Scanning reports whether the session is accepting decode events
func (s *Session) Scanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanning
}

// Intake is the single entry point for decoded text.
// Repeats inside the gate window are dropped; admitted values are shown in
// the session report and appended to the record store.
func (s *Session) Intake(ctx context.Context, text string) (IntakeResult, error) {
	text, err := NormalizeScanText(text)
	if err != nil {
		return IntakeResult{}, err
	}

	s.mu.Lock()
	if !s.gate.Admit(text, s.now()) {
		s.mu.Unlock()
		s.logger.Debugw("repeat decode suppressed", "text", text)
		return IntakeResult{}, nil
	}
	s.reporter.Report(text)
	s.mu.Unlock()

	rec, err := s.store.Append(ctx, text)
	if err != nil {
		return IntakeResult{Admitted: true}, err
	}

	s.logger.Infow("scan recorded", "text", text, "timestamp", rec.Timestamp)
	if s.onAdmit != nil {
		s.onAdmit(rec)
	}
	return IntakeResult{Admitted: true, Record: rec}, nil
}

// Consume feeds decode events into Intake until events closes or ctx ends.
// Decoder errors are ignored. Storage errors stop consumption.
func (s *Session) Consume(ctx context.Context, events <-chan ports.DecodeEvent) (admitted int, err error) {
	for {
		select {
		case <-ctx.Done():
			return admitted, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return admitted, nil
			}
			if ev.Err != nil {
				continue
			}
			res, err := s.Intake(ctx, ev.Text)
			if err != nil {
				var valErr *ValidationError
				if errors.As(err, &valErr) {
					continue
				}
				return admitted, err
			}
			if res.Admitted {
				admitted++
			}
		}
	}
}

// Reported returns the values admitted during this process, newest first
func (s *Session) Reported() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reporter.Items()
}

// Credential returns the access token, loading it from storage on first use
func (s *Session) Credential(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.credLoaded {
		return s.credential, nil
	}
	cred, err := s.credentials.LoadCredential(ctx)
	if err != nil {
		return "", err
	}
	s.credential = cred
	s.credLoaded = true
	return cred, nil
}

// SetCredential stores a new access token and caches it
func (s *Session) SetCredential(ctx context.Context, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.credentials.SaveCredential(ctx, credential); err != nil {
		return fmt.Errorf("failed to set credential: %w", err)
	}
	s.credential = credential
	s.credLoaded = true
	return nil
}

// OverrideCredential caches a token for this process without storing it
func (s *Session) OverrideCredential(credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
	s.credLoaded = true
}

// ClearCredential removes the stored access token
func (s *Session) ClearCredential(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.credentials.DeleteCredential(ctx); err != nil {
		return err
	}
	s.credential = ""
	s.credLoaded = true
	return nil
}

// Store returns the session's record store
func (s *Session) Store() ports.RecordStore {
	return s.store
}
