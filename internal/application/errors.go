package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrAuth          = errors.New("authentication failed")
	ErrNetwork       = errors.New("network error")
	ErrNotFound      = errors.New("no remote backup found")
	ErrRemoteWrite   = errors.New("remote write rejected")
	ErrCorruptRemote = errors.New("remote backup is corrupt")
	ErrTooLarge      = errors.New("remote backup is too large")
	ErrLocalCorrupt  = errors.New("local history is corrupt")
	ErrEmptyHistory  = errors.New("history is empty")
	ErrBusy          = errors.New("another backup operation is in progress")
	ErrQuotaExceeded = errors.New("local storage is full")
	ErrNotConfirmed  = errors.New("operation not confirmed")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RemoteError represents a failed call to the remote document host.
// Kind is one of ErrAuth, ErrNetwork, ErrRemoteWrite, ErrCorruptRemote or ErrTooLarge.
type RemoteError struct {
	Op         string // "list", "create", "update", "fetch", "parse"
	StatusCode int    // zero when no response was received
	Kind       error
	Cause      error
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Op, e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *RemoteError) Is(target error) bool {
	return target == e.Kind
}

func (e *RemoteError) Unwrap() error {
	return e.Cause
}

// StorageError represents a failure of the local key-value store
type StorageError struct {
	Key   string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Key, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}
