package application

import (
	"errors"
	"fmt"
)

// StatusMessage turns an operation result into the one-line status shown to the user.
// Remote protocol errors stop here: callers display the message and carry on.
func StatusMessage(op string, err error) string {
	if err == nil {
		return fmt.Sprintf("%s succeeded", op)
	}

	switch {
	case errors.Is(err, ErrBusy):
		return fmt.Sprintf("%s skipped: another backup operation is still running", op)
	case errors.Is(err, ErrEmptyHistory):
		return "No history to " + op + "."
	case errors.Is(err, ErrAuth):
		return fmt.Sprintf("%s failed: the access token was rejected or is missing", op)
	case errors.Is(err, ErrNotFound):
		return fmt.Sprintf("%s failed: no backup exists on the remote host yet", op)
	case errors.Is(err, ErrCorruptRemote):
		return fmt.Sprintf("%s failed: the remote backup is not a valid history", op)
	case errors.Is(err, ErrRemoteWrite):
		return fmt.Sprintf("%s failed: the remote host rejected the write", op)
	case errors.Is(err, ErrNetwork):
		return fmt.Sprintf("%s failed: could not reach the remote host", op)
	case errors.Is(err, ErrTooLarge):
		return fmt.Sprintf("%s failed: the remote backup is too large", op)
	case errors.Is(err, ErrQuotaExceeded):
		return fmt.Sprintf("%s failed: local storage is full", op)
	case errors.Is(err, ErrNotConfirmed):
		return fmt.Sprintf("%s cancelled", op)
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return fmt.Sprintf("%s failed: %s", op, valErr.Message)
	}

	return fmt.Sprintf("%s failed: %v", op, err)
}
