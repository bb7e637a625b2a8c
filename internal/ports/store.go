package ports

import (
	"context"

	"scanlog/internal/domain"
)

// KeyValueStore is the durable local storage behind the record store and credential.
// Each Set is a single atomic write.
type KeyValueStore interface {
	// Get returns the value for key. ok is false when the key does not exist.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// RecordStore defines the local durable log of scan records
type RecordStore interface {
	// Append stamps text with the current time and inserts it at the head of the log
	Append(ctx context.Context, text string) (domain.ScanRecord, error)

	// All returns the persisted log, newest first. Malformed stored data yields an empty log.
	All(ctx context.Context) (domain.HistoryLog, error)

	// Replace overwrites the persisted log entirely
	Replace(ctx context.Context, log domain.HistoryLog) error

	// Merge folds remote into the persisted log in one atomic step.
	// Local copies win on identical (timestamp, text).
	Merge(ctx context.Context, remote domain.HistoryLog) (domain.MergeStats, error)

	// Clear removes every record
	Clear(ctx context.Context) error

	// Subscribe registers fn to be called with the new log after every mutation.
	// The returned function removes the subscription.
	Subscribe(fn func(domain.HistoryLog)) (cancel func())
}

// CredentialStore persists the remote host credential
type CredentialStore interface {
	LoadCredential(ctx context.Context) (string, error)
	SaveCredential(ctx context.Context, credential string) error
	DeleteCredential(ctx context.Context) error
}
