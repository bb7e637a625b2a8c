package ports

import "context"

// RemoteDescriptor locates the backup document on the remote host
type RemoteDescriptor struct {
	ID          string
	Description string
	RawURL      string // unauthenticated pointer to the snapshot content
}

// BackupRemote defines the remote document host holding the history snapshot
type BackupRemote interface {
	// FindBackup lists the credential holder's documents and returns the backup,
	// or nil when no document carries the backup description
	FindBackup(ctx context.Context, credential string) (*RemoteDescriptor, error)

	// CreateBackup creates the backup document with the given content
	CreateBackup(ctx context.Context, credential string, content []byte) (*RemoteDescriptor, error)

	// UpdateBackup replaces the content of an existing backup document
	UpdateBackup(ctx context.Context, credential, id string, content []byte) error

	// FetchContent downloads the raw snapshot the descriptor points to
	FetchContent(ctx context.Context, rawURL string) ([]byte, error)
}
