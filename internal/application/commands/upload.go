package commands

import (
	"context"
	"errors"
	"fmt"

	"scanlog/internal/application"
	"scanlog/internal/domain"
	"scanlog/internal/ports"
)

// CredentialSource yields the access token for the remote host.
// *application.Session implements it.
type CredentialSource interface {
	Credential(ctx context.Context) (string, error)
}

// UploadResult contains the result of an upload
type UploadResult struct {
	DocumentID string
	Created    bool
	Records    int
	Message    string
}

// UploadCommand pushes the full local log to the remote backup document
type UploadCommand struct {
	guard       *BackupGuard
	remote      ports.BackupRemote
	store       ports.RecordStore
	credentials CredentialSource
}

// NewUploadCommand creates a new UploadCommand
func NewUploadCommand(guard *BackupGuard, remote ports.BackupRemote, store ports.RecordStore, credentials CredentialSource) *UploadCommand {
	return &UploadCommand{
		guard:       guard,
		remote:      remote,
		store:       store,
		credentials: credentials,
	}
}

// Execute runs the upload. Only one upload or download runs at a time.
func (c *UploadCommand) Execute(ctx context.Context) (*UploadResult, error) {
	var result *UploadResult
	err := c.guard.Run(func() error {
		var err error
		result, err = c.upload(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *UploadCommand) upload(ctx context.Context) (*UploadResult, error) {
	history, err := c.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if history.IsEmpty() {
		return nil, application.ErrEmptyHistory
	}

	credential, err := requireCredential(ctx, c.credentials, "list")
	if err != nil {
		return nil, err
	}

	content, err := domain.MarshalHistory(history)
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}

	desc, err := c.remote.FindBackup(ctx, credential)
	if err != nil {
		return nil, err
	}

	if desc == nil {
		created, err := c.remote.CreateBackup(ctx, credential, content)
		if err != nil {
			return nil, err
		}
		return &UploadResult{
			DocumentID: created.ID,
			Created:    true,
			Records:    history.Len(),
			Message:    fmt.Sprintf("Backed up %d records to new document %s", history.Len(), created.ID),
		}, nil
	}

	if err := c.remote.UpdateBackup(ctx, credential, desc.ID, content); err != nil {
		return nil, err
	}
	return &UploadResult{
		DocumentID: desc.ID,
		Records:    history.Len(),
		Message:    fmt.Sprintf("Backed up %d records to document %s", history.Len(), desc.ID),
	}, nil
}

func requireCredential(ctx context.Context, src CredentialSource, op string) (string, error) {
	credential, err := src.Credential(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load credential: %w", err)
	}
	if credential == "" {
		return "", &application.RemoteError{
			Op:    op,
			Kind:  application.ErrAuth,
			Cause: errors.New("no access token configured"),
		}
	}
	return credential, nil
}
