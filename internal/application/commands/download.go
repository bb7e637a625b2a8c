package commands

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"scanlog/internal/application"
	"scanlog/internal/domain"
	"scanlog/internal/ports"
)

var recordValidator = validator.New()

// DownloadResult contains the result of a download
type DownloadResult struct {
	DocumentID string
	Stats      domain.MergeStats
	Message    string
}

// DownloadCommand fetches the remote snapshot and merges it into the local log
type DownloadCommand struct {
	guard       *BackupGuard
	remote      ports.BackupRemote
	store       ports.RecordStore
	credentials CredentialSource
}

// NewDownloadCommand creates a new DownloadCommand
func NewDownloadCommand(guard *BackupGuard, remote ports.BackupRemote, store ports.RecordStore, credentials CredentialSource) *DownloadCommand {
	return &DownloadCommand{
		guard:       guard,
		remote:      remote,
		store:       store,
		credentials: credentials,
	}
}

// Execute runs the download. The local log is only replaced after the
// remote snapshot has been fetched and validated.
func (c *DownloadCommand) Execute(ctx context.Context) (*DownloadResult, error) {
	var result *DownloadResult
	err := c.guard.Run(func() error {
		var err error
		result, err = c.download(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *DownloadCommand) download(ctx context.Context) (*DownloadResult, error) {
	credential, err := requireCredential(ctx, c.credentials, "list")
	if err != nil {
		return nil, err
	}

	desc, err := c.remote.FindBackup(ctx, credential)
	if err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, application.ErrNotFound
	}

	raw, err := c.remote.FetchContent(ctx, desc.RawURL)
	if err != nil {
		return nil, err
	}

	remoteLog, err := ParseSnapshot(raw)
	if err != nil {
		return nil, err
	}

	stats, err := c.store.Merge(ctx, remoteLog)
	if err != nil {
		return nil, err
	}

	return &DownloadResult{
		DocumentID: desc.ID,
		Stats:      stats,
		Message:    fmt.Sprintf("Merged %d remote records, %d new (%d total)", stats.Remote, stats.Added, stats.Total),
	}, nil
}

// ParseSnapshot decodes a remote snapshot and checks that every record
// carries both a text and a timestamp
func ParseSnapshot(raw []byte) (domain.HistoryLog, error) {
	log, err := domain.UnmarshalHistory(raw)
	if err != nil {
		return nil, &application.RemoteError{Op: "parse", Kind: application.ErrCorruptRemote, Cause: err}
	}

	for i := range log {
		if err := recordValidator.Struct(log[i]); err != nil {
			return nil, &application.RemoteError{
				Op:    "parse",
				Kind:  application.ErrCorruptRemote,
				Cause: fmt.Errorf("record %d: %w", i, err),
			}
		}
	}
	return log, nil
}
