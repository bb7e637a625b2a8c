package dochost

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scanlog/internal/adapters/remote"
	"scanlog/internal/application"
	"scanlog/internal/application/commands"
	"scanlog/internal/domain"
	"scanlog/internal/testhelper"
)

type device struct {
	store    *application.RecordStore
	upload   *commands.UploadCommand
	download *commands.DownloadCommand
}

func newDevice(t *testing.T, baseURL, token string) *device {
	t.Helper()
	client, err := remote.NewClient(baseURL, remote.WithTimeout(5*time.Second))
	require.NoError(t, err)

	store := application.NewRecordStore(testhelper.NewMemoryKV())
	session := application.NewSession(store, store)
	session.OverrideCredential(token)

	guard := commands.NewBackupGuard()
	return &device{
		store:    store,
		upload:   commands.NewUploadCommand(guard, client, store, session),
		download: commands.NewDownloadCommand(guard, client, store, session),
	}
}

func TestBackupRoundTrip(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t, WithTokens("tok"))

	phone := newDevice(t, srv.URL, "tok")
	laptop := newDevice(t, srv.URL, "tok")

	require.NoError(t, phone.store.Replace(ctx, domain.HistoryLog{
		{Text: "x", Timestamp: "2024-01-01T00:00:00Z"},
		{Text: "y", Timestamp: "2024-01-02T00:00:00Z"},
	}))
	require.NoError(t, laptop.store.Replace(ctx, domain.HistoryLog{
		{Text: "x", Timestamp: "2024-01-01T00:00:00Z"},
	}))

	_, err := laptop.download.Execute(ctx)
	assert.True(t, errors.Is(err, application.ErrNotFound), "got %v", err)

	res, err := phone.upload.Execute(ctx)
	require.NoError(t, err)
	assert.True(t, res.Created)

	res, err = phone.upload.Execute(ctx)
	require.NoError(t, err)
	assert.False(t, res.Created, "second upload updates the same document")

	dl, err := laptop.download.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.DocumentID, dl.DocumentID)
	assert.Equal(t, 1, dl.Stats.Added)

	merged, err := laptop.store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.HistoryLog{
		{Text: "y", Timestamp: "2024-01-02T00:00:00Z"},
		{Text: "x", Timestamp: "2024-01-01T00:00:00Z"},
	}, merged)
}

func TestBackupRejectedToken(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t, WithTokens("tok"))

	intruder := newDevice(t, srv.URL, "wrong")
	require.NoError(t, intruder.store.Replace(ctx, domain.HistoryLog{
		{Text: "x", Timestamp: "2024-01-01T00:00:00Z"},
	}))

	_, err := intruder.upload.Execute(ctx)
	assert.True(t, errors.Is(err, application.ErrAuth), "got %v", err)
	assert.Equal(t, "upload failed: the access token was rejected or is missing",
		application.StatusMessage("upload", err))
}
