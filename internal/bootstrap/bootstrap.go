// Package bootstrap wires the adapters shared by the scanlog binaries.
package bootstrap

import (
	"fmt"
	"sync"

	"scanlog/internal/adapters/csvexport"
	"scanlog/internal/adapters/remote"
	"scanlog/internal/adapters/sqlite"
	"scanlog/internal/application"
	"scanlog/internal/application/commands"
	"scanlog/internal/config"
	"scanlog/internal/domain"
	"scanlog/internal/logging"
)

// Runtime holds the opened local store and the services built on it
type Runtime struct {
	Config   *config.Config
	KV       *sqlite.Store
	Store    *application.RecordStore
	Session  *application.Session
	Remote   *remote.Client
	Guard    *commands.BackupGuard
	Exporter *csvexport.Exporter
	Logger   logging.Logger

	closeOnce sync.Once
	closeErr  error
}

// Option configures the session built by Open
type Option func(*settings)

type settings struct {
	onAdmit func(domain.ScanRecord)
}

// WithAdmitHook runs fn after each admitted scan
func WithAdmitHook(fn func(domain.ScanRecord)) Option {
	return func(s *settings) { s.onAdmit = fn }
}

// Open opens the database at cfg.DBPath and builds the services on top of it.
// The caller must Close the runtime.
func Open(cfg *config.Config, opts ...Option) (*Runtime, error) {
	var set settings
	for _, opt := range opts {
		opt(&set)
	}

	if err := logging.SetLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	logger := logging.New("scanlog")

	kv, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	client, err := remote.NewClient(cfg.RemoteURL,
		remote.WithTimeout(cfg.Timeout),
		remote.WithLogger(logging.New("remote")),
	)
	if err != nil {
		kv.Close()
		return nil, err
	}

	store := application.NewRecordStore(kv, application.WithLogger(logging.New("store")))

	sessionOpts := []application.SessionOption{application.WithSessionLogger(logging.New("session"))}
	if set.onAdmit != nil {
		sessionOpts = append(sessionOpts, application.WithAdmitHook(set.onAdmit))
	}
	session := application.NewSession(store, store, sessionOpts...)
	if cfg.Token != "" {
		session.OverrideCredential(cfg.Token)
	}

	logger.Debugw("runtime opened", "db", kv.Path(), "remote", cfg.RemoteURL)

	return &Runtime{
		Config:   cfg,
		KV:       kv,
		Store:    store,
		Session:  session,
		Remote:   client,
		Guard:    commands.NewBackupGuard(),
		Exporter: csvexport.New(
			csvexport.WithTimeLayout(cfg.CSVTimeLayout),
			csvexport.WithFileName(cfg.ExportFile),
		),
		Logger:   logger,
	}, nil
}

// Close releases the database. Later calls return the first result.
func (r *Runtime) Close() error {
	r.closeOnce.Do(func() {
		r.closeErr = r.KV.Close()
	})
	return r.closeErr
}
