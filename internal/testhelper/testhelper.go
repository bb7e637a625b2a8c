// Package testhelper provides in-memory doubles of the scanlog ports for tests.
package testhelper

import (
	"context"
	"sync"

	"scanlog/internal/ports"
)

// MemoryKV is an in-memory ports.KeyValueStore
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string

	// SetErr, when non-nil, is returned by every Set
	SetErr error
	// GetErr, when non-nil, is returned by every Get
	GetErr error
}

var _ ports.KeyValueStore = (*MemoryKV)(nil)

// NewMemoryKV creates an empty store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryKV) Close() error { return nil }

// Raw returns the stored value without going through the ports interface
func (m *MemoryKV) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

// Put stores a value directly, e.g. to seed corrupt data
func (m *MemoryKV) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// FakeRemote is a scriptable ports.BackupRemote that records every call
type FakeRemote struct {
	mu sync.Mutex

	Descriptor *ports.RemoteDescriptor
	Content    []byte

	FindErr   error
	CreateErr error
	UpdateErr error
	FetchErr  error

	// Block, when non-nil, makes FindBackup wait until it is closed
	Block chan struct{}
	// Entered receives a value when FindBackup starts, if non-nil
	Entered chan struct{}

	Calls       []string
	Credentials []string
	Written     []byte
}

var _ ports.BackupRemote = (*FakeRemote)(nil)

func (f *FakeRemote) record(call, credential string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
	if credential != "" {
		f.Credentials = append(f.Credentials, credential)
	}
}

func (f *FakeRemote) FindBackup(ctx context.Context, credential string) (*ports.RemoteDescriptor, error) {
	f.record("find", credential)
	if f.Entered != nil {
		f.Entered <- struct{}{}
	}
	if f.Block != nil {
		select {
		case <-f.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	return f.Descriptor, nil
}

func (f *FakeRemote) CreateBackup(_ context.Context, credential string, content []byte) (*ports.RemoteDescriptor, error) {
	f.record("create", credential)
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Written = append([]byte(nil), content...)
	f.Descriptor = &ports.RemoteDescriptor{ID: "doc-1", RawURL: "mem://doc-1"}
	f.Content = f.Written
	return f.Descriptor, nil
}

func (f *FakeRemote) UpdateBackup(_ context.Context, credential, id string, content []byte) error {
	f.record("update:"+id, credential)
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Written = append([]byte(nil), content...)
	f.Content = f.Written
	return nil
}

func (f *FakeRemote) FetchContent(_ context.Context, rawURL string) ([]byte, error) {
	f.record("fetch:"+rawURL, "")
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Content, nil
}

// CallLog returns a copy of the recorded calls
func (f *FakeRemote) CallLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Calls...)
}
