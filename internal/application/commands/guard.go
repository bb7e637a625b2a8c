package commands

import (
	"golang.org/x/sync/semaphore"

	"scanlog/internal/application"
)

// BackupGuard admits one remote backup operation at a time.
// Upload and Download share a single guard so they never overlap.
type BackupGuard struct {
	sem *semaphore.Weighted
}

// NewBackupGuard creates an idle guard
func NewBackupGuard() *BackupGuard {
	return &BackupGuard{sem: semaphore.NewWeighted(1)}
}

// Run executes fn if no other operation holds the guard, and returns
// application.ErrBusy otherwise. The guard is released on every path.
func (g *BackupGuard) Run(fn func() error) error {
	if !g.sem.TryAcquire(1) {
		return application.ErrBusy
	}
	defer g.sem.Release(1)

	return fn()
}

// Busy reports whether an operation currently holds the guard
func (g *BackupGuard) Busy() bool {
	if !g.sem.TryAcquire(1) {
		return true
	}
	g.sem.Release(1)
	return false
}
