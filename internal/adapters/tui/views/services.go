package views

import (
	"github.com/atotto/clipboard"

	"scanlog/internal/application"
	"scanlog/internal/application/commands"
	"scanlog/internal/ports"
)

// Services bundles what the views act on
type Services struct {
	Session  *application.Session
	Remote   ports.BackupRemote
	Guard    *commands.BackupGuard
	Exporter ports.Exporter

	// Copy writes text to the system clipboard. Defaults to atotto/clipboard.
	Copy func(text string) error
}

func (s Services) store() ports.RecordStore {
	return s.Session.Store()
}

func (s Services) copyText(text string) error {
	if s.Copy != nil {
		return s.Copy(text)
	}
	return clipboard.WriteAll(text)
}
