package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"scanlog/internal/application"
	"scanlog/internal/ports"
)

// ExportResult contains the result of an export
type ExportResult struct {
	Path    string
	Records int
	Message string
}

// ExportCommand writes the history to a file through an exporter
type ExportCommand struct {
	store    ports.RecordStore
	exporter ports.Exporter
	Path     string
}

// NewExportCommand creates a new ExportCommand.
// An empty path writes the exporter's default file name in the working directory.
func NewExportCommand(store ports.RecordStore, exporter ports.Exporter, path string) *ExportCommand {
	return &ExportCommand{
		store:    store,
		exporter: exporter,
		Path:     path,
	}
}

// Validate checks if the export operation is valid
func (c *ExportCommand) Validate() error {
	if c.Path == "" {
		return nil
	}
	if info, err := os.Stat(c.Path); err == nil && info.IsDir() {
		return &application.ValidationError{
			Field:   "outputPath",
			Message: fmt.Sprintf("%s is a directory", c.Path),
		}
	}
	return nil
}

// Execute runs the export command
func (c *ExportCommand) Execute(ctx context.Context) (*ExportResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	history, err := c.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if history.IsEmpty() {
		return nil, application.ErrEmptyHistory
	}

	var buf bytes.Buffer
	if err := c.exporter.Export(&buf, history); err != nil {
		return nil, fmt.Errorf("failed to render export: %w", err)
	}

	path := c.Path
	if path == "" {
		path = c.exporter.FileName()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write export: %w", err)
	}

	return &ExportResult{
		Path:    path,
		Records: history.Len(),
		Message: fmt.Sprintf("Exported %d records to %s", history.Len(), path),
	}, nil
}
