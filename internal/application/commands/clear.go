package commands

import (
	"context"
	"fmt"

	"scanlog/internal/application"
	"scanlog/internal/ports"
)

// ClearPrompt is the question asked before wiping the history
const ClearPrompt = "Clear all scan history? This cannot be undone."

// ClearResult contains the result of clearing the history
type ClearResult struct {
	Removed int
	Message string
}

// ClearCommand deletes every record from the local log
type ClearCommand struct {
	store     ports.RecordStore
	Confirmed bool
}

// NewClearCommand creates a new ClearCommand
func NewClearCommand(store ports.RecordStore, confirmed bool) *ClearCommand {
	return &ClearCommand{
		store:     store,
		Confirmed: confirmed,
	}
}

// Validate checks that the user confirmed the operation
func (c *ClearCommand) Validate() error {
	if !c.Confirmed {
		return application.ErrNotConfirmed
	}
	return nil
}

// Execute runs the clear command
func (c *ClearCommand) Execute(ctx context.Context) (*ClearResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	history, err := c.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if err := c.store.Clear(ctx); err != nil {
		return nil, err
	}

	return &ClearResult{
		Removed: history.Len(),
		Message: "History cleared",
	}, nil
}
