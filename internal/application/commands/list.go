package commands

import (
	"context"

	"scanlog/internal/domain"
	"scanlog/internal/ports"
)

// HistoryPage is one window of the history plus the size of the whole log
type HistoryPage struct {
	Records domain.HistoryLog
	Total   int
}

// ListHistoryCommand lists the persisted history, newest first
type ListHistoryCommand struct {
	store  ports.RecordStore
	Limit  int // zero means no limit
	Offset int
}

// NewListHistoryCommand creates a new ListHistoryCommand
func NewListHistoryCommand(store ports.RecordStore, limit, offset int) *ListHistoryCommand {
	return &ListHistoryCommand{
		store:  store,
		Limit:  limit,
		Offset: offset,
	}
}

// Execute runs the list history command
func (c *ListHistoryCommand) Execute(ctx context.Context) (*HistoryPage, error) {
	history, err := c.store.All(ctx)
	if err != nil {
		return nil, err
	}

	return &HistoryPage{
		Records: Window(history, c.Offset, c.Limit),
		Total:   history.Len(),
	}, nil
}

// Window returns log[offset:offset+limit], clamped to the log bounds.
// A non-positive limit returns everything after offset.
func Window(log domain.HistoryLog, offset, limit int) domain.HistoryLog {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(log) {
		return domain.HistoryLog{}
	}
	end := len(log)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return log[offset:end].Clone()
}

// CountHistoryCommand counts the persisted records
type CountHistoryCommand struct {
	store ports.RecordStore
}

// NewCountHistoryCommand creates a new CountHistoryCommand
func NewCountHistoryCommand(store ports.RecordStore) *CountHistoryCommand {
	return &CountHistoryCommand{store: store}
}

// Execute runs the count command
func (c *CountHistoryCommand) Execute(ctx context.Context) (int, error) {
	history, err := c.store.All(ctx)
	if err != nil {
		return 0, err
	}
	return history.Len(), nil
}

// LastScanCommand returns the most recent record
type LastScanCommand struct {
	store ports.RecordStore
}

// NewLastScanCommand creates a new LastScanCommand
func NewLastScanCommand(store ports.RecordStore) *LastScanCommand {
	return &LastScanCommand{store: store}
}

// Execute returns the newest record. ok is false when the history is empty.
func (c *LastScanCommand) Execute(ctx context.Context) (rec domain.ScanRecord, ok bool, err error) {
	history, err := c.store.All(ctx)
	if err != nil {
		return domain.ScanRecord{}, false, err
	}
	if history.IsEmpty() {
		return domain.ScanRecord{}, false, nil
	}
	return history[0], true, nil
}
