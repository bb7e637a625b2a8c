package commands

import (
	"context"
	"fmt"

	"scanlog/internal/application"
	"scanlog/internal/domain"
)

// RecordScanResult contains the result of recording a decoded value
type RecordScanResult struct {
	Admitted bool
	Record   domain.ScanRecord
	Message  string
}

// RecordScanCommand feeds one decoded value through the session intake
type RecordScanCommand struct {
	session *application.Session
	Text    string
}

// NewRecordScanCommand creates a new RecordScanCommand
func NewRecordScanCommand(session *application.Session, text string) *RecordScanCommand {
	return &RecordScanCommand{
		session: session,
		Text:    text,
	}
}

// Validate checks that there is something to record
func (c *RecordScanCommand) Validate() error {
	_, err := application.NormalizeScanText(c.Text)
	return err
}

// Execute runs the record command
func (c *RecordScanCommand) Execute(ctx context.Context) (*RecordScanResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	res, err := c.session.Intake(ctx, c.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to record scan: %w", err)
	}
	if !res.Admitted {
		return &RecordScanResult{Message: "Repeated scan ignored"}, nil
	}

	return &RecordScanResult{
		Admitted: true,
		Record:   res.Record,
		Message:  fmt.Sprintf("Recorded: %s", res.Record.Text),
	}, nil
}
