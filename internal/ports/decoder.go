package ports

import (
	"io"

	"scanlog/internal/domain"
)

// DecodeEvent is one report from the optical decoder.
// Err carries decoder failures, which the intake ignores.
type DecodeEvent struct {
	Text string
	Err  error
}

// Exporter writes the history as a downloadable artifact
type Exporter interface {
	// Export writes log to w in log order
	Export(w io.Writer, log domain.HistoryLog) error

	// FileName returns the default artifact file name, e.g. "qr-history.csv"
	FileName() string
}
