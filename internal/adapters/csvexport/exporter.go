// Package csvexport renders the scan history as a spreadsheet-friendly CSV file.
package csvexport

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"scanlog/internal/domain"
	"scanlog/internal/ports"
)

// DefaultFileName is the suggested name of the exported file
const DefaultFileName = "qr-history.csv"

// DefaultTimeLayout renders timestamps like "2024/1/2 15:04:05"
const DefaultTimeLayout = "2006/1/2 15:04:05"

// bom makes spreadsheet applications detect UTF-8
const bom = "\ufeff"

// Exporter implements ports.Exporter.
// Output has a UTF-8 BOM, a Timestamp,Content header and CRLF line endings.
type Exporter struct {
	layout   string
	location *time.Location
	fileName string
}

// Ensure Exporter implements ports.Exporter
var _ ports.Exporter = (*Exporter)(nil)

// Option configures an Exporter
type Option func(*Exporter)

// WithTimeLayout sets the layout used to render timestamps
func WithTimeLayout(layout string) Option {
	return func(e *Exporter) {
		if layout != "" {
			e.layout = layout
		}
	}
}

// WithLocation sets the time zone timestamps are rendered in
func WithLocation(loc *time.Location) Option {
	return func(e *Exporter) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithFileName overrides the suggested file name
func WithFileName(name string) Option {
	return func(e *Exporter) {
		if name != "" {
			e.fileName = name
		}
	}
}

// New creates an exporter rendering times in the local time zone
func New(opts ...Option) *Exporter {
	e := &Exporter{
		layout:   DefaultTimeLayout,
		location: time.Local,
		fileName: DefaultFileName,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes one row per record in log order
func (e *Exporter) Export(w io.Writer, log domain.HistoryLog) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(bom); err != nil {
		return err
	}

	if err := writeRow(bw, "Timestamp", "Content"); err != nil {
		return err
	}
	for i, rec := range log {
		if err := writeRow(bw, e.formatTime(rec), rec.Text); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	return bw.Flush()
}

func writeRow(w *bufio.Writer, fields ...string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(escapeField(f)); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\r\n")
	return err
}

// escapeField quotes a field only when it holds a comma, a quote or a line
// break. Leading spaces and embedded newlines are kept as scanned.
func escapeField(s string) string {
	if !fieldNeedsQuotes(s) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func fieldNeedsQuotes(s string) bool {
	return strings.ContainsAny(s, ",\"\r\n")
}

// FileName returns the suggested file name
func (e *Exporter) FileName() string {
	return e.fileName
}

// Unparseable timestamps are written as stored
func (e *Exporter) formatTime(rec domain.ScanRecord) string {
	t, ok := rec.Time()
	if !ok {
		return rec.Timestamp
	}
	return t.In(e.location).Format(e.layout)
}
