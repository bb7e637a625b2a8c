package domain

import (
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// TimestampLayout is the ISO-8601 form written for new records (millisecond precision, UTC)
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ScanRecord represents a single decoded value and the moment it was captured
type ScanRecord struct {
	Text      string `json:"text" yaml:"text" validate:"required"`
	Timestamp string `json:"timestamp" yaml:"timestamp" validate:"required"`
}

// RecordKey is the identity of a record for deduplication purposes
type RecordKey struct {
	Timestamp string
	Text      string
}

// NewScanRecord creates a record for text captured at now
func NewScanRecord(text string, now time.Time) ScanRecord {
	return ScanRecord{
		Text:      text,
		Timestamp: FormatTimestamp(now),
	}
}

// Key returns the (timestamp, text) identity of the record
func (r ScanRecord) Key() RecordKey {
	return RecordKey{Timestamp: r.Timestamp, Text: r.Text}
}

// Time parses the record timestamp. ok is false when the stored value is not ISO-8601.
func (r ScanRecord) Time() (t time.Time, ok bool) {
	return ParseTimestamp(r.Timestamp)
}

// FormatTimestamp renders t in the layout used for stored records
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses an ISO-8601 timestamp, with or without fractional seconds
func ParseTimestamp(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// HistoryLog is the ordered sequence of scan records, newest first
type HistoryLog []ScanRecord

// Len returns the number of records
func (h HistoryLog) Len() int {
	return len(h)
}

// IsEmpty reports whether the log has no records
func (h HistoryLog) IsEmpty() bool {
	return len(h) == 0
}

// Clone returns a copy that shares no backing array with h
func (h HistoryLog) Clone() HistoryLog {
	if h == nil {
		return HistoryLog{}
	}
	return slices.Clone(h)
}

// Prepend returns a new log with rec at the head
func (h HistoryLog) Prepend(rec ScanRecord) HistoryLog {
	out := make(HistoryLog, 0, len(h)+1)
	out = append(out, rec)
	return append(out, h...)
}

// Sorted returns a copy of the log ordered newest first.
// Records with unparseable timestamps go last; ties fall back to the raw
// timestamp (descending) and then the text (ascending).
func (h HistoryLog) Sorted() HistoryLog {
	out := h.Clone()
	slices.SortStableFunc(out, compareNewestFirst)
	return out
}

// IsSorted reports whether the log is already ordered newest first
func (h HistoryLog) IsSorted() bool {
	return slices.IsSortedFunc(h, compareNewestFirst)
}

// Keys returns the identity set of the log
func (h HistoryLog) Keys() map[RecordKey]struct{} {
	keys := make(map[RecordKey]struct{}, len(h))
	for _, r := range h {
		keys[r.Key()] = struct{}{}
	}
	return keys
}

func compareNewestFirst(a, b ScanRecord) int {
	ta, okA := a.Time()
	tb, okB := b.Time()

	switch {
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	case okA && okB && !ta.Equal(tb):
		if ta.After(tb) {
			return -1
		}
		return 1
	}

	if c := strings.Compare(b.Timestamp, a.Timestamp); c != 0 {
		return c
	}
	return strings.Compare(a.Text, b.Text)
}

// MarshalHistory serializes the log as a JSON array of {text, timestamp}
func MarshalHistory(h HistoryLog) ([]byte, error) {
	if h == nil {
		h = HistoryLog{}
	}
	return json.Marshal(h)
}

// UnmarshalHistory parses a JSON array of records. A JSON null decodes to an empty log.
func UnmarshalHistory(data []byte) (HistoryLog, error) {
	var h HistoryLog
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, err
	}
	if h == nil {
		h = HistoryLog{}
	}
	return h, nil
}
