package domain

import (
	"reflect"
	"testing"
	"time"
)

func TestNewScanRecord_Timestamp(t *testing.T) {
	now := time.Date(2024, 6, 7, 10, 11, 12, 345_000_000, time.FixedZone("CST", 8*3600))
	r := NewScanRecord("hello", now)

	if r.Timestamp != "2024-06-07T02:11:12.345Z" {
		t.Errorf("unexpected timestamp %q", r.Timestamp)
	}
	parsed, ok := r.Time()
	if !ok || !parsed.Equal(now) {
		t.Errorf("Time() = %v, %v; expected %v", parsed, ok, now)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2024-01-01T00:00:00Z", true},
		{"2024-01-01T00:00:00.000Z", true},
		{"2024-01-01T08:00:00+08:00", true},
		{"", false},
		{"2024-01-01", false},
		{"not a date", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, ok := ParseTimestamp(tt.in)
			if ok != tt.ok {
				t.Errorf("ParseTimestamp(%q) ok = %v, expected %v", tt.in, ok, tt.ok)
			}
		})
	}
}

func TestHistoryLog_Prepend(t *testing.T) {
	h := HistoryLog{rec("old", "2024-01-01T00:00:00Z")}
	out := h.Prepend(rec("new", "2024-01-02T00:00:00Z"))

	if len(h) != 1 {
		t.Errorf("original log modified: %v", h)
	}
	if out[0].Text != "new" || out[1].Text != "old" {
		t.Errorf("unexpected order: %v", out)
	}
}

func TestUnmarshalHistory(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected HistoryLog
		wantErr  bool
	}{
		{
			name:     "array",
			data:     `[{"text":"x","timestamp":"2024-01-01T00:00:00.000Z"}]`,
			expected: HistoryLog{rec("x", "2024-01-01T00:00:00.000Z")},
		},
		{name: "null", data: `null`, expected: HistoryLog{}},
		{name: "empty array", data: `[]`, expected: HistoryLog{}},
		{name: "object", data: `{"text":"x"}`, wantErr: true},
		{name: "garbage", data: `{{{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnmarshalHistory([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("UnmarshalHistory() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestMarshalHistory_NilIsEmptyArray(t *testing.T) {
	data, err := MarshalHistory(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected [], got %s", data)
	}
}

func TestReporter(t *testing.T) {
	r := NewReporter()
	if _, ok := r.Latest(); ok {
		t.Error("expected no latest value on empty reporter")
	}

	r.Report("first")
	r.Report("second")

	if got := r.Items(); !reflect.DeepEqual(got, []string{"second", "first"}) {
		t.Errorf("Items() = %v", got)
	}
	if latest, _ := r.Latest(); latest != "second" {
		t.Errorf("Latest() = %q", latest)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d", r.Len())
	}
}
