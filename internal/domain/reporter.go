package domain

import "slices"

// Reporter keeps the values decoded during the current activation, newest first.
// It is never persisted and never merged.
type Reporter struct {
	items []string
}

// NewReporter creates an empty reporter
func NewReporter() *Reporter {
	return &Reporter{}
}

// Report adds text at the head of the list
func (r *Reporter) Report(text string) {
	r.items = slices.Insert(r.items, 0, text)
}

// Items returns a copy of the reported values, newest first
func (r *Reporter) Items() []string {
	return slices.Clone(r.items)
}

// Len returns the number of reported values
func (r *Reporter) Len() int {
	return len(r.items)
}

// Latest returns the most recent value, if any
func (r *Reporter) Latest() (string, bool) {
	if len(r.items) == 0 {
		return "", false
	}
	return r.items[0], true
}
