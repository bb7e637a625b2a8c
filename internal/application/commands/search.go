package commands

import (
	"context"
	"sort"
	"strings"

	"scanlog/internal/domain"
	"scanlog/internal/ports"
)

// SearchResult wraps a history record with a relevance score
type SearchResult struct {
	domain.ScanRecord
	Score int
}

// SearchHistoryCommand searches the history with fuzzy matching
type SearchHistoryCommand struct {
	store ports.RecordStore
	Query string
}

// NewSearchHistoryCommand creates a new SearchHistoryCommand
func NewSearchHistoryCommand(store ports.RecordStore, query string) *SearchHistoryCommand {
	return &SearchHistoryCommand{
		store: store,
		Query: query,
	}
}

// Execute runs the search command and returns scored, sorted results
func (c *SearchHistoryCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	if len(c.Query) < 2 {
		return nil, nil
	}

	history, err := c.store.All(ctx)
	if err != nil {
		return nil, err
	}

	return FuzzySort(history, c.Query), nil
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	if strings.Contains(target, query) {
		score := 100
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// chars in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] != query[queryIdx] {
			continue
		}
		if prevMatchIdx == i-1 {
			score += 10
		}
		if i == 0 {
			score += 15
		}
		if i > 0 && isSeparator(target[i-1]) {
			score += 10
		}
		score++
		prevMatchIdx = i
		queryIdx++
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

// decoded payloads are mostly URLs and key:value strings
func isSeparator(b byte) bool {
	switch b {
	case ' ', '.', '-', '/', ':', ';', '=', '?', '&':
		return true
	}
	return false
}

// FuzzySort scores every record against query and returns the matches, best first.
// Records with equal scores keep their history order.
func FuzzySort(history domain.HistoryLog, query string) []SearchResult {
	scored := make([]SearchResult, 0, len(history))

	for _, r := range history {
		best := max(FuzzyScore(r.Text, query), FuzzyScore(r.Timestamp, query))
		if best > 0 {
			scored = append(scored, SearchResult{ScanRecord: r, Score: best})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}
