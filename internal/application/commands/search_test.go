package commands

import (
	"context"
	"testing"

	"scanlog/internal/domain"
)

func TestFuzzyScore(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		query     string
		wantScore int
		wantMin   int
	}{
		{name: "exact match", target: "wifi", query: "wifi", wantScore: 150},
		{name: "prefix match", target: "WIFI:S:home", query: "wifi", wantScore: 150},
		{name: "substring match", target: "https://example.com", query: "example", wantScore: 100},
		{name: "no match", target: "plain text", query: "xyz", wantScore: 0},
		{name: "empty query", target: "plain text", query: "", wantScore: 0},
		{name: "chars in order", target: "https://example.com/a", query: "hxc", wantMin: 1},
		{name: "separator bonus", target: "a/b/c", query: "abc", wantMin: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FuzzyScore(tt.target, tt.query)
			if tt.wantMin > 0 {
				if got < tt.wantMin {
					t.Errorf("FuzzyScore(%q, %q) = %d, expected >= %d", tt.target, tt.query, got, tt.wantMin)
				}
				return
			}
			if got != tt.wantScore {
				t.Errorf("FuzzyScore(%q, %q) = %d, expected %d", tt.target, tt.query, got, tt.wantScore)
			}
		})
	}
}

func TestSearchHistoryCommand(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, sample...)

	results, err := NewSearchHistoryCommand(store, "w").Execute(ctx)
	if err != nil || results != nil {
		t.Errorf("short query should return nothing, got %v, %v", results, err)
	}

	results, err = NewSearchHistoryCommand(store, "wifi").Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Text != "WIFI:S:home;T:WPA;;" {
		t.Errorf("unexpected results %v", results)
	}

	results, _ = NewSearchHistoryCommand(store, "2024-01-0").Execute(ctx)
	if len(results) != 3 {
		t.Errorf("timestamp search matched %d records, expected 3", len(results))
	}
}

func TestFuzzyScore_Ordering(t *testing.T) {
	query := "example"

	prefixScore := FuzzyScore("example.com/login", query)
	containsScore := FuzzyScore("https://example.com", query)
	fuzzyScore := FuzzyScore("e.x.a.m.p.l.e", query)

	if prefixScore <= containsScore {
		t.Errorf("prefix match should score higher than contains: %d <= %d", prefixScore, containsScore)
	}
	if containsScore <= fuzzyScore {
		t.Errorf("contains match should score higher than fuzzy: %d <= %d", containsScore, fuzzyScore)
	}
}

func TestFuzzySort(t *testing.T) {
	history := domain.HistoryLog{
		{Text: "nothing here", Timestamp: "2024-01-04T00:00:00.000Z"},
		{Text: "my-ticket-1234", Timestamp: "2024-01-03T00:00:00.000Z"},
		{Text: "ticket:5678", Timestamp: "2024-01-02T00:00:00.000Z"},
		{Text: "ticket:9999", Timestamp: "2024-01-01T00:00:00.000Z"},
	}

	sorted := FuzzySort(history, "ticket")

	if len(sorted) != 3 {
		t.Fatalf("expected 3 results, got %d", len(sorted))
	}
	if sorted[0].Text != "ticket:5678" || sorted[1].Text != "ticket:9999" {
		t.Errorf("prefix matches should come first in history order, got %v", sorted)
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Score > sorted[i-1].Score {
			t.Errorf("results not sorted by score: %d > %d at index %d",
				sorted[i].Score, sorted[i-1].Score, i)
		}
	}
}
