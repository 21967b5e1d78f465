package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rostersearch/internal/record"
)

func TestSuggestions(t *testing.T) {
	e := rosterEngine(t)

	res := e.Search(Request{Query: "assistant"})
	require.NotEmpty(t, res.Suggestions)

	seen := make(map[string]bool)
	for _, s := range res.Suggestions {
		assert.Contains(t, []string{"name", "role", "org"}, s.Type)
		key := s.Type + ":" + s.Value
		assert.False(t, seen[key], "duplicate suggestion %s", key)
		seen[key] = true
	}
	assert.Contains(t, res.Suggestions, Suggestion{Type: "role", Value: "Research Assistant"})
	assert.Contains(t, res.Suggestions, Suggestion{Type: "role", Value: "Assistant Professor"})
}

func TestSuggestionsCapped(t *testing.T) {
	raws := make([]record.Raw, 30)
	for i := range raws {
		raws[i] = record.Raw{
			Name:     fmt.Sprintf("Smith Number %02d", i),
			HomeOrg:  "Registrar",
			Roles:    []string{"Clerk"},
			IsActive: true,
		}
	}
	e := New(DefaultConfig())
	require.NoError(t, e.SetRecords(record.Prepare(raws)))

	res := e.Search(Request{Query: "smith"})
	assert.Len(t, res.Suggestions, DefaultConfig().SuggestionCap)
	assert.Len(t, res.Names, 30, "the suggestion cap must not limit results")
}

func TestSuggestionsRespectTimeBudget(t *testing.T) {
	e := rosterEngine(t)

	// A clock that jumps past the budget after the first collection attempt.
	base := time.Now()
	calls := 0
	e.clock = func() time.Time {
		calls++
		if calls <= 2 {
			return base
		}
		return base.Add(DefaultConfig().SuggestionBudget + time.Millisecond)
	}

	res := e.Search(Request{Query: "a"})
	// Scoring of the remaining records continued unaffected.
	assert.NotEmpty(t, res.Names)
	assert.LessOrEqual(t, len(res.Suggestions), 1+3)
}

func TestSuggestionsSkippedForEmptyAndRegexQueries(t *testing.T) {
	e := rosterEngine(t)

	res := e.Search(Request{Query: ""})
	assert.Empty(t, res.Suggestions)

	res = e.Search(Request{Query: "/smith/"})
	assert.Empty(t, res.Suggestions)
}
