package engine

import (
	"testing"

	"rostersearch/internal/query"
	"rostersearch/internal/record"
)

func scoreOne(t *testing.T, raw record.Raw, q string) (float64, bool) {
	t.Helper()
	e := New(DefaultConfig())
	prepared := record.Prepare([]record.Raw{raw})
	pq := query.Parse(q)
	return e.scoreRecord(&prepared[0], &pq)
}

func TestScoreUnscopedTerm(t *testing.T) {
	raw := record.Raw{
		Name:    "Alice Johnson",
		HomeOrg: "OSU - Medical Center",
		Roles:   []string{"Research Assistant"},
	}

	tests := []struct {
		name     string
		query    string
		expected float64
		match    bool
	}{
		{"name prefix", "alice", 0, true},
		{"name substring", "johnson", 1, true},
		{"name fuzzy", "jonson", 2 + 1, true},
		{"role exact via penalty", "research", 1 + 0, true},
		{"org via penalty", "medical", 1 + 1, true},
		{"no match", "zzzzzzzz", 0, false},
		{"two terms accumulate", "alice johnson", 0 + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := scoreOne(t, raw, tt.query)
			if ok != tt.match {
				t.Fatalf("match = %v, want %v", ok, tt.match)
			}
			if ok && got != tt.expected {
				t.Errorf("score = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestScoreActiveBonus(t *testing.T) {
	raw := record.Raw{Name: "Alice Johnson", IsActive: true}
	got, ok := scoreOne(t, raw, "johnson")
	if !ok {
		t.Fatal("expected match")
	}
	if got != 1-activeBonus {
		t.Errorf("score = %v, want %v", got, 1-activeBonus)
	}
}

func TestScoreNegativeTerm(t *testing.T) {
	raw := record.Raw{Name: "Alice Johnson", Roles: []string{"Coach"}}
	if _, ok := scoreOne(t, raw, "alice -coach"); ok {
		t.Error("negative term should reject the record")
	}
	if _, ok := scoreOne(t, raw, "alice -dean"); !ok {
		t.Error("absent negative term should not reject")
	}
}

func TestScoreNameFieldTerm(t *testing.T) {
	raw := record.Raw{Name: "Alice Johnson", HomeOrg: "Johnson Hall"}
	score, ok := scoreOne(t, raw, "name:jonson")
	if !ok {
		t.Fatal("expected fuzzy name match")
	}
	if score != 2+1 {
		t.Errorf("score = %v, want 3", score)
	}
	if _, ok := scoreOne(t, raw, "name:zzzz"); ok {
		t.Error("unmatched name term must reject the record")
	}
}

func TestScoreFieldTermsFlatPenalty(t *testing.T) {
	raw := record.Raw{
		Name:    "Alice Johnson",
		HomeOrg: "OSU - Medical Center",
		Roles:   []string{"Research Assistant"},
	}

	score, ok := scoreOne(t, raw, "org:medical role:research")
	if !ok {
		t.Fatal("expected match")
	}
	if score != orgFieldPenalty+roleFieldPenalty {
		t.Errorf("score = %v, want %v", score, orgFieldPenalty+roleFieldPenalty)
	}

	if _, ok := scoreOne(t, raw, "org:athletics"); ok {
		t.Error("unmatched org term must reject the record")
	}
}

// role:"research assistant" requires both tokens inside one role value; a
// record carrying them only in unrelated roles must not match.
func TestScoreQuotedRoleScoping(t *testing.T) {
	matching := record.Raw{Name: "Alice", Roles: []string{"Research Assistant"}}
	if _, ok := scoreOne(t, matching, `role:"research assistant"`); !ok {
		t.Error("expected single-role match")
	}

	split := record.Raw{Name: "Frank", Roles: []string{"Senior Research Fellow", "Teaching Assistant"}}
	if _, ok := scoreOne(t, split, `role:"research assistant"`); ok {
		t.Error("tokens split across roles must not match")
	}

	crossField := record.Raw{Name: "Research Q. Person", Roles: []string{"Assistant Coach"}}
	if _, ok := scoreOne(t, crossField, `role:"research assistant"`); ok {
		t.Error("tokens split across fields must not match")
	}
}

func TestFuzzyMaxDist(t *testing.T) {
	tests := []struct {
		length, expected int
	}{
		{1, 1}, {4, 1}, {5, 2}, {6, 2}, {7, 3}, {20, 3},
	}
	for _, tt := range tests {
		if got := fuzzyMaxDist(tt.length); got != tt.expected {
			t.Errorf("fuzzyMaxDist(%d) = %d, want %d", tt.length, got, tt.expected)
		}
	}
}
