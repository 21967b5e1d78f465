package engine

import (
	"strings"
	"time"

	"rostersearch/internal/query"
	"rostersearch/internal/record"
	"rostersearch/internal/text"
)

// suggestor incrementally collects autocomplete candidates while the main
// scoring pass runs. It stops at the count cap or when the wall-clock budget
// runs out; the budget check only gates starting another lookup, it never
// interrupts one in progress.
type suggestor struct {
	query  string // normalized, "" disables collection
	cap    int
	budget time.Duration
	start  time.Time
	clock  func() time.Time
	seen   map[string]bool
	out    []Suggestion
	done   bool
}

func (e *Engine) newSuggestor(pq *query.Parsed) *suggestor {
	s := &suggestor{
		cap:    e.cfg.SuggestionCap,
		budget: e.cfg.SuggestionBudget,
		clock:  e.clock,
		start:  e.clock(),
		seen:   make(map[string]bool),
	}
	if !pq.RegexMode {
		s.query = text.Normalize(pq.Raw)
	}
	return s
}

// collect inspects one filter-passing record for name/role/org candidates.
func (s *suggestor) collect(rec *record.Prepared) {
	if s.done || s.query == "" {
		return
	}
	if s.clock().Sub(s.start) > s.budget {
		s.done = true
		return
	}

	s.add("name", rec.Name, rec.NameNorm)
	for i, role := range rec.Roles {
		s.add("role", role, rec.RolesNorm[i])
	}
	s.add("org", rec.HomeOrg, rec.HomeOrgNorm)
	s.add("org", rec.LastOrg, rec.LastOrgNorm)
}

// add emits one suggestion per distinct type:normalizedValue key.
func (s *suggestor) add(typ, display, norm string) {
	if s.done || norm == "" || !strings.Contains(norm, s.query) {
		return
	}
	key := typ + ":" + norm
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.out = append(s.out, Suggestion{Type: typ, Value: display})
	if len(s.out) >= s.cap {
		s.done = true
	}
}

func (s *suggestor) suggestions() []Suggestion {
	if s.out == nil {
		return []Suggestion{}
	}
	return s.out
}
