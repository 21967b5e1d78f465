// Package engine implements the roster search engine: filtering, scoring,
// regex search, suggestions, and the per-fingerprint result cache. One Engine
// owns all mutable state and is driven by a single caller at a time.
package engine

import (
	"sort"
	"time"

	"rostersearch/internal/query"
	"rostersearch/internal/record"
	"rostersearch/internal/store"
	"rostersearch/internal/text"
)

// Config bounds the engine's resource use.
type Config struct {
	CacheSize        int           // max cached result sets
	RegexMatchLimit  int           // broad-query guard for regex mode
	SuggestionCap    int           // max autocomplete candidates per search
	SuggestionBudget time.Duration // wall-clock budget for suggestion collection
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		CacheSize:        50,
		RegexMatchLimit:  3000,
		SuggestionCap:    8,
		SuggestionBudget: 20 * time.Millisecond,
	}
}

// Request carries one search call: the query text plus every filter
// dimension. NowTs is supplied by the caller so recency cutoffs are
// deterministic and testable.
type Request struct {
	Query           string   `json:"query"`
	RoleFilter      string   `json:"roleFilter"`
	MinSalary       *float64 `json:"minSalary"`
	MaxSalary       *float64 `json:"maxSalary"`
	DataFlagsOnly   bool     `json:"dataFlagsOnly"`
	ExclusionsMode  string   `json:"exclusionsMode"`
	Sort            string   `json:"sort"`
	TransitionNames []string `json:"transitionNames"`
	TransitionKey   string   `json:"transitionKey"`
	BaseNames       []string `json:"baseNames"`
	BaseKey         string   `json:"baseKey"`
	NowTs           int64    `json:"nowTs"`
}

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	Type  string `json:"type"` // "name", "role" or "org"
	Value string `json:"value"`
}

// Result is the response of one search call. Names are in the requested
// sort order.
type Result struct {
	Names          []string     `json:"names"`
	Suggestions    []Suggestion `json:"suggestions"`
	RegexMode      bool         `json:"regexMode"`
	RegexTooBroad  bool         `json:"regexTooBroad"`
	Warning        string       `json:"warning"`
	HighlightTerms []string     `json:"highlightTerms"`
	QueryUsedSort  string       `json:"queryUsedSort,omitempty"`
}

// Engine holds the prepared record collection, the result cache, and the
// edit-distance scratch buffers. Records are replaced wholesale by
// SetRecords and read-only in between.
type Engine struct {
	cfg     Config
	records []record.Prepared
	docs    map[string]uint32 // normalized name -> doc number
	dict    *store.NameDict
	cache   *resultCache
	dist    text.Distancer
	clock   func() time.Time

	scored int // scoring invocations, read by tests to verify cache hits
}

// New creates an engine with no records loaded.
func New(cfg Config) *Engine {
	return &Engine{
		cfg:   cfg,
		cache: newResultCache(cfg.CacheSize),
		clock: time.Now,
	}
}

// SetRecords replaces the record collection and clears the cache.
func (e *Engine) SetRecords(records []record.Prepared) error {
	dict, err := store.BuildNameDict(records)
	if err != nil {
		return err
	}
	e.records = records
	e.dict = dict
	e.docs = make(map[string]uint32, len(records))
	for i := range records {
		if _, ok := e.docs[records[i].NameNorm]; !ok {
			e.docs[records[i].NameNorm] = records[i].DocNum
		}
	}
	e.cache = newResultCache(e.cfg.CacheSize)
	return nil
}

// Count reports the number of loaded records.
func (e *Engine) Count() int {
	return len(e.records)
}

// Lookup returns the record whose name normalizes to the same form as name.
func (e *Engine) Lookup(name string) (*record.Prepared, bool) {
	if e.dict == nil {
		return nil, false
	}
	doc, ok := e.dict.Lookup(text.Normalize(name))
	if !ok {
		return nil, false
	}
	return &e.records[doc], true
}

// PrefixNames returns up to limit display names whose normalized form starts
// with the normalized prefix, in lexicographic order.
func (e *Engine) PrefixNames(prefix string, limit int) []string {
	if e.dict == nil {
		return nil
	}
	docs := e.dict.PrefixDocs(text.Normalize(prefix), limit)
	names := make([]string, len(docs))
	for i, doc := range docs {
		names[i] = e.records[doc].Name
	}
	return names
}

// Search runs one request/response cycle: parse, filter, score (or regex
// test), cache, sort.
func (e *Engine) Search(req Request) Result {
	pq := query.Parse(req.Query)

	if pq.RegexMode && pq.RegexErr != "" {
		return Result{
			Names:       []string{},
			Suggestions: []Suggestion{},
			RegexMode:   true,
			Warning:     "Invalid regex: " + pq.RegexErr,
		}
	}

	key := fingerprint(&req, &pq)
	entry, ok := e.cache.get(key)
	if !ok {
		entry = e.evaluate(&req, &pq)
		e.cache.put(key, entry)
	}

	return Result{
		Names:          e.sortedNames(entry.items, effectiveSort(&req, &pq)),
		Suggestions:    entry.suggestions,
		RegexMode:      entry.regexMode,
		RegexTooBroad:  entry.tooBroad,
		Warning:        entry.warning,
		HighlightTerms: pq.HighlightTerms,
		QueryUsedSort:  pq.Sort,
	}
}

// evaluate runs the full filter + score (or regex) pass over the record
// collection, collecting suggestions along the way.
func (e *Engine) evaluate(req *Request, pq *query.Parsed) *cacheEntry {
	fc := e.newFilterContext(req, pq)
	entry := &cacheEntry{regexMode: pq.RegexMode}
	sugg := e.newSuggestor(pq)

	for i := range e.records {
		rec := &e.records[i]
		if !fc.passes(rec) {
			continue
		}

		if pq.RegexMode {
			if !pq.Regex.MatchString(rec.SearchText) {
				continue
			}
			entry.items = append(entry.items, matchItem{rec: rec})
			if len(entry.items) > e.cfg.RegexMatchLimit {
				entry.tooBroad = true
				entry.warning = "Regex matched too many records; narrow the pattern."
				break
			}
			continue
		}

		score, ok := e.scoreRecord(rec, pq)
		if !ok {
			continue
		}
		entry.items = append(entry.items, matchItem{rec: rec, score: score})
		sugg.collect(rec)
	}

	entry.suggestions = sugg.suggestions()
	return entry
}

// effectiveSort resolves the sort key: a sort: directive in the query text
// wins over the payload sort field.
func effectiveSort(req *Request, pq *query.Parsed) string {
	if pq.Sort != "" {
		return pq.Sort
	}
	return req.Sort
}

// sortedNames orders a copy of the matched items by the requested key and
// returns the display names. Every comparator tie-breaks on ascending name
// so equal-key result sets have a reproducible order.
func (e *Engine) sortedNames(items []matchItem, sortKey string) []string {
	sorted := make([]matchItem, len(items))
	copy(sorted, items)

	var less func(a, b *matchItem) bool
	switch sortKey {
	case "salary":
		less = func(a, b *matchItem) bool { return a.rec.TotalPay > b.rec.TotalPay }
	case "tenure":
		less = func(a, b *matchItem) bool { return a.rec.FirstHiredYear < b.rec.FirstHiredYear }
	case "recent":
		less = func(a, b *matchItem) bool { return a.rec.LastDate > b.rec.LastDate }
	case "relevance":
		less = func(a, b *matchItem) bool { return a.score < b.score }
	default: // "name"
		less = func(a, b *matchItem) bool { return false }
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := &sorted[i], &sorted[j]
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return a.rec.Name < b.rec.Name
	})

	names := make([]string, len(sorted))
	for i := range sorted {
		names[i] = sorted[i].rec.Name
	}
	return names
}
