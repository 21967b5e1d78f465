package record

import (
	"strings"
	"time"

	"rostersearch/internal/text"
)

// FutureHireYear sorts records without a known hire year after everyone else
// in tenure ordering.
const FutureHireYear = 9999

// Raw is one person as it appears in the dataset file. Immutable once loaded.
type Raw struct {
	Name           string   `json:"name"`
	HomeOrg        string   `json:"homeOrg"`
	LastOrg        string   `json:"lastOrg"`
	Roles          []string `json:"roles"`
	TotalPay       float64  `json:"totalPay"`
	FirstHiredYear int      `json:"firstHiredYear"`
	LastDate       string   `json:"lastDate"`
	IsUnclassified bool     `json:"isUnclassified"`
	IsActive       bool     `json:"isActive"`
	IsFullTime     bool     `json:"isFullTime"`
	HasDataFlags   bool     `json:"hasDataFlags"`
	WasExcluded    bool     `json:"wasExcluded"`
	ExclusionDate  string   `json:"exclusionDate,omitempty"`

	// Optional precomputed fields; derived when absent.
	OrgAliases  []string `json:"orgAliases,omitempty"`
	RoleAliases []string `json:"roleAliases,omitempty"`
	SearchText  string   `json:"searchText,omitempty"`
}

// Prepared is the normalized, pre-tokenized form of a Raw record. Created
// once at prepare time and never mutated afterward.
type Prepared struct {
	// DocNum is the dense position of the record within the prepared
	// collection, used for bitmap set membership.
	DocNum uint32

	// Display passthrough, raw casing preserved.
	Name    string
	HomeOrg string
	LastOrg string
	Roles   []string

	// Normalized text fields. Matching logic only ever sees these.
	NameNorm    string
	HomeOrgNorm string
	LastOrgNorm string
	RolesNorm   []string
	RoleSearch  string
	OrgSearch   string
	SearchText  string

	OrgAliases  []string
	RoleAliases []string

	// Candidate value lists for field-scoped term matching: each entry is
	// one normalized org/role value or alias, matched individually so a
	// multi-token field term cannot straddle two unrelated values.
	OrgValues  []string
	RoleValues []string

	// Pre-tokenized fields (tokens of length >= 3, first-seen order).
	NameTokens   []string
	RoleTokens   []string
	OrgTokens    []string
	SearchTokens []string

	TotalPay       float64
	FirstHiredYear int
	LastDate       string
	ExclusionTs    int64 // epoch millis, 0 if absent or unparseable

	IsUnclassified bool
	IsActive       bool
	IsFullTime     bool
	HasDataFlags   bool
	WasExcluded    bool
}

// Prepare transforms raw dataset records into search records. It is
// idempotent and order-preserving: alias and token lists keep first-seen
// insertion order so repeated runs produce field-for-field identical output.
func Prepare(raws []Raw) []Prepared {
	prepared := make([]Prepared, len(raws))
	for i, raw := range raws {
		prepared[i] = prepareOne(raw, uint32(i))
	}
	return prepared
}

func prepareOne(raw Raw, docNum uint32) Prepared {
	p := Prepared{
		DocNum:         docNum,
		Name:           raw.Name,
		HomeOrg:        raw.HomeOrg,
		LastOrg:        raw.LastOrg,
		Roles:          raw.Roles,
		NameNorm:       text.Normalize(raw.Name),
		HomeOrgNorm:    text.Normalize(raw.HomeOrg),
		LastOrgNorm:    text.Normalize(raw.LastOrg),
		TotalPay:       raw.TotalPay,
		FirstHiredYear: raw.FirstHiredYear,
		LastDate:       raw.LastDate,
		ExclusionTs:    parseExclusionDate(raw.ExclusionDate),
		IsUnclassified: raw.IsUnclassified,
		IsActive:       raw.IsActive,
		IsFullTime:     raw.IsFullTime,
		HasDataFlags:   raw.HasDataFlags,
		WasExcluded:    raw.WasExcluded,
	}
	if p.FirstHiredYear == 0 {
		p.FirstHiredYear = FutureHireYear
	}

	// RolesNorm stays parallel to Roles so display and normalized values can
	// be paired downstream.
	for _, role := range raw.Roles {
		p.RolesNorm = append(p.RolesNorm, text.Normalize(role))
	}

	if len(raw.OrgAliases) > 0 {
		p.OrgAliases = normalizeUnique(raw.OrgAliases)
	} else {
		p.OrgAliases = dedupe(append(BuildOrgAliases(raw.HomeOrg), BuildOrgAliases(raw.LastOrg)...))
	}

	if len(raw.RoleAliases) > 0 {
		p.RoleAliases = normalizeUnique(raw.RoleAliases)
	} else {
		var tokens []string
		for _, role := range raw.Roles {
			tokens = append(tokens, text.Tokenize(role)...)
		}
		p.RoleAliases = dedupe(tokens)
	}

	p.RoleValues = dedupe(append(append([]string{}, p.RolesNorm...), p.RoleAliases...))
	p.OrgValues = dedupe(append([]string{p.HomeOrgNorm, p.LastOrgNorm}, p.OrgAliases...))
	p.RoleSearch = joinNonEmpty(append(append([]string{}, p.RolesNorm...), p.RoleAliases...))
	p.OrgSearch = joinNonEmpty(append([]string{p.HomeOrgNorm, p.LastOrgNorm}, p.OrgAliases...))

	if raw.SearchText != "" {
		p.SearchText = text.Normalize(raw.SearchText)
	} else {
		parts := append([]string{raw.Name, raw.HomeOrg, raw.LastOrg}, raw.Roles...)
		var normed []string
		for _, part := range parts {
			if norm := text.Normalize(part); norm != "" {
				normed = append(normed, norm)
			}
		}
		p.SearchText = joinNonEmpty(normed)
	}

	p.NameTokens = searchTokens(p.NameNorm)
	p.RoleTokens = searchTokens(p.RoleSearch)
	p.OrgTokens = searchTokens(p.OrgSearch)
	p.SearchTokens = searchTokens(p.SearchText)

	return p
}

// BuildOrgAliases derives the alias set of one organization string: the
// normalized whole string, then on hyphenated names a "code" alias from the
// first segment, a "tail" alias from the remainder, and each tail token.
// Results are deduplicated in first-seen order with empty entries dropped.
func BuildOrgAliases(org string) []string {
	var aliases []string
	aliases = append(aliases, text.Normalize(org))

	var parts []string
	for _, part := range strings.Split(org, "-") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) > 0 {
		aliases = append(aliases, text.Normalize(parts[0]))
		tail := text.Normalize(joinNonEmpty(parts[1:]))
		aliases = append(aliases, tail)
		aliases = append(aliases, text.Tokenize(tail)...)
	}

	return dedupe(aliases)
}

func parseExclusionDate(date string) int64 {
	if date == "" {
		return 0
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if ts, err := time.Parse(layout, date); err == nil {
			return ts.UTC().UnixMilli()
		}
	}
	return 0
}

// searchTokens returns the tokens of length >= 3, deduplicated in first-seen
// order. These only accelerate fuzzy matching; they never change results.
func searchTokens(norm string) []string {
	var tokens []string
	for _, tok := range text.Tokenize(norm) {
		if len(tok) >= 3 {
			tokens = append(tokens, tok)
		}
	}
	return dedupe(tokens)
}

func normalizeUnique(values []string) []string {
	normed := make([]string, 0, len(values))
	for _, v := range values {
		normed = append(normed, text.Normalize(v))
	}
	return dedupe(normed)
}

func dedupe(values []string) []string {
	var out []string
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func joinNonEmpty(parts []string) string {
	var out string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if out == "" {
			out = part
		} else {
			out += " " + part
		}
	}
	return out
}

