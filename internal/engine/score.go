package engine

import (
	"strings"

	"rostersearch/internal/query"
	"rostersearch/internal/record"
	"rostersearch/internal/text"
)

// Scoring weights. Lower totals rank better. These are empirically tuned;
// keep them here rather than inlined so they can be adjusted in one place.
// The active bonus is deliberately smaller than the smallest integer
// increment so it breaks ties without flipping rank tiers.
const (
	substringScore   = 1.0
	fuzzyBaseScore   = 2.0
	roleFieldPenalty = 1.0
	orgFieldPenalty  = 1.0
	fullTextPenalty  = 2.0
	activeBonus      = 0.1
)

// scoreRecord computes the match score of a record against a token-mode
// query. The second return is false when the record does not match.
func (e *Engine) scoreRecord(rec *record.Prepared, pq *query.Parsed) (float64, bool) {
	e.scored++

	// Negation is substring-based, never fuzzy.
	for _, neg := range pq.NegativeTerms {
		if strings.Contains(rec.SearchText, neg) {
			return 0, false
		}
	}

	var total float64

	for _, term := range pq.NameTerms {
		score, ok := e.fuzzySubstringScore(term, rec.NameNorm, rec.NameTokens)
		if !ok {
			return 0, false
		}
		total += score
	}

	for _, term := range pq.OrgTerms {
		if !e.fieldTermMatches(term, rec.OrgValues) {
			return 0, false
		}
		total += orgFieldPenalty
	}

	for _, term := range pq.RoleTerms {
		if !e.fieldTermMatches(term, rec.RoleValues) {
			return 0, false
		}
		total += roleFieldPenalty
	}

	for _, term := range pq.Terms {
		best, matched := e.fuzzySubstringScore(term, rec.NameNorm, rec.NameTokens)
		if score, ok := e.fuzzySubstringScore(term, rec.RoleSearch, rec.RoleTokens); ok {
			if score += roleFieldPenalty; !matched || score < best {
				best, matched = score, true
			}
		}
		if score, ok := e.fuzzySubstringScore(term, rec.OrgSearch, rec.OrgTokens); ok {
			if score += orgFieldPenalty; !matched || score < best {
				best, matched = score, true
			}
		}
		if score, ok := e.fuzzySubstringScore(term, rec.SearchText, rec.SearchTokens); ok {
			if score += fullTextPenalty; !matched || score < best {
				best, matched = score, true
			}
		}
		if !matched {
			return 0, false
		}
		total += best
	}

	if rec.IsActive {
		total -= activeBonus
	}
	return total, true
}

// fuzzySubstringScore scores term against one normalized field: exact or
// prefix match 0, substring 1, else the best bounded edit distance over the
// field's tokens at fuzzyBaseScore + distance.
func (e *Engine) fuzzySubstringScore(term, field string, tokens []string) (float64, bool) {
	if field == "" {
		return 0, false
	}
	if field == term || strings.HasPrefix(field, term) {
		return 0, true
	}
	if strings.Contains(field, term) {
		return substringScore, true
	}

	maxDist := fuzzyMaxDist(len(term))
	best := maxDist + 1
	for _, tok := range tokens {
		if d := e.dist.Distance(term, tok, maxDist); d < best {
			best = d
			if best == 0 {
				break
			}
		}
	}
	if best > maxDist {
		return 0, false
	}
	return fuzzyBaseScore + float64(best), true
}

// fuzzyMaxDist derives the edit-distance bound from the term length.
func fuzzyMaxDist(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 6:
		return 2
	default:
		return 3
	}
}

// fieldTermMatches reports whether a field-scoped org/role term matches any
// candidate value, by substring or by bounded edit distance against the
// candidate's tokens.
func (e *Engine) fieldTermMatches(term string, candidates []string) bool {
	for _, c := range candidates {
		if c != "" && strings.Contains(c, term) {
			return true
		}
	}

	maxDist := 2
	if len(term) <= 5 {
		maxDist = 1
	}
	for _, c := range candidates {
		for _, tok := range text.Tokenize(c) {
			if e.dist.Distance(term, tok, maxDist) <= maxDist {
				return true
			}
		}
	}
	return false
}
