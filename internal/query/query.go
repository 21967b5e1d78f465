// Package query parses the roster search mini-language: free-text terms,
// -negations, field-scoped terms (name/org/role), type/status/sort/pay
// directives, and /slash-delimited/ regex queries.
package query

import (
	"regexp"
	"strconv"
	"strings"

	"rostersearch/internal/text"
)

// Parsed is a structured query, valid for one search call. Regex mode and
// token mode are mutually exclusive: a regex query carries no term lists.
type Parsed struct {
	Raw string

	RegexMode   bool
	RegexSource string
	RegexFlags  string
	Regex       *regexp.Regexp
	RegexErr    string

	Terms         []string
	NegativeTerms []string
	NameTerms     []string
	OrgTerms      []string
	RoleTerms     []string

	Type   string // "classified" or "unclassified", "" if unset
	Status string // "active" or "inactive", "" if unset
	Sort   string // "name", "salary", "tenure", "recent" or "relevance", "" if unset
	PayMin *float64
	PayMax *float64

	// HighlightTerms is for caller-side emphasis only, never matching.
	HighlightTerms []string
}

var regexQuery = regexp.MustCompile(`^/(.*)/([a-zA-Z]*)$`)

// Parse turns a raw query string into a Parsed query. It never fails:
// unrecognized directives degrade to literal text and a bad regex is reported
// via RegexErr.
func Parse(raw string) Parsed {
	p := Parsed{Raw: raw}
	trimmed := strings.TrimSpace(raw)

	if m := regexQuery.FindStringSubmatch(trimmed); m != nil {
		p.RegexMode = true
		p.RegexSource = m[1]
		p.RegexFlags = m[2]
		p.Regex, p.RegexErr = compileRegex(m[1], m[2])
		return p
	}

	for _, tok := range scanTokens(trimmed) {
		parseToken(&p, tok)
	}

	p.HighlightTerms = highlightTerms(&p)
	return p
}

// compileRegex maps the source flag letters onto Go regexp inline flags. The
// "g" flag only affects match iteration in the source dialect and is dropped.
func compileRegex(body, flags string) (*regexp.Regexp, string) {
	var inline string
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			inline += string(f)
		case 'g':
		default:
			return nil, "unsupported regex flag: " + string(f)
		}
	}
	if inline != "" {
		body = "(?" + inline + ")" + body
	}
	re, err := regexp.Compile(body)
	if err != nil {
		return nil, err.Error()
	}
	return re, ""
}

type queryToken struct {
	raw    string
	phrase bool // standalone double-quoted phrase, field parsing skipped
}

// scanTokens splits a query into tokens: a standalone quoted phrase, or a
// maximal run of non-whitespace. A double quote opened mid-token (as in
// role:"two words") extends the token through the closing quote.
func scanTokens(s string) []queryToken {
	var tokens []queryToken
	i := 0
	for i < len(s) {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			break
		}

		if s[i] == '"' {
			end := strings.IndexByte(s[i+1:], '"')
			if end < 0 {
				tokens = append(tokens, queryToken{raw: s[i+1:], phrase: true})
				break
			}
			tokens = append(tokens, queryToken{raw: s[i+1 : i+1+end], phrase: true})
			i += end + 2
			continue
		}

		start := i
		for i < len(s) && !isSpace(s[i]) {
			if s[i] == '"' {
				if end := strings.IndexByte(s[i+1:], '"'); end >= 0 {
					i += end + 2
					continue
				}
			}
			i++
		}
		tokens = append(tokens, queryToken{raw: s[start:i]})
	}
	return tokens
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func parseToken(p *Parsed, tok queryToken) {
	raw := tok.raw
	negative := false

	if !tok.phrase {
		if strings.HasPrefix(raw, "-") && len(raw) > 2 {
			negative = true
			raw = raw[1:]
		}

		if colon := strings.Index(raw, ":"); colon > 0 {
			field := strings.ToLower(raw[:colon])
			value := strings.TrimSpace(strings.Trim(raw[colon+1:], `"`))
			if value != "" && parseFieldToken(p, field, value) {
				return
			}
		}
	}

	norm := text.Normalize(strings.Trim(raw, `"`))
	if norm == "" {
		return
	}
	if negative {
		p.NegativeTerms = append(p.NegativeTerms, norm)
	} else {
		p.Terms = append(p.Terms, norm)
	}
}

// parseFieldToken handles a recognized field:value token, reporting whether
// it consumed the token. Invalid values for recognized directives are
// swallowed; an unrecognized field name is not consumed and falls through to
// plain term handling.
func parseFieldToken(p *Parsed, field, value string) bool {
	switch field {
	case "name":
		p.NameTerms = append(p.NameTerms, text.Normalize(value))
	case "org":
		p.OrgTerms = append(p.OrgTerms, text.Normalize(value))
	case "role":
		p.RoleTerms = append(p.RoleTerms, text.Normalize(value))
	case "type":
		switch v := strings.ToLower(value); v {
		case "classified", "unclassified":
			p.Type = v
		}
	case "status":
		switch v := strings.ToLower(value); v {
		case "active", "inactive":
			p.Status = v
		}
	case "sort":
		switch v := strings.ToLower(value); v {
		case "name", "salary", "tenure", "recent", "relevance":
			p.Sort = v
		}
	case "pay":
		parsePayExpr(p, value)
	default:
		return false
	}
	return true
}

func parsePayExpr(p *Parsed, expr string) {
	expr = strings.ToLower(strings.Join(strings.Fields(expr), ""))
	switch {
	case strings.Contains(expr, "-"):
		low, high, _ := strings.Cut(expr, "-")
		p.PayMin = parseAmount(low)
		p.PayMax = parseAmount(high)
	case strings.HasPrefix(expr, ">"):
		p.PayMin = parseAmount(expr[1:])
	case strings.HasPrefix(expr, "<"):
		p.PayMax = parseAmount(expr[1:])
	}
}

// parseAmount parses a salary amount like $85k, 1.2m or 100,000. Embedded
// comma separators are stripped before the numeric parse, otherwise 100,000
// would come out as 100.
func parseAmount(s string) *float64 {
	s = strings.TrimPrefix(s, "$")
	mult := 1.0
	switch {
	case strings.HasSuffix(s, "k"):
		mult = 1_000
		s = strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		mult = 1_000_000
		s = strings.TrimSuffix(s, "m")
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	v *= mult
	return &v
}

func highlightTerms(p *Parsed) []string {
	var out []string
	seen := make(map[string]bool)
	for _, group := range [][]string{p.Terms, p.NameTerms, p.OrgTerms, p.RoleTerms} {
		for _, term := range group {
			for _, tok := range text.Tokenize(term) {
				if len(tok) <= 1 || seen[tok] {
					continue
				}
				seen[tok] = true
				out = append(out, tok)
			}
		}
	}
	return out
}
