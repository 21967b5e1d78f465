package engine

import (
	"strings"

	"github.com/RoaringBitmap/roaring"

	"rostersearch/internal/query"
	"rostersearch/internal/record"
	"rostersearch/internal/text"
)

type exclusionsMode int

const (
	exclusionsOff exclusionsMode = iota
	exclusionsAll
	exclusionsRecent
)

// parseExclusionsMode maps the payload string onto the explicit enum. Any
// value other than "off"/"" and "recent" means "all excluded, any date".
func parseExclusionsMode(mode string) exclusionsMode {
	switch mode {
	case "", "off":
		return exclusionsOff
	case "recent":
		return exclusionsRecent
	default:
		return exclusionsAll
	}
}

const millisPerDay = 24 * 60 * 60 * 1000

// recencyCutoff is the UTC-day-aligned timestamp 365 days before nowTs.
func recencyCutoff(nowTs int64) int64 {
	dayStart := nowTs - nowTs%millisPerDay
	return dayStart - 365*millisPerDay
}

// filterContext is the per-search form of the non-text filters: name sets
// resolved into bitmaps, the role filter normalized, and the recency cutoff
// computed once.
type filterContext struct {
	base       *roaring.Bitmap // nil = unrestricted
	transition *roaring.Bitmap
	roleFilter string
	minSalary  *float64
	maxSalary  *float64
	flagsOnly  bool
	mode       exclusionsMode
	cutoffTs   int64
	pq         *query.Parsed
}

func (e *Engine) newFilterContext(req *Request, pq *query.Parsed) *filterContext {
	return &filterContext{
		base:       e.nameSet(req.BaseNames),
		transition: e.nameSet(req.TransitionNames),
		roleFilter: text.Normalize(req.RoleFilter),
		minSalary:  req.MinSalary,
		maxSalary:  req.MaxSalary,
		flagsOnly:  req.DataFlagsOnly,
		mode:       parseExclusionsMode(req.ExclusionsMode),
		cutoffTs:   recencyCutoff(req.NowTs),
		pq:         pq,
	}
}

// nameSet resolves a list of names into a doc-number bitmap. A nil list
// means no restriction; unknown names are dropped.
func (e *Engine) nameSet(names []string) *roaring.Bitmap {
	if names == nil {
		return nil
	}
	bm := roaring.New()
	for _, name := range names {
		if doc, ok := e.docs[text.Normalize(name)]; ok {
			bm.Add(doc)
		}
	}
	return bm
}

// passes applies the non-text filters as a short-circuiting conjunction in
// the canonical published order.
func (fc *filterContext) passes(rec *record.Prepared) bool {
	if fc.base != nil && !fc.base.Contains(rec.DocNum) {
		return false
	}
	if fc.roleFilter != "" && !strings.Contains(rec.RoleSearch, fc.roleFilter) {
		return false
	}
	if fc.minSalary != nil && rec.TotalPay < *fc.minSalary {
		return false
	}
	if fc.maxSalary != nil && rec.TotalPay > *fc.maxSalary {
		return false
	}
	if fc.flagsOnly && !rec.HasDataFlags {
		return false
	}
	switch fc.mode {
	case exclusionsAll:
		if !rec.WasExcluded {
			return false
		}
	case exclusionsRecent:
		if !rec.WasExcluded || rec.ExclusionTs == 0 || rec.ExclusionTs < fc.cutoffTs {
			return false
		}
	}
	if fc.transition != nil && !fc.transition.Contains(rec.DocNum) {
		return false
	}
	if fc.pq.Type != "" {
		if unclassified := fc.pq.Type == "unclassified"; rec.IsUnclassified != unclassified {
			return false
		}
	}
	if fc.pq.Status != "" {
		if active := fc.pq.Status == "active"; rec.IsActive != active {
			return false
		}
	}
	if fc.pq.PayMin != nil && rec.TotalPay < *fc.pq.PayMin {
		return false
	}
	if fc.pq.PayMax != nil && rec.TotalPay > *fc.pq.PayMax {
		return false
	}
	return true
}
