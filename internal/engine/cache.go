package engine

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"rostersearch/internal/query"
	"rostersearch/internal/record"
)

// matchItem is one filtered+scored record, kept unsorted in the cache so a
// single entry serves every sort variant of the same query+filter state.
type matchItem struct {
	rec   *record.Prepared
	score float64
}

type cacheEntry struct {
	items       []matchItem
	suggestions []Suggestion
	regexMode   bool
	tooBroad    bool
	warning     string
}

// resultCache memoizes result sets per query+filter fingerprint, bounded by
// a fixed entry count with insertion-order eviction.
type resultCache struct {
	max     int
	entries map[uint64]*cacheEntry
	order   []uint64
}

func newResultCache(max int) *resultCache {
	return &resultCache{
		max:     max,
		entries: make(map[uint64]*cacheEntry),
	}
}

func (c *resultCache) get(key uint64) (*cacheEntry, bool) {
	entry, ok := c.entries[key]
	return entry, ok
}

func (c *resultCache) put(key uint64, entry *cacheEntry) {
	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = entry
	for len(c.entries) > c.max && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

func (c *resultCache) len() int {
	return len(c.entries)
}

// fingerprint hashes every request dimension that can change result set
// membership. The payload sort field is deliberately excluded: a cached
// entry is re-sorted per call. Fields are length-delimited so values cannot
// collide across field boundaries.
func fingerprint(req *Request, pq *query.Parsed) uint64 {
	d := xxhash.New()
	writeField(d, req.Query)
	writeField(d, req.RoleFilter)
	writeFloatField(d, req.MinSalary)
	writeFloatField(d, req.MaxSalary)
	writeBoolField(d, req.DataFlagsOnly)
	writeField(d, req.ExclusionsMode)
	writeField(d, req.TransitionKey)
	writeField(d, req.BaseKey)
	writeField(d, pq.Type)
	writeField(d, pq.Status)
	writeFloatField(d, pq.PayMin)
	writeFloatField(d, pq.PayMax)
	writeField(d, pq.Sort)
	if parseExclusionsMode(req.ExclusionsMode) == exclusionsRecent {
		writeField(d, strconv.FormatInt(recencyCutoff(req.NowTs), 10))
	}
	return d.Sum64()
}

func writeField(d *xxhash.Digest, s string) {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(s)))
	d.Write(lenBuf[:])
	d.WriteString(s)
}

func writeFloatField(d *xxhash.Digest, v *float64) {
	var buf [9]byte
	if v != nil {
		buf[0] = 1
		binary.BigEndian.PutUint64(buf[1:], math.Float64bits(*v))
	}
	d.Write(buf[:])
}

func writeBoolField(d *xxhash.Digest, v bool) {
	if v {
		d.Write([]byte{1})
	} else {
		d.Write([]byte{0})
	}
}
