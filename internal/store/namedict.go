package store

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/couchbase/vellum"

	"rostersearch/internal/record"
)

// NameDict is an FST over the normalized names of a prepared record set,
// mapping each to its doc number. It serves exact lookups and prefix scans
// (REPL completion) without touching the record slice.
type NameDict struct {
	fst *vellum.FST
}

// BuildNameDict builds the dictionary for a prepared record set. Duplicate
// normalized names keep the first doc number.
func BuildNameDict(records []record.Prepared) (*NameDict, error) {
	type entry struct {
		key string
		doc uint32
	}

	entries := make([]entry, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i := range records {
		key := records[i].NameNorm
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, entry{key: key, doc: records[i].DocNum})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	var buf bytes.Buffer
	builder, err := vellum.New(&buf, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create fst builder: %w", err)
	}
	for _, e := range entries {
		if err := builder.Insert([]byte(e.key), uint64(e.doc)); err != nil {
			return nil, fmt.Errorf("failed to insert name %q: %w", e.key, err)
		}
	}
	if err := builder.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish fst: %w", err)
	}

	fst, err := vellum.Load(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to load fst: %w", err)
	}
	return &NameDict{fst: fst}, nil
}

// Lookup returns the doc number of an exact normalized name.
func (d *NameDict) Lookup(nameNorm string) (uint32, bool) {
	val, ok, err := d.fst.Get([]byte(nameNorm))
	if err != nil || !ok {
		return 0, false
	}
	return uint32(val), true
}

// PrefixDocs returns the doc numbers of names starting with prefix, in
// lexicographic name order, at most limit entries.
func (d *NameDict) PrefixDocs(prefix string, limit int) []uint32 {
	start := []byte(prefix)
	end := prefixSuccessor(start)

	iter, err := d.fst.Iterator(start, end)
	var docs []uint32
	for err == nil && len(docs) < limit {
		_, val := iter.Current()
		docs = append(docs, uint32(val))
		err = iter.Next()
	}
	return docs
}

// Len reports the number of distinct names in the dictionary.
func (d *NameDict) Len() int {
	return d.fst.Len()
}

// prefixSuccessor returns the smallest byte string greater than every string
// with the given prefix, or nil when no upper bound exists.
func prefixSuccessor(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
