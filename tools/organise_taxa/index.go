package organise_taxa

import (
	"strings"

	"github.com/druvus/bio-scripts/fastaio"
)

// SequenceIndex resolves accession identifiers to archive records.
// Keys are identifiers with any trailing version suffix removed, so
// MN123456 finds the archive entry headed MN123456.1. The index is
// read-only once built and safe for concurrent lookups.
type SequenceIndex struct {
	records map[string]fastaio.Record
}

// indexKey strips a version suffix: everything from the first dot on.
func indexKey(id string) string {
	if i := strings.IndexByte(id, '.'); i >= 0 {
		return id[:i]
	}
	return id
}

// BuildIndex indexes recs by versionless identifier. When two records
// collapse onto the same key the first wins; the full ids of the
// discarded records are returned for reporting.
func BuildIndex(recs []fastaio.Record) (*SequenceIndex, []string) {
	idx := &SequenceIndex{records: make(map[string]fastaio.Record, len(recs))}
	var dropped []string
	for _, rec := range recs {
		key := indexKey(rec.ID)
		if _, ok := idx.records[key]; ok {
			dropped = append(dropped, rec.ID)
			continue
		}
		idx.records[key] = rec
	}
	return idx, dropped
}

// Lookup resolves id, which may itself carry a version suffix. A miss
// is an ordinary outcome, not an error: taxonomy tables regularly cite
// records absent from the archive at hand.
func (x *SequenceIndex) Lookup(id string) (fastaio.Record, bool) {
	rec, ok := x.records[indexKey(id)]
	return rec, ok
}

// Len reports how many distinct identifiers are indexed.
func (x *SequenceIndex) Len() int { return len(x.records) }
