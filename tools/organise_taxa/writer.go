package organise_taxa

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/druvus/bio-scripts/accession"
	"github.com/druvus/bio-scripts/fastaio"
)

// OutputGroup is the resolved extraction unit for one taxonomy row:
// the records found in the archive, in declaration order, plus
// everything worth reporting about the row. Groups are never merged
// across rows, even when two rows sanitize to the same file name.
type OutputGroup struct {
	Row        TaxonomyRow
	FileName   string
	Records    []fastaio.Record
	Unresolved []string // ids the archive does not contain
	TokenErrs  []accession.TokenError
}

// BuildGroup parses row's accession declaration, narrowed to segment,
// and resolves every identifier against idx. Records keep
// segment-then-declaration order; identifiers missing from the archive
// land in Unresolved. FileName is left for the caller, which owns the
// collision policy.
func BuildGroup(row TaxonomyRow, segment accession.Segment, idx *SequenceIndex) OutputGroup {
	g := OutputGroup{Row: row}
	groups, errs := accession.Parse(row.Accession, segment)
	g.TokenErrs = errs
	for _, grp := range groups {
		for _, id := range grp.IDs {
			rec, ok := idx.Lookup(id)
			if !ok {
				g.Unresolved = append(g.Unresolved, id)
				continue
			}
			g.Records = append(g.Records, rec)
		}
	}
	return g
}

// GroupFileName builds the sanitized output name for one row.
func GroupFileName(row TaxonomyRow, segment accession.Segment) string {
	seg := string(segment)
	if segment == "" || segment == accession.SegmentAll {
		seg = "all"
	}
	return fmt.Sprintf("%s_%s_%s.fasta",
		SanitizeName(row.Species), SanitizeName(row.VirusNames), seg)
}

// SanitizeName makes a taxonomy field safe for file names: letters,
// digits, underscores and hyphens pass through, whitespace runs become
// single underscores, everything else is dropped.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingSpace := false
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-':
			if pendingSpace {
				b.WriteByte('_')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	if pendingSpace {
		b.WriteByte('_')
	}
	return b.String()
}

// nameTracker hands out collision-free output names. A name seen
// before gains a numeric suffix ahead of its extension, so rows that
// sanitize identically never overwrite each other. Claims must happen
// in row order for runs to stay reproducible.
type nameTracker struct {
	seen map[string]int
}

func newNameTracker() *nameTracker {
	return &nameTracker{seen: make(map[string]int)}
}

func (t *nameTracker) claim(name string) string {
	n, taken := t.seen[name]
	t.seen[name] = n + 1
	if !taken {
		return name
	}
	ext := filepath.Ext(name)
	return t.claim(fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n, ext))
}

// WriteGroup writes g's records to its file under dir. Empty groups
// still produce a file, so every selected row leaves a visible result.
func WriteGroup(dir string, g OutputGroup) error {
	return fastaio.WriteFile(filepath.Join(dir, g.FileName), g.Records)
}
