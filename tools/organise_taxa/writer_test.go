package organise_taxa

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/druvus/bio-scripts/accession"
	"github.com/druvus/bio-scripts/fastaio"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Rift Valley fever virus", "Rift_Valley_fever_virus"},
		{"Sp. (strain A)", "Sp_strain_A"},
		{"Influenza A/B", "Influenza_AB"},
		{"already_safe-name", "already_safe-name"},
		{"tabs\tand\nnewlines", "tabs_and_newlines"},
		{"Uukuniemi ørre virus", "Uukuniemi_ørre_virus"},
		{"", ""},
	}
	for _, c := range cases {
		if got := SanitizeName(c.in); got != c.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestGroupFileName(t *testing.T) {
	row := TaxonomyRow{Species: "Foo bar", VirusNames: "FBV 1"}
	if got := GroupFileName(row, accession.SegmentAll); got != "Foo_bar_FBV_1_all.fasta" {
		t.Errorf("all-segment name = %q", got)
	}
	if got := GroupFileName(row, accession.SegmentL); got != "Foo_bar_FBV_1_L.fasta" {
		t.Errorf("L-segment name = %q", got)
	}
}

func TestNameTrackerSuffixesCollisions(t *testing.T) {
	tr := newNameTracker()
	got := []string{
		tr.claim("x.fasta"),
		tr.claim("x.fasta"),
		tr.claim("x.fasta"),
		tr.claim("y.fasta"),
	}
	want := []string{"x.fasta", "x_1.fasta", "x_2.fasta", "y.fasta"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("claims = %v, want %v", got, want)
	}
}

func TestNameTrackerCascade(t *testing.T) {
	tr := newNameTracker()
	tr.claim("x_1.fasta")
	tr.claim("x.fasta")
	// The suffixed form is taken, so the second collision cascades.
	if got := tr.claim("x.fasta"); got != "x_1_1.fasta" {
		t.Errorf("cascaded claim = %q, want x_1_1.fasta", got)
	}
}

func buildTestIndex() *SequenceIndex {
	idx, _ := BuildIndex([]fastaio.Record{
		{ID: "A1.1", Desc: "segment L", Seq: []byte("AAAA")},
		{ID: "A2.1", Desc: "segment L", Seq: []byte("CCCC")},
		{ID: "B1.2", Desc: "segment M", Seq: []byte("GGGG")},
	})
	return idx
}

func TestBuildGroupResolvesInDeclarationOrder(t *testing.T) {
	row := TaxonomyRow{Species: "V", VirusNames: "v", Accession: "M: B1; L: A1-A2"}
	g := BuildGroup(row, accession.SegmentAll, buildTestIndex())
	if len(g.TokenErrs) != 0 {
		t.Fatalf("token errors: %v", g.TokenErrs)
	}
	ids := make([]string, len(g.Records))
	for i, rec := range g.Records {
		ids[i] = rec.ID
	}
	want := []string{"B1.2", "A1.1", "A2.1"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("resolved ids = %v, want declaration order %v", ids, want)
	}
}

func TestBuildGroupCollectsMisses(t *testing.T) {
	row := TaxonomyRow{Species: "V", VirusNames: "v", Accession: "L: A1, A9, A2"}
	g := BuildGroup(row, accession.SegmentAll, buildTestIndex())
	if len(g.Records) != 2 {
		t.Fatalf("resolved %d records, want 2", len(g.Records))
	}
	if !reflect.DeepEqual(g.Unresolved, []string{"A9"}) {
		t.Fatalf("unresolved = %v, want [A9]", g.Unresolved)
	}
}

func TestBuildGroupReportsTokenErrors(t *testing.T) {
	row := TaxonomyRow{Species: "V", VirusNames: "v", Accession: "L: A1, BAD-END-X"}
	g := BuildGroup(row, accession.SegmentAll, buildTestIndex())
	if len(g.TokenErrs) != 1 {
		t.Fatalf("token errors = %v, want 1", g.TokenErrs)
	}
	if len(g.Records) != 1 || g.Records[0].ID != "A1.1" {
		t.Fatalf("good sibling token should still resolve, got %+v", g.Records)
	}
}

func TestWriteGroupEmptyStillCreatesFile(t *testing.T) {
	dir := t.TempDir()
	g := OutputGroup{FileName: "empty_group_all.fasta"}
	if err := WriteGroup(dir, g); err != nil {
		t.Fatalf("WriteGroup: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, g.FileName))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("empty group wrote %d bytes", info.Size())
	}
}
