package extract_string

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/druvus/bio-scripts/fastaio"
)

func TestSplitTerms(t *testing.T) {
	got := SplitTerms("Rift Valley, , phlebovirus ,SEGMENT L")
	want := []string{"rift valley", "phlebovirus", "segment l"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitTerms = %v, want %v", got, want)
	}
	if terms := SplitTerms(" , ,"); terms != nil {
		t.Errorf("blank input gave %v, want nil", terms)
	}
}

func TestMatchesHeaderCaseInsensitive(t *testing.T) {
	rec := fastaio.Record{ID: "MN123456.1", Desc: "Rift Valley fever virus segment M"}
	if !Matches(rec, []string{"rift valley"}) {
		t.Error("description term should match")
	}
	if !Matches(rec, []string{"mn123456"}) {
		t.Error("id term should match, the whole header is searched")
	}
	if Matches(rec, []string{"hantaan"}) {
		t.Error("unrelated term should not match")
	}
	if !Matches(rec, []string{"hantaan", "segment m"}) {
		t.Error("any one matching term is enough")
	}
}

func TestFilterKeepsFileOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.fasta")
	data := ">A1 Rift Valley fever virus\nACGT\n" +
		">B1 Hantaan orthohantavirus\nCCCC\n" +
		">C1 RIFT VALLEY isolate\nGGGG\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	hits, err := Filter(path, SplitTerms("rift valley"))
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(hits) != 2 || hits[0].ID != "A1" || hits[1].ID != "C1" {
		t.Fatalf("hits = %+v, want A1 then C1", hits)
	}
}

func TestFilterNoMatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.fasta")
	if err := os.WriteFile(path, []byte(">A1 something\nACGT\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	hits, err := Filter(path, []string{"absent"})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("hits = %+v, want none", hits)
	}
}
