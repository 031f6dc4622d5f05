package organise_taxa

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/druvus/bio-scripts/accession"
	"github.com/druvus/bio-scripts/fastaio"
)

func writeExtractFixtures(t *testing.T) (table, archive string) {
	t.Helper()
	dir := t.TempDir()
	table = filepath.Join(dir, "taxa.csv")
	tableData := "Species,Virus name(s),Virus GENBANK accession,Family,Genus\n" +
		"Foo bar virus,FBV,\"L: MN000001-MN000002, M: MN000003\",Nairoviridae,Orthonairovirus\n" +
		"Baz qux virus,BQV,S: MN000009,Phenuiviridae,Phlebovirus\n"
	if err := os.WriteFile(table, []byte(tableData), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	archive = filepath.Join(dir, "archive.fasta")
	archiveData := ">MN000001.1 Foo bar virus segment L\nACGTACGT\n" +
		">MN000002.1 Foo bar virus segment L\nGGGGCCCC\n" +
		">MN000009.1 Baz qux virus segment S\nTTTTAAAA\n"
	if err := os.WriteFile(archive, []byte(archiveData), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return table, archive
}

func TestExtractEndToEnd(t *testing.T) {
	table, archive := writeExtractFixtures(t)
	out := filepath.Join(t.TempDir(), "out")

	sum, err := Extract(Options{
		TablePath:   table,
		ArchivePath: archive,
		OutDir:      out,
		Filter:      FilterSpec{Segment: accession.SegmentAll},
		Threads:     2,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if sum.RowsTotal != 2 || sum.RowsSelected != 2 || sum.FilesWritten != 2 {
		t.Fatalf("summary = %+v, want both rows selected and written", sum)
	}
	if sum.SeqsWritten != 3 {
		t.Errorf("SeqsWritten = %d, want 3", sum.SeqsWritten)
	}
	// MN000003 is declared in the table but absent from the archive.
	if sum.Unresolved != 1 {
		t.Errorf("Unresolved = %d, want 1", sum.Unresolved)
	}

	recs, err := fastaio.ReadAll(filepath.Join(out, "Foo_bar_virus_FBV_all.fasta"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "MN000001.1" || recs[1].ID != "MN000002.1" {
		t.Fatalf("Foo bar output = %+v, want the two L records in order", recs)
	}
	// Records carry their full archive headers into the output.
	if recs[0].Desc != "Foo bar virus segment L" {
		t.Errorf("Desc = %q", recs[0].Desc)
	}

	recs, err = fastaio.ReadAll(filepath.Join(out, "Baz_qux_virus_BQV_all.fasta"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "MN000009.1" {
		t.Fatalf("Baz qux output = %+v", recs)
	}
}

func TestExtractSegmentNarrows(t *testing.T) {
	table, archive := writeExtractFixtures(t)
	out := filepath.Join(t.TempDir(), "out")

	sum, err := Extract(Options{
		TablePath:   table,
		ArchivePath: archive,
		OutDir:      out,
		Filter:      FilterSpec{Segment: accession.SegmentL},
		Threads:     1,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if sum.RowsSelected != 1 {
		t.Fatalf("RowsSelected = %d, want 1 (only Foo bar declares L)", sum.RowsSelected)
	}
	recs, err := fastaio.ReadAll(filepath.Join(out, "Foo_bar_virus_FBV_L.fasta"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want the two L records", len(recs))
	}
	// The M declaration is outside the requested segment, not a miss.
	if sum.Unresolved != 0 {
		t.Errorf("Unresolved = %d, want 0", sum.Unresolved)
	}
}

func TestExtractRerunsAreIdentical(t *testing.T) {
	table, archive := writeExtractFixtures(t)
	outA := filepath.Join(t.TempDir(), "a")
	outB := filepath.Join(t.TempDir(), "b")

	for _, out := range []string{outA, outB} {
		if _, err := Extract(Options{
			TablePath:   table,
			ArchivePath: archive,
			OutDir:      out,
			Filter:      FilterSpec{Segment: accession.SegmentAll},
			Threads:     4,
		}); err != nil {
			t.Fatalf("Extract into %s: %v", out, err)
		}
	}

	entries, err := os.ReadDir(outA)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no output files")
	}
	for _, e := range entries {
		a, err := os.ReadFile(filepath.Join(outA, e.Name()))
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		b, err := os.ReadFile(filepath.Join(outB, e.Name()))
		if err != nil {
			t.Fatalf("second run lacks %s: %v", e.Name(), err)
		}
		if string(a) != string(b) {
			t.Errorf("%s differs between runs", e.Name())
		}
	}
}

func TestExtractUnreadableInputsAreFatal(t *testing.T) {
	table, archive := writeExtractFixtures(t)
	missing := filepath.Join(t.TempDir(), "absent.csv")

	if _, err := Extract(Options{TablePath: missing, ArchivePath: archive}); err == nil {
		t.Error("missing table should be fatal")
	}
	if _, err := Extract(Options{
		TablePath:   table,
		ArchivePath: filepath.Join(t.TempDir(), "absent.fasta"),
	}); err == nil {
		t.Error("missing archive should be fatal")
	}
}

func TestExtractNameCollisionGetsSuffix(t *testing.T) {
	dir := t.TempDir()
	table := filepath.Join(dir, "taxa.csv")
	// Two distinct rows sanitize to the same output name.
	tableData := "Species,Virus name(s),Virus GENBANK accession\n" +
		"Same virus,SV,L: AA1\n" +
		"Same virus,SV,L: AA2\n"
	if err := os.WriteFile(table, []byte(tableData), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	archive := filepath.Join(dir, "archive.fasta")
	archiveData := ">AA1 one\nAAAA\n>AA2 two\nCCCC\n"
	if err := os.WriteFile(archive, []byte(archiveData), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	out := filepath.Join(dir, "out")

	sum, err := Extract(Options{
		TablePath:   table,
		ArchivePath: archive,
		OutDir:      out,
		Filter:      FilterSpec{Segment: accession.SegmentAll},
		Threads:     2,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if sum.FilesWritten != 2 {
		t.Fatalf("FilesWritten = %d, want 2", sum.FilesWritten)
	}
	first, err := fastaio.ReadAll(filepath.Join(out, "Same_virus_SV_all.fasta"))
	if err != nil {
		t.Fatalf("read first: %v", err)
	}
	second, err := fastaio.ReadAll(filepath.Join(out, "Same_virus_SV_all_1.fasta"))
	if err != nil {
		t.Fatalf("read suffixed: %v", err)
	}
	if len(first) != 1 || first[0].ID != "AA1" {
		t.Errorf("first file = %+v, want the first row's record", first)
	}
	if len(second) != 1 || second[0].ID != "AA2" {
		t.Errorf("suffixed file = %+v, want the second row's record", second)
	}
}
