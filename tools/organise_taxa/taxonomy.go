package organise_taxa

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/druvus/bio-scripts/accession"
)

// TaxonomyRow is one virus entry from an ICTV taxonomy table, built
// once at ingestion. Absent cells are empty strings.
type TaxonomyRow struct {
	Species    string
	VirusNames string
	Accession  string // raw accession declaration, parsed later
	Family     string
	Genus      string
}

// Columns names the table columns each TaxonomyRow field is read from.
type Columns struct {
	Species    string
	VirusNames string
	Accession  string
	Family     string
	Genus      string
}

// DefaultColumns matches the ICTV Virus Metadata Resource export.
func DefaultColumns() Columns {
	return Columns{
		Species:    "Species",
		VirusNames: "Virus name(s)",
		Accession:  "Virus GENBANK accession",
		Family:     "Family",
		Genus:      "Genus",
	}
}

// Override replaces column names with any non-empty entries of
// overrides, keyed by field name (species, virus_names, accession,
// family, genus).
func (c Columns) Override(overrides map[string]string) Columns {
	if v := overrides["species"]; v != "" {
		c.Species = v
	}
	if v := overrides["virus_names"]; v != "" {
		c.VirusNames = v
	}
	if v := overrides["accession"]; v != "" {
		c.Accession = v
	}
	if v := overrides["family"]; v != "" {
		c.Family = v
	}
	if v := overrides["genus"]; v != "" {
		c.Genus = v
	}
	return c
}

// LoadTable reads a taxonomy table into rows. The format follows the
// file extension: .xlsx workbooks (first sheet), .csv, and
// tab-delimited .tsv or .txt. The header row is matched by column name,
// so column order in the table does not matter.
func LoadTable(path string, cols Columns) ([]TaxonomyRow, error) {
	var (
		raw [][]string
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		raw, err = readWorkbook(path)
	case ".csv":
		raw, err = readDelimited(path, ',')
	case ".tsv", ".txt", ".tab":
		raw, err = readDelimited(path, '\t')
	default:
		return nil, fmt.Errorf("unsupported table format %q (want .xlsx, .csv or .tsv)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy table %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("taxonomy table %s is empty", path)
	}

	header := raw[0]
	species := indexOf(header, cols.Species)
	virus := indexOf(header, cols.VirusNames)
	acc := indexOf(header, cols.Accession)
	if species < 0 || virus < 0 || acc < 0 {
		return nil, fmt.Errorf("taxonomy table %s: missing required column(s): %s",
			path, missingColumns(header, cols))
	}
	family := indexOf(header, cols.Family)
	genus := indexOf(header, cols.Genus)

	rows := make([]TaxonomyRow, 0, len(raw)-1)
	for _, r := range raw[1:] {
		rows = append(rows, TaxonomyRow{
			Species:    cell(r, species),
			VirusNames: cell(r, virus),
			Accession:  cell(r, acc),
			Family:     cell(r, family),
			Genus:      cell(r, genus),
		})
	}
	return rows, nil
}

func readWorkbook(path string) ([][]string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return wb.GetRows(sheets[0])
}

func readDelimited(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func missingColumns(header []string, cols Columns) string {
	var missing []string
	for _, name := range []string{cols.Species, cols.VirusNames, cols.Accession} {
		if indexOf(header, name) < 0 {
			missing = append(missing, strconv.Quote(name))
		}
	}
	return strings.Join(missing, ", ")
}

// cell fetches one trimmed field, tolerating short rows. Spreadsheet
// exports routinely drop trailing empty cells.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// FilterSpec selects taxonomy rows. Empty text fields and SegmentAll
// select everything.
type FilterSpec struct {
	Segment accession.Segment
	Family  string
	Genus   string
	Species string
}

// FilterRows returns the rows matching spec, in their original order,
// plus the number of rows dropped for missing required fields. Textual
// filters are case-insensitive substring matches. A segment other than
// all keeps only rows whose raw accession cell mentions that segment's
// marker; the row survives even if the marker later yields nothing.
func FilterRows(rows []TaxonomyRow, spec FilterSpec) (kept []TaxonomyRow, skipped int) {
	for _, row := range rows {
		if row.Species == "" || row.VirusNames == "" || row.Accession == "" {
			skipped++
			continue
		}
		if spec.Segment != "" && spec.Segment != accession.SegmentAll &&
			!strings.Contains(row.Accession, string(spec.Segment)+":") {
			continue
		}
		if !containsFold(row.Family, spec.Family) ||
			!containsFold(row.Genus, spec.Genus) ||
			!containsFold(row.Species, spec.Species) {
			continue
		}
		kept = append(kept, row)
	}
	return kept, skipped
}

func containsFold(field, want string) bool {
	if want == "" {
		return true
	}
	return strings.Contains(strings.ToLower(field), strings.ToLower(want))
}
