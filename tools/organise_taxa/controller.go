package organise_taxa

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"

	pb "gopkg.in/cheggaaa/pb.v1"

	"github.com/druvus/bio-scripts/accession"
	"github.com/druvus/bio-scripts/config"
	"github.com/druvus/bio-scripts/fastaio"
)

// Options collects one organise_taxa invocation.
type Options struct {
	TablePath   string
	ArchivePath string
	OutDir      string
	Filter      FilterSpec
	Columns     Columns
	Threads     int
	Progress    bool
}

// Summary reports one run. Warnings carry the non-fatal findings in
// row order, ready for printing; the counters aggregate them.
type Summary struct {
	RowsTotal     int
	RowsSelected  int
	RowsSkipped   int
	FilesWritten  int
	SeqsWritten   int
	EmptyFiles    int
	Unresolved    int
	TokenFailures int
	DuplicateIDs  int
	Warnings      []string
}

// Run executes the organise_taxa tool with command line arguments.
func Run(args []string) {
	fs := flag.NewFlagSet("organise_taxa", flag.ExitOnError) // Isolated flag set specifically for "organise_taxa" subcommand

	table := fs.String("table", "", "Taxonomy table (.xlsx, .csv or .tsv)")
	fastaPath := fs.String("fasta", "", "FASTA archive, optionally gzip-compressed")
	outDir := fs.String("out_dir", ".", "Directory for per-taxon FASTA files")
	segment := fs.String("segment", "all", "Genome segment to extract: L, M, S or all")
	family := fs.String("family", "", "Keep rows whose family contains this text")
	genus := fs.String("genus", "", "Keep rows whose genus contains this text")
	species := fs.String("species", "", "Keep rows whose species contains this text")
	threads := fs.Int("threads", runtime.NumCPU(), "Worker count for row processing")
	progress := fs.Bool("progress", false, "Show a progress bar over taxonomy rows")
	settingsName := fs.String("config", "", "Optional settings file overriding table column names")

	err := fs.Parse(args)
	if err != nil {
		fmt.Println("Error parsing flags:", err)
		os.Exit(1)
	}

	if len(fs.Args()) > 0 {
		fmt.Printf("Unrecognized arguments: %v\n", fs.Args())
		fmt.Println("Use -h to view valid flags.")
		os.Exit(1)
	}

	if *table == "" || *fastaPath == "" {
		fmt.Println("Error: -table and -fasta are required")
		fs.Usage()
		os.Exit(1)
	}

	seg, err := accession.ParseSegment(*segment)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	settings, err := config.LoadSettings(*settingsName)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	opts := Options{
		TablePath:   *table,
		ArchivePath: *fastaPath,
		OutDir:      pickOutDir(*outDir, settings.OutputDir),
		Filter:      FilterSpec{Segment: seg, Family: *family, Genus: *genus, Species: *species},
		Columns:     DefaultColumns().Override(settings.Columns),
		Threads:     *threads,
		Progress:    *progress,
	}

	sum, err := Extract(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	for _, w := range sum.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	fmt.Printf("Selected %d of %d taxonomy row(s)", sum.RowsSelected, sum.RowsTotal)
	if sum.RowsSkipped > 0 {
		fmt.Printf(" (%d skipped for missing fields)", sum.RowsSkipped)
	}
	fmt.Println()
	fmt.Printf("Extracted %d sequence(s) into %d file(s) in %s\n",
		sum.SeqsWritten, sum.FilesWritten, opts.OutDir)
	if sum.Unresolved > 0 {
		fmt.Printf("%d identifier(s) were not found in the archive\n", sum.Unresolved)
	}
	if sum.EmptyFiles > 0 {
		fmt.Printf("%d file(s) contain no sequences\n", sum.EmptyFiles)
	}
}

// pickOutDir applies precedence: an explicit flag beats the settings
// file, the settings file beats the built-in default.
func pickOutDir(flagValue, settingsValue string) string {
	if flagValue != "." && flagValue != "" {
		return flagValue
	}
	if settingsValue != "" {
		return settingsValue
	}
	return flagValue
}

// Extract runs the pipeline: load and filter the taxonomy table, index
// the archive, then write one FASTA file per selected row. Rows are
// independent once the index exists, so they fan out to a worker pool;
// results land in per-row slots to keep reporting order stable.
func Extract(opts Options) (Summary, error) {
	var sum Summary
	if opts.Threads < 1 {
		opts.Threads = runtime.NumCPU()
	}
	if opts.Columns == (Columns{}) {
		opts.Columns = DefaultColumns()
	}

	rows, err := LoadTable(opts.TablePath, opts.Columns)
	if err != nil {
		return sum, err
	}
	sum.RowsTotal = len(rows)

	selected, skipped := FilterRows(rows, opts.Filter)
	sum.RowsSelected = len(selected)
	sum.RowsSkipped = skipped
	if skipped > 0 {
		sum.Warnings = append(sum.Warnings,
			fmt.Sprintf("%d row(s) skipped: missing species, virus name or accession", skipped))
	}

	recs, err := fastaio.ReadAll(opts.ArchivePath)
	if err != nil {
		return sum, err
	}
	idx, dups := BuildIndex(recs)
	sum.DuplicateIDs = len(dups)
	if len(dups) > 0 {
		sum.Warnings = append(sum.Warnings,
			fmt.Sprintf("%d duplicate identifier(s) in %s ignored, first occurrence kept",
				len(dups), opts.ArchivePath))
	}

	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return sum, fmt.Errorf("creating output directory %s: %w", opts.OutDir, err)
	}

	// Names are claimed up front, in row order, so collisions resolve
	// the same way on every run regardless of worker scheduling.
	names := newNameTracker()
	fileNames := make([]string, len(selected))
	for i, row := range selected {
		fileNames[i] = names.claim(GroupFileName(row, opts.Filter.Segment))
	}

	var bar *pb.ProgressBar
	if opts.Progress {
		bar = pb.StartNew(len(selected))
	}

	groups := make([]OutputGroup, len(selected))
	writeErrs := make([]error, len(selected))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < opts.Threads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				g := BuildGroup(selected[i], opts.Filter.Segment, idx)
				g.FileName = fileNames[i]
				writeErrs[i] = WriteGroup(opts.OutDir, g)
				groups[i] = g
				if bar != nil {
					bar.Increment()
				}
			}
		}()
	}
	for i := range selected {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	if bar != nil {
		bar.Finish()
	}

	for i, g := range groups {
		if writeErrs[i] != nil {
			return sum, writeErrs[i]
		}
		sum.FilesWritten++
		sum.SeqsWritten += len(g.Records)
		if len(g.Records) == 0 {
			sum.EmptyFiles++
		}
		for _, te := range g.TokenErrs {
			sum.TokenFailures++
			sum.Warnings = append(sum.Warnings,
				fmt.Sprintf("%s: %s", g.Row.Species, te.Error()))
		}
		if n := len(g.Unresolved); n > 0 {
			sum.Unresolved += n
			sum.Warnings = append(sum.Warnings,
				fmt.Sprintf("%s: %d identifier(s) not found in archive", g.Row.Species, n))
		}
	}
	return sum, nil
}
