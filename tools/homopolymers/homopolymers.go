// Package homopolymers counts homopolymer runs (AAA, TTTT, ...) across
// a FASTA file, up to a configurable maximum run length.
package homopolymers

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/druvus/bio-scripts/fastaio"
)

// Bases fixes the base order used everywhere output is produced.
var Bases = [4]byte{'A', 'T', 'C', 'G'}

// Counts accumulates homopolymer run tallies. Runs[base][n-1] is the
// number of maximal runs of that base with length n. Runs longer than
// Max are ignored outright rather than truncated.
type Counts struct {
	Max  int
	Runs map[byte][]int
}

func NewCounts(max int) *Counts {
	c := &Counts{Max: max, Runs: make(map[byte][]int, len(Bases))}
	for _, b := range Bases {
		c.Runs[b] = make([]int, max)
	}
	return c
}

// AddSequence scans one sequence and tallies its homopolymer runs.
// Lowercase bases count as their uppercase form; any other byte ends
// the current run and is never counted itself.
func (c *Counts) AddSequence(seq []byte) {
	var (
		cur byte // current run base, 0 outside a run
		n   int
	)
	for _, b := range seq {
		if 'a' <= b && b <= 'z' {
			b -= 'a' - 'A'
		}
		switch b {
		case 'A', 'T', 'C', 'G':
			if b == cur {
				n++
				continue
			}
			c.endRun(cur, n)
			cur, n = b, 1
		default:
			c.endRun(cur, n)
			cur, n = 0, 0
		}
	}
	c.endRun(cur, n)
}

func (c *Counts) endRun(base byte, n int) {
	if base == 0 || n > c.Max {
		return
	}
	c.Runs[base][n-1]++
}

// Merge folds other into c. Both must share the same Max.
func (c *Counts) Merge(other *Counts) {
	for _, b := range Bases {
		dst, src := c.Runs[b], other.Runs[b]
		for i := range src {
			dst[i] += src[i]
		}
	}
}

// TotalRuns reports the number of counted runs for one base.
func (c *Counts) TotalRuns(base byte) int {
	t := 0
	for _, n := range c.Runs[base] {
		t += n
	}
	return t
}

// CountFile tallies homopolymer runs across every record in the FASTA
// file at path. Records fan out to threads workers, each with a
// private tally merged at the end, so totals never depend on
// scheduling.
func CountFile(path string, max, threads int) (*Counts, int, error) {
	if threads < 1 {
		threads = runtime.NumCPU()
	}
	jobs := make(chan []byte, threads)
	parts := make([]*Counts, threads)
	var wg sync.WaitGroup
	for w := 0; w < threads; w++ {
		parts[w] = NewCounts(max)
		wg.Add(1)
		go func(c *Counts) {
			defer wg.Done()
			for seq := range jobs {
				c.AddSequence(seq)
			}
		}(parts[w])
	}

	records := 0
	err := fastaio.Stream(path, func(rec fastaio.Record) error {
		records++
		jobs <- rec.Seq
		return nil
	})
	close(jobs)
	wg.Wait()
	if err != nil {
		return nil, 0, err
	}

	total := NewCounts(max)
	for _, p := range parts {
		total.Merge(p)
	}
	return total, records, nil
}

// Run executes the homopolymers tool with command line arguments.
func Run(args []string) {
	fs := flag.NewFlagSet("homopolymers", flag.ExitOnError) // Isolated flag set specifically for "homopolymers" subcommand

	fastaPath := fs.String("fasta", "", "Input FASTA file, optionally gzip-compressed")
	maxLength := fs.Int("max_length", 7, "Longest run length to count; longer runs are ignored")
	outFile := fs.String("out_file", "", "Write the run table to this TSV file instead of stdout")
	htmlOut := fs.String("html", "", "Also write an HTML report with plots to this file")
	threads := fs.Int("threads", runtime.NumCPU(), "Worker count for sequence scanning")

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

	if *fastaPath == "" {
		fmt.Println("Error: -fasta is required")
		fs.Usage()
		os.Exit(1)
	}
	if *maxLength < 1 {
		fmt.Println("Error: -max_length must be at least 1")
		os.Exit(1)
	}

	counts, records, err := CountFile(*fastaPath, *maxLength, *threads)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		werr := WriteTSV(f, counts)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			fmt.Fprintln(os.Stderr, "Error writing", *outFile+":", werr)
			os.Exit(1)
		}
		fmt.Printf("Wrote homopolymer table for %d record(s) to %s\n", records, *outFile)
	} else {
		if err := WriteTSV(os.Stdout, counts); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}

	if *htmlOut != "" {
		if err := WriteHTML(*htmlOut, counts, records); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote HTML report to %s\n", *htmlOut)
	}
}
