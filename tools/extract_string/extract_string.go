// Package extract_string pulls records out of a FASTA file by matching
// search terms against their headers.
package extract_string

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/druvus/bio-scripts/fastaio"
)

// SplitTerms breaks a comma-separated search list into lowercased,
// trimmed, non-empty terms.
func SplitTerms(raw string) []string {
	var terms []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// Matches reports whether any term occurs in the record's full header,
// case-insensitively. Terms must already be lowercased.
func Matches(rec fastaio.Record, terms []string) bool {
	header := strings.ToLower(rec.Header())
	for _, term := range terms {
		if strings.Contains(header, term) {
			return true
		}
	}
	return false
}

// Filter streams the FASTA file at path and returns the records whose
// headers match any term, in file order.
func Filter(path string, terms []string) ([]fastaio.Record, error) {
	var hits []fastaio.Record
	err := fastaio.Stream(path, func(rec fastaio.Record) error {
		if Matches(rec, terms) {
			hits = append(hits, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hits, nil
}

// Run executes the extract_string tool with command line arguments.
func Run(args []string) {
	fs := flag.NewFlagSet("extract_string", flag.ExitOnError) // Isolated flag set specifically for "extract_string" subcommand

	fastaPath := fs.String("fasta", "", "Input FASTA file, optionally gzip-compressed")
	search := fs.String("search", "", "Comma-separated search terms matched against headers")
	outFile := fs.String("out_file", "filtered_sequences.fasta", "Output FASTA file")

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

	if *fastaPath == "" || *search == "" {
		fmt.Println("Error: -fasta and -search are required")
		fs.Usage()
		os.Exit(1)
	}

	terms := SplitTerms(*search)
	if len(terms) == 0 {
		fmt.Println("Error: no usable search terms in", *search)
		os.Exit(1)
	}

	hits, err := Filter(*fastaPath, terms)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	// No output file for an empty result, so downstream globs stay clean.
	if len(hits) == 0 {
		fmt.Println("No matches found.")
		return
	}

	if err := fastaio.WriteFile(*outFile, hits); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	fmt.Printf("Extracted %d sequence(s) to %s\n", len(hits), *outFile)
}
