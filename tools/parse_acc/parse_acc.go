// Package parse_acc splits free-form accession lists of the form
// "L: MN123456; M: MN234567" into one plain-text file per key. Keys are
// arbitrary labels, not only segment codes, so mixed lists like
// "RNA1: X; RNA2: Y" work too.
package parse_acc

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/druvus/bio-scripts/accession"
)

// Groups accumulates values per key, preserving first-appearance key
// order across the whole input.
type Groups struct {
	Keys   []string
	Values map[string][]string
}

func NewGroups() *Groups {
	return &Groups{Values: make(map[string][]string)}
}

// Add appends value under key, registering the key on first sight.
func (g *Groups) Add(key, value string) {
	if _, ok := g.Values[key]; !ok {
		g.Keys = append(g.Keys, key)
	}
	g.Values[key] = append(g.Values[key], value)
}

// ParseLine feeds one input line into g. The line splits on semicolons
// into parts; a part contributes only when it contains a colon with
// non-empty text on both sides. Everything else is ignored.
func ParseLine(line string, g *Groups) {
	for _, part := range strings.Split(line, ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		key := strings.TrimSpace(k)
		value := strings.TrimSpace(v)
		if key == "" || value == "" {
			continue
		}
		g.Add(key, value)
	}
}

// ParseFile reads the accession list at path into groups. With expand
// set, each value additionally runs through the hyphenated range
// expansion used for taxonomy declarations; malformed ranges are
// reported and dropped, never fatal.
func ParseFile(path string, expand bool) (*Groups, []accession.TokenError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading accession list %s: %w", path, err)
	}
	defer f.Close()

	g := NewGroups()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		ParseLine(sc.Text(), g)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading accession list %s: %w", path, err)
	}

	var errs []accession.TokenError
	if expand {
		for _, key := range g.Keys {
			var out []string
			for _, v := range g.Values[key] {
				ids, terr := accession.ExpandToken(v)
				if terr != nil {
					errs = append(errs, *terr)
					continue
				}
				out = append(out, ids...)
			}
			g.Values[key] = out
		}
	}
	return g, errs, nil
}

// WriteFiles writes one text file per key, named <prefix>_<key>.txt,
// one value per line, and returns the paths in key order.
func WriteFiles(g *Groups, prefix string) ([]string, error) {
	paths := make([]string, 0, len(g.Keys))
	for _, key := range g.Keys {
		path := fmt.Sprintf("%s_%s.txt", prefix, key)
		f, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("creating %s: %w", path, err)
		}
		w := bufio.NewWriter(f)
		for _, v := range g.Values[key] {
			fmt.Fprintln(w, v)
		}
		if err := w.Flush(); err != nil {
			f.Close()
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Run executes the parse_acc tool with command line arguments.
func Run(args []string) {
	fs := flag.NewFlagSet("parse_acc", flag.ExitOnError) // Isolated flag set specifically for "parse_acc" subcommand

	inFile := fs.String("in_file", "", "Accession list input file")
	outPrefix := fs.String("out_prefix", "segment", "Prefix for per-key output files")
	expand := fs.Bool("expand", false, "Expand hyphenated ranges (MK000001-4) into individual accessions")

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

	if *inFile == "" {
		fmt.Println("Error: -in_file is required")
		fs.Usage()
		os.Exit(1)
	}

	groups, errs, err := ParseFile(*inFile, *expand)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	for _, te := range errs {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", te.Error())
	}
	if len(groups.Keys) == 0 {
		fmt.Println("No accession entries found.")
		return
	}

	paths, err := WriteFiles(groups, *outPrefix)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	for i, key := range groups.Keys {
		fmt.Printf("Output for %s written to %s\n", key, paths[i])
	}
}
