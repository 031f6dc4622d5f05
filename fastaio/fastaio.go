// Package fastaio is the shared FASTA layer for the bio-scripts tools:
// reading plain or gzip-compressed archives and writing wrapped output.
package fastaio

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/klauspost/pgzip"
)

// Record is one FASTA entry. ID is the first whitespace-delimited word
// of the header line and Desc the remainder, so the full header is
// recoverable through Header.
type Record struct {
	ID   string
	Desc string
	Seq  []byte
}

// Header reassembles the header line without the leading '>'.
func (r Record) Header() string {
	if r.Desc == "" {
		return r.ID
	}
	return r.ID + " " + r.Desc
}

// Open opens path for reading, transparently decompressing gzip input.
// Compression is detected from the leading magic bytes, not the file
// name, so renamed archives still open correctly.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	magic := make([]byte, 2)
	if _, err := io.ReadFull(f, magic); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			// Shorter than the magic number, so not gzip.
			if _, err := f.Seek(0, io.SeekStart); err != nil {
				f.Close()
				return nil, err
			}
			return f, nil
		}
		f.Close()
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	if magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := pgzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening gzip stream in %s: %w", path, err)
		}
		return &gzReadCloser{zr: zr, f: f}, nil
	}
	return f, nil
}

type gzReadCloser struct {
	zr *pgzip.Reader
	f  *os.File
}

func (g *gzReadCloser) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzReadCloser) Close() error {
	err := g.zr.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Create creates path for writing, gzip-compressing the stream when the
// name ends in .gz.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		return &gzWriteCloser{zw: gzip.NewWriter(f), f: f}, nil
	}
	return f, nil
}

type gzWriteCloser struct {
	zw *gzip.Writer
	f  *os.File
}

func (g *gzWriteCloser) Write(p []byte) (int, error) { return g.zw.Write(p) }

func (g *gzWriteCloser) Close() error {
	err := g.zw.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// NewScanner returns a scanner over r configured for DNA FASTA.
func NewScanner(r io.Reader) *seqio.Scanner {
	t := linear.NewSeq("", nil, alphabet.DNA)
	return seqio.NewScanner(fasta.NewReader(r, t))
}

// Stream calls fn for every record in the FASTA file at path, in file
// order. An error from fn stops the stream and is returned unchanged.
func Stream(path string, fn func(Record) error) error {
	rc, err := Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer rc.Close()
	sc := NewScanner(rc)
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		rec := Record{ID: s.ID, Desc: s.Desc, Seq: []byte(s.Seq.String())}
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := sc.Error(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// ReadAll reads every record in the FASTA file at path.
func ReadAll(path string) ([]Record, error) {
	var recs []Record
	err := Stream(path, func(rec Record) error {
		recs = append(recs, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// NewWriter returns a FASTA writer emitting 60-column sequence lines.
func NewWriter(w io.Writer) *fasta.Writer {
	return fasta.NewWriter(w, 60)
}

// Write writes rec through w.
func Write(w *fasta.Writer, rec Record) error {
	s := linear.NewSeq(rec.ID, alphabet.BytesToLetters(rec.Seq), alphabet.DNA)
	s.Desc = rec.Desc
	_, err := w.Write(s)
	return err
}

// WriteFile writes recs to path, wrapped at 60 columns and
// gzip-compressed when the name ends in .gz. An empty recs slice still
// creates the file.
func WriteFile(path string, recs []Record) error {
	out, err := Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	bw := bufio.NewWriter(out)
	w := NewWriter(bw)
	for _, rec := range recs {
		if err := Write(w, rec); err != nil {
			out.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
