package homopolymers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Row is one line of the homopolymer table.
type Row struct {
	Label string // run length and base, e.g. "3A"
	Motif string // the run itself, e.g. "AAA"
	Count int
}

// TableRows flattens c base-major (A, T, C, G, lengths ascending), the
// layout shared by the TSV and HTML outputs.
func TableRows(c *Counts) []Row {
	rows := make([]Row, 0, len(Bases)*c.Max)
	for _, b := range Bases {
		for n := 1; n <= c.Max; n++ {
			rows = append(rows, Row{
				Label: fmt.Sprintf("%d%c", n, b),
				Motif: strings.Repeat(string(b), n),
				Count: c.Runs[b][n-1],
			})
		}
	}
	return rows
}

// WriteTSV writes the tab-delimited run table with its header line.
func WriteTSV(w io.Writer, c *Counts) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write([]string{"length", "nucleotides", "counts"}); err != nil {
		return err
	}
	for _, r := range TableRows(c) {
		if err := cw.Write([]string{r.Label, r.Motif, strconv.Itoa(r.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// BaseStats summarises the run-length distribution of one base.
type BaseStats struct {
	Base       byte
	Runs       int
	MeanLength float64
	StdDev     float64
}

// Stats computes count-weighted run-length statistics per base.
func Stats(c *Counts) []BaseStats {
	lengths := make([]float64, c.Max)
	for i := range lengths {
		lengths[i] = float64(i + 1)
	}
	out := make([]BaseStats, 0, len(Bases))
	for _, b := range Bases {
		weights := make([]float64, c.Max)
		total := 0
		for i, n := range c.Runs[b] {
			weights[i] = float64(n)
			total += n
		}
		s := BaseStats{Base: b, Runs: total}
		if total > 0 {
			s.MeanLength = stat.Mean(lengths, weights)
		}
		if total > 1 {
			s.StdDev = stat.StdDev(lengths, weights)
		}
		out = append(out, s)
	}
	return out
}

type IntegerTicks struct{}

func (IntegerTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for i := int(math.Ceil(min)); i <= int(math.Floor(max)); i++ {
		ticks = append(ticks, plot.Tick{
			Value: float64(i),
			Label: fmt.Sprintf("%d", i),
		})
	}
	return ticks
}

// RunLengthPlotSVG renders the per-base run-length distribution as an
// SVG line plot, one line per base.
func RunLengthPlotSVG(c *Counts) (string, error) {
	p := plot.New()
	p.Title.Text = "Homopolymer Run Length Distribution"
	p.X.Label.Text = "Run Length"
	p.Y.Label.Text = "Run Count"
	p.X.Tick.Marker = IntegerTicks{}
	p.Legend.Top = true

	colors := map[byte]color.RGBA{
		'A': {R: 255, A: 255},
		'C': {G: 200, A: 255},
		'G': {B: 255, A: 255},
		'T': {R: 255, G: 165, A: 255},
	}

	for _, b := range Bases {
		pts := make(plotter.XYs, c.Max)
		for i, n := range c.Runs[b] {
			pts[i].X = float64(i + 1)
			pts[i].Y = float64(n)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return "", err
		}
		line.LineStyle.Width = vg.Points(1.3)
		line.LineStyle.Color = colors[b]
		p.Add(line)
		p.Legend.Add(string(b), line)
	}

	var buf bytes.Buffer
	writer, err := p.WriterTo(10*vg.Inch, 4*vg.Inch, "svg")
	if err != nil {
		return "", err
	}
	_, err = writer.WriteTo(&buf)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteHTML writes the self-contained report page: per-base summary
// statistics, the distribution plot inlined as SVG, and the full run
// table.
func WriteHTML(path string, c *Counts, records int) error {
	svg, err := RunLengthPlotSVG(c)
	if err != nil {
		return fmt.Errorf("rendering run length plot: %w", err)
	}

	var statRows strings.Builder
	for _, s := range Stats(c) {
		fmt.Fprintf(&statRows, "\t\t<tr><td>%c</td><td>%d</td><td>%.2f</td><td>%.2f</td></tr>\n",
			s.Base, s.Runs, s.MeanLength, s.StdDev)
	}
	var countRows strings.Builder
	for _, r := range TableRows(c) {
		fmt.Fprintf(&countRows, "\t\t<tr><td>%s</td><td>%s</td><td>%d</td></tr>\n",
			r.Label, r.Motif, r.Count)
	}

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<title>Homopolymer Report</title>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; padding: 20px; background-color: #f9f9f9; }
		h1 { color: #333; }
		table { border-collapse: collapse; margin-top: 20px; }
		th, td { padding: 8px 12px; border: 1px solid #ccc; text-align: left; }
		th { background-color: #eee; }
	</style>
</head>
<body>
	<h1>Homopolymer Report</h1>
	<p>%d record(s) scanned, runs counted up to length %d.</p>
	<table>
		<tr><th>Base</th><th>Runs</th><th>Mean Length</th><th>Length StdDev</th></tr>
%s	</table>
	<h2>Run Length Distribution</h2>
	<div>%s</div>
	<h2>Run Counts</h2>
	<table>
		<tr><th>length</th><th>nucleotides</th><th>counts</th></tr>
%s	</table>
</body>
</html>`,
		records,
		c.Max,
		statRows.String(),
		svg,
		countRows.String(),
	)

	return os.WriteFile(path, []byte(html), 0o644)
}
