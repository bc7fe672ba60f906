package harness

import (
	"fmt"
	"image/color"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// metricSeries names one plotted metric and how to pull its values out of
// an AlgorithmResult.
type metricSeries struct {
	file   string
	title  string
	yLabel string
	values func(AlgorithmResult) []float64
}

var plottedMetrics = []metricSeries{
	{"error_rate_comparison.png", "Error Rate Comparison", "Error rate (%)", func(a AlgorithmResult) []float64 { return a.ER }},
	{"throughput_comparison.png", "Throughput Comparison", "Throughput (Kbps)", func(a AlgorithmResult) []float64 { return a.Throughput }},
	{"transit_time_comparison.png", "End-to-End Transit Time Comparison", "Transit time (s)", func(a AlgorithmResult) []float64 { return a.TX }},
}

// WritePlots renders one PNG per metric in plottedMetrics, each plotting
// every algorithm in sweep.Results against the load series, matching
// original_source/sim.py's error_rate_comparison.png / throughput /
// delay trio — named transit_time here rather than delay, matching the
// "tx" field name used in the JSON output.
func WritePlots(dir string, sweep SweepResult) ([]string, error) {
	algNames := make([]string, 0, len(sweep.Results))
	for alg := range sweep.Results {
		algNames = append(algNames, string(alg))
	}
	sort.Strings(algNames)

	var written []string
	for _, metric := range plottedMetrics {
		path, err := writeComparisonPlot(dir, metric, sweep, algNames)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeComparisonPlot(dir string, metric metricSeries, sweep SweepResult, algNames []string) (string, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%s topology, %ds)", metric.title, sweep.Topology, sweep.Duration)
	p.X.Label.Text = "Load (pkts/sec)"
	p.Y.Label.Text = metric.yLabel
	p.Add(plotter.NewGrid())

	for i, name := range algNames {
		ar := sweep.Results[Algorithm(name)]
		values := metric.values(ar)
		pts := make(plotter.XYs, len(values))
		for j, v := range values {
			if j >= len(sweep.Loads) {
				break
			}
			pts[j].X = sweep.Loads[j]
			pts[j].Y = v
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return "", fmt.Errorf("harness: building series for %s: %w", name, err)
		}
		line.LineStyle.Color = seriesColor(i)
		points.GlyphStyle.Color = seriesColor(i)
		p.Add(line, points)
		p.Legend.Add(name, line, points)
	}

	path := filepath.Join(dir, metric.file)
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return "", fmt.Errorf("harness: saving %q: %w", path, err)
	}
	return path, nil
}

// WriteTransitHistogram renders the LB variants' per-packet transit-time
// distribution to <dir>/<algorithm>_transit_histogram.png.
func WriteTransitHistogram(dir string, alg Algorithm, transits []PacketTransit) (string, error) {
	values := make(plotter.Values, len(transits))
	for i, t := range transits {
		values[i] = t.TransmissionSec
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s Transit Time Distribution", alg)
	p.X.Label.Text = "Transit time (s)"
	p.Y.Label.Text = "Packets"

	hist, err := plotter.NewHist(values, histogramBins(len(values)))
	if err != nil {
		return "", fmt.Errorf("harness: building histogram for %s: %w", alg, err)
	}
	p.Add(hist)

	path := filepath.Join(dir, fmt.Sprintf("%s_transit_histogram.png", alg))
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return "", fmt.Errorf("harness: saving %q: %w", path, err)
	}
	return path, nil
}

// histogramBins picks a bin count that stays readable whether a run
// delivered a handful of packets or several thousand.
func histogramBins(n int) int {
	switch {
	case n <= 1:
		return 1
	case n < 30:
		return n
	case n > 50:
		return 50
	default:
		return n
	}
}

// seriesColor cycles through a small fixed palette so each algorithm's
// line is visually distinct without pulling in a color-scheme dependency.
func seriesColor(i int) color.RGBA {
	palette := []color.RGBA{
		{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
		{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
		{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	}
	return palette[i%len(palette)]
}
