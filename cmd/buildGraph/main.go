package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"os"
	"sort"
	"strconv"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))

func loadSessions(filename string) ([]FullReport, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}
	var sessions []FullReport
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, errors.Wrapf(err, "unmarshalling %s", filename)
	}
	return sessions, nil
}

func main() {
	jsonFile := flag.String("jsonfile", "test-results.json", "Path to JSON file containing test sessions")
	outputPrefix := flag.String("out", "benchmark_graph", "Output graph image filename prefix")
	flag.Parse()

	sessions, err := loadSessions(*jsonFile)
	if err != nil {
		level.Error(logger).Log("msg", "can not load sessions", "err", err)
		os.Exit(1)
	}

	byWorkload := groupByWorkload(sessions)
	if len(byWorkload) == 0 {
		level.Error(logger).Log("msg", "no usable benchmark results", "file", *jsonFile)
		os.Exit(1)
	}

	for workload, implMap := range byWorkload {
		p := newPlot(workload, implMap)
		filename := fmt.Sprintf("%s_%s.png", *outputPrefix, workload)
		if err := p.Save(12*vg.Inch, 9*vg.Inch, filename); err != nil {
			level.Error(logger).Log("msg", "can not save plot", "workload", workload, "err", err)
			continue
		}
		fmt.Printf("Graph for workload %s saved to %s\n", workload, filename)
	}
}

// newPlot draws one line per implementation: median ns/op over queue depth
// with 5% min/max error bars.
func newPlot(workload string, implMap map[string]map[float64][]float64) *plot.Plot {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Benchmark (5%%-avg-min / Median / 5%%-avg-max) vs. Queue Depth, %s workload", workload)
	p.X.Label.Text = "Queue depth"
	p.Y.Label.Text = "Time per Op (ns) [log scale]"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.TickerFunc(func(min, max float64) []plot.Tick {
		ticks := plot.LogTicks{}.Ticks(min, max)
		for i := range ticks {
			if ticks[i].Label != "" {
				ticks[i].Label = formatNs(ticks[i].Value)
			}
		}
		return ticks
	})

	// Dark theme.
	p.BackgroundColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	p.Title.TextStyle.Color = white
	p.X.Label.TextStyle.Color = white
	p.Y.Label.TextStyle.Color = white
	p.X.Color = white
	p.Y.Color = white
	p.X.Tick.Label.Color = white
	p.Y.Tick.Label.Color = white
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Color = white

	p.Add(plotter.NewGrid())

	// Build union of depths.
	depthSet := make(map[float64]struct{})
	for _, implData := range implMap {
		for depth := range implData {
			depthSet[depth] = struct{}{}
		}
	}
	var depths []float64
	for d := range depthSet {
		depths = append(depths, d)
	}
	sort.Float64s(depths)

	// Map depth => category index.
	depthMapping := make(map[float64]float64)
	var positions []float64
	var labels []string
	for i, d := range depths {
		depthMapping[d] = float64(i)
		positions = append(positions, float64(i))
		labels = append(labels, strconv.FormatFloat(d, 'f', -1, 64))
	}
	p.X.Tick.Marker = categoryTicks{positions: positions, labels: labels}

	// Sort implementations alphabetically for consistent legend ordering.
	var implNames []string
	for implName := range implMap {
		implNames = append(implNames, implName)
	}
	sort.Strings(implNames)

	colors := plotutil.SoftColors
	shapes := []draw.GlyphDrawer{
		draw.CircleGlyph{},
		draw.SquareGlyph{},
		draw.TriangleGlyph{},
		draw.CrossGlyph{},
		draw.PlusGlyph{},
	}

	// Slight offset so each implementation is visually separated.
	offsetRange := 0.4
	offsetStep := offsetRange / float64(len(implNames))
	startOffset := -offsetRange/2 + offsetStep/2

	for i, impl := range implNames {
		stats := buildStats(implMap[impl])
		if len(stats) == 0 {
			continue
		}
		for j := range stats {
			stats[j].x = depthMapping[stats[j].depth] + startOffset + float64(i)*offsetStep
		}
		sp := statsPoints(stats)
		c := colors[i%len(colors)]

		line, err := plotter.NewLine(sp)
		if err != nil {
			level.Warn(logger).Log("msg", "can not create line", "impl", impl, "err", err)
			continue
		}
		line.Color = c

		points, err := plotter.NewScatter(sp)
		if err != nil {
			level.Warn(logger).Log("msg", "can not create scatter", "impl", impl, "err", err)
			continue
		}
		points.GlyphStyle.Radius = vg.Points(5)
		points.Color = c
		points.Shape = shapes[i%len(shapes)]

		yErrBars, err := plotter.NewYErrorBars(sp)
		if err != nil {
			level.Warn(logger).Log("msg", "can not create error bars", "impl", impl, "err", err)
			continue
		}
		yErrBars.Color = c

		p.Add(line, points, yErrBars)
		p.Legend.Add(impl, line, points)
	}
	return p
}
