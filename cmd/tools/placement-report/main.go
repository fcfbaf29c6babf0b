// Command placement-report summarises a recorded placement trace: attempt
// tag distribution, leader-length statistics, and anchor scatter charts
// (interactive HTML via ECharts, static PNG via gonum/plot).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/skytrace-data/declutter/internal/storage/sqlite"
)

func main() {
	dbPath := flag.String("db", "placements.db", "trace database path")
	runID := flag.String("run", "", "run to report on (default: latest)")
	htmlOut := flag.String("html", "placement-report.html", "output HTML scatter path (empty to skip)")
	pngOut := flag.String("png", "placement-report.png", "output PNG scatter path (empty to skip)")
	flag.Parse()

	db, err := sqlite.Open(*dbPath)
	if err != nil {
		log.Fatalf("open trace db: %v", err)
	}
	defer db.Close()
	store := sqlite.NewPlacementStore(db)

	run, err := resolveRun(store, *runID)
	if err != nil {
		log.Fatalf("resolve run: %v", err)
	}

	rows, err := store.ListPlacements(run.RunID)
	if err != nil {
		log.Fatalf("list placements: %v", err)
	}
	if len(rows) == 0 {
		log.Fatalf("run %s has no placements", run.RunID)
	}

	printSummary(run, rows)

	if *htmlOut != "" {
		if err := writeHTMLScatter(*htmlOut, run, rows); err != nil {
			log.Fatalf("write HTML scatter: %v", err)
		}
		log.Printf("✓ Wrote %s", *htmlOut)
	}
	if *pngOut != "" {
		if err := writePNGScatter(*pngOut, run, rows); err != nil {
			log.Fatalf("write PNG scatter: %v", err)
		}
		log.Printf("✓ Wrote %s", *pngOut)
	}
}

func resolveRun(store *sqlite.PlacementStore, runID string) (sqlite.Run, error) {
	if runID == "" {
		return store.LatestRun()
	}
	runs, err := store.ListRuns()
	if err != nil {
		return sqlite.Run{}, err
	}
	for _, r := range runs {
		if r.RunID == runID {
			return r, nil
		}
	}
	return sqlite.Run{}, fmt.Errorf("run %s not found", runID)
}

// printSummary reports attempt distribution and leader-length statistics.
func printSummary(run sqlite.Run, rows []sqlite.PlacementRow) {
	lengths := make([]float64, len(rows))
	reduced := 0
	attempts := make(map[string]int)
	for i, r := range rows {
		lengths[i] = r.LeaderLength
		if r.Reduced {
			reduced++
		}
		attempts[r.Attempt]++
	}
	sort.Float64s(lengths)

	mean, std := stat.MeanStdDev(lengths, nil)
	fmt.Printf("run %s: seed=%d markers=%d frames=%d quality=%v\n",
		run.RunID, run.Seed, run.MarkerCount, run.FrameCount, run.Quality)
	fmt.Printf("placements: %d (%.1f%% reduced)\n",
		len(rows), 100*float64(reduced)/float64(len(rows)))
	fmt.Printf("leader length: mean=%.1f std=%.1f p50=%.1f p90=%.1f p99=%.1f\n",
		mean, std,
		stat.Quantile(0.50, stat.Empirical, lengths, nil),
		stat.Quantile(0.90, stat.Empirical, lengths, nil),
		stat.Quantile(0.99, stat.Empirical, lengths, nil))

	tags := make([]string, 0, len(attempts))
	for tag := range attempts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		fmt.Printf("attempt %-26s %6d (%.1f%%)\n",
			tag, attempts[tag], 100*float64(attempts[tag])/float64(len(rows)))
	}
}

// writeHTMLScatter renders anchors as one ECharts series per attempt tag,
// on canvas-oriented axes (Y inverted to match screen space).
func writeHTMLScatter(path string, run sqlite.Run, rows []sqlite.PlacementRow) error {
	series := make(map[string][]opts.ScatterData)
	for _, r := range rows {
		series[r.Attempt] = append(series[r.Attempt], opts.ScatterData{
			Value: []interface{}{r.AnchorX, run.CanvasH - r.AnchorY},
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Placement Trace", Width: "900px", Height: "700px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Label anchors by attempt",
			Subtitle: fmt.Sprintf("run=%s placements=%d", run.RunID, len(rows)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: run.CanvasW, Name: "X"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: run.CanvasH, Name: "Y"}),
	)

	tags := make([]string, 0, len(series))
	for tag := range series {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		scatter.AddSeries(tag, series[tag],
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return scatter.Render(f)
}

// writePNGScatter renders markers and anchors into a static PNG.
func writePNGScatter(path string, run sqlite.Run, rows []sqlite.PlacementRow) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Placement trace %s", run.RunID)
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.X.Min, p.X.Max = 0, run.CanvasW
	p.Y.Min, p.Y.Max = 0, run.CanvasH

	markerPts := make(plotter.XYs, 0, len(rows))
	anchorPts := make(plotter.XYs, 0, len(rows))
	for _, r := range rows {
		// gonum/plot Y grows up; screen Y grows down.
		markerPts = append(markerPts, plotter.XY{X: r.MarkerX, Y: run.CanvasH - r.MarkerY})
		anchorPts = append(anchorPts, plotter.XY{X: r.AnchorX, Y: run.CanvasH - r.AnchorY})
	}

	markerScatter, err := plotter.NewScatter(markerPts)
	if err != nil {
		return fmt.Errorf("failed to build marker scatter: %w", err)
	}
	markerScatter.GlyphStyle.Radius = vg.Points(1)

	anchorScatter, err := plotter.NewScatter(anchorPts)
	if err != nil {
		return fmt.Errorf("failed to build anchor scatter: %w", err)
	}
	anchorScatter.GlyphStyle.Radius = vg.Points(1.5)

	p.Add(markerScatter, anchorScatter)
	p.Legend.Add("markers", markerScatter)
	p.Legend.Add("anchors", anchorScatter)

	if err := p.Save(9*vg.Inch, 7*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
