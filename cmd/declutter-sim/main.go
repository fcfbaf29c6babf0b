// Command declutter-sim runs a synthetic marker scenario through the
// placement engine and records the resulting trace into a SQLite database
// for later analysis with placement-report.
package main

import (
	"flag"
	"log"

	"github.com/google/uuid"
	"github.com/skytrace-data/declutter/internal/config"
	"github.com/skytrace-data/declutter/internal/declutter"
	"github.com/skytrace-data/declutter/internal/geom"
	"github.com/skytrace-data/declutter/internal/sim"
	"github.com/skytrace-data/declutter/internal/storage/sqlite"
)

func main() {
	dbPath := flag.String("db", "placements.db", "trace database path")
	configPath := flag.String("config", "", "tuning config JSON (default: canonical defaults file)")
	markers := flag.Int("markers", 12, "number of markers")
	frames := flag.Int("frames", 120, "number of frames")
	seed := flag.Int64("seed", 1, "scenario PRNG seed")
	canvasW := flag.Float64("canvas-width", 800, "canvas width in screen units")
	canvasH := flag.Float64("canvas-height", 600, "canvas height in screen units")
	quality := flag.Bool("quality", false, "enable the local refiner")
	flag.Parse()

	var tuning *config.TuningConfig
	if *configPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("load tuning config: %v", err)
		}
	} else {
		tuning = config.MustLoadDefaultConfig()
	}

	db, err := sqlite.Open(*dbPath)
	if err != nil {
		log.Fatalf("open trace db: %v", err)
	}
	defer db.Close()

	opts := sim.DefaultOptions()
	opts.Markers = *markers
	opts.Frames = *frames
	opts.Seed = *seed
	opts.Canvas = geom.Size{W: *canvasW, H: *canvasH}
	opts.Quality = *quality

	placer := declutter.NewPlacer(declutter.ConfigFromTuning(tuning))
	result := sim.Run(placer, opts)

	store := sqlite.NewPlacementStore(db)
	runID := "run_" + uuid.NewString()
	if err := store.InsertRun(sqlite.Run{
		RunID:       runID,
		Seed:        opts.Seed,
		MarkerCount: opts.Markers,
		FrameCount:  opts.Frames,
		CanvasW:     opts.Canvas.W,
		CanvasH:     opts.Canvas.H,
		Quality:     opts.Quality,
	}); err != nil {
		log.Fatalf("insert run: %v", err)
	}

	total := 0
	for _, frame := range result {
		rows := make([]sqlite.PlacementRow, 0, len(frame.Placements))
		for _, p := range frame.Placements {
			rows = append(rows, sqlite.PlacementRow{
				RunID:        runID,
				Frame:        frame.Index,
				MarkerID:     p.Marker.ID,
				MarkerX:      p.Marker.Pos.X,
				MarkerY:      p.Marker.Pos.Y,
				HeadingDeg:   p.Marker.HeadingDeg,
				AnchorX:      p.Result.Anchor.X,
				AnchorY:      p.Result.Anchor.Y,
				AngleDeg:     p.Result.AngleDeg,
				LeaderLength: p.Result.Length,
				Reduced:      p.Result.Reduced,
				Attempt:      p.Result.Attempt.String(),
			})
		}
		if err := store.InsertPlacements(rows); err != nil {
			log.Fatalf("insert placements (frame %d): %v", frame.Index, err)
		}
		total += len(rows)
	}

	log.Printf("✓ Recorded %s: %d placements over %d frames into %s", runID, total, len(result), *dbPath)
}
