// Package sim runs deterministic synthetic marker scenarios through the
// placement engine, exactly the way a render loop would: stable processing
// order, per-frame registry reset, caller-held previous results. It exists
// for trace recording and for end-to-end tests.
package sim

import (
	"log"
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"github.com/skytrace-data/declutter/internal/declutter"
	"github.com/skytrace-data/declutter/internal/geom"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf
// but may be replaced by SetLogger. Tests can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil sets a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Options configures a synthetic scenario. The same options and seed always
// produce the same frames.
type Options struct {
	Markers    int       // number of moving markers
	Frames     int       // frames to simulate
	Canvas     geom.Size // display size in screen units
	Seed       int64     // PRNG seed
	Quality    bool      // enable the local refiner
	SpeedUnits float64   // marker speed, screen units per frame

	// Furniture and StaticSegments seed the registry every frame
	// (compass, range rings, readouts).
	Furniture      []geom.Rect
	StaticSegments []geom.Segment

	Observer declutter.Observer
}

// DefaultOptions returns a mid-density scenario on an 800×600 canvas with
// the standard furniture: a compass box top-left and a readout strip along
// the bottom edge.
func DefaultOptions() Options {
	return Options{
		Markers:    12,
		Frames:     120,
		Canvas:     geom.Size{W: 800, H: 600},
		Seed:       1,
		SpeedUnits: 3,
		Furniture: []geom.Rect{
			{Left: 0, Top: 0, Right: 90, Bottom: 90},
			{Left: 540, Top: 560, Right: 800, Bottom: 600},
		},
	}
}

// Placement pairs one marker's per-frame state with the engine's decision.
type Placement struct {
	Marker declutter.Marker
	Result declutter.Result
}

// Frame is the outcome of one simulated render pass.
type Frame struct {
	Index      int
	Placements []Placement
}

type markerState struct {
	id      string
	pos     geom.Vec
	heading float64
	content declutter.Content
}

// Run simulates the scenario and returns every frame's placements.
func Run(placer *declutter.Placer, opts Options) []Frame {
	rng := rand.New(rand.NewSource(opts.Seed))

	markers := spawnMarkers(rng, opts)
	registry := declutter.NewRegistry()
	previous := make(map[string]*declutter.Result, len(markers))

	frames := make([]Frame, 0, opts.Frames)
	for fi := 0; fi < opts.Frames; fi++ {
		advance(rng, markers, opts)

		registry.Reset()
		for _, r := range opts.Furniture {
			registry.AddRegion(r)
		}
		for _, s := range opts.StaticSegments {
			registry.AddSegment(s)
		}

		frame := Frame{Index: fi, Placements: make([]Placement, 0, len(markers))}
		for i, ms := range markers {
			others := make([]geom.Vec, 0, len(markers)-1)
			for j, other := range markers {
				if j != i {
					others = append(others, other.pos)
				}
			}

			m := declutter.Marker{ID: ms.id, Pos: ms.pos, HeadingDeg: ms.heading}
			velEnd := ms.pos.Add(geom.UnitVec(ms.heading).Scale(opts.SpeedUnits * 8))

			res := placer.Place(declutter.Request{
				Marker:      m,
				Content:     ms.content,
				Canvas:      opts.Canvas,
				Observer:    opts.Observer,
				Others:      others,
				Registry:    registry,
				VelocityEnd: &velEnd,
				Previous:    previous[ms.id],
				Quality:     opts.Quality,
			})

			registry.RegisterResult(m, res, ms.content)
			kept := res
			previous[ms.id] = &kept
			frame.Placements = append(frame.Placements, Placement{Marker: m, Result: res})
		}
		frames = append(frames, frame)
	}

	Logf("sim: %d markers × %d frames on %.0fx%.0f (seed %d, quality %v)",
		opts.Markers, opts.Frames, opts.Canvas.W, opts.Canvas.H, opts.Seed, opts.Quality)
	return frames
}

// spawnMarkers creates the marker population with UUID identities, sorted
// by ID so the processing order is stable within and across frames. IDs are
// drawn from the scenario PRNG so the same seed reproduces the same trace,
// marker identities included.
func spawnMarkers(rng *rand.Rand, opts Options) []*markerState {
	margin := 60.0
	markers := make([]*markerState, opts.Markers)
	for i := range markers {
		// Label extents vary per marker the way real callsigns do.
		w := 60 + rng.Float64()*24
		markers[i] = &markerState{
			id: "mrk_" + uuid.Must(uuid.NewRandomFromReader(rng)).String(),
			pos: geom.Vec{
				X: margin + rng.Float64()*(opts.Canvas.W-2*margin),
				Y: margin + rng.Float64()*(opts.Canvas.H-2*margin),
			},
			heading: rng.Float64() * 360,
			content: declutter.Content{
				Full:    geom.Size{W: w, H: 26},
				Reduced: geom.Size{W: w, H: 13},
			},
		}
	}
	sort.Slice(markers, func(i, j int) bool { return markers[i].id < markers[j].id })
	return markers
}

// advance moves every marker one frame: step along the heading, wander a
// few degrees, and turn around when running off the usable area.
func advance(rng *rand.Rand, markers []*markerState, opts Options) {
	const edge = 20.0
	for _, m := range markers {
		m.heading = geom.NormalizeDeg(m.heading + (rng.Float64()-0.5)*8)
		next := m.pos.Add(geom.UnitVec(m.heading).Scale(opts.SpeedUnits))
		if next.X < edge || next.X > opts.Canvas.W-edge || next.Y < edge || next.Y > opts.Canvas.H-edge {
			m.heading = geom.NormalizeDeg(m.heading + 180)
			next = m.pos.Add(geom.UnitVec(m.heading).Scale(opts.SpeedUnits))
		}
		m.pos = next
	}
}
