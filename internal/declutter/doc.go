// Package declutter places text labels for moving point markers on a
// rotating radar-style display: each label stays legible, stays attached to
// its marker via a leader line, avoids other labels and fixed screen
// furniture, and does not jitter between frames.
//
// The engine is a pure computation: it consumes geometric and textual-size
// inputs and returns a placement decision. Rendering, marker acquisition,
// text measurement and persistence are all caller concerns.
//
// Control flow per marker per frame:
//
//	stability layer → (if rejected) candidate search →
//	constraint checker / penalty scorer → best candidate →
//	(optional) local refiner → post-placement nudge →
//	result registered by the caller for subsequent markers.
//
// Processing is strictly single-threaded and synchronous. The per-frame
// Registry is the only shared mutable state; it is owned by the render
// loop, appended to between placements and reset at frame start. Per-frame
// cost is O(n²) in the number of markers, acceptable for scenes of tens of
// markers.
package declutter
