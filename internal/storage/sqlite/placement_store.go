package sqlite

import (
	"fmt"
	"time"
)

// Run describes one recorded simulation or capture session.
type Run struct {
	RunID       string
	Seed        int64
	MarkerCount int
	FrameCount  int
	CanvasW     float64
	CanvasH     float64
	Quality     bool
	CreatedAt   time.Time
}

// PlacementRow is one engine decision: the marker input and the placement
// output for a single frame.
type PlacementRow struct {
	RunID        string
	Frame        int
	MarkerID     string
	MarkerX      float64
	MarkerY      float64
	HeadingDeg   float64
	AnchorX      float64
	AnchorY      float64
	AngleDeg     float64
	LeaderLength float64
	Reduced      bool
	Attempt      string
}

// PlacementStore manages persistence for placement traces.
type PlacementStore struct {
	db *DB
}

// NewPlacementStore creates a PlacementStore backed by the given database.
func NewPlacementStore(db *DB) *PlacementStore {
	return &PlacementStore{db: db}
}

// InsertRun records run metadata. The run must be inserted before its
// placements so the foreign key holds.
func (s *PlacementStore) InsertRun(run Run) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, seed, marker_count, frame_count, canvas_w, canvas_h, quality)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Seed, run.MarkerCount, run.FrameCount, run.CanvasW, run.CanvasH, run.Quality,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.RunID, err)
	}
	return nil
}

// InsertPlacements writes a batch of placement rows in one transaction.
// Called once per frame by the simulator.
func (s *PlacementStore) InsertPlacements(rows []PlacementRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin placement tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO placements
		 (run_id, frame, marker_id, marker_x, marker_y, heading_deg,
		  anchor_x, anchor_y, angle_deg, leader_length, reduced, attempt)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare placement insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(
			r.RunID, r.Frame, r.MarkerID, r.MarkerX, r.MarkerY, r.HeadingDeg,
			r.AnchorX, r.AnchorY, r.AngleDeg, r.LeaderLength, r.Reduced, r.Attempt,
		); err != nil {
			return fmt.Errorf("failed to insert placement (frame %d, marker %s): %w", r.Frame, r.MarkerID, err)
		}
	}
	return tx.Commit()
}

// ListRuns returns all recorded runs, newest first.
func (s *PlacementStore) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT run_id, seed, marker_count, frame_count, canvas_w, canvas_h, quality, created_at
		 FROM runs ORDER BY created_at DESC, run_id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.Seed, &r.MarkerCount, &r.FrameCount,
			&r.CanvasW, &r.CanvasH, &r.Quality, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LatestRun returns the most recently created run.
func (s *PlacementStore) LatestRun() (Run, error) {
	runs, err := s.ListRuns()
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, fmt.Errorf("no runs recorded")
	}
	return runs[0], nil
}

// ListPlacements returns every placement row of a run, ordered by frame
// then marker.
func (s *PlacementStore) ListPlacements(runID string) ([]PlacementRow, error) {
	rows, err := s.db.Query(
		`SELECT run_id, frame, marker_id, marker_x, marker_y, heading_deg,
		        anchor_x, anchor_y, angle_deg, leader_length, reduced, attempt
		 FROM placements WHERE run_id = ? ORDER BY frame, marker_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list placements for run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []PlacementRow
	for rows.Next() {
		var r PlacementRow
		if err := rows.Scan(&r.RunID, &r.Frame, &r.MarkerID, &r.MarkerX, &r.MarkerY,
			&r.HeadingDeg, &r.AnchorX, &r.AnchorY, &r.AngleDeg, &r.LeaderLength,
			&r.Reduced, &r.Attempt); err != nil {
			return nil, fmt.Errorf("failed to scan placement: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AttemptCounts returns how many placements of a run each attempt tag
// produced — the coarse quality signal of a trace.
func (s *PlacementStore) AttemptCounts(runID string) (map[string]int, error) {
	rows, err := s.db.Query(
		`SELECT attempt, COUNT(*) FROM placements WHERE run_id = ? GROUP BY attempt`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts for run %s: %w", runID, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var attempt string
		var n int
		if err := rows.Scan(&attempt, &n); err != nil {
			return nil, fmt.Errorf("failed to scan attempt count: %w", err)
		}
		counts[attempt] = n
	}
	return counts, rows.Err()
}
