// Package store handles SQLite persistence of analyzed session runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Nadimab/crocos/internal/timeline"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Run identifies one analyzed game session in the database.
type Run struct {
	ID         int64
	StudentID  string
	DeviceName string
	DeviceUID  string
	Resolution string
	AnalyzedAt time.Time
}

// ScorePoint is one activity score of a stored run, used for history
// plots.
type ScorePoint struct {
	RunID      int64
	AnalyzedAt time.Time
	Score      float64
}

// Store wraps SQLite access for analyzed session data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			analyzed_at TEXT NOT NULL,
			student_id TEXT NOT NULL,
			device_name TEXT NOT NULL,
			device_uid TEXT NOT NULL,
			resolution TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS activity_scores (
			run_id INTEGER NOT NULL,
			activity TEXT NOT NULL,
			score REAL NOT NULL,
			PRIMARY KEY (run_id, activity)
		);`,
		`CREATE TABLE IF NOT EXISTS challenge_scores (
			run_id INTEGER NOT NULL,
			activity TEXT NOT NULL,
			challenge INTEGER NOT NULL,
			score REAL NOT NULL,
			PRIMARY KEY (run_id, activity, challenge)
		);`,
		`CREATE TABLE IF NOT EXISTS response_times (
			run_id INTEGER NOT NULL,
			activity TEXT NOT NULL,
			challenge INTEGER NOT NULL,
			phase TEXT NOT NULL,
			start_ts REAL NOT NULL,
			end_ts REAL NOT NULL,
			response_time REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_student ON runs(student_id, analyzed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_activity_scores_activity ON activity_scores(activity);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores one analyzed session with its score and
// response-time tables.
func (s *Store) InsertRun(ctx context.Context, run Run, activities []timeline.ActivityScore, challenges []timeline.ChallengeScore, times []timeline.ResponseTime) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (analyzed_at, student_id, device_name, device_uid, resolution)
		 VALUES (?, ?, ?, ?, ?)`,
		run.AnalyzedAt.Format(time.RFC3339Nano),
		run.StudentID,
		run.DeviceName,
		run.DeviceUID,
		run.Resolution,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, score := range activities {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO activity_scores (run_id, activity, score) VALUES (?, ?, ?)`,
			id, score.Activity, score.Score); err != nil {
			return 0, err
		}
	}
	for _, score := range challenges {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO challenge_scores (run_id, activity, challenge, score) VALUES (?, ?, ?, ?)`,
			id, score.Activity, score.Challenge, score.Score); err != nil {
			return 0, err
		}
	}
	for _, rt := range times {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO response_times (run_id, activity, challenge, phase, start_ts, end_ts, response_time)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, rt.Activity, rt.Challenge, string(rt.Phase), rt.StartTS, rt.EndTS, rt.ResponseTime); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns stored runs, newest last, optionally filtered by
// student.
func (s *Store) ListRuns(ctx context.Context, studentID string) ([]Run, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if studentID != "" {
		clauses = append(clauses, "student_id = ?")
		args = append(args, studentID)
	}
	query := fmt.Sprintf(`SELECT id, analyzed_at, student_id, device_name, device_uid, resolution
		FROM runs
		WHERE %s
		ORDER BY analyzed_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []Run
	for rows.Next() {
		var run Run
		var analyzedAt string
		if err := rows.Scan(&run.ID, &analyzedAt, &run.StudentID, &run.DeviceName, &run.DeviceUID, &run.Resolution); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, analyzedAt)
		if err != nil {
			return nil, err
		}
		run.AnalyzedAt = parsed
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// ActivityScores returns the activity-level scores of one run.
func (s *Store) ActivityScores(ctx context.Context, runID int64) ([]timeline.ActivityScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT activity, score FROM activity_scores WHERE run_id = ? ORDER BY activity ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var scores []timeline.ActivityScore
	for rows.Next() {
		var score timeline.ActivityScore
		if err := rows.Scan(&score.Activity, &score.Score); err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

// ChallengeScores returns the challenge-level scores of one run.
func (s *Store) ChallengeScores(ctx context.Context, runID int64) ([]timeline.ChallengeScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT activity, challenge, score FROM challenge_scores
		 WHERE run_id = ? ORDER BY activity ASC, challenge ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var scores []timeline.ChallengeScore
	for rows.Next() {
		var score timeline.ChallengeScore
		if err := rows.Scan(&score.Activity, &score.Challenge, &score.Score); err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

// ResponseTimes returns the response-time rows of one run.
func (s *Store) ResponseTimes(ctx context.Context, runID int64) ([]timeline.ResponseTime, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT activity, challenge, phase, start_ts, end_ts, response_time
		 FROM response_times
		 WHERE run_id = ? ORDER BY start_ts ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var times []timeline.ResponseTime
	for rows.Next() {
		var rt timeline.ResponseTime
		var phase string
		if err := rows.Scan(&rt.Activity, &rt.Challenge, &phase, &rt.StartTS, &rt.EndTS, &rt.ResponseTime); err != nil {
			return nil, err
		}
		rt.Phase = timeline.Phase(phase)
		times = append(times, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return times, nil
}

// ScoreHistory returns the score of one activity across runs, oldest
// first, optionally filtered by student.
func (s *Store) ScoreHistory(ctx context.Context, activity, studentID string) ([]ScorePoint, error) {
	clauses := []string{"a.activity = ?"}
	args := []any{activity}
	if studentID != "" {
		clauses = append(clauses, "r.student_id = ?")
		args = append(args, studentID)
	}
	query := fmt.Sprintf(`SELECT r.id, r.analyzed_at, a.score
		FROM activity_scores a
		JOIN runs r ON r.id = a.run_id
		WHERE %s
		ORDER BY r.analyzed_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var points []ScorePoint
	for rows.Next() {
		var point ScorePoint
		var analyzedAt string
		if err := rows.Scan(&point.RunID, &analyzedAt, &point.Score); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, analyzedAt)
		if err != nil {
			return nil, err
		}
		point.AnalyzedAt = parsed
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}
