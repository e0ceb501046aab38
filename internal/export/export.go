// Package export writes the derived session tables to CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Nadimab/crocos/internal/timeline"
)

// WriteSampleTable writes the annotated per-sample table. Samples
// outside every phase span get empty activity, challenge, and phase
// cells.
func WriteSampleTable(path string, rows []timeline.Row) error {
	records := [][]string{{"ts", "touch_count", "x", "y", "finger_id", "phase_digit", "activity", "challenge", "phase"}}
	for _, row := range rows {
		challenge := ""
		if row.Challenge != timeline.NoChallenge {
			challenge = strconv.Itoa(row.Challenge)
		}
		records = append(records, []string{
			formatFloat(row.TS),
			strconv.Itoa(row.TouchCount),
			formatFloat(row.X),
			formatFloat(row.Y),
			strconv.Itoa(row.FingerID),
			row.PhaseDigit,
			row.Activity,
			challenge,
			string(row.Phase),
		})
	}
	return writeCSV(path, records)
}

// WriteActivityScores writes the activity-level score table.
func WriteActivityScores(path string, scores []timeline.ActivityScore) error {
	records := [][]string{{"activity", "score"}}
	for _, score := range scores {
		records = append(records, []string{score.Activity, formatFloat(score.Score)})
	}
	return writeCSV(path, records)
}

// WriteChallengeScores writes the challenge-level score table.
func WriteChallengeScores(path string, scores []timeline.ChallengeScore) error {
	records := [][]string{{"activity", "challenge", "score"}}
	for _, score := range scores {
		records = append(records, []string{score.Activity, strconv.Itoa(score.Challenge), formatFloat(score.Score)})
	}
	return writeCSV(path, records)
}

// WriteResponseTimes writes the training/playing response-time table.
func WriteResponseTimes(path string, times []timeline.ResponseTime) error {
	records := [][]string{{"activity", "challenge", "phase", "start_ts", "end_ts", "response_time"}}
	for _, rt := range times {
		records = append(records, []string{
			rt.Activity,
			strconv.Itoa(rt.Challenge),
			string(rt.Phase),
			formatFloat(rt.StartTS),
			formatFloat(rt.EndTS),
			formatFloat(rt.ResponseTime),
		})
	}
	return writeCSV(path, records)
}

// writeCSV writes records to a temp file in the target directory and
// renames it into place, so readers never observe a half-written table.
func writeCSV(path string, records [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "crocos-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp table: %w", err)
	}
	tmpPath := tmpFile.Name()
	writer := csv.NewWriter(tmpFile)
	if err := writer.WriteAll(records); err != nil {
		if cerr := tmpFile.Close(); cerr != nil {
			// Best-effort close on write failure.
			_ = cerr
		}
		if rerr := os.Remove(tmpPath); rerr != nil {
			// Best-effort cleanup of the temp file.
			_ = rerr
		}
		return fmt.Errorf("failed to write table: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp table: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move table into place: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
