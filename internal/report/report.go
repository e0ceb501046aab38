package report

import (
	"context"
	"fmt"
	"io"

	"github.com/Nadimab/crocos/internal/store"
	"github.com/Nadimab/crocos/internal/timeline"
)

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// RenderScores prints the activity- and challenge-level score tables of
// one analyzed session.
func RenderScores(w io.Writer, activities []timeline.ActivityScore, challenges []timeline.ChallengeScore) error {
	if len(activities) == 0 {
		_, err := fmt.Fprintln(w, "No scored activities.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Activity Scores"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(activities))
	for _, score := range activities {
		rows = append(rows, []string{score.Activity, fmt.Sprintf("%.4f", score.Score)})
	}
	for _, line := range formatTable([]string{"Activity", "Score"}, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	// The challenge table is omitted entirely in activity-only mode.
	if len(challenges) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Challenge Scores"); err != nil {
		return err
	}
	rows = rows[:0]
	for _, score := range challenges {
		rows = append(rows, []string{score.Activity, fmt.Sprintf("%d", score.Challenge), fmt.Sprintf("%.4f", score.Score)})
	}
	for _, line := range formatTable([]string{"Activity", "Challenge", "Score"}, rows, map[int]bool{1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderResponseTimes prints the training/playing response-time table.
func RenderResponseTimes(w io.Writer, times []timeline.ResponseTime) error {
	if len(times) == 0 {
		_, err := fmt.Fprintln(w, "No training or playing phases found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Response Times"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(times))
	for _, rt := range times {
		rows = append(rows, []string{
			rt.Activity,
			fmt.Sprintf("%d", rt.Challenge),
			string(rt.Phase),
			fmt.Sprintf("%.3f", rt.ResponseTime),
		})
	}
	headers := []string{"Activity", "Challenge", "Phase", "Seconds"}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// History contains score progressions per activity across stored runs.
type History struct {
	Runs       []store.Run
	Activities []string
	Scores     map[string][]float64
}

// BuildHistory loads the score progression of every requested activity,
// optionally filtered by student.
func BuildHistory(ctx context.Context, st *store.Store, studentID string, activities []string) (History, error) {
	runs, err := st.ListRuns(ctx, studentID)
	if err != nil {
		return History{}, err
	}
	history := History{
		Runs:       runs,
		Activities: activities,
		Scores:     make(map[string][]float64, len(activities)),
	}
	for _, activity := range activities {
		points, err := st.ScoreHistory(ctx, activity, studentID)
		if err != nil {
			return History{}, err
		}
		values := make([]float64, len(points))
		for i, point := range points {
			values[i] = point.Score
		}
		history.Scores[activity] = values
	}
	return history, nil
}

// RenderHistory prints score-progression curves for each activity of
// the history.
func RenderHistory(w io.Writer, history History, window, totalWidth, height int, useColor bool) error {
	series := make([]Series, 0, len(history.Activities))
	for _, activity := range history.Activities {
		values := history.Scores[activity]
		if len(values) == 0 {
			continue
		}
		series = append(series, Series{
			Name:   activity,
			Values: MovingAverage(values, window),
		})
	}
	if len(series) == 0 {
		_, err := fmt.Fprintln(w, "No stored scores found.")
		return err
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Score Progression", series, width, height, useColor)
}
