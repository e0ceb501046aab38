package session

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// TrajectoryPoint is one (x, y, t) sample of a trajectory. Coordinates
// are relative screen positions; t is seconds from the trajectory start.
type TrajectoryPoint struct {
	X float64
	Y float64
	T float64
}

// CurvePoints returns the reference curve of a CrocosMaze challenge,
// rebuilt from its state records. The curve starts at the first state
// point at t=0 and continues through every point not named with a
// "Start" prefix. The timing is a synthetic pacing model, t = sqrt(i),
// not wall-clock time: later points arrive slower but sit closer
// together.
func (c Challenge) CurvePoints() ([]TrajectoryPoint, error) {
	if c.Game != GameCrocosMaze {
		return nil, fmt.Errorf("curve points are only defined for %s challenges", GameCrocosMaze)
	}
	if len(c.State) == 0 {
		return nil, fmt.Errorf("challenge %d has no curve state", c.CurrentChallenge)
	}

	first, err := statePoint(c.State[0])
	if err != nil {
		return nil, err
	}
	points := []TrajectoryPoint{{X: first.X, Y: first.Y, T: 0}}
	for i, record := range c.State {
		name, _ := record["name"].(string)
		if strings.HasPrefix(name, "Start") {
			continue
		}
		point, err := statePoint(record)
		if err != nil {
			return nil, fmt.Errorf("curve state %d: %w", i, err)
		}
		point.T = math.Sqrt(float64(i + 1))
		points = append(points, point)
	}
	return points, nil
}

// DigitCurve returns the traced trajectory of a CrocosMaze challenge:
// the digit-tracking samples between the cursor grab and the success
// event, re-based to the grab time. Samples come from the owning
// activity; only the first touch of each sample is used. The result is
// empty when either marker is missing.
func (c Challenge) DigitCurve(samples []DigitInput) []TrajectoryPoint {
	startTS := math.NaN()
	endTS := math.NaN()
	for _, event := range c.Events {
		if event.ObjectName == "Cursor" && math.IsNaN(startTS) {
			startTS = event.TS
		} else if event.ResultCode == CodeChallengeSuccess {
			endTS = event.TS
			break
		}
	}
	if math.IsNaN(startTS) || math.IsNaN(endTS) {
		return nil
	}

	var points []TrajectoryPoint
	for _, sample := range samples {
		if sample.TS < startTS || sample.TS > endTS {
			continue
		}
		points = append(points, TrajectoryPoint{
			X: sample.Touches[0].RelativePositionX,
			Y: sample.Touches[0].RelativePositionY,
			T: sample.TS - startTS,
		})
	}
	return points
}

// scoreMaze aligns the traced trajectory against the reference curve
// and uses the alignment cost, duplicated to keep the component layout
// of the other variants.
func (c Challenge) scoreMaze(samples []DigitInput) ([]float64, error) {
	curve, err := c.CurvePoints()
	if err != nil {
		return nil, err
	}
	traced := c.DigitCurve(samples)
	cost := dtwCost(projectXY(traced), projectXY(curve))
	return []float64{cost, cost}, nil
}

func projectXY(points []TrajectoryPoint) [][2]float64 {
	out := make([][2]float64, len(points))
	for i, point := range points {
		out[i] = [2]float64{point.X, point.Y}
	}
	return out
}

func statePoint(record Raw) (TrajectoryPoint, error) {
	x, err := stateCoordinate(record, "relativeScreenPositionX")
	if err != nil {
		return TrajectoryPoint{}, err
	}
	y, err := stateCoordinate(record, "relativeScreenPositionY")
	if err != nil {
		return TrajectoryPoint{}, err
	}
	return TrajectoryPoint{X: x, Y: y}, nil
}

func stateCoordinate(record Raw, field string) (float64, error) {
	switch v := record[field].(type) {
	case float64:
		return v, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, &TypeError{Field: field, Want: "a float", Got: v}
		}
		return f, nil
	default:
		return 0, &TypeError{Field: field, Want: "a float", Got: v}
	}
}
