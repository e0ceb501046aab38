package session

import "fmt"

// Calibration is one target point touched during the calibration phase.
type Calibration struct {
	Name        string
	BumpTS      float64
	HitTS       float64
	DisplayTime float64
	// Relative screen position of the target.
	RelativeScreenPositionX float64
	RelativeScreenPositionY float64
}

// NewCalibration validates a raw calibration point.
func NewCalibration(raw Raw) (Calibration, error) {
	name, err := stringField(raw, "name")
	if err != nil {
		return Calibration{}, err
	}
	bumpTS, err := floatField(raw, "bump_ts")
	if err != nil {
		return Calibration{}, err
	}
	hitTS, err := floatField(raw, "hit_ts")
	if err != nil {
		return Calibration{}, err
	}
	displayTime, err := floatField(raw, "displayTime")
	if err != nil {
		return Calibration{}, err
	}
	x, err := floatField(raw, "relativeScreenPositionX")
	if err != nil {
		return Calibration{}, err
	}
	y, err := floatField(raw, "relativeScreenPositionY")
	if err != nil {
		return Calibration{}, err
	}
	return Calibration{
		Name:                    name,
		BumpTS:                  bumpTS,
		HitTS:                   hitTS,
		DisplayTime:             displayTime,
		RelativeScreenPositionX: x,
		RelativeScreenPositionY: y,
	}, nil
}

// ScreenCalibration groups the calibration points, digit-tracking
// samples, and video recorded before the activities start.
type ScreenCalibration struct {
	Points      []Calibration
	DigitInputs []DigitInput
	Video       Video
}

// NewScreenCalibration classifies a heterogeneous raw list in one pass:
// strings are comments and skipped, records with a "digit_inputs" key
// are sample groups, records with a "video" key are the video block,
// anything else is a calibration point. A second video block fails with
// ErrVideoDuplicate rather than silently winning.
func NewScreenCalibration(items []any) (*ScreenCalibration, error) {
	calibration := &ScreenCalibration{}
	haveVideo := false
	for i, item := range items {
		if _, ok := item.(string); ok {
			continue
		}
		raw, err := asRaw("screenCalibration", item)
		if err != nil {
			return nil, fmt.Errorf("screen calibration entry %d: %w", i, err)
		}
		switch {
		case raw["digit_inputs"] != nil:
			rawInputs, err := listField(raw, "digit_inputs")
			if err != nil {
				return nil, err
			}
			inputs, err := parseDigitInputs("digit_inputs", rawInputs)
			if err != nil {
				return nil, err
			}
			calibration.DigitInputs = append(calibration.DigitInputs, inputs...)
		case raw["video"] != nil:
			if haveVideo {
				return nil, ErrVideoDuplicate
			}
			rawVideo, err := rawField(raw, "video")
			if err != nil {
				return nil, err
			}
			video, err := NewVideo(rawVideo)
			if err != nil {
				return nil, err
			}
			calibration.Video = video
			haveVideo = true
		default:
			point, err := NewCalibration(raw)
			if err != nil {
				return nil, fmt.Errorf("calibration point %d: %w", i, err)
			}
			calibration.Points = append(calibration.Points, point)
		}
	}

	if len(calibration.DigitInputs) == 0 {
		return nil, ErrDigitInputsEmpty
	}
	if len(calibration.Points) == 0 {
		return nil, ErrPointsEmpty
	}
	if !haveVideo {
		return nil, ErrVideoMissing
	}
	return calibration, nil
}

// Equal reports deep equality of two screen calibrations.
func (c *ScreenCalibration) Equal(other *ScreenCalibration) bool {
	if c == nil || other == nil {
		return c == other
	}
	if len(c.Points) != len(other.Points) || c.Video != other.Video {
		return false
	}
	for i, point := range c.Points {
		if point != other.Points[i] {
			return false
		}
	}
	return digitInputsEqual(c.DigitInputs, other.DigitInputs)
}
