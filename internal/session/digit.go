package session

import (
	"fmt"
	"sort"
)

// TouchInput is a single finger sample inside a digit-tracking snapshot.
// Positions are relative screen coordinates, conceptually in [0, 1].
type TouchInput struct {
	FingerID          int
	RelativePositionX float64
	RelativePositionY float64
	// Phase is the touch lifecycle stage reported by the device
	// ("Began", "Moved", "Ended", "Cancelled").
	Phase string
}

// NewTouchInput validates a raw touch record.
func NewTouchInput(raw Raw) (TouchInput, error) {
	fingerID, err := intField(raw, "fingerId")
	if err != nil {
		return TouchInput{}, err
	}
	x, err := floatField(raw, "relativePosition_x")
	if err != nil {
		return TouchInput{}, err
	}
	y, err := floatField(raw, "relativePosition_y")
	if err != nil {
		return TouchInput{}, err
	}
	phase, err := stringField(raw, "phase")
	if err != nil {
		return TouchInput{}, err
	}
	return TouchInput{
		FingerID:          fingerID,
		RelativePositionX: x,
		RelativePositionY: y,
		Phase:             phase,
	}, nil
}

// DigitInput is one timestamped multi-touch snapshot of the screen.
type DigitInput struct {
	TS         float64
	TouchCount int
	Touches    []TouchInput
}

// NewDigitInput validates a raw digit-tracking record. The touch list
// must not be empty.
func NewDigitInput(raw Raw) (DigitInput, error) {
	ts, err := floatField(raw, "ts")
	if err != nil {
		return DigitInput{}, err
	}
	touchCount, err := intField(raw, "touchCount")
	if err != nil {
		return DigitInput{}, err
	}
	rawTouches, err := listField(raw, "touches")
	if err != nil {
		return DigitInput{}, err
	}
	if len(rawTouches) == 0 {
		return DigitInput{}, ErrTouchInputsEmpty
	}
	touches := make([]TouchInput, 0, len(rawTouches))
	for i, rawTouch := range rawTouches {
		m, err := asRaw("touches", rawTouch)
		if err != nil {
			return DigitInput{}, err
		}
		touch, err := NewTouchInput(m)
		if err != nil {
			return DigitInput{}, fmt.Errorf("touch %d: %w", i, err)
		}
		touches = append(touches, touch)
	}
	return DigitInput{TS: ts, TouchCount: touchCount, Touches: touches}, nil
}

// Equal reports deep equality of two digit inputs.
func (d DigitInput) Equal(other DigitInput) bool {
	if d.TS != other.TS || d.TouchCount != other.TouchCount || len(d.Touches) != len(other.Touches) {
		return false
	}
	for i, touch := range d.Touches {
		if touch != other.Touches[i] {
			return false
		}
	}
	return true
}

func parseDigitInputs(field string, rawInputs []any) ([]DigitInput, error) {
	inputs := make([]DigitInput, 0, len(rawInputs))
	for i, rawInput := range rawInputs {
		m, err := asRaw(field, rawInput)
		if err != nil {
			return nil, err
		}
		input, err := NewDigitInput(m)
		if err != nil {
			return nil, fmt.Errorf("digit input %d: %w", i, err)
		}
		inputs = append(inputs, input)
	}
	sort.SliceStable(inputs, func(i, j int) bool { return inputs[i].TS < inputs[j].TS })
	return inputs, nil
}

func digitInputsEqual(a, b []DigitInput) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
