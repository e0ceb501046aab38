package session

import (
	"fmt"
	"strconv"
	"strings"
)

// Resolution is a device screen resolution parsed from the wire form
// "<width> x <height> @ <rate>Hz".
type Resolution struct {
	Width       int
	Height      int
	RefreshRate int
}

// ParseResolution parses the "<width> x <height> @ <rate>Hz" wire form.
func ParseResolution(value string) (Resolution, error) {
	screen, rate, ok := strings.Cut(value, "@")
	if !ok {
		return Resolution{}, &FormatError{Field: "resolution", Value: value, Reason: "missing '@' separator"}
	}

	rate = strings.TrimSuffix(strings.TrimSpace(rate), "Hz")
	refreshRate, err := strconv.Atoi(strings.TrimSpace(rate))
	if err != nil || refreshRate < 0 {
		return Resolution{}, &FormatError{Field: "resolution", Value: value, Reason: "refresh rate is not a non-negative integer"}
	}

	widthPart, heightPart, ok := strings.Cut(strings.TrimSpace(screen), "x")
	if !ok {
		return Resolution{}, &FormatError{Field: "resolution", Value: value, Reason: "missing 'x' separator"}
	}
	width, err := strconv.Atoi(strings.TrimSpace(widthPart))
	if err != nil || width < 0 {
		return Resolution{}, &FormatError{Field: "resolution", Value: value, Reason: "width is not a non-negative integer"}
	}
	height, err := strconv.Atoi(strings.TrimSpace(heightPart))
	if err != nil || height < 0 {
		return Resolution{}, &FormatError{Field: "resolution", Value: value, Reason: "height is not a non-negative integer"}
	}

	return Resolution{Width: width, Height: height, RefreshRate: refreshRate}, nil
}

// String renders the resolution back into its wire form.
func (r Resolution) String() string {
	return fmt.Sprintf("%d x %d @ %dHz", r.Width, r.Height, r.RefreshRate)
}
