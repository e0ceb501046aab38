package session

import (
	"errors"
	"fmt"
)

// Structural guarantees are reported as distinct errors so callers can
// tell exactly which part of a session file is malformed.
var (
	// ErrScreenCalibrationOrActivitiesEmpty is returned when a session
	// carries neither a screen calibration nor any activity.
	ErrScreenCalibrationOrActivitiesEmpty = errors.New("no activities and no screen calibration in this game session")

	// ErrDigitInputsEmpty is returned when a required digit-tracking list is empty.
	ErrDigitInputsEmpty = errors.New("digit inputs are empty")

	// ErrChallengesEmpty is returned when an activity has no challenges.
	ErrChallengesEmpty = errors.New("challenges are empty")

	// ErrPointsEmpty is returned when a screen calibration has no points.
	ErrPointsEmpty = errors.New("calibration points are empty")

	// ErrEventInputsEmpty is returned when a challenge has no events.
	ErrEventInputsEmpty = errors.New("event inputs are empty")

	// ErrTouchInputsEmpty is returned when a digit input has no touches.
	ErrTouchInputsEmpty = errors.New("touch inputs are empty")

	// ErrChallengeIsTraining is returned when a challenge other than the
	// first one is flagged as training.
	ErrChallengeIsTraining = errors.New("challenge is training but is not the first challenge")

	// ErrVideoMissing is returned when a screen calibration has no video block.
	ErrVideoMissing = errors.New("no video provided for the screen calibration")

	// ErrVideoDuplicate is returned when a screen calibration list carries
	// more than one video block.
	ErrVideoDuplicate = errors.New("more than one video provided for the screen calibration")

	// ErrStudentIDMismatch is returned when merging sessions recorded for
	// different students.
	ErrStudentIDMismatch = errors.New("cannot merge game sessions with different student ids")
)

// TypeError reports a raw field with a missing or wrongly-typed value.
type TypeError struct {
	Field string
	Want  string
	Got   any
}

func (e *TypeError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("expected %s for '%s', got nothing", e.Want, e.Field)
	}
	return fmt.Sprintf("expected %s for '%s', got %T (%v)", e.Want, e.Field, e.Got, e.Got)
}

// FormatError reports a string field that does not parse into the
// expected shape, carrying the offending raw value.
type FormatError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot parse '%s' from %q: %s", e.Field, e.Value, e.Reason)
}
