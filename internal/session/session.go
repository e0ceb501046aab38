// Package session parses and validates raw game-session logs recorded
// by the Crocos diagnostic mini-games into a typed domain graph:
// session → activities → challenges → events and digit-tracking
// samples. Validation is strict and fails loudly; no partial session is
// ever returned.
package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// GameSession is one user's full recorded interaction episode: device
// metadata, an optional screen calibration, and the activities played,
// keyed by game variant.
type GameSession struct {
	StudentID             string
	DeviceName            string
	DeviceType            string
	DeviceModel           string
	DeviceUID             string
	SoftVersion           int
	SoftConfigurationName string
	Resolution            Resolution
	// ScreenCalibration is nil when the session file carried none.
	ScreenCalibration *ScreenCalibration
	Activities        map[Game]*Activity
}

// NewGameSession validates a raw top-level session record. At least one
// of screenCalibration and activities must be present and non-empty.
// When the raw activities list names the same game variant twice, later
// entries overwrite earlier ones in list order.
func NewGameSession(raw Raw) (*GameSession, error) {
	studentID, err := stringField(raw, "student_id")
	if err != nil {
		return nil, err
	}
	deviceName, err := stringField(raw, "device_name")
	if err != nil {
		return nil, err
	}
	deviceType, err := stringField(raw, "device_type")
	if err != nil {
		return nil, err
	}
	deviceModel, err := stringField(raw, "device_model")
	if err != nil {
		return nil, err
	}
	deviceUID, err := stringField(raw, "device_uid")
	if err != nil {
		return nil, err
	}
	softVersion, err := intField(raw, "soft_version")
	if err != nil {
		return nil, err
	}
	softConfigurationName, err := stringField(raw, "soft_configuration_name")
	if err != nil {
		return nil, err
	}
	resolutionValue, err := stringField(raw, "resolution")
	if err != nil {
		return nil, err
	}
	resolution, err := ParseResolution(resolutionValue)
	if err != nil {
		return nil, err
	}

	var rawCalibration []any
	if _, ok := raw["screenCalibration"]; ok {
		rawCalibration, err = listField(raw, "screenCalibration")
		if err != nil {
			return nil, err
		}
	}
	var rawActivities []any
	if v, ok := raw["activities"]; ok {
		switch entry := v.(type) {
		case []any:
			rawActivities = entry
		case map[string]any:
			// A single activity may appear without its enclosing list.
			rawActivities = []any{entry}
		default:
			return nil, &TypeError{Field: "activities", Want: "a list", Got: v}
		}
	}
	if len(rawCalibration) == 0 && len(rawActivities) == 0 {
		return nil, ErrScreenCalibrationOrActivitiesEmpty
	}

	gameSession := &GameSession{
		StudentID:             studentID,
		DeviceName:            deviceName,
		DeviceType:            deviceType,
		DeviceModel:           deviceModel,
		DeviceUID:             deviceUID,
		SoftVersion:           softVersion,
		SoftConfigurationName: softConfigurationName,
		Resolution:            resolution,
		Activities:            make(map[Game]*Activity),
	}

	if len(rawCalibration) > 0 {
		calibration, err := NewScreenCalibration(rawCalibration)
		if err != nil {
			return nil, err
		}
		gameSession.ScreenCalibration = calibration
	}
	for i, rawActivity := range rawActivities {
		m, err := asRaw("activities", rawActivity)
		if err != nil {
			return nil, err
		}
		activity, err := NewActivity(m)
		if err != nil {
			return nil, fmt.Errorf("activity %d: %w", i, err)
		}
		gameSession.Activities[activity.GameName] = activity
	}
	return gameSession, nil
}

// FromRaw parses a session from raw JSON bytes.
func FromRaw(content []byte) (*GameSession, error) {
	decoder := json.NewDecoder(bytes.NewReader(content))
	decoder.UseNumber()
	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return NewGameSession(raw)
}

// FromFile parses a session from one JSON file.
func FromFile(path string) (*GameSession, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	gameSession, err := FromRaw(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return gameSession, nil
}

// FromFiles loads every file and folds the partial sessions together
// left to right with Merge.
func FromFiles(paths []string) (*GameSession, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no session files given")
	}
	merged, err := FromFile(paths[0])
	if err != nil {
		return nil, err
	}
	for _, path := range paths[1:] {
		next, err := FromFile(path)
		if err != nil {
			return nil, err
		}
		merged, err = merged.Merge(next)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return merged, nil
}

// Merge combines two partial sessions recorded for the same student.
// The result keeps the receiver's metadata and calibration (falling
// back to other's calibration when the receiver has none) and the union
// of both activity maps; other's activities win on key collision. The
// operands are not modified.
func (s *GameSession) Merge(other *GameSession) (*GameSession, error) {
	if s.StudentID != other.StudentID {
		return nil, fmt.Errorf("%w: %q != %q", ErrStudentIDMismatch, s.StudentID, other.StudentID)
	}
	merged := &GameSession{
		StudentID:             s.StudentID,
		DeviceName:            s.DeviceName,
		DeviceType:            s.DeviceType,
		DeviceModel:           s.DeviceModel,
		DeviceUID:             s.DeviceUID,
		SoftVersion:           s.SoftVersion,
		SoftConfigurationName: s.SoftConfigurationName,
		Resolution:            s.Resolution,
		ScreenCalibration:     s.ScreenCalibration,
		Activities:            make(map[Game]*Activity, len(s.Activities)+len(other.Activities)),
	}
	if merged.ScreenCalibration == nil {
		merged.ScreenCalibration = other.ScreenCalibration
	}
	for game, activity := range s.Activities {
		merged.Activities[game] = activity
	}
	for game, activity := range other.Activities {
		merged.Activities[game] = activity
	}
	return merged, nil
}

// Activity returns the activity for the given game, or nil.
func (s *GameSession) Activity(game Game) *Activity {
	return s.Activities[game]
}

// SortedActivities returns the activities ordered by start timestamp.
func (s *GameSession) SortedActivities() []*Activity {
	activities := make([]*Activity, 0, len(s.Activities))
	for _, activity := range s.Activities {
		activities = append(activities, activity)
	}
	sort.Slice(activities, func(i, j int) bool { return activities[i].StartTS < activities[j].StartTS })
	return activities
}

// Equal reports deep structural equality of two sessions.
func (s *GameSession) Equal(other *GameSession) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.StudentID != other.StudentID || s.DeviceName != other.DeviceName ||
		s.DeviceType != other.DeviceType || s.DeviceModel != other.DeviceModel ||
		s.DeviceUID != other.DeviceUID || s.SoftVersion != other.SoftVersion ||
		s.SoftConfigurationName != other.SoftConfigurationName ||
		s.Resolution != other.Resolution {
		return false
	}
	if !s.ScreenCalibration.Equal(other.ScreenCalibration) {
		return false
	}
	if len(s.Activities) != len(other.Activities) {
		return false
	}
	for game, activity := range s.Activities {
		if !activity.Equal(other.Activities[game]) {
			return false
		}
	}
	return true
}
