// Package timeline reconstructs the phase structure of a game session
// and projects it onto the dense digit-tracking sample stream. Phases
// are half-open [start, end) intervals labeled with the activity,
// challenge, and phase kind they cover; gaps between phases are legal
// and simply carry no labels.
package timeline

import (
	"fmt"
	"sort"

	"github.com/Nadimab/crocos/internal/session"
)

// Phase is the kind of a reconstructed challenge interval.
type Phase string

const (
	PhaseDemo     Phase = "Demo"
	PhaseTraining Phase = "Training"
	PhaseReading  Phase = "Reading"
	PhasePlaying  Phase = "Playing"
)

// NoChallenge marks spans not tied to a challenge, such as the screen
// calibration and main-menu spans.
const NoChallenge = -1

// Span is one labeled interval of the session timeline. Activity and
// Phase are empty and Challenge is NoChallenge when the span carries no
// such label.
type Span struct {
	Activity  string
	Challenge int
	Phase     Phase
	StartTS   float64
	EndTS     float64
}

// BuildPhases partitions the session timeline into ordered spans: one
// screen-calibration span, then per activity a main-menu span followed
// by the demo/reading and training/playing spans of its challenges.
// Repeated end markers within a challenge produce a single span. A
// challenge without both a start and an end marker is malformed.
func BuildPhases(s *session.GameSession) ([]Span, error) {
	if s.ScreenCalibration == nil {
		return nil, fmt.Errorf("cannot build phases: session has no screen calibration")
	}
	activities := s.SortedActivities()
	if len(activities) == 0 {
		return nil, fmt.Errorf("cannot build phases: session has no activities")
	}

	spans := []Span{{
		Activity:  string(session.GameScreenCalibration),
		Challenge: NoChallenge,
		StartTS:   s.ScreenCalibration.DigitInputs[0].TS,
		EndTS:     activities[0].DigitInputs[0].TS,
	}}

	// End timestamp of the previous activity's last challenge, used as
	// the start of the next main-menu span.
	var lastEndEvent *session.EventInput
	for _, activity := range activities {
		menuStart := activity.DigitInputs[0].TS
		if lastEndEvent != nil {
			menuStart = lastEndEvent.TS
		}
		spans = append(spans, Span{
			Activity:  string(session.GameMainMenu),
			Challenge: NoChallenge,
			StartTS:   menuStart,
			EndTS:     activity.StartTS,
		})

		var lastChallengeEnd *session.EventInput
		for _, challenge := range activity.Challenges {
			var startEvent *session.EventInput
			lastMarkerCode := session.NoResultCode
			for i := range challenge.Events {
				event := &challenge.Events[i]
				switch {
				case event.ResultCode == session.CodeChallengeStart:
					startEvent = event
					phase := PhaseReading
					if challenge.Training {
						phase = PhaseDemo
					}
					phaseStart := activity.StartTS
					if lastChallengeEnd != nil {
						phaseStart = lastChallengeEnd.TS
					}
					spans = append(spans, Span{
						Activity:  string(activity.GameName),
						Challenge: challenge.CurrentChallenge,
						Phase:     phase,
						StartTS:   phaseStart,
						EndTS:     event.TS,
					})
				case isEndMarker(event.ResultCode) && !isEndMarker(lastMarkerCode):
					if startEvent == nil {
						return nil, fmt.Errorf("missing start or end event for challenge %d in activity %s",
							challenge.CurrentChallenge, activity.GameName)
					}
					lastChallengeEnd = event
					phase := PhasePlaying
					if challenge.Training {
						phase = PhaseTraining
					}
					spans = append(spans, Span{
						Activity:  string(activity.GameName),
						Challenge: challenge.CurrentChallenge,
						Phase:     phase,
						StartTS:   startEvent.TS,
						EndTS:     event.TS,
					})
				}
				if isEndMarker(event.ResultCode) || event.ResultCode == session.CodeChallengeStart {
					lastMarkerCode = event.ResultCode
				}
			}
			if startEvent == nil || lastChallengeEnd == nil {
				return nil, fmt.Errorf("missing start or end event for challenge %d in activity %s",
					challenge.CurrentChallenge, activity.GameName)
			}
		}
		lastEndEvent = lastChallengeEnd
	}
	return spans, nil
}

func isEndMarker(code int) bool {
	return code == session.CodeTimeout || code == session.CodeChallengeSuccess
}

// Row is one annotated digit-tracking sample of the flat session table.
// Activity, Challenge, and Phase are the labels of the span containing
// the sample, or their empty values when no span contains it.
type Row struct {
	TS         float64
	TouchCount int
	X          float64
	Y          float64
	FingerID   int
	PhaseDigit string
	Activity   string
	Challenge  int
	Phase      Phase
}

// SampleTable joins every digit-tracking sample of the session, from
// the screen calibration and all activities, against the phase spans.
// Only the first touch of each sample is kept. The output has exactly
// one row per sample.
func SampleTable(s *session.GameSession) ([]Row, error) {
	spans, err := BuildPhases(s)
	if err != nil {
		return nil, err
	}
	index := newSpanIndex(spans)

	var rows []Row
	appendSamples := func(samples []session.DigitInput) {
		for _, sample := range samples {
			touch := sample.Touches[0]
			row := Row{
				TS:         sample.TS,
				TouchCount: sample.TouchCount,
				X:          touch.RelativePositionX,
				Y:          touch.RelativePositionY,
				FingerID:   touch.FingerID,
				PhaseDigit: touch.Phase,
				Challenge:  NoChallenge,
			}
			if span, ok := index.lookup(sample.TS); ok {
				row.Activity = span.Activity
				row.Challenge = span.Challenge
				row.Phase = span.Phase
			}
			rows = append(rows, row)
		}
	}
	appendSamples(s.ScreenCalibration.DigitInputs)
	for _, activity := range s.SortedActivities() {
		appendSamples(activity.DigitInputs)
	}
	return rows, nil
}

// spanIndex answers containment queries over half-open [start, end)
// spans by binary search on the start timestamps.
type spanIndex struct {
	spans []Span
}

func newSpanIndex(spans []Span) *spanIndex {
	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartTS < sorted[j].StartTS })
	return &spanIndex{spans: sorted}
}

func (idx *spanIndex) lookup(ts float64) (Span, bool) {
	// The last span starting at or before ts is the only candidate,
	// since spans do not overlap.
	i := sort.Search(len(idx.spans), func(i int) bool { return idx.spans[i].StartTS > ts })
	if i == 0 {
		return Span{}, false
	}
	span := idx.spans[i-1]
	if ts >= span.EndTS {
		return Span{}, false
	}
	return span, true
}

// ResponseTime is the duration of one training or playing span.
type ResponseTime struct {
	Activity     string
	Challenge    int
	Phase        Phase
	StartTS      float64
	EndTS        float64
	ResponseTime float64
}

// ResponseTimes reports how long the user spent inside each training
// and playing span of the session.
func ResponseTimes(s *session.GameSession) ([]ResponseTime, error) {
	spans, err := BuildPhases(s)
	if err != nil {
		return nil, err
	}
	var times []ResponseTime
	for _, span := range spans {
		if span.Phase != PhaseTraining && span.Phase != PhasePlaying {
			continue
		}
		times = append(times, ResponseTime{
			Activity:     span.Activity,
			Challenge:    span.Challenge,
			Phase:        span.Phase,
			StartTS:      span.StartTS,
			EndTS:        span.EndTS,
			ResponseTime: span.EndTS - span.StartTS,
		})
	}
	return times, nil
}
