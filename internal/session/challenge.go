package session

import (
	"fmt"
	"sort"
)

// Challenge is one level of an activity: a bounded time window with the
// ordered events recorded inside it. The scoring behavior is selected
// by Game, a closed variant set.
type Challenge struct {
	Game             Game
	StartTS          float64
	EndTS            float64
	CurrentChallenge int
	Training         bool
	// Events is the timestamped event stream, sorted by TS.
	Events []EventInput
	// State holds the non-timestamped curve-definition records of a
	// CrocosMaze challenge; empty for every other variant.
	State []Raw
}

// NewChallenge validates a raw challenge record for the given game
// variant. For CrocosMaze the raw event list is split at construction
// time: entries without a "ts" field are curve-definition state.
func NewChallenge(game Game, raw Raw) (Challenge, error) {
	startTS, err := floatField(raw, "start_ts")
	if err != nil {
		return Challenge{}, err
	}
	endTS, err := floatField(raw, "end_ts")
	if err != nil {
		return Challenge{}, err
	}
	currentChallenge, err := intField(raw, "current_challenge")
	if err != nil {
		return Challenge{}, err
	}
	training, err := boolField(raw, "training")
	if err != nil {
		return Challenge{}, err
	}
	rawEvents, err := listField(raw, "events")
	if err != nil {
		return Challenge{}, err
	}

	if startTS > endTS {
		return Challenge{}, fmt.Errorf("challenge start time %v is after end time %v", startTS, endTS)
	}
	// Only the first challenge of an activity may be a training run.
	if currentChallenge > 0 && training {
		return Challenge{}, fmt.Errorf("challenge %d: %w", currentChallenge, ErrChallengeIsTraining)
	}

	var state []Raw
	if game == GameCrocosMaze {
		timestamped := make([]any, 0, len(rawEvents))
		for _, rawEvent := range rawEvents {
			m, err := asRaw("events", rawEvent)
			if err != nil {
				return Challenge{}, err
			}
			if _, ok := m["ts"]; ok {
				timestamped = append(timestamped, rawEvent)
			} else {
				state = append(state, m)
			}
		}
		rawEvents = timestamped
	}

	if len(rawEvents) == 0 {
		return Challenge{}, ErrEventInputsEmpty
	}
	events := make([]EventInput, 0, len(rawEvents))
	for i, rawEvent := range rawEvents {
		m, err := asRaw("events", rawEvent)
		if err != nil {
			return Challenge{}, err
		}
		event, err := NewEventInput(m)
		if err != nil {
			return Challenge{}, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, event)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].TS < events[j].TS })

	return Challenge{
		Game:             game,
		StartTS:          startTS,
		EndTS:            endTS,
		CurrentChallenge: currentChallenge,
		Training:         training,
		Events:           events,
		State:            state,
	}, nil
}

// Equal reports deep equality of two challenges.
func (c Challenge) Equal(other Challenge) bool {
	if c.StartTS != other.StartTS || c.EndTS != other.EndTS ||
		c.CurrentChallenge != other.CurrentChallenge || c.Training != other.Training ||
		len(c.Events) != len(other.Events) {
		return false
	}
	for i, event := range c.Events {
		if !event.Equal(other.Events[i]) {
			return false
		}
	}
	return true
}
