package session

import (
	"fmt"
	"sort"
)

// Activity is one playthrough of a mini-game variant: its time window,
// video, digit-tracking stream, and ordered challenges.
type Activity struct {
	GameName Game
	StartTS  float64
	EndTS    float64
	Video    Video
	// DigitInputs is sorted by timestamp.
	DigitInputs []DigitInput
	// Challenges is sorted by start timestamp; each challenge was
	// built for the GameName variant.
	Challenges []Challenge
}

// NewActivity validates a raw activity record. Digit inputs and
// challenges must both be non-empty; both are sorted by their start
// timestamps.
func NewActivity(raw Raw) (*Activity, error) {
	gameName, err := stringField(raw, "game_name")
	if err != nil {
		return nil, err
	}
	game, err := ParseGame(gameName)
	if err != nil {
		return nil, err
	}
	startTS, err := floatField(raw, "start_ts")
	if err != nil {
		return nil, err
	}
	endTS, err := floatField(raw, "end_ts")
	if err != nil {
		return nil, err
	}
	rawVideo, err := rawField(raw, "video")
	if err != nil {
		return nil, err
	}
	video, err := NewVideo(rawVideo)
	if err != nil {
		return nil, err
	}
	rawInputs, err := listField(raw, "digit_inputs")
	if err != nil {
		return nil, err
	}
	rawChallenges, err := listField(raw, "challenges")
	if err != nil {
		return nil, err
	}

	if len(rawInputs) == 0 {
		return nil, fmt.Errorf("activity %s: %w", game, ErrDigitInputsEmpty)
	}
	if len(rawChallenges) == 0 {
		return nil, fmt.Errorf("activity %s: %w", game, ErrChallengesEmpty)
	}

	digitInputs, err := parseDigitInputs("digit_inputs", rawInputs)
	if err != nil {
		return nil, fmt.Errorf("activity %s: %w", game, err)
	}

	challenges := make([]Challenge, 0, len(rawChallenges))
	for i, rawChallenge := range rawChallenges {
		m, err := asRaw("challenges", rawChallenge)
		if err != nil {
			return nil, err
		}
		challenge, err := NewChallenge(game, m)
		if err != nil {
			return nil, fmt.Errorf("activity %s, challenge %d: %w", game, i, err)
		}
		challenges = append(challenges, challenge)
	}
	sort.SliceStable(challenges, func(i, j int) bool { return challenges[i].StartTS < challenges[j].StartTS })

	return &Activity{
		GameName:    game,
		StartTS:     startTS,
		EndTS:       endTS,
		Video:       video,
		DigitInputs: digitInputs,
		Challenges:  challenges,
	}, nil
}

// DigitInputsBetween returns the samples with from <= ts <= to, both
// bounds inclusive.
func (a *Activity) DigitInputsBetween(from, to float64) []DigitInput {
	// DigitInputs is sorted, so the window is one contiguous run.
	lo := sort.Search(len(a.DigitInputs), func(i int) bool { return a.DigitInputs[i].TS >= from })
	hi := sort.Search(len(a.DigitInputs), func(i int) bool { return a.DigitInputs[i].TS > to })
	return a.DigitInputs[lo:hi]
}

// Equal reports deep equality of two activities.
func (a *Activity) Equal(other *Activity) bool {
	if a == nil || other == nil {
		return a == other
	}
	if a.GameName != other.GameName || a.StartTS != other.StartTS || a.EndTS != other.EndTS ||
		a.Video != other.Video || len(a.Challenges) != len(other.Challenges) {
		return false
	}
	if !digitInputsEqual(a.DigitInputs, other.DigitInputs) {
		return false
	}
	for i, challenge := range a.Challenges {
		if !challenge.Equal(other.Challenges[i]) {
			return false
		}
	}
	return true
}
