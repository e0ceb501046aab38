package session

import (
	"errors"
	"testing"
)

func TestNewActivitySortsInputsAndChallenges(t *testing.T) {
	raw := activityRaw("DJCrocos", 0, 30,
		[]any{digitRaw(12), digitRaw(4), digitRaw(8)},
		[]any{
			challengeRaw(15, 25, 1, false, []any{commonEventRaw(16, CodeChallengeStart)}),
			challengeRaw(2, 10, 0, false, []any{commonEventRaw(3, CodeChallengeStart)}),
		},
	)
	activity, err := NewActivity(raw)
	if err != nil {
		t.Fatalf("failed to build activity: %v", err)
	}
	if activity.GameName != GameDJCrocos {
		t.Fatalf("unexpected game: %v", activity.GameName)
	}
	for i := 1; i < len(activity.DigitInputs); i++ {
		if activity.DigitInputs[i-1].TS > activity.DigitInputs[i].TS {
			t.Fatalf("digit inputs not sorted at %d", i)
		}
	}
	if activity.Challenges[0].StartTS != 2 || activity.Challenges[1].StartTS != 15 {
		t.Fatalf("challenges not sorted: %v, %v", activity.Challenges[0].StartTS, activity.Challenges[1].StartTS)
	}
}

func TestNewActivityRequiresDigitInputs(t *testing.T) {
	raw := activityRaw("DJCrocos", 0, 30,
		[]any{},
		[]any{challengeRaw(2, 10, 0, false, []any{commonEventRaw(3, CodeChallengeStart)})},
	)
	if _, err := NewActivity(raw); !errors.Is(err, ErrDigitInputsEmpty) {
		t.Fatalf("expected ErrDigitInputsEmpty, got %v", err)
	}
}

func TestNewActivityRequiresChallenges(t *testing.T) {
	raw := activityRaw("DJCrocos", 0, 30, []any{digitRaw(4)}, []any{})
	if _, err := NewActivity(raw); !errors.Is(err, ErrChallengesEmpty) {
		t.Fatalf("expected ErrChallengesEmpty, got %v", err)
	}
}

func TestNewActivityRejectsUnknownGame(t *testing.T) {
	raw := activityRaw("CrocoPong", 0, 30,
		[]any{digitRaw(4)},
		[]any{challengeRaw(2, 10, 0, false, []any{commonEventRaw(3, CodeChallengeStart)})},
	)
	if _, err := NewActivity(raw); err == nil {
		t.Fatalf("expected error for an unknown game name")
	}
}

func TestDigitInputsBetweenIsInclusive(t *testing.T) {
	raw := activityRaw("DJCrocos", 0, 30,
		[]any{digitRaw(2), digitRaw(4), digitRaw(6), digitRaw(8), digitRaw(10)},
		[]any{challengeRaw(2, 10, 0, false, []any{commonEventRaw(3, CodeChallengeStart)})},
	)
	activity, err := NewActivity(raw)
	if err != nil {
		t.Fatalf("failed to build activity: %v", err)
	}

	window := activity.DigitInputsBetween(4, 8)
	if len(window) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(window))
	}
	if window[0].TS != 4 || window[2].TS != 8 {
		t.Fatalf("unexpected window bounds: [%v, %v]", window[0].TS, window[2].TS)
	}
	if got := activity.DigitInputsBetween(11, 20); len(got) != 0 {
		t.Fatalf("expected an empty window, got %d samples", len(got))
	}
}
