package session

import (
	"errors"
	"testing"
)

func TestNewChallengeSortsEvents(t *testing.T) {
	challenge, err := NewChallenge(GameDJCrocos, challengeRaw(0, 10, 0, false, []any{
		commonEventRaw(5, CodeChallengeSuccess),
		commonEventRaw(1, CodeChallengeStart),
		inputEventRaw(3, "NoteA", 1),
	}))
	if err != nil {
		t.Fatalf("failed to build challenge: %v", err)
	}
	if len(challenge.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(challenge.Events))
	}
	for i := 1; i < len(challenge.Events); i++ {
		if challenge.Events[i-1].TS > challenge.Events[i].TS {
			t.Fatalf("events not sorted at %d: %v > %v", i, challenge.Events[i-1].TS, challenge.Events[i].TS)
		}
	}
}

func TestNewChallengeRejectsLateTraining(t *testing.T) {
	_, err := NewChallenge(GameDJCrocos, challengeRaw(0, 10, 2, true, []any{
		commonEventRaw(1, CodeChallengeStart),
	}))
	if !errors.Is(err, ErrChallengeIsTraining) {
		t.Fatalf("expected ErrChallengeIsTraining, got %v", err)
	}
}

func TestNewChallengeAllowsFirstTraining(t *testing.T) {
	challenge, err := NewChallenge(GameDJCrocos, challengeRaw(0, 10, 0, true, []any{
		commonEventRaw(1, CodeChallengeStart),
	}))
	if err != nil {
		t.Fatalf("failed to build training challenge: %v", err)
	}
	if !challenge.Training {
		t.Fatalf("expected a training challenge")
	}
}

func TestNewChallengeRequiresEvents(t *testing.T) {
	_, err := NewChallenge(GameDJCrocos, challengeRaw(0, 10, 0, false, []any{}))
	if !errors.Is(err, ErrEventInputsEmpty) {
		t.Fatalf("expected ErrEventInputsEmpty, got %v", err)
	}
}

func TestNewChallengeRejectsInvertedWindow(t *testing.T) {
	_, err := NewChallenge(GameDJCrocos, challengeRaw(10, 5, 0, false, []any{
		commonEventRaw(6, CodeChallengeStart),
	}))
	if err == nil {
		t.Fatalf("expected error for start after end")
	}
}

func TestNewChallengeSplitsMazeState(t *testing.T) {
	challenge, err := NewChallenge(GameCrocosMaze, challengeRaw(0, 10, 0, false, []any{
		Raw{"name": "StartPoint", "relativeScreenPositionX": 0.1, "relativeScreenPositionY": 0.2},
		Raw{"name": "p1", "relativeScreenPositionX": 0.3, "relativeScreenPositionY": 0.4},
		inputEventRaw(2, "Cursor", NoResultCode),
		commonEventRaw(8, CodeChallengeSuccess),
	}))
	if err != nil {
		t.Fatalf("failed to build maze challenge: %v", err)
	}
	if len(challenge.State) != 2 {
		t.Fatalf("expected 2 state records, got %d", len(challenge.State))
	}
	if len(challenge.Events) != 2 {
		t.Fatalf("expected 2 timestamped events, got %d", len(challenge.Events))
	}
}

func TestNewEventInputRejectsUnknownType(t *testing.T) {
	_, err := NewEventInput(Raw{"event_type": "Input", "ts": 1.0, "object_name": "X"})
	if err == nil {
		t.Fatalf("expected error for unknown event type")
	}
}

func TestNewEventInputKeepsExtraArgs(t *testing.T) {
	event, err := NewEventInput(Raw{
		"event_type":  "input",
		"ts":          1.5,
		"object_name": "NoteB",
		"result_code": 2,
		"velocity":    0.8,
	})
	if err != nil {
		t.Fatalf("failed to build event: %v", err)
	}
	if event.Type != EventTypeInput || event.ObjectName != "NoteB" || event.ResultCode != 2 {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Args["velocity"] != 0.8 {
		t.Fatalf("expected extra arg to be kept, got %v", event.Args)
	}
}

func TestNewEventInputDefaultsMissingResultCode(t *testing.T) {
	event, err := NewEventInput(Raw{"event_type": "input", "ts": 1.0, "object_name": "Cursor"})
	if err != nil {
		t.Fatalf("failed to build event: %v", err)
	}
	if event.ResultCode != NoResultCode {
		t.Fatalf("expected NoResultCode, got %d", event.ResultCode)
	}
}

func TestNewEventInputCommonRequiresResultCode(t *testing.T) {
	_, err := NewEventInput(Raw{"event_type": "Common", "ts": 1.0})
	if err == nil {
		t.Fatalf("expected error for common event without result code")
	}
}
