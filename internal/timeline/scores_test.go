package timeline

import (
	"math"
	"testing"

	"github.com/Nadimab/crocos/internal/session"
)

func TestScoresSkipsTrainingChallenges(t *testing.T) {
	activity := activityRaw("DJCrocos", 10, 40,
		[]float64{11},
		[]any{
			challengeRaw(11, 16, 0, true, []any{
				commonEventRaw(12, session.CodeChallengeStart),
				commonEventRaw(15, session.CodeChallengeSuccess),
			}),
			challengeRaw(19, 30, 1, false, []any{
				commonEventRaw(20, session.CodeChallengeStart),
				inputEventRaw(21, "NoteA", 1),
				inputEventRaw(22, "NoteB", 1),
				commonEventRaw(25, session.CodeChallengeSuccess),
			}),
		},
	)
	s := buildSession(t, []any{activity}, nil)

	activities, challenges, err := Scores(s)
	if err != nil {
		t.Fatalf("failed to score session: %v", err)
	}
	if len(challenges) != 1 {
		t.Fatalf("expected 1 challenge score, got %d: %+v", len(challenges), challenges)
	}
	// One clean success out of 4 tries, 2 continuous notes out of 24.
	want := 1.0/4 + 2.0/24
	if challenges[0].Challenge != 1 || math.Abs(challenges[0].Score-want) > 1e-9 {
		t.Fatalf("unexpected challenge score: %+v", challenges[0])
	}
	if len(activities) != 1 {
		t.Fatalf("expected 1 activity score, got %d", len(activities))
	}
	if activities[0].Activity != "DJCrocos" || math.Abs(activities[0].Score-want) > 1e-9 {
		t.Fatalf("unexpected activity score: %+v", activities[0])
	}
}

func digitAtRaw(ts, x, y float64) session.Raw {
	return session.Raw{
		"ts":         ts,
		"touchCount": 1,
		"touches": []any{session.Raw{
			"fingerId":           0,
			"relativePosition_x": x,
			"relativePosition_y": y,
			"phase":              "Moved",
		}},
	}
}

func TestScoresEndToEndAllVariants(t *testing.T) {
	maze := activityRaw("CrocosMaze", 10, 20, nil,
		[]any{challengeRaw(11, 15, 1, false, []any{
			session.Raw{"name": "StartPoint", "relativeScreenPositionX": 0.1, "relativeScreenPositionY": 0.2},
			session.Raw{"name": "p1", "relativeScreenPositionX": 0.3, "relativeScreenPositionY": 0.4},
			inputEventRaw(11, "Cursor", 1),
			commonEventRaw(13, session.CodeChallengeSuccess),
		})},
	)
	// The maze trace retraces the reference curve exactly.
	maze["digit_inputs"] = []any{
		digitAtRaw(11, 0.1, 0.2),
		digitAtRaw(12, 0.3, 0.4),
	}
	dj := activityRaw("DJCrocos", 30, 40, []float64{31},
		[]any{challengeRaw(31, 38, 1, false, []any{
			commonEventRaw(31, session.CodeChallengeStart),
			inputEventRaw(32, "NoteA", 1),
			inputEventRaw(33, "NoteB", 1),
			commonEventRaw(35, session.CodeChallengeSuccess),
		})},
	)
	vocabulo := activityRaw("CrocosVocabulo", 50, 60, []float64{51},
		[]any{challengeRaw(51, 58, 1, false, []any{
			inputEventRaw(52, "WordA", 1),
			inputEventRaw(53, "WordB", 101),
		})},
	)
	factory := activityRaw("CrocoFactory", 70, 80, []float64{71},
		[]any{challengeRaw(71, 78, 1, false, []any{
			inputEventRaw(72, "Lever", 1),
		})},
	)
	spot := activityRaw("CrocoSpot", 90, 100, []float64{91},
		[]any{challengeRaw(91, 98, 1, false, []any{
			inputEventRaw(92, "PairA", 1),
			inputEventRaw(93, "PairB", 2),
		})},
	)
	s := buildSession(t, []any{spot, factory, vocabulo, dj, maze}, nil)

	activities, challenges, err := Scores(s)
	if err != nil {
		t.Fatalf("failed to score session: %v", err)
	}
	wantOrder := []string{"CrocosMaze", "DJCrocos", "CrocosVocabulo", "CrocoFactory", "CrocoSpot"}
	if len(activities) != len(wantOrder) {
		t.Fatalf("expected %d activity scores, got %d", len(wantOrder), len(activities))
	}
	wantScores := []float64{0, 1.0/4 + 2.0/24, 2.0 / 28, 1.0 / 24, 2.0 / 36}
	for i, score := range activities {
		if score.Activity != wantOrder[i] {
			t.Fatalf("activity %d: expected %s, got %s", i, wantOrder[i], score.Activity)
		}
		if math.Abs(score.Score-wantScores[i]) > 1e-9 {
			t.Fatalf("activity %s: expected score %v, got %v", score.Activity, wantScores[i], score.Score)
		}
	}
	if len(challenges) != 5 {
		t.Fatalf("expected 5 challenge scores, got %d", len(challenges))
	}
	if challenges[0].Activity != "CrocosMaze" || challenges[0].Score != 0 {
		t.Fatalf("expected a zero maze alignment cost, got %+v", challenges[0])
	}
}

func TestScoresOrdersActivitiesByStart(t *testing.T) {
	spot := activityRaw("CrocoSpot", 50, 70,
		[]float64{51},
		[]any{challengeRaw(51, 60, 1, false, []any{
			inputEventRaw(52, "PairA", 1),
			inputEventRaw(53, "PairB", 2),
		})},
	)
	factory := activityRaw("CrocoFactory", 10, 40,
		[]float64{11},
		[]any{challengeRaw(11, 30, 1, false, []any{
			inputEventRaw(12, "Lever", 1),
		})},
	)
	s := buildSession(t, []any{spot, factory}, nil)

	activities, challenges, err := Scores(s)
	if err != nil {
		t.Fatalf("failed to score session: %v", err)
	}
	if len(activities) != 2 || activities[0].Activity != "CrocoFactory" || activities[1].Activity != "CrocoSpot" {
		t.Fatalf("unexpected activity order: %+v", activities)
	}
	if len(challenges) != 2 || challenges[0].Activity != "CrocoFactory" {
		t.Fatalf("unexpected challenge order: %+v", challenges)
	}
	// CrocoFactory: 1 success over 24 rounds.
	if math.Abs(activities[0].Score-1.0/24) > 1e-9 {
		t.Fatalf("unexpected factory score: %+v", activities[0])
	}
	// CrocoSpot: 2 retained pairs over 36.
	if math.Abs(activities[1].Score-2.0/36) > 1e-9 {
		t.Fatalf("unexpected spot score: %+v", activities[1])
	}
}
