package session

import (
	"math"
	"testing"
)

func mustChallenge(t *testing.T, game Game, events []any) Challenge {
	t.Helper()
	challenge, err := NewChallenge(game, challengeRaw(0, 100, 1, false, events))
	if err != nil {
		t.Fatalf("failed to build challenge: %v", err)
	}
	return challenge
}

func mustScore(t *testing.T, challenge Challenge) []float64 {
	t.Helper()
	score, err := challenge.Score(nil)
	if err != nil {
		t.Fatalf("failed to score challenge: %v", err)
	}
	return score
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreDefaultCountsOutcomes(t *testing.T) {
	challenge := mustChallenge(t, GameMainMenu, []any{
		commonEventRaw(1, CodeChallengeSuccess),
		commonEventRaw(2, CodeChallengeSuccess),
		commonEventRaw(3, CodeTimeout),
	})
	score := mustScore(t, challenge)
	if len(score) != 1 || score[0] != 1 {
		t.Fatalf("unexpected default score: %v", score)
	}
}

func TestScoreDJCrocosCombinesTriesAndNotes(t *testing.T) {
	// Try 0: clean, 3 notes. Try 1: fails after the first note. Try 2:
	// clean, 2 notes. Try 3: clean, no notes.
	challenge := mustChallenge(t, GameDJCrocos, []any{
		commonEventRaw(1, CodeChallengeStart),
		inputEventRaw(2, "Note1", 1),
		inputEventRaw(3, "Note2", 2),
		inputEventRaw(4, "Note3", 3),
		commonEventRaw(5, CodeChallengeSuccess),

		commonEventRaw(6, CodeChallengeStart),
		inputEventRaw(7, "Note1", 101),
		inputEventRaw(8, "Note2", 1),
		commonEventRaw(9, CodeChallengeSuccess),

		commonEventRaw(10, CodeChallengeStart),
		inputEventRaw(11, "Note1", 1),
		inputEventRaw(12, "Note2", 1),
		commonEventRaw(13, CodeChallengeSuccess),

		commonEventRaw(14, CodeChallengeStart),
		commonEventRaw(15, CodeChallengeSuccess),
	})
	score := mustScore(t, challenge)
	if len(score) != 3 {
		t.Fatalf("expected 3 components, got %v", score)
	}
	successPart := 3.0 / 4
	notesPart := 5.0 / 24
	if !almostEqual(score[0], successPart+notesPart) || !almostEqual(score[1], successPart) || !almostEqual(score[2], notesPart) {
		t.Fatalf("unexpected DJCrocos score: %v", score)
	}
}

func TestScoreFactoryCountsSuccesses(t *testing.T) {
	challenge := mustChallenge(t, GameCrocosFactory, []any{
		inputEventRaw(1, "Lever", 1),
		inputEventRaw(2, "Wheel", 2),
		inputEventRaw(3, "Wheel", 105),
	})
	score := mustScore(t, challenge)
	if len(score) != 2 || !almostEqual(score[0], 2.0/3) || score[1] != 2 {
		t.Fatalf("unexpected factory score: %v", score)
	}
}

func TestScoreSpotTracksRightAndWrongSets(t *testing.T) {
	challenge := mustChallenge(t, GameCrocosSpot, []any{
		inputEventRaw(1, "PairA", 1),
		inputEventRaw(2, "PairB", 2),
		inputEventRaw(3, "PairC", 3),
		inputEventRaw(4, "PairD", 1),
		// A failure on PairD retracts it from the right set.
		inputEventRaw(5, "PairD", 101),
		// PairE is marked wrong then undone.
		inputEventRaw(6, "PairE", 102),
		inputEventRaw(7, "PairE", 4),
	})
	score := mustScore(t, challenge)
	if len(score) != 2 || !almostEqual(score[0], 3.0/12) || score[1] != 3 {
		t.Fatalf("unexpected spot score: %v", score)
	}
}

func TestScoreSpotClampsNegativeDiff(t *testing.T) {
	challenge := mustChallenge(t, GameCrocosSpot, []any{
		inputEventRaw(1, "PairA", 102),
		inputEventRaw(2, "PairB", 103),
	})
	score := mustScore(t, challenge)
	if score[0] != 0 || score[1] != -2 {
		t.Fatalf("unexpected clamped spot score: %v", score)
	}
}

func TestScoreVocabuloTracksWordSets(t *testing.T) {
	challenge := mustChallenge(t, GameCrocosVocabulo, []any{
		inputEventRaw(1, "WordA", 1),
		inputEventRaw(2, "WordB", 101),
		inputEventRaw(3, "WordC", 2),
		// WordA is retracted from the right set.
		inputEventRaw(4, "WordA", 3),
		// WordC is retracted from the wrong set.
		inputEventRaw(5, "WordC", 104),
	})
	score := mustScore(t, challenge)
	if len(score) != 2 || score[0] != 1 || score[1] != 1 {
		t.Fatalf("unexpected vocabulo score: %v", score)
	}
}

func TestActivityScorePerVariant(t *testing.T) {
	scores := [][]float64{{0.5, 2}, {0.75, 3}}
	if got := GameDJCrocos.ActivityScore(scores); !almostEqual(got, 1.25) {
		t.Fatalf("unexpected DJCrocos activity score: %v", got)
	}
	if got := GameCrocosMaze.ActivityScore(scores); !almostEqual(got, 1.25) {
		t.Fatalf("unexpected maze activity score: %v", got)
	}
	if got := GameCrocosFactory.ActivityScore(scores); !almostEqual(got, 5.0/24) {
		t.Fatalf("unexpected factory activity score: %v", got)
	}
	if got := GameCrocosSpot.ActivityScore(scores); !almostEqual(got, 5.0/36) {
		t.Fatalf("unexpected spot activity score: %v", got)
	}
	if got := GameCrocosVocabulo.ActivityScore(scores); !almostEqual(got, 5.0/28) {
		t.Fatalf("unexpected vocabulo activity score: %v", got)
	}
}

func TestActivityScoreClampsNegativeSum(t *testing.T) {
	scores := [][]float64{{0, -4}, {0, -2}}
	if got := GameCrocosSpot.ActivityScore(scores); got != 0 {
		t.Fatalf("expected clamped spot activity score, got %v", got)
	}
	if got := GameCrocosVocabulo.ActivityScore(scores); got != 0 {
		t.Fatalf("expected clamped vocabulo activity score, got %v", got)
	}
}
