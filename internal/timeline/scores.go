package timeline

import (
	"fmt"

	"github.com/Nadimab/crocos/internal/session"
)

// ActivityScore is the combined score of one activity.
type ActivityScore struct {
	Activity string
	Score    float64
}

// ChallengeScore is the headline score of one non-training challenge.
type ChallengeScore struct {
	Activity  string
	Challenge int
	Score     float64
}

// Scores computes the per-activity and per-challenge score tables of
// the session. Training challenges are excluded; each activity's score
// combines the full component sequences of its scored challenges.
func Scores(s *session.GameSession) ([]ActivityScore, []ChallengeScore, error) {
	var activityScores []ActivityScore
	var challengeScores []ChallengeScore
	for _, activity := range s.SortedActivities() {
		var components [][]float64
		for _, challenge := range activity.Challenges {
			if challenge.Training {
				continue
			}
			score, err := challenge.Score(activity.DigitInputs)
			if err != nil {
				return nil, nil, fmt.Errorf("scoring %s challenge %d: %w",
					activity.GameName, challenge.CurrentChallenge, err)
			}
			challengeScores = append(challengeScores, ChallengeScore{
				Activity:  string(activity.GameName),
				Challenge: challenge.CurrentChallenge,
				Score:     score[0],
			})
			components = append(components, score)
		}
		activityScores = append(activityScores, ActivityScore{
			Activity: string(activity.GameName),
			Score:    activity.GameName.ActivityScore(components),
		})
	}
	return activityScores, challengeScores, nil
}
