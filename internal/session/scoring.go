package session

// Per-variant scoring. Each variant reduces the ordered event stream of
// a challenge to a sequence of numeric score components; the first
// component is the headline score. The companion ActivityScore combines
// the per-challenge component sequences of one activity.

// Fixed round counts of the game variants.
const (
	djCrocosTries        = 4
	djCrocosMaxNotes     = 3 + 5 + 7 + 9
	factoryExperiments   = 3
	factoryRounds        = 8
	spotPairs            = 12
	spotRounds           = 3
	vocabuloWords        = 28
	positiveCodeMin      = 1
	positiveCodeMax      = 3
)

// Score computes the score components of the challenge. The samples
// argument is the owning activity's digit-tracking stream; only the
// CrocosMaze variant consumes it, for curve matching.
func (c Challenge) Score(samples []DigitInput) ([]float64, error) {
	switch c.Game {
	case GameCrocosMaze:
		return c.scoreMaze(samples)
	case GameDJCrocos:
		return c.scoreDJCrocos(), nil
	case GameCrocosFactory:
		return c.scoreFactory(), nil
	case GameCrocosSpot:
		return c.scoreSpot(), nil
	case GameCrocosVocabulo:
		return c.scoreVocabulo(), nil
	default:
		return c.scoreDefault(), nil
	}
}

// scoreDefault counts completed challenges minus timed-out ones.
func (c Challenge) scoreDefault() []float64 {
	completed := 0
	timedOut := 0
	for _, event := range c.Events {
		switch event.ResultCode {
		case CodeChallengeSuccess:
			completed++
		case CodeTimeout:
			timedOut++
		}
	}
	return []float64{float64(completed - timedOut)}
}

// scoreDJCrocos walks the event stream with a per-try state machine: a
// try opens on 302, fails on 101, succeeds on a clean 303; positive
// sub-events (1..3) count toward the continuous-notes tally of the
// current try unless it already failed.
func (c Challenge) scoreDJCrocos() []float64 {
	hasFailed := false
	success := 0
	currentTry := -1
	continuous := make([]int, djCrocosTries)
	for _, event := range c.Events {
		switch {
		case event.ResultCode == CodeChallengeStart:
			hasFailed = false
			currentTry++
		case event.ResultCode == CodeFailureBegin:
			hasFailed = true
		case event.ResultCode == CodeChallengeSuccess && !hasFailed:
			success++
		case event.ResultCode >= positiveCodeMin && event.ResultCode <= positiveCodeMax:
			if !hasFailed && currentTry >= 0 && currentTry < djCrocosTries {
				continuous[currentTry]++
			}
		}
	}
	notes := 0
	for _, n := range continuous {
		notes += n
	}
	successPart := float64(success) / djCrocosTries
	notesPart := float64(notes) / djCrocosMaxNotes
	return []float64{successPart + notesPart, successPart, notesPart}
}

func (c Challenge) scoreFactory() []float64 {
	success := 0
	for _, event := range c.Events {
		if event.ResultCode >= positiveCodeMin && event.ResultCode <= positiveCodeMax {
			success++
		}
	}
	return []float64{float64(success) / factoryExperiments, float64(success)}
}

func (c Challenge) scoreSpot() []float64 {
	right := make(map[string]struct{})
	wrong := make(map[string]struct{})
	for _, event := range c.Events {
		switch event.ResultCode {
		case 1, 2, 3:
			right[event.ObjectName] = struct{}{}
		case 102, 103, 104, 105:
			wrong[event.ObjectName] = struct{}{}
		case 4:
			delete(wrong, event.ObjectName)
		case CodeFailureBegin:
			delete(right, event.ObjectName)
		}
	}
	diff := len(right) - len(wrong)
	return []float64{float64(max(0, diff)) / spotPairs, float64(diff)}
}

func (c Challenge) scoreVocabulo() []float64 {
	right := make(map[string]struct{})
	wrong := make(map[string]struct{})
	for _, event := range c.Events {
		switch event.ResultCode {
		case 1, 101:
			right[event.ObjectName] = struct{}{}
		case 2, 102:
			wrong[event.ObjectName] = struct{}{}
		case 3, 103:
			delete(right, event.ObjectName)
		case 4, 104:
			delete(wrong, event.ObjectName)
		}
	}
	diff := len(right) - len(wrong)
	return []float64{float64(max(0, diff)), float64(diff)}
}

// ActivityScore combines the per-challenge score-component sequences of
// one activity into its activity-level score.
func (g Game) ActivityScore(scores [][]float64) float64 {
	switch g {
	case GameCrocosMaze, GameDJCrocos:
		return sumComponent(scores, 0)
	case GameCrocosFactory:
		return sumComponent(scores, 1) / (factoryExperiments * factoryRounds)
	case GameCrocosSpot:
		return max(0, sumComponent(scores, 1)) / (spotPairs * spotRounds)
	case GameCrocosVocabulo:
		return max(0, sumComponent(scores, 1)) / vocabuloWords
	default:
		return 0
	}
}

func sumComponent(scores [][]float64, index int) float64 {
	var total float64
	for _, components := range scores {
		if index < len(components) {
			total += components[index]
		}
	}
	return total
}
