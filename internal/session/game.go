package session

import "fmt"

// Game identifies a mini-game variant. The wire names come from the
// device firmware and are preserved exactly, including the inconsistent
// "Croco"/"Crocos" prefixes.
type Game string

const (
	// GameCrocosMaze is the curve-tracing maze game.
	GameCrocosMaze Game = "CrocosMaze"
	// GameDJCrocos is the rhythm/note game.
	GameDJCrocos Game = "DJCrocos"
	// GameCrocosVocabulo is the word/image matching game.
	GameCrocosVocabulo Game = "CrocosVocabulo"
	// GameCrocosFactory is the experiments game.
	GameCrocosFactory Game = "CrocoFactory"
	// GameCrocosSpot is the pair-spotting game.
	GameCrocosSpot Game = "CrocoSpot"
	// GameScreenCalibration labels the calibration step on the timeline.
	GameScreenCalibration Game = "ScreenCalib"
	// GameMainMenu labels menu time on the timeline.
	GameMainMenu Game = "MainMenu"
)

// ParseGame maps a raw game name onto the closed variant set.
func ParseGame(name string) (Game, error) {
	switch Game(name) {
	case GameCrocosMaze, GameDJCrocos, GameCrocosVocabulo,
		GameCrocosFactory, GameCrocosSpot, GameScreenCalibration, GameMainMenu:
		return Game(name), nil
	}
	return "", fmt.Errorf("unknown game name %q", name)
}
