package session

import "fmt"

// Video is the metadata of a recording covering an activity or a whole
// calibration phase.
type Video struct {
	StartTS float64
	StopTS  float64
	Path    string
}

// NewVideo validates a raw video block.
func NewVideo(raw Raw) (Video, error) {
	startTS, err := floatField(raw, "start_ts")
	if err != nil {
		return Video{}, err
	}
	stopTS, err := floatField(raw, "stop_ts")
	if err != nil {
		return Video{}, err
	}
	path, err := stringField(raw, "path")
	if err != nil {
		return Video{}, err
	}
	if stopTS < startTS {
		return Video{}, fmt.Errorf("video stop time must not precede start time, got %v < %v", stopTS, startTS)
	}
	return Video{StartTS: startTS, StopTS: stopTS, Path: path}, nil
}
