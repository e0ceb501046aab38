package session

// Raw-record builders shared by the parsing and scoring tests. Numbers
// use Go-native int/float64 values, which the field helpers accept
// alongside json.Number.

func touchRaw(fingerID int, x, y float64, phase string) Raw {
	return Raw{
		"fingerId":           fingerID,
		"relativePosition_x": x,
		"relativePosition_y": y,
		"phase":              phase,
	}
}

func digitRaw(ts float64, touches ...any) Raw {
	if len(touches) == 0 {
		touches = []any{touchRaw(0, 0.5, 0.5, "Moved")}
	}
	return Raw{
		"ts":         ts,
		"touchCount": len(touches),
		"touches":    touches,
	}
}

func commonEventRaw(ts float64, code int) Raw {
	return Raw{
		"event_type":  "Common",
		"ts":          ts,
		"result_code": code,
	}
}

func inputEventRaw(ts float64, objectName string, code int) Raw {
	raw := Raw{
		"event_type":  "input",
		"ts":          ts,
		"object_name": objectName,
	}
	if code != NoResultCode {
		raw["result_code"] = code
	}
	return raw
}

func videoRaw(start, stop float64) Raw {
	return Raw{
		"start_ts": start,
		"stop_ts":  stop,
		"path":     "videos/session.mp4",
	}
}

func challengeRaw(start, end float64, current int, training bool, events []any) Raw {
	return Raw{
		"start_ts":          start,
		"end_ts":            end,
		"current_challenge": current,
		"training":          training,
		"events":            events,
	}
}

func activityRaw(game string, start, end float64, inputs, challenges []any) Raw {
	return Raw{
		"game_name":    game,
		"start_ts":     start,
		"end_ts":       end,
		"video":        videoRaw(start, end),
		"digit_inputs": inputs,
		"challenges":   challenges,
	}
}

func calibrationPointRaw(name string, x, y float64) Raw {
	return Raw{
		"name":                    name,
		"bump_ts":                 1.0,
		"hit_ts":                  1.5,
		"displayTime":             0.5,
		"relativeScreenPositionX": x,
		"relativeScreenPositionY": y,
	}
}

func calibrationListRaw() []any {
	return []any{
		"calibration of the touch screen",
		calibrationPointRaw("TopLeft", 0.1, 0.9),
		calibrationPointRaw("BottomRight", 0.9, 0.1),
		Raw{"digit_inputs": []any{digitRaw(0.5), digitRaw(1.5)}},
		Raw{"video": videoRaw(0, 5)},
	}
}

func minimalActivityRaw(game string, start, end float64) Raw {
	return activityRaw(game, start, end,
		[]any{digitRaw(start + 1)},
		[]any{challengeRaw(start, end, 0, false, []any{
			commonEventRaw(start+1, CodeChallengeStart),
			commonEventRaw(end-1, CodeChallengeSuccess),
		})},
	)
}

func sessionRaw(studentID string, activities []any, calibration []any) Raw {
	raw := Raw{
		"student_id":              studentID,
		"device_name":             "tablet-01",
		"device_type":             "Handheld",
		"device_model":            "SM-T510",
		"device_uid":              "b2c1f3",
		"soft_version":            3,
		"soft_configuration_name": "default",
		"resolution":              "1920 x 1080 @ 60Hz",
	}
	if activities != nil {
		raw["activities"] = activities
	}
	if calibration != nil {
		raw["screenCalibration"] = calibration
	}
	return raw
}
