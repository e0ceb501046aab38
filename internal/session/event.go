package session

import "fmt"

// EventType discriminates discrete event records. The wire values are
// fixed by the device firmware, including the inconsistent casing
// ("input" lowercase, "Common" capitalized).
type EventType string

const (
	// EventTypeInput is an interaction with a named on-screen object.
	EventTypeInput EventType = "input"
	// EventTypeCommon is a coded game-logic event.
	EventTypeCommon EventType = "Common"
)

// NoResultCode marks an event without a result code. The result-code
// protocol never uses negative values.
const NoResultCode = -1

// Result codes of the device event protocol.
const (
	// CodeFailureBegin marks the beginning of a failed attempt.
	CodeFailureBegin = 101
	// CodeTimeout marks a challenge that timed out.
	CodeTimeout = 200
	// CodeChallengeStart marks the start of a challenge.
	CodeChallengeStart = 302
	// CodeChallengeSuccess marks a completed challenge.
	CodeChallengeSuccess = 303
)

// EventInput is one discrete, semantically-coded occurrence inside a
// challenge, distinct from the continuous touch sampling.
type EventInput struct {
	Type EventType
	TS   float64
	// ObjectName names the object interacted with; empty for events
	// that carry none.
	ObjectName string
	// ResultCode is the protocol code of the event, or NoResultCode.
	ResultCode int
	// Args holds any extra wire fields untouched.
	Args map[string]any
}

// NewEventInput validates a raw event record. Input events require an
// object name; common events require a result code.
func NewEventInput(raw Raw) (EventInput, error) {
	typeName, err := stringField(raw, "event_type")
	if err != nil {
		return EventInput{}, err
	}
	ts, err := floatField(raw, "ts")
	if err != nil {
		return EventInput{}, err
	}

	event := EventInput{TS: ts, ResultCode: NoResultCode}
	switch EventType(typeName) {
	case EventTypeInput:
		event.Type = EventTypeInput
		if _, ok := raw["result_code"]; ok {
			code, err := intField(raw, "result_code")
			if err != nil {
				return EventInput{}, err
			}
			event.ResultCode = code
		}
		objectName, err := stringField(raw, "object_name")
		if err != nil {
			return EventInput{}, err
		}
		event.ObjectName = objectName
	case EventTypeCommon:
		event.Type = EventTypeCommon
		code, err := intField(raw, "result_code")
		if err != nil {
			return EventInput{}, err
		}
		event.ResultCode = code
	default:
		return EventInput{}, fmt.Errorf("unknown event type %q", typeName)
	}

	args := make(map[string]any)
	for key, value := range raw {
		switch key {
		case "event_type", "ts", "result_code", "object_name":
			continue
		}
		args[key] = value
	}
	event.Args = args
	return event, nil
}

// Equal reports deep equality of two events.
func (e EventInput) Equal(other EventInput) bool {
	if e.Type != other.Type || e.TS != other.TS ||
		e.ObjectName != other.ObjectName || e.ResultCode != other.ResultCode {
		return false
	}
	if len(e.Args) != len(other.Args) {
		return false
	}
	for key, value := range e.Args {
		otherValue, ok := other.Args[key]
		if !ok || value != otherValue {
			return false
		}
	}
	return true
}
