package session

import "encoding/json"

// Raw is one undecoded record from a session file. Numbers decoded from
// JSON are json.Number so that integer and float fields stay
// distinguishable during validation.
type Raw = map[string]any

func stringField(raw Raw, field string) (string, error) {
	v, ok := raw[field]
	if !ok {
		return "", &TypeError{Field: field, Want: "a string"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Field: field, Want: "a string", Got: v}
	}
	return s, nil
}

func floatField(raw Raw, field string) (float64, error) {
	v, ok := raw[field]
	if !ok {
		return 0, &TypeError{Field: field, Want: "a float"}
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, &TypeError{Field: field, Want: "a float", Got: v}
		}
		return f, nil
	default:
		return 0, &TypeError{Field: field, Want: "a float", Got: v}
	}
}

func intField(raw Raw, field string) (int, error) {
	v, ok := raw[field]
	if !ok {
		return 0, &TypeError{Field: field, Want: "an int"}
	}
	return intValue(field, v)
}

func intValue(field string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, &TypeError{Field: field, Want: "an int", Got: v}
		}
		return int(i), nil
	default:
		return 0, &TypeError{Field: field, Want: "an int", Got: v}
	}
}

func boolField(raw Raw, field string) (bool, error) {
	v, ok := raw[field]
	if !ok {
		return false, &TypeError{Field: field, Want: "a bool"}
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Field: field, Want: "a bool", Got: v}
	}
	return b, nil
}

func listField(raw Raw, field string) ([]any, error) {
	v, ok := raw[field]
	if !ok {
		return nil, &TypeError{Field: field, Want: "a list"}
	}
	l, ok := v.([]any)
	if !ok {
		return nil, &TypeError{Field: field, Want: "a list", Got: v}
	}
	return l, nil
}

func rawField(raw Raw, field string) (Raw, error) {
	v, ok := raw[field]
	if !ok {
		return nil, &TypeError{Field: field, Want: "an object"}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &TypeError{Field: field, Want: "an object", Got: v}
	}
	return m, nil
}

func asRaw(field string, v any) (Raw, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &TypeError{Field: field, Want: "an object", Got: v}
	}
	return m, nil
}
