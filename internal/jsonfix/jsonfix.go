// Package jsonfix normalizes JSON values that may have been serialized to a
// string one or more times before being stored.
package jsonfix

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// MaxPasses is the most string layers Unwrap will peel off.
const MaxPasses = 5

var (
	ErrEmpty     = errors.New("jsonfix: empty value")
	ErrNotObject = errors.New("jsonfix: value is not a JSON object")
	ErrTooDeep   = errors.New("jsonfix: too many encoding layers")
)

// Unwrap parses raw repeatedly while the value is a JSON string and returns
// the first non-string JSON value along with the number of string layers removed.
func Unwrap(raw []byte) (json.RawMessage, int, error) {
	cur := bytes.TrimSpace(raw)
	passes := 0

	for {
		if len(cur) == 0 || bytes.Equal(cur, []byte("null")) {
			return nil, passes, ErrEmpty
		}
		if cur[0] != '"' {
			if !json.Valid(cur) {
				return nil, passes, fmt.Errorf("jsonfix: invalid JSON after %d passes", passes)
			}
			return json.RawMessage(cur), passes, nil
		}
		if passes == MaxPasses {
			return nil, passes, ErrTooDeep
		}

		var s string
		if err := json.Unmarshal(cur, &s); err != nil {
			return nil, passes, fmt.Errorf("jsonfix: failed to decode string layer: %w", err)
		}
		cur = bytes.TrimSpace([]byte(s))
		passes++
	}
}

// Object unwraps raw and requires the result to be a JSON object.
func Object(raw []byte) (json.RawMessage, int, error) {
	val, passes, err := Unwrap(raw)
	if err != nil {
		return nil, passes, err
	}
	if val[0] != '{' {
		return nil, passes, ErrNotObject
	}
	return val, passes, nil
}

// Decode unwraps raw into v, which must describe a JSON object.
func Decode(raw []byte, v any) error {
	val, _, err := Object(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(val, v)
}

// Normalize returns the unwrapped object, or nil when raw is empty or does not
// hold an object at any depth.
func Normalize(raw []byte) json.RawMessage {
	val, _, err := Object(raw)
	if err != nil {
		return nil
	}
	return val
}

// IsPresent reports whether raw holds anything other than JSON null or an empty string.
func IsPresent(raw []byte) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && !bytes.Equal(t, []byte("null")) && !bytes.Equal(t, []byte(`""`))
}
