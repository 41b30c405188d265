package jsondecode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// UnmarshalSafe decodes exactly one JSON value from data, rejecting trailing values.
func UnmarshalSafe(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	err := dec.Decode(v)
	if err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}

	var noMore interface{}
	noMoreErr := dec.Decode(&noMore)
	if noMoreErr == nil {
		return fmt.Errorf("invalid json: multiple json values found")
	}
	if noMoreErr != io.EOF {
		return fmt.Errorf("invalid json: %w", noMoreErr)
	}
	return nil
}

// IsObject reports whether data is a single JSON object.
func IsObject(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	var m map[string]json.RawMessage
	return UnmarshalSafe(trimmed, &m) == nil
}

// ObjectOrEmpty parses s as a JSON object, yielding an empty map for
// blank, malformed or non-object input.
func ObjectOrEmpty(s string) map[string]interface{} {
	m := map[string]interface{}{}
	if len(bytes.TrimSpace([]byte(s))) == 0 {
		return m
	}
	var parsed map[string]interface{}
	if err := UnmarshalSafe([]byte(s), &parsed); err != nil || parsed == nil {
		return m
	}
	return parsed
}
