package mcpbridge

import (
	"encoding/json"
	"strings"

	"github.com/whatmeme/whatmeme-webapp/internal/jsondecode"
)

// Record is one blank-line terminated server-sent-events record.
type Record struct {
	Event string
	ID    string
	Data  []string
}

// ParseSSE parses body as a server-sent-events stream.
//
// ok is false unless every non-blank line is a comment or one of the
// fields event, data, id, retry, and at least one record carries data.
// Free text that merely mentions "event:" or "data:" is therefore not
// mistaken for framing.
func ParseSSE(body string) (records []Record, ok bool) {
	var cur Record
	var open bool
	flush := func() {
		if open {
			records = append(records, cur)
		}
		cur = Record{}
		open = false
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "data":
			cur.Data = append(cur.Data, value)
		case "event":
			cur.Event = value
		case "id":
			cur.ID = value
		case "retry":
		default:
			return nil, false
		}
		open = true
	}
	flush()

	for _, r := range records {
		if len(r.Data) > 0 {
			return records, true
		}
	}
	return nil, false
}

// FirstJSONData returns the first data payload of an SSE body that is a JSON object.
// Single data lines are tried first, in order; multi-line payloads are joined after.
func FirstJSONData(body string) (json.RawMessage, bool) {
	records, ok := ParseSSE(body)
	if !ok {
		return nil, false
	}
	for _, r := range records {
		for _, data := range r.Data {
			if jsondecode.IsObject([]byte(data)) {
				return json.RawMessage(data), true
			}
		}
	}
	for _, r := range records {
		if len(r.Data) < 2 {
			continue
		}
		joined := strings.Join(r.Data, "\n")
		if jsondecode.IsObject([]byte(joined)) {
			return json.RawMessage(joined), true
		}
	}
	return nil, false
}
