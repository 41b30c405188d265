package mcpbridge

import (
	"bytes"
	"encoding/json"
)

// ExtractText renders a tools/call result as the text handed to the model.
//
// For list content the first "text" element wins, even when empty, then the first
// element's text, then that element's JSON. String content is used directly,
// object content yields its text or its JSON. Without content the whole
// result is returned as JSON.
func ExtractText(result json.RawMessage) string {
	result = bytes.TrimSpace(result)
	if len(result) == 0 {
		return ""
	}
	var r struct {
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(result, &r); err != nil {
		return string(result)
	}
	content := bytes.TrimSpace(r.Content)
	if len(content) == 0 || string(content) == "null" {
		return string(result)
	}

	switch content[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(content, &items); err != nil || len(items) == 0 {
			return ""
		}
		for _, item := range items {
			var c contentItem
			if json.Unmarshal(item, &c) == nil && c.Type == "text" {
				return c.Text
			}
		}
		return itemText(items[0])
	case '"':
		var s string
		if err := json.Unmarshal(content, &s); err == nil {
			return s
		}
	case '{':
		return itemText(content)
	}
	return string(content)
}

type contentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func itemText(item json.RawMessage) string {
	var c struct {
		Text interface{} `json:"text"`
	}
	if json.Unmarshal(item, &c) == nil {
		if s, ok := c.Text.(string); ok && s != "" {
			return s
		}
	}
	return string(item)
}
