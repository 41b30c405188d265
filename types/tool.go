package types

// ToolDeclaration describes a remote tool as listed by the tool server.
type ToolDeclaration struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	InputSchema map[string]interface{} `json:"inputSchema,omitempty"`
}

// Parameters returns the JSON schema of the tool input, an empty object schema when absent.
func (t ToolDeclaration) Parameters() map[string]interface{} {
	if len(t.InputSchema) == 0 {
		return map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		}
	}
	return t.InputSchema
}

// ToolCall represents a fully assembled tool call requested by the model
type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"` // Parsed JSON arguments
	RawArgs   string                 `json:"raw_args"`  // Raw JSON string arguments
}
