package llm

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/param"
	"github.com/whatmeme/whatmeme-webapp/internal/jsondecode"
	"github.com/whatmeme/whatmeme-webapp/types"
	"google.golang.org/genai"
)

// ToolChoice controls whether the model may call a tool
type ToolChoice string

const (
	ToolChoiceAuto ToolChoice = "auto"
	ToolChoiceNone ToolChoice = "none"
)

// Message is one provider-neutral conversation entry.
// An assistant message with ToolCall set echoes a tool call back to the model;
// a Role_Tool message carries the tool result for ToolCallID.
type Message struct {
	Role       types.Role
	Content    string
	ToolCall   *types.ToolCall
	ToolCallID string
	ToolName   string
}

// Messages is a local wrapper for conversion methods
type Messages []Message

// FromHistory converts a wire history into conversation messages.
func FromHistory(history []types.ChatMessage) Messages {
	msgs := make(Messages, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, Message{Role: m.Role, Content: m.Content})
	}
	return msgs
}

// Request is one streamed completion
type Request struct {
	System      string
	Messages    Messages
	Tools       []types.ToolDeclaration
	ToolChoice  ToolChoice
	Temperature float64
}

// Chunk is one increment of a streamed completion. Exactly one field is set.
type Chunk struct {
	Text     string
	ToolCall *ToolCallDelta
	Usage    *types.TokenUsage
}

// ToolCallDelta is a fragment of a tool call. Fragments sharing an Index
// belong to the same call; Name and Arguments are partial strings.
type ToolCallDelta struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

// toolCallArgs renders the arguments echoed back to the model. Raw text
// that is not a JSON object is replaced by the parsed arguments.
func toolCallArgs(call *types.ToolCall) string {
	if jsondecode.IsObject([]byte(call.RawArgs)) {
		return call.RawArgs
	}
	args := call.Arguments
	if args == nil {
		args = map[string]interface{}{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// ToOpenAI converts messages to OpenAI format, leading with the system prompt
func (messages Messages) ToOpenAI(system string) []openai.ChatCompletionMessageParamUnion {
	var msgs []openai.ChatCompletionMessageParamUnion
	if system != "" {
		msgs = append(msgs, openai.ChatCompletionMessageParamUnion{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: param.NewOpt(system),
				},
			},
		})
	}
	for _, msg := range messages {
		var msgUnion openai.ChatCompletionMessageParamUnion
		switch msg.Role {
		case types.Role_User:
			msgUnion.OfUser = &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: param.NewOpt(msg.Content),
				},
			}
		case types.Role_Assistant:
			assistant := &openai.ChatCompletionAssistantMessageParam{}
			if msg.Content != "" || msg.ToolCall == nil {
				assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: param.NewOpt(msg.Content),
				}
			}
			if msg.ToolCall != nil {
				assistant.ToolCalls = []openai.ChatCompletionMessageToolCallParam{
					{
						ID: msg.ToolCall.ID,
						Function: openai.ChatCompletionMessageToolCallFunctionParam{
							Name:      msg.ToolCall.Name,
							Arguments: toolCallArgs(msg.ToolCall),
						},
					},
				}
			}
			msgUnion.OfAssistant = assistant
		case types.Role_System:
			msgUnion.OfSystem = &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: param.NewOpt(msg.Content),
				},
			}
		case types.Role_Tool:
			msgUnion.OfTool = &openai.ChatCompletionToolMessageParam{
				ToolCallID: msg.ToolCallID,
				Content: openai.ChatCompletionToolMessageParamContentUnion{
					OfString: param.NewOpt(msg.Content),
				},
			}
		default:
			continue
		}
		msgs = append(msgs, msgUnion)
	}
	return msgs
}

// ToAnthropic converts messages to Anthropic format.
// System entries of the history are returned separately.
func (messages Messages) ToAnthropic() (msgs []anthropic.MessageParam, systemPrompts []string) {
	for _, msg := range messages {
		switch msg.Role {
		case types.Role_System:
			systemPrompts = append(systemPrompts, msg.Content)
		case types.Role_User:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case types.Role_Assistant:
			var blocks []anthropic.ContentBlockParamUnion
			if msg.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
			}
			if msg.ToolCall != nil {
				blocks = append(blocks, anthropic.NewToolUseBlock(msg.ToolCall.ID, json.RawMessage(toolCallArgs(msg.ToolCall)), msg.ToolCall.Name))
			}
			if len(blocks) == 0 {
				continue
			}
			msgs = append(msgs, anthropic.NewAssistantMessage(blocks...))
		case types.Role_Tool:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewToolResultBlock(msg.ToolCallID, msg.Content, false)))
		}
	}
	return msgs, systemPrompts
}

// ToGemini converts messages to Gemini format.
// System entries of the history are returned separately.
func (messages Messages) ToGemini() (msgs []*genai.Content, systemPrompts []string) {
	for _, msg := range messages {
		var parts []*genai.Part
		var role string
		switch msg.Role {
		case types.Role_System:
			systemPrompts = append(systemPrompts, msg.Content)
			continue
		case types.Role_User:
			role = genai.RoleUser
			parts = append(parts, &genai.Part{Text: msg.Content})
		case types.Role_Assistant:
			role = genai.RoleModel
			if msg.Content != "" {
				parts = append(parts, &genai.Part{Text: msg.Content})
			}
			if msg.ToolCall != nil {
				args := msg.ToolCall.Arguments
				if args == nil {
					args = map[string]interface{}{}
				}
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   msg.ToolCall.ID,
						Name: msg.ToolCall.Name,
						Args: args,
					},
				})
			}
		case types.Role_Tool:
			role = genai.RoleUser
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       msg.ToolCallID,
					Name:     msg.ToolName,
					Response: map[string]any{"output": msg.Content},
				},
			})
		default:
			continue
		}
		if len(parts) == 0 {
			continue
		}
		msgs = append(msgs, &genai.Content{
			Parts: parts,
			Role:  role,
		})
	}
	return msgs, systemPrompts
}
