package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/whatmeme/whatmeme-webapp/types"
	"google.golang.org/genai"
)

func (c *Client) streamGemini(ctx context.Context, req Request, onChunk func(Chunk) error) error {
	contents, historySystem := req.Messages.ToGemini()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	systemPrompts := historySystem
	if req.System != "" {
		systemPrompts = append([]string{req.System}, historySystem...)
	}
	if len(systemPrompts) > 0 {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: strings.Join(systemPrompts, "\n\n")}},
		}
	}
	if len(req.Tools) > 0 {
		tools, err := Tools(req.Tools).ToGemini()
		if err != nil {
			return err
		}
		mode := genai.FunctionCallingConfigModeAuto
		if req.ToolChoice == ToolChoiceNone {
			mode = genai.FunctionCallingConfigModeNone
		}
		config.Tools = tools
		config.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: mode},
		}
	}

	// gemini emits whole function calls, one per part
	var calls int
	var usage *types.TokenUsage
	for resp, err := range c.gemini.Models.GenerateContentStream(ctx, c.config.Model, contents, config) {
		if err != nil {
			return fmt.Errorf("Gemini stream: %w", err)
		}
		if resp.UsageMetadata != nil {
			// cumulative; the last one wins
			usage = &types.TokenUsage{
				Input:     int64(resp.UsageMetadata.PromptTokenCount),
				Output:    int64(resp.UsageMetadata.CandidatesTokenCount),
				Total:     int64(resp.UsageMetadata.TotalTokenCount),
				CacheRead: int64(resp.UsageMetadata.CachedContentTokenCount),
			}
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" && !part.Thought {
				if err := onChunk(Chunk{Text: part.Text}); err != nil {
					return err
				}
			}
			if part.FunctionCall != nil {
				args, err := json.Marshal(part.FunctionCall.Args)
				if err != nil {
					args = []byte("{}")
				}
				err = onChunk(Chunk{ToolCall: &ToolCallDelta{
					Index:     calls,
					ID:        part.FunctionCall.ID,
					Name:      part.FunctionCall.Name,
					Arguments: string(args),
				}})
				if err != nil {
					return err
				}
				calls++
			}
		}
	}
	if usage != nil && usage.Total > 0 {
		return onChunk(Chunk{Usage: usage})
	}
	return nil
}
