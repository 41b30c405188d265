package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/whatmeme/whatmeme-webapp/types"
)

func (c *Client) streamOpenAI(ctx context.Context, req Request, onChunk func(Chunk) error) error {
	params := openai.ChatCompletionNewParams{
		Model:       c.config.Model,
		Messages:    req.Messages.ToOpenAI(req.System),
		Temperature: openai.Float(req.Temperature),
		StreamOptions: openai.ChatCompletionStreamOptionsParam{
			IncludeUsage: openai.Bool(true),
		},
	}
	if len(req.Tools) > 0 {
		params.Tools = Tools(req.Tools).ToOpenAI()
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: openai.String(string(req.ToolChoice)),
		}
	}

	stream := c.openai.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if chunk.Usage.TotalTokens > 0 {
			usage := types.TokenUsage{
				Input:     chunk.Usage.PromptTokens,
				Output:    chunk.Usage.CompletionTokens,
				Total:     chunk.Usage.TotalTokens,
				CacheRead: chunk.Usage.PromptTokensDetails.CachedTokens,
			}
			if err := onChunk(Chunk{Usage: &usage}); err != nil {
				return err
			}
		}
		// n=1: only the first choice carries content
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta
		if delta.Content != "" {
			if err := onChunk(Chunk{Text: delta.Content}); err != nil {
				return err
			}
		}
		for _, tc := range delta.ToolCalls {
			err := onChunk(Chunk{ToolCall: &ToolCallDelta{
				Index:     int(tc.Index),
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			}})
			if err != nil {
				return err
			}
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("OpenAI stream: %w", err)
	}
	return nil
}
