package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	anthropic_helper "github.com/whatmeme/whatmeme-webapp/providers/anthropic"
	"github.com/whatmeme/whatmeme-webapp/types"
)

// anthropic requires an explicit output budget
const anthropicMaxTokens = 4096

func (c *Client) streamAnthropic(ctx context.Context, req Request, onChunk func(Chunk) error) error {
	msgs, historySystem := req.Messages.ToAnthropic()
	var system []anthropic.TextBlockParam
	if req.System != "" {
		system = append(system, anthropic.TextBlockParam{Text: req.System})
	}
	for _, s := range historySystem {
		system = append(system, anthropic.TextBlockParam{Text: s})
	}

	params := anthropic.MessageNewParams{
		MaxTokens:   anthropicMaxTokens,
		Model:       anthropic.Model(c.config.Model),
		Messages:    msgs,
		System:      system,
		Temperature: anthropic.Float(req.Temperature),
	}
	if len(req.Tools) > 0 {
		params.Tools = Tools(req.Tools).ToAnthropic()
		if req.ToolChoice == ToolChoiceNone {
			params.ToolChoice = anthropic.ToolChoiceUnionParam{OfNone: &anthropic.ToolChoiceNoneParam{}}
		} else {
			params.ToolChoice = anthropic.ToolChoiceUnionParam{OfAuto: &anthropic.ToolChoiceAutoParam{}}
		}
	}

	// content block index -> tool call ordinal
	toolIndex := make(map[int64]int)
	var usage types.TokenUsage

	err := anthropic_helper.Stream(ctx, c.anthropic, params, func(event anthropic.MessageStreamEventUnion) error {
		switch ev := event.AsAny().(type) {
		case anthropic.MessageStartEvent:
			u := ev.Message.Usage
			usage.Input = u.InputTokens + u.CacheReadInputTokens + u.CacheCreationInputTokens
			usage.CacheRead = u.CacheReadInputTokens
		case anthropic.MessageDeltaEvent:
			usage.Output = ev.Usage.OutputTokens
		case anthropic.ContentBlockStartEvent:
			if ev.ContentBlock.Type != "tool_use" {
				return nil
			}
			idx := len(toolIndex)
			toolIndex[ev.Index] = idx
			return onChunk(Chunk{ToolCall: &ToolCallDelta{
				Index: idx,
				ID:    ev.ContentBlock.ID,
				Name:  ev.ContentBlock.Name,
			}})
		case anthropic.ContentBlockDeltaEvent:
			switch delta := ev.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if delta.Text != "" {
					return onChunk(Chunk{Text: delta.Text})
				}
			case anthropic.InputJSONDelta:
				idx, ok := toolIndex[ev.Index]
				if !ok || delta.PartialJSON == "" {
					return nil
				}
				return onChunk(Chunk{ToolCall: &ToolCallDelta{
					Index:     idx,
					Arguments: delta.PartialJSON,
				}})
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("anthropic stream: %w", err)
	}

	usage.Total = usage.Input + usage.Output
	if usage.Total > 0 {
		return onChunk(Chunk{Usage: &usage})
	}
	return nil
}
