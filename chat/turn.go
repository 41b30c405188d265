// Package chat runs one conversation turn: tool discovery, a streamed first
// completion, at most one remote tool call, and a streamed second completion
// grounded on the tool result.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/whatmeme/whatmeme-webapp/llm"
	"github.com/whatmeme/whatmeme-webapp/providers"
	"github.com/whatmeme/whatmeme-webapp/types"
)

// ToolServer is the remote tool catalog and executor.
// Both methods absorb failures: Tools falls back to a static list and
// CallTool turns errors into result text.
type ToolServer interface {
	Tools(ctx context.Context) []types.ToolDeclaration
	CallTool(ctx context.Context, name string, arguments map[string]interface{}) string
}

// Emitter receives stream events in order. An error stops the turn.
type Emitter func(types.StreamEvent) error

// Options configures an Orchestrator
type Options struct {
	Model      llm.Model  // Required
	ToolServer ToolServer // Required

	// ModelName is used for cost accounting only
	ModelName string
	// Temperature defaults to DefaultTemperature when nil
	Temperature *float64
	Logger      logr.Logger
}

// Orchestrator runs chat turns. It holds no per-turn state and is safe for concurrent use.
type Orchestrator struct {
	model       llm.Model
	toolServer  ToolServer
	modelName   string
	temperature float64
	logger      logr.Logger
}

func NewOrchestrator(opts Options) (*Orchestrator, error) {
	if opts.Model == nil {
		return nil, fmt.Errorf("model is required")
	}
	if opts.ToolServer == nil {
		return nil, fmt.Errorf("tool server is required")
	}
	temperature := DefaultTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	return &Orchestrator{
		model:       opts.Model,
		toolServer:  opts.ToolServer,
		modelName:   opts.ModelName,
		temperature: temperature,
		logger:      opts.Logger,
	}, nil
}

// Stream runs one turn, emitting deltas, at most one meta event, and
// exactly one terminal done or error event. The returned error is the
// turn failure, already reported through the error event, or the emit
// failure that cut the stream short.
func (o *Orchestrator) Stream(ctx context.Context, history []types.ChatMessage, emit Emitter) error {
	if err := ValidateHistory(history); err != nil {
		if emitErr := emit(types.ErrorEvent(DescribeError(err))); emitErr != nil {
			return emitErr
		}
		return err
	}

	var emitErr error
	tracked := func(ev types.StreamEvent) error {
		if err := emit(ev); err != nil {
			emitErr = err
			return err
		}
		return nil
	}

	err := o.run(ctx, history, tracked)
	if emitErr != nil {
		// the client is gone; nothing more can be delivered
		return emitErr
	}
	if err != nil {
		o.logger.Error(err, "chat turn failed")
		if emitErr := emit(types.ErrorEvent(DescribeError(err))); emitErr != nil {
			return emitErr
		}
		return err
	}
	return emit(types.DoneEvent())
}

// Complete runs one turn without streaming. Content is the answer the user
// sees: the second pass when a tool ran, the first pass otherwise.
func (o *Orchestrator) Complete(ctx context.Context, history []types.ChatMessage) (*types.ChatResponse, error) {
	if err := ValidateHistory(history); err != nil {
		return nil, err
	}
	var content strings.Builder
	var metadata *types.Metadata
	err := o.run(ctx, history, func(ev types.StreamEvent) error {
		switch ev.Type {
		case types.EventType_Delta:
			content.WriteString(ev.Content)
		case types.EventType_Meta:
			metadata = ev.Metadata
			content.Reset()
		}
		return nil
	})
	if err != nil {
		o.logger.Error(err, "chat turn failed")
		return nil, err
	}
	return &types.ChatResponse{
		Role:     types.Role_Assistant,
		Content:  content.String(),
		Metadata: metadata,
	}, nil
}

// run executes discovery, both passes and the tool call, emitting
// deltas and meta. It never emits a terminal event.
func (o *Orchestrator) run(ctx context.Context, history []types.ChatMessage, emit Emitter) error {
	tools := o.toolServer.Tools(ctx)
	msgs := llm.FromHistory(history)

	var firstUsage, secondUsage types.TokenUsage
	acc := newToolCallAccumulator()
	err := o.model.Stream(ctx, llm.Request{
		System:      SystemPrompt,
		Messages:    msgs,
		Tools:       tools,
		ToolChoice:  llm.ToolChoiceAuto,
		Temperature: o.temperature,
	}, func(chunk llm.Chunk) error {
		switch {
		case chunk.Text != "":
			return emit(types.DeltaEvent(chunk.Text))
		case chunk.ToolCall != nil:
			acc.Add(*chunk.ToolCall)
		case chunk.Usage != nil:
			firstUsage = firstUsage.Add(*chunk.Usage)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("first completion: %w", err)
	}

	call, ok := acc.First()
	if !ok {
		o.logUsage("", firstUsage)
		return nil
	}
	if acc.Len() > 1 {
		o.logger.Info("model requested several tool calls, running the first only", "requested", acc.Len(), "tool", call.Name)
	}
	if call.ID == "" {
		call.ID = "call_" + uuid.NewString()
	}

	result := o.toolServer.CallTool(ctx, call.Name, call.Arguments)
	o.logger.V(1).Info("tool executed", "tool", call.Name, "arguments", call.RawArgs, "result", result)

	err = emit(types.MetaEvent(&types.Metadata{
		ToolCall: &types.ToolCallMetadata{
			Name:      call.Name,
			Arguments: call.Arguments,
		},
		MCPResponse: result,
	}))
	if err != nil {
		return err
	}

	followUp := make(llm.Messages, 0, len(msgs)+2)
	followUp = append(followUp, msgs...)
	followUp = append(followUp,
		llm.Message{Role: types.Role_Assistant, ToolCall: &call},
		llm.Message{Role: types.Role_Tool, ToolCallID: call.ID, ToolName: call.Name, Content: result},
	)
	err = o.model.Stream(ctx, llm.Request{
		System:      ToolResultSystemPrompt,
		Messages:    followUp,
		Tools:       tools,
		ToolChoice:  llm.ToolChoiceNone,
		Temperature: o.temperature,
	}, func(chunk llm.Chunk) error {
		switch {
		case chunk.Text != "":
			return emit(types.DeltaEvent(chunk.Text))
		case chunk.Usage != nil:
			secondUsage = secondUsage.Add(*chunk.Usage)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("second completion: %w", err)
	}
	o.logUsage(call.Name, firstUsage, secondUsage)
	return nil
}

func (o *Orchestrator) logUsage(tool string, passes ...types.TokenUsage) {
	var usage types.TokenUsage
	for _, pass := range passes {
		usage = usage.Add(pass)
	}
	kv := []interface{}{"model", o.modelName, "tool", tool, "passes", len(passes), "inputTokens", usage.Input, "outputTokens", usage.Output, "totalTokens", usage.Total}
	if cost, ok := turnCost(o.modelName, passes); ok {
		kv = append(kv, "costUSD", cost.TotalUSD)
	}
	o.logger.Info("chat turn finished", kv...)
}

// turnCost prices every completion pass on its own and sums the results.
// ok is false when the model has no price entry.
func turnCost(model string, passes []types.TokenUsage) (cost types.TokenCost, ok bool) {
	if len(passes) == 0 {
		return types.TokenCost{}, false
	}
	for _, usage := range passes {
		passCost, priced := providers.ComputeCost(model, usage)
		if !priced {
			return types.TokenCost{}, false
		}
		cost = cost.Add(passCost)
	}
	return cost, true
}
