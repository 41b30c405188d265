package anthropic

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func NewClient(opts ...option.RequestOption) *anthropic.Client {
	client := anthropic.NewClient(
		opts...,
	)
	return &client
}

// Stream sends a streaming messages request and hands every event to onEvent in order.
func Stream(ctx context.Context, client *anthropic.Client, params anthropic.MessageNewParams, onEvent func(anthropic.MessageStreamEventUnion) error) error {
	stream := client.Messages.NewStreaming(ctx, params)
	defer stream.Close()
	for stream.Next() {
		if err := onEvent(stream.Current()); err != nil {
			return err
		}
	}
	return stream.Err()
}
