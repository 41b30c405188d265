// Package llm streams chat completions from OpenAI, Anthropic and Gemini
// behind one provider-neutral interface.
package llm

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	anth_opt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/go-logr/logr"
	"github.com/openai/openai-go"
	openai_opt "github.com/openai/openai-go/option"
	"github.com/whatmeme/whatmeme-webapp/providers"
	anthropic_helper "github.com/whatmeme/whatmeme-webapp/providers/anthropic"
	"github.com/whatmeme/whatmeme-webapp/types"
	"google.golang.org/genai"
)

// Model streams one completion, calling onChunk for every increment in order.
// A non-nil error from onChunk aborts the stream and is returned.
type Model interface {
	Stream(ctx context.Context, req Request, onChunk func(Chunk) error) error
}

// Config represents the client configuration
type Config struct {
	Model    string         // Required: Model name (e.g., "gpt-4o-mini")
	Token    string         // Required: API token
	BaseURL  string         // Optional: Custom API base URL
	LogLevel types.LogLevel // Optional: None, Request, Response, Debug

	HTTPClient *http.Client
	Logger     logr.Logger
}

// Client streams completions from the provider serving Config.Model
type Client struct {
	config   Config
	apiShape providers.APIShape
	logger   logr.Logger

	openai    *openai.Client
	anthropic *anthropic.Client
	gemini    *genai.Client
}

var _ Model = (*Client)(nil)

// NewClient creates a new streaming client
func NewClient(config Config) (*Client, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if config.Token == "" {
		return nil, fmt.Errorf("token is required")
	}

	apiShape, err := providers.GetModelAPIShape(config.Model)
	if err != nil {
		return nil, fmt.Errorf("determine API shape: %w", err)
	}

	c := &Client{
		config:   config,
		apiShape: apiShape,
		logger:   config.Logger,
	}
	if err := c.createClient(context.Background()); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) Model() string {
	return c.config.Model
}

func (c *Client) APIShape() providers.APIShape {
	return c.apiShape
}

// Stream implements Model
func (c *Client) Stream(ctx context.Context, req Request, onChunk func(Chunk) error) error {
	c.logger.V(1).Info("LLM request", "model", c.config.Model, "apiShape", c.apiShape, "messages", len(req.Messages), "tools", len(req.Tools), "toolChoice", req.ToolChoice)

	var err error
	switch c.apiShape {
	case providers.APIShapeOpenAI:
		err = c.streamOpenAI(ctx, req, onChunk)
	case providers.APIShapeAnthropic:
		err = c.streamAnthropic(ctx, req, onChunk)
	case providers.APIShapeGemini:
		err = c.streamGemini(ctx, req, onChunk)
	default:
		return fmt.Errorf("unsupported provider: %s", c.apiShape)
	}
	return classifyError(err)
}

// createClient creates the provider-specific SDK client.
// SDK retries are disabled: a failed turn surfaces immediately.
func (c *Client) createClient(ctx context.Context) error {
	switch c.apiShape {
	case providers.APIShapeOpenAI:
		clientOptions := []openai_opt.RequestOption{
			openai_opt.WithAPIKey(c.config.Token),
			openai_opt.WithMaxRetries(0),
		}
		if c.config.BaseURL != "" {
			clientOptions = append(clientOptions, openai_opt.WithBaseURL(c.config.BaseURL))
		}
		if c.config.HTTPClient != nil {
			clientOptions = append(clientOptions, openai_opt.WithHTTPClient(c.config.HTTPClient))
		}
		if c.config.LogLevel >= types.LogLevelRequest {
			logger := log.New(os.Stderr, "", log.LstdFlags)
			clientOptions = append(clientOptions, openai_opt.WithDebugLog(logger))
		}
		client := openai.NewClient(clientOptions...)
		c.openai = &client

	case providers.APIShapeAnthropic:
		clientOpts := []anth_opt.RequestOption{
			anth_opt.WithAPIKey(c.config.Token),
			anth_opt.WithMaxRetries(0),
		}
		if c.config.BaseURL != "" {
			clientOpts = append(clientOpts, anth_opt.WithBaseURL(c.config.BaseURL))
		}
		if c.config.HTTPClient != nil {
			clientOpts = append(clientOpts, anth_opt.WithHTTPClient(c.config.HTTPClient))
		}
		if c.config.LogLevel >= types.LogLevelRequest {
			logger := log.New(os.Stderr, "", log.LstdFlags)
			clientOpts = append(clientOpts, anth_opt.WithDebugLog(logger))
		}
		c.anthropic = anthropic_helper.NewClient(clientOpts...)

	case providers.APIShapeGemini:
		clientGemini, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:     c.config.Token,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: c.config.HTTPClient,
			HTTPOptions: genai.HTTPOptions{
				BaseURL: c.config.BaseURL,
			},
		})
		if err != nil {
			return fmt.Errorf("create Gemini client: %w", err)
		}
		c.gemini = clientGemini

	default:
		return fmt.Errorf("unsupported provider: %s", c.apiShape)
	}
	return nil
}
