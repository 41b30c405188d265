package providers

import (
	"fmt"
	"strings"
)

type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
)

type APIShape string

const (
	APIShapeOpenAI    APIShape = "openai"
	APIShapeAnthropic APIShape = "anthropic"
	APIShapeGemini    APIShape = "gemini"
)

// GetModelAPIShape picks the wire protocol for a model name.
// Unknown models are assumed to speak the OpenAI chat completions API,
// which covers OpenAI-compatible gateways configured through a base URL.
func GetModelAPIShape(model string) (APIShape, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return "", fmt.Errorf("model is required")
	}
	lower := strings.ToLower(model)
	switch {
	case strings.HasPrefix(lower, "claude"):
		return APIShapeAnthropic, nil
	case strings.HasPrefix(lower, "gemini"):
		return APIShapeGemini, nil
	default:
		return APIShapeOpenAI, nil
	}
}

func GetModelProvider(model string) (Provider, error) {
	apiShape, err := GetModelAPIShape(model)
	if err != nil {
		return "", err
	}
	switch apiShape {
	case APIShapeAnthropic:
		return ProviderAnthropic, nil
	case APIShapeGemini:
		return ProviderGemini, nil
	default:
		return ProviderOpenAI, nil
	}
}
