package llm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

// APIError is a provider failure with its HTTP status
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider error (%d): %v", e.StatusCode, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyError lifts SDK errors into *APIError; other errors pass through.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}
	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return &APIError{StatusCode: openaiErr.StatusCode, Code: openaiErr.Code, Message: openaiErr.Message, Err: err}
	}
	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return &APIError{StatusCode: anthropicErr.StatusCode, Err: err}
	}
	var geminiErr genai.APIError
	if errors.As(err, &geminiErr) {
		return &APIError{StatusCode: geminiErr.Code, Code: geminiErr.Status, Message: geminiErr.Message, Err: err}
	}
	return err
}

// IsQuotaExceeded reports a rate limit or exhausted quota.
func IsQuotaExceeded(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.Code == "insufficient_quota"
}

// IsUnauthorized reports a rejected credential.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
