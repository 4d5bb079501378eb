// Package llm provides a unified interface for LLM providers.
package llm

import (
	"context"
	"time"
)

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// CompletionRequest represents a request to the LLM.
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// CompletionResponse represents the LLM response.
type CompletionResponse struct {
	Content string
	Usage   Usage
}

// Provider is the core abstraction over LLM backends. Implementations make
// exactly one outbound call per Complete invocation and never retry
// internally; retry policy belongs to the caller.
type Provider interface {
	// Complete sends a completion request and returns the raw model output.
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)

	// Name returns the provider identifier.
	Name() string
}

// ProviderConfig holds common configuration for providers.
type ProviderConfig struct {
	APIKey  string
	BaseURL string // For Ollama or custom endpoints
	Model   string
	Timeout time.Duration
}

// DefaultProviderConfig returns sensible defaults.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		Timeout: 120 * time.Second,
	}
}
