package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIProvider wraps the OpenAI SDK.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI provider. The API key is resolved
// from the config, then from OPENAI_API_KEY; without one construction fails
// with ErrMissingCredentials.
func NewOpenAIProvider(cfg ProviderConfig) (*OpenAIProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %w (set OPENAI_API_KEY or pass --api-key)", ErrMissingCredentials)
	}

	// Retries stay with the orchestrator, so the SDK's own are disabled.
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	model := cfg.Model
	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}

	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

// Complete sends a completion request to OpenAI.
func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    messages,
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return CompletionResponse{}, err
		}
		return CompletionResponse{}, classifyAPIError(p.Name(), err)
	}

	if len(resp.Choices) == 0 {
		return CompletionResponse{}, newProviderError(p.Name(), KindResponse,
			errors.New("no choices in response"))
	}

	return CompletionResponse{
		Content: resp.Choices[0].Message.Content,
		Usage: Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
	}, nil
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// classifyAPIError maps an SDK error onto the provider error taxonomy.
func classifyAPIError(provider string, err error) *ProviderError {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return newProviderError(provider, kindForStatus(apierr.StatusCode), err)
	}
	// No HTTP response at all: transport failure or timeout.
	return newProviderError(provider, KindUnavailable, err)
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status >= http.StatusInternalServerError:
		return KindUnavailable
	default:
		return KindResponse
	}
}
