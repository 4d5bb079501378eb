package extract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/cvlens/cvlens/internal/llm"
	"github.com/cvlens/cvlens/internal/logger"
	"github.com/cvlens/cvlens/internal/model"
	"github.com/cvlens/cvlens/internal/normalize"
)

// ErrCancelled is returned when the caller's context is cancelled while an
// extraction is in flight, so batch drivers can tell abandoned work apart
// from provider failures.
var ErrCancelled = errors.New("extraction cancelled")

// Config holds extractor settings.
type Config struct {
	MaxAttempts  int
	Temperature  float64
	MaxTokens    int
	RetryBackoff time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		Temperature:  0.1,
		MaxTokens:    4096,
		RetryBackoff: 500 * time.Millisecond,
	}
}

// Option configures the extractor.
type Option func(*Config)

// WithMaxAttempts sets the maximum number of provider attempts.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithTemperature sets the LLM temperature.
func WithTemperature(t float64) Option {
	return func(c *Config) {
		c.Temperature = t
	}
}

// WithMaxTokens sets the maximum tokens for responses.
func WithMaxTokens(n int) Option {
	return func(c *Config) {
		c.MaxTokens = n
	}
}

// WithRetryBackoff sets the initial backoff interval between retries.
func WithRetryBackoff(d time.Duration) Option {
	return func(c *Config) {
		c.RetryBackoff = d
	}
}

// Result holds a validated record and the metadata of how it was produced.
type Result struct {
	Record   *model.ResumeRecord
	Warnings []model.Warning
	Raw      string
	Provider string
	Usage    llm.Usage
	Attempts int
	Duration time.Duration
}

// Extractor runs the extraction pipeline against one provider. It keeps no
// mutable state across calls, so a single instance is safe for concurrent
// batch use.
type Extractor struct {
	provider llm.Provider
	config   Config
}

// New creates a new Extractor.
func New(provider llm.Provider, opts ...Option) *Extractor {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Extractor{provider: provider, config: cfg}
}

// Extract turns document text into a validated ResumeRecord.
//
// Retry policy lives here and nowhere else: rate limiting and transport
// failures retry with exponential backoff up to MaxAttempts; a malformed JSON
// response gets exactly one repair attempt with a stricter prompt; every
// other failure is terminal and surfaces unchanged.
func (e *Extractor) Extract(ctx context.Context, documentText string) (Result, error) {
	start := time.Now()

	prompt, err := BuildPrompt(documentText)
	if err != nil {
		return Result{}, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = e.config.RetryBackoff
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0

	result := Result{Provider: e.provider.Name()}
	currentPrompt := prompt
	repairUsed := false

	logger.Debug("extraction starting",
		"provider", e.provider.Name(),
		"document_size", len(documentText),
		"max_attempts", e.config.MaxAttempts)

	for attempt := 1; ; attempt++ {
		result.Attempts = attempt

		resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
			System:      SystemPrompt(),
			Prompt:      currentPrompt,
			MaxTokens:   e.config.MaxTokens,
			Temperature: e.config.Temperature,
		})
		result.Usage.InputTokens += resp.Usage.InputTokens
		result.Usage.OutputTokens += resp.Usage.OutputTokens

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				return result, fmt.Errorf("%w: %v", ErrCancelled, err)
			}

			var perr *llm.ProviderError
			if errors.As(err, &perr) && perr.Retryable() && attempt < e.config.MaxAttempts {
				wait := bo.NextBackOff()
				logger.Warn("provider error, retrying",
					"provider", perr.Provider,
					"kind", string(perr.Kind),
					"attempt", attempt,
					"backoff", wait)
				if err := sleepContext(ctx, wait); err != nil {
					return result, fmt.Errorf("%w: %v", ErrCancelled, err)
				}
				continue
			}

			logger.Debug("extraction failed", "attempt", attempt, "error", err)
			return result, err
		}

		result.Raw = resp.Content

		rec, warnings, nerr := normalize.Normalize(resp.Content)
		if nerr != nil {
			var malformed *normalize.MalformedJSONError
			if errors.As(nerr, &malformed) && !repairUsed {
				// Malformed JSON is often transient; one repair attempt
				// with a stricter prompt, then give up.
				repairUsed = true
				repair, rerr := BuildRepairPrompt(documentText)
				if rerr != nil {
					return result, rerr
				}
				currentPrompt = repair
				logger.Debug("malformed JSON response, retrying with repair prompt",
					"attempt", attempt, "offset", malformed.Offset)
				continue
			}
			logger.Debug("normalization failed", "attempt", attempt, "error", nerr)
			return result, nerr
		}

		result.Record = rec
		result.Warnings = warnings
		result.Duration = time.Since(start)
		logger.Debug("extraction complete",
			"attempts", attempt,
			"warnings", len(warnings),
			"input_tokens", result.Usage.InputTokens,
			"output_tokens", result.Usage.OutputTokens,
			"duration", result.Duration)
		return result, nil
	}
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
