package commands

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cvlens/cvlens/internal/extract"
	"github.com/cvlens/cvlens/internal/llm"
	"github.com/cvlens/cvlens/internal/logger"
)

// addExtractionFlags registers the flags shared by parse and batch.
func addExtractionFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringP("provider", "p", "", "LLM provider: anthropic, openai, ollama (auto-detects from env vars)")
	flags.StringP("model", "m", "", "model name (provider-specific)")
	flags.StringP("api-key", "k", "", "API key for hosted providers (or use env var)")
	flags.String("base-url", "", "Ollama server URL (default http://localhost:11434)")
	flags.Duration("timeout", 120*time.Second, "request timeout per model call")
	flags.Int("max-attempts", 3, "max provider attempts per document")
	flags.Int("max-tokens", 4096, "max tokens per completion")
	flags.String("format", "json", "output format: json, yaml")

	_ = viper.BindPFlag("provider", flags.Lookup("provider"))
	_ = viper.BindPFlag("model", flags.Lookup("model"))
	_ = viper.BindPFlag("api_key", flags.Lookup("api-key"))
	_ = viper.BindPFlag("base_url", flags.Lookup("base-url"))
}

// buildExtractor assembles the provider and orchestrator from flags, config
// and environment.
func buildExtractor(cmd *cobra.Command) (*extract.Extractor, error) {
	providerName := viper.GetString("provider")
	apiKey := viper.GetString("api_key")
	if providerName == "" {
		providerName, apiKey = llm.DetectProvider()
		logger.Debug("provider auto-detected", "provider", providerName)
	}

	model := viper.GetString("model")
	if model == "" {
		model = llm.GetDefaultModel(providerName)
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")

	provider, err := llm.NewProvider(providerName, llm.ProviderConfig{
		APIKey:  apiKey,
		BaseURL: viper.GetString("base_url"),
		Model:   model,
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}

	maxAttempts, _ := cmd.Flags().GetInt("max-attempts")
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")

	logger.Debug("extractor configured",
		"provider", providerName,
		"model", model,
		"timeout", timeout,
		"max_attempts", maxAttempts)

	return extract.New(provider,
		extract.WithMaxAttempts(maxAttempts),
		extract.WithMaxTokens(maxTokens),
	), nil
}
