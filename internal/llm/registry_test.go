package llm

import (
	"errors"
	"strings"
	"testing"
)

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider("bard", ProviderConfig{})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "unknown provider") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewProvider_Ollama(t *testing.T) {
	p, err := NewProvider("ollama", ProviderConfig{})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if p.Name() != "ollama" {
		t.Errorf("name = %q", p.Name())
	}
}

func TestNewProvider_OpenAIMissingCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewProvider("openai", ProviderConfig{})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("NewProvider() = %v, want ErrMissingCredentials", err)
	}
}

func TestNewProvider_AnthropicMissingCredentials(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := NewProvider("anthropic", ProviderConfig{})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("NewProvider() = %v, want ErrMissingCredentials", err)
	}
}

func TestNewProvider_ExplicitKeyBeatsEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	p, err := NewProvider("openai", ProviderConfig{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("name = %q", p.Name())
	}
}

func TestDetectProvider(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	name, key := DetectProvider()
	if name != "ollama" || key != "" {
		t.Errorf("DetectProvider() = %q/%q, want ollama with no key", name, key)
	}

	t.Setenv("OPENAI_API_KEY", "sk-openai")
	name, key = DetectProvider()
	if name != "openai" || key != "sk-openai" {
		t.Errorf("DetectProvider() = %q/%q, want openai", name, key)
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	name, key = DetectProvider()
	if name != "anthropic" || key != "sk-ant" {
		t.Errorf("DetectProvider() = %q/%q, want anthropic first", name, key)
	}
}

func TestAvailableProviders(t *testing.T) {
	providers := AvailableProviders()
	want := map[string]bool{"anthropic": true, "ollama": true, "openai": true}
	for _, p := range providers {
		delete(want, p)
	}
	if len(want) != 0 {
		t.Errorf("missing providers: %v", want)
	}
}
