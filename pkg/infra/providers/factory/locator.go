package factory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gokubot/goku/pkg/infra/providers"
	"github.com/gokubot/goku/pkg/infra/providers/anthropic"
	"github.com/gokubot/goku/pkg/infra/providers/gemini"
	"github.com/gokubot/goku/pkg/infra/providers/openai"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGoogle    = "google"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

type ProviderLocator interface {
	Get(provider string) (providers.Client, error)
}

type providerLocator struct {
	mu      sync.Mutex
	clients map[string]providers.Client
}

func NewProviderLocator() ProviderLocator {
	return &providerLocator{
		clients: make(map[string]providers.Client),
	}
}

func (f *providerLocator) Get(provider string) (providers.Client, error) {
	name := strings.ToLower(strings.TrimSpace(provider))
	if name == ProviderGemini {
		name = ProviderGoogle
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.clients[name]; ok {
		return c, nil
	}

	var c providers.Client
	switch name {
	case ProviderOpenAI:
		c = openai.NewOpenaiClient()
	case ProviderGoogle:
		c = gemini.NewGeminiClient()
	case ProviderAnthropic:
		c = anthropic.NewAnthropicClient()
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	f.clients[name] = c
	return c, nil
}

// DefaultModel returns the model used when none is configured for provider.
func DefaultModel(provider string) string {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderOpenAI:
		return openai.DefaultModel
	case ProviderAnthropic:
		return anthropic.DefaultModel
	default:
		return gemini.DefaultModel
	}
}
