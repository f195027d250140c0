package llm

import (
	"context"
	"fmt"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// NewClient builds the client for the named provider.
func NewClient(ctx context.Context, provider, url, model, apiKey string) (Client, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, apiKey, model)
	case ProviderOpenAI:
		return NewOpenAIClient(url, model, apiKey), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", provider)
	}
}
