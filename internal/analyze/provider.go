package analyze

import (
	"context"
	"fmt"
)

const (
	ProviderVolcengine = "volcengine"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"

	DefaultVolcengineModel = "doubao-seed-1.6-flash"
	DefaultVolcengineURL   = "https://ark.cn-beijing.volces.com/api/v3"
	DefaultGeminiModel     = "gemini-2.5-flash"
)

// Provider sends a system and user prompt to a model and returns the raw
// reply text.
type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, system, user string) (string, error)
}

// ProviderConfig selects and configures a Provider.
type ProviderConfig struct {
	Name    string
	APIKey  string
	Model   string
	BaseURL string
}

// NewProvider builds the configured provider. Without an API key the mock
// provider is returned regardless of Name.
func NewProvider(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	if cfg.APIKey == "" || cfg.Name == ProviderMock {
		return NewMockProvider(), nil
	}
	switch cfg.Name {
	case "", ProviderVolcengine:
		return NewChatClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Name)
	}
}
