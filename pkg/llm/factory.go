package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/config"
)

// NewClientFromConfig creates the LLM client selected by server
// configuration. Returns LLMClient interface to enable dependency injection
// of mocks.
func NewClientFromConfig(cfg *config.AIConfig, logger *zap.Logger) (LLMClient, error) {
	clientCfg := &Config{
		Endpoint:  cfg.BaseURL,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		MaxTokens: cfg.MaxTokens,
	}

	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIClient(clientCfg, logger)
	case "anthropic":
		return NewAnthropicClient(clientCfg, logger)
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", cfg.Provider)
	}
}
