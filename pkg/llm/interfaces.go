// Package llm provides the LLM clients behind the AI assist features:
// brief generation, reference image analysis and wireframe drafting.
package llm

import "context"

// LLMClient defines the interface for LLM operations.
// Use this interface for dependency injection to enable mocking in tests.
type LLMClient interface {
	// GenerateResponse generates a chat completion response.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// AnalyzeImages describes the given reference images following the
	// instruction, using the provider's vision capability.
	AnalyzeImages(ctx context.Context, instruction string, imageURLs []string) (string, error)

	// Model returns the configured model name.
	Model() string
}

// Ensure both providers implement LLMClient at compile time.
var (
	_ LLMClient = (*OpenAIClient)(nil)
	_ LLMClient = (*AnthropicClient)(nil)
)
