package llm

import "context"

// MockLLMClient is a configurable mock for testing LLM functionality.
// Set the function fields to control behavior in tests.
type MockLLMClient struct {
	// GenerateResponseFunc is called when GenerateResponse is invoked.
	// If nil, returns empty string and nil error.
	GenerateResponseFunc func(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// AnalyzeImagesFunc is called when AnalyzeImages is invoked.
	// If nil, returns empty string and nil error.
	AnalyzeImagesFunc func(ctx context.Context, instruction string, imageURLs []string) (string, error)

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	// Call tracking for verification
	GenerateResponseCalls int
	AnalyzeImagesCalls    int
}

// NewMockLLMClient creates a new mock with sensible defaults.
func NewMockLLMClient() *MockLLMClient {
	return &MockLLMClient{ModelName: "mock-model"}
}

// GenerateResponse implements LLMClient.
func (m *MockLLMClient) GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error) {
	m.GenerateResponseCalls++
	if m.GenerateResponseFunc != nil {
		return m.GenerateResponseFunc(ctx, prompt, systemMessage, temperature)
	}
	return "", nil
}

// AnalyzeImages implements LLMClient.
func (m *MockLLMClient) AnalyzeImages(ctx context.Context, instruction string, imageURLs []string) (string, error) {
	m.AnalyzeImagesCalls++
	if m.AnalyzeImagesFunc != nil {
		return m.AnalyzeImagesFunc(ctx, instruction, imageURLs)
	}
	return "", nil
}

// Model implements LLMClient.
func (m *MockLLMClient) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

// Ensure MockLLMClient implements LLMClient at compile time.
var _ LLMClient = (*MockLLMClient)(nil)
