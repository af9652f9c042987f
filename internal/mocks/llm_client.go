package mocks

import (
	"context"
	"sync"

	"github.com/yachaflex/yachaflex-api/internal/generation"
)

// MockLLMClient implements generation.LLMClient for testing
type MockLLMClient struct {
	// CompleteFn allows test cases to mock the Complete behavior
	CompleteFn func(ctx context.Context, prompt generation.Prompt) (string, error)

	// Default response values
	Response string
	Err      error

	// Call tracking for verification
	CompleteCalls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Count tracks how many times Complete was called
		Count int

		// Prompts contains all prompts passed to Complete calls
		Prompts []generation.Prompt
	}
}

// Complete implements the generation.LLMClient interface
func (m *MockLLMClient) Complete(ctx context.Context, prompt generation.Prompt) (string, error) {
	m.CompleteCalls.mu.Lock()
	m.CompleteCalls.Count++
	m.CompleteCalls.Prompts = append(m.CompleteCalls.Prompts, prompt)
	m.CompleteCalls.mu.Unlock()

	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, prompt)
	}

	return m.Response, m.Err
}

// CallCount returns the number of Complete calls so far.
func (m *MockLLMClient) CallCount() int {
	m.CompleteCalls.mu.Lock()
	defer m.CompleteCalls.mu.Unlock()
	return m.CompleteCalls.Count
}

// LastPrompt returns the most recent prompt, or the zero Prompt if none.
func (m *MockLLMClient) LastPrompt() generation.Prompt {
	m.CompleteCalls.mu.Lock()
	defer m.CompleteCalls.mu.Unlock()
	if len(m.CompleteCalls.Prompts) == 0 {
		return generation.Prompt{}
	}
	return m.CompleteCalls.Prompts[len(m.CompleteCalls.Prompts)-1]
}

// NewMockLLMClientWithResponse creates a MockLLMClient that answers with response
func NewMockLLMClientWithResponse(response string) *MockLLMClient {
	return &MockLLMClient{Response: response}
}

// NewMockLLMClientWithError creates a MockLLMClient that fails with err
func NewMockLLMClientWithError(err error) *MockLLMClient {
	return &MockLLMClient{Err: err}
}
