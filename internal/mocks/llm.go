package mocks

import (
	"context"
	"sync"
)

// Mock LLM generator
type MockGenerator struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	Calls   int
	Prompts []string
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

func (m *MockGenerator) Name() string {
	return "mock"
}

func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
