package mocks

import (
	"context"
	"sync"

	"github.com/pep299/lessonfeed/internal/newsdata"
)

// Mock NewsData provider
type MockNewsProvider struct {
	mu         sync.Mutex
	Results    []newsdata.Result
	Err        error
	Calls      int
	Categories []string
}

func (m *MockNewsProvider) Latest(ctx context.Context, category string, size int) ([]newsdata.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.Categories = append(m.Categories, category)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Results, nil
}

func (m *MockNewsProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
