package gateway

import (
	"context"
	"sync"
)

// MockCompleter is a scripted Completer for tests and dry runs.
// Fn decides each response; when nil the prompt is echoed back.
type MockCompleter struct {
	Fn func(ctx context.Context, prompt string) (Completion, error)

	mu      sync.Mutex
	prompts []string
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (Completion, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.Fn == nil {
		return Completion{Success: true, Text: prompt}, nil
	}
	return m.Fn(ctx, prompt)
}

// Calls returns the number of prompts received.
func (m *MockCompleter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns a copy of every prompt received, in arrival order.
func (m *MockCompleter) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

var _ Completer = (*MockCompleter)(nil)
