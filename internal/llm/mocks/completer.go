package mocks

import (
	"context"
	"errors"
	"sync/atomic"
)

// MockCompleter is a function-based llm.Completer that counts calls.
type MockCompleter struct {
	CompleteFunc func(ctx context.Context, system, user string) (string, error)

	calls atomic.Int32
}

func (m *MockCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	m.calls.Add(1)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, user)
	}
	return "", errors.New("CompleteFunc not implemented")
}

// Calls returns how many times Complete ran.
func (m *MockCompleter) Calls() int {
	return int(m.calls.Load())
}
