package ai

import (
	"context"
	"fmt"
)

// Mock is a canned completer used when no provider is configured and in
// tests.
type Mock struct{}

// NewMock returns a new instance of Mock.
func NewMock() *Mock {
	return &Mock{}
}

// Complete echoes the prompt back.
func (m *Mock) Complete(_ context.Context, prompt string, _ []Turn) (string, error) {
	return fmt.Sprintf("I heard you say %q. Tell me more.", prompt), nil
}
