package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEchoesPrompt(t *testing.T) {
	reply, err := NewMock().Complete(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Contains(t, reply, `"hello"`)
}
