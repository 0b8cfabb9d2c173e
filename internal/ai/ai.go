// Package ai bridges chat prompts to a text-completion provider.
package ai

import (
	"context"
	"errors"
)

// ErrUpstream marks provider-side failures so HTTP handlers can answer 502
// instead of 500.
var ErrUpstream = errors.New("upstream provider failure")

// Turn is one prior exchange passed along with a prompt.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer produces a reply for a prompt plus optional history.
type Completer interface {
	Complete(ctx context.Context, prompt string, history []Turn) (string, error)
}
