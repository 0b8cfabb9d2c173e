package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Gemini implements Completer on the Gemini API.
type Gemini struct {
	client    *genai.Client
	modelName string
}

// NewGemini creates a Gemini-backed completer.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key must be set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client:    client,
		modelName: modelName,
	}, nil
}

// Complete implements Completer.
func (g *Gemini) Complete(ctx context.Context, prompt string, history []Turn) (string, error) {
	var contents []*genai.Content
	for _, turn := range history {
		var role genai.Role = genai.RoleUser
		switch turn.Role {
		case "assistant", "ai", "model":
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", ErrUpstream)
	}

	return text, nil
}
