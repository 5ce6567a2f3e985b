// Package ai wraps the hosted language models used to analyse cases and draft
// documents. Callers build a prompt, pick a Model and decode the JSON answer
// with GenerateJSON.
package ai

import (
	"context"
	"fmt"
	"teises_draugas_go/config"
)

// Request is a single prompt sent to a model.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int
}

// Completion is the raw answer of a model.
type Completion struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// TokensUsed is the total billed for the call. Zero when the provider does not report usage.
func (c *Completion) TokensUsed() int {
	if c == nil {
		return 0
	}
	return c.InputTokens + c.OutputTokens
}

// Model is implemented by every provider client.
type Model interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
	Name() string
}

// NewModel builds the client selected by AI_PROVIDER.
func NewModel(cfg *config.Config) (Model, error) {
	switch cfg.AIProvider {
	case config.AIProviderAnthropic:
		return NewAnthropicClient(cfg), nil
	case config.AIProviderOpenAI:
		return NewLlmberjackClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.AIProvider)
	}
}
