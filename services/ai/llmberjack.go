package ai

import (
	"context"
	"fmt"
	"teises_draugas_go/config"

	"github.com/checkmarble/llmberjack"
	"github.com/checkmarble/llmberjack/llms/openai"
)

// LlmberjackClient serves OpenAI-compatible endpoints. Token usage is not
// exposed by the adapter, so completions report zero.
type LlmberjackClient struct {
	client *llmberjack.Llmberjack
	model  string
}

func NewLlmberjackClient(cfg *config.Config) (*LlmberjackClient, error) {
	opts := []openai.Opt{}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, openai.WithBaseUrl(cfg.OpenAIBaseURL))
	}
	if cfg.OpenAIAPIKey != "" {
		opts = append(opts, openai.WithApiKey(cfg.OpenAIAPIKey))
	}

	provider, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI provider: %w", err)
	}

	client, err := llmberjack.New(
		llmberjack.WithProvider("main", provider),
		llmberjack.WithDefaultModel(cfg.AIModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM adapter: %w", err)
	}

	return &LlmberjackClient{client: client, model: cfg.AIModel}, nil
}

func (l *LlmberjackClient) Name() string { return l.model }

func (l *LlmberjackClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	resp, err := llmberjack.NewUntypedRequest().
		WithModel(l.model).
		WithInstruction(req.System).
		WithText(llmberjack.RoleUser, req.Prompt).
		Do(ctx, l.client)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	text, err := resp.Get(0)
	if err != nil {
		return nil, fmt.Errorf("empty model response: %w", err)
	}

	return &Completion{Text: text, Model: l.model}, nil
}
