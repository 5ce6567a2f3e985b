package ai

import (
	"context"
	"net/http"
	"teises_draugas_go/config"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AIProvider:       config.AIProviderAnthropic,
		AIModel:          "claude-test",
		AIMaxTokens:      2000,
		AITimeout:        5 * time.Second,
		AnthropicAPIKey:  "test-key",
		AnthropicBaseURL: "https://api.anthropic.test",
	}
}

func TestAnthropicClient_Complete(t *testing.T) {
	defer gock.Off()

	gock.New("https://api.anthropic.test").
		Post("/v1/messages").
		MatchHeader("x-api-key", "test-key").
		MatchHeader("anthropic-version", anthropicVersion).
		Reply(http.StatusOK).
		JSON(map[string]any{
			"model": "claude-test-20250101",
			"content": []map[string]any{
				{"type": "text", "text": `{"winProbability":`},
				{"type": "text", "text": `0.8}`},
			},
			"usage": map[string]any{"input_tokens": 120, "output_tokens": 40},
		})

	client := NewAnthropicClient(testConfig())
	completion, err := client.Complete(context.Background(), Request{System: "sistema", Prompt: "byla"})
	require.NoError(t, err)

	assert.Equal(t, `{"winProbability":0.8}`, completion.Text)
	assert.Equal(t, "claude-test-20250101", completion.Model)
	assert.Equal(t, 160, completion.TokensUsed())
	assert.True(t, gock.IsDone())
}

func TestAnthropicClient_ErrorStatus(t *testing.T) {
	defer gock.Off()

	gock.New("https://api.anthropic.test").
		Post("/v1/messages").
		Reply(http.StatusTooManyRequests).
		JSON(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "rate_limit_error", "message": "Rate limited"},
		})

	client := NewAnthropicClient(testConfig())
	_, err := client.Complete(context.Background(), Request{Prompt: "byla"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "Rate limited")
}

func TestAnthropicClient_MissingKey(t *testing.T) {
	cfg := testConfig()
	cfg.AnthropicAPIKey = ""

	_, err := NewAnthropicClient(cfg).Complete(context.Background(), Request{Prompt: "byla"})
	assert.ErrorContains(t, err, "ANTHROPIC_API_KEY")
}

func TestNewModel(t *testing.T) {
	m, err := NewModel(testConfig())
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, m)
	assert.Equal(t, "claude-test", m.Name())

	cfg := testConfig()
	cfg.AIProvider = "gemini"
	_, err = NewModel(cfg)
	assert.Error(t, err)
}
