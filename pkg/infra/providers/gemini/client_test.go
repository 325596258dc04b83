package gemini_test

import (
	"context"
	"testing"

	"github.com/gokubot/goku/pkg/infra/providers"
	"github.com/gokubot/goku/pkg/infra/providers/gemini"
	"github.com/stretchr/testify/assert"
)

func TestNewGeminiClient(t *testing.T) {
	client := gemini.NewGeminiClient()
	assert.NotNil(t, client, "NewGeminiClient should return a non-nil client")
}

func TestAsk_MissingAPIKey(t *testing.T) {
	client := gemini.NewGeminiClient()

	resp, err := client.Ask(context.Background(), &providers.Config{}, "test prompt")

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "API key is required")
}
