package openai_test

import (
	"context"
	"testing"

	"github.com/gokubot/goku/pkg/infra/providers"
	"github.com/gokubot/goku/pkg/infra/providers/openai"
	"github.com/stretchr/testify/assert"
)

func TestNewOpenaiClient(t *testing.T) {
	client := openai.NewOpenaiClient()
	assert.NotNil(t, client, "NewOpenaiClient should return a non-nil client")
}

func TestAsk_MissingAPIKey(t *testing.T) {
	client := openai.NewOpenaiClient()

	config := &providers.Config{
		Model: "gpt-4o-mini",
		Credentials: providers.Credentials{
			ApiKey: "",
		},
	}

	resp, err := client.Ask(context.Background(), config, "test prompt")

	assert.Error(t, err, "Ask should return an error when API key is missing")
	assert.Nil(t, resp, "Ask should return nil response when API key is missing")
	assert.Contains(t, err.Error(), "API key is required", "Error message should indicate missing API key")
}
