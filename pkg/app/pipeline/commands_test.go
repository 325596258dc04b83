package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/gokubot/goku/pkg/app/pipeline"
	"github.com/gokubot/goku/pkg/domain/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleCommand(t *testing.T) {
	f := newFixture(t, 20)
	replies := pipeline.DefaultReplies()

	tests := []struct {
		command  string
		wantText string
	}{
		{"start", replies.Start},
		{"/start", replies.Start},
		{"/HELP", replies.Help},
		{"/help@goku_bot", replies.Help},
		{"stats", replies.NoStats},
		{"/translate", replies.Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			resp := f.pipeline.HandleCommand(context.Background(), "42", tt.command)
			assert.Equal(t, message.KindCommand, resp.Kind)
			assert.Equal(t, tt.wantText, resp.Text)
		})
	}
}

func TestHandleCommand_StatsAfterTranslations(t *testing.T) {
	f := newFixture(t, 20)
	require.NoError(t, f.ledger.Record("42", 10, fixedNow))
	require.NoError(t, f.ledger.Record("42", 20, fixedNow))
	require.NoError(t, f.ledger.Record("42", 30, fixedNow))
	f.clock.Advance(48 * time.Hour)

	resp := f.pipeline.HandleCommand(context.Background(), "42", "/stats")

	assert.Equal(t, message.KindCommand, resp.Kind)
	assert.Equal(t, "📊 إحصائياتك:\nالترجمات: 3\nالأحرف: 60\nالمعدل اليومي: 1.50", resp.Text)
}

func TestHandleCommand_DoesNotConsumeRateBudget(t *testing.T) {
	f := newFixture(t, 1)

	for i := 0; i < 5; i++ {
		f.pipeline.HandleCommand(context.Background(), "42", "help")
	}
	assert.Equal(t, 0, f.limiter.Len("42"))
}

func TestCustomReplies(t *testing.T) {
	f := newFixture(t, 20)

	custom := pipeline.NewPipeline(
		pipeline.Config{BotName: "Goku", Replies: pipeline.Replies{Start: "hello there"}},
		f.limiter, nil, f.oracle, f.ledger, nil,
	)

	assert.Equal(t, "hello there", custom.HandleCommand(context.Background(), "1", "start").Text)
	// fields left empty fall back to the defaults
	assert.Equal(t, pipeline.DefaultReplies().Help, custom.HandleCommand(context.Background(), "1", "help").Text)
}
