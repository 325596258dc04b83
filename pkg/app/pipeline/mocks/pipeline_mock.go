package mocks

import (
	"context"
	"fmt"

	"github.com/gokubot/goku/pkg/domain/message"
	"github.com/stretchr/testify/mock"
)

type MockPipeline struct {
	mock.Mock
}

func (m *MockPipeline) Handle(ctx context.Context, msg message.Inbound) message.Response {
	args := m.Called(ctx, msg)
	resp, ok := args.Get(0).(message.Response)
	if !ok {
		panic(fmt.Sprintf("expected message.Response, got %T", args.Get(0)))
	}
	return resp
}

func (m *MockPipeline) HandleCommand(ctx context.Context, userID message.UserID, command string) message.Response {
	args := m.Called(ctx, userID, command)
	resp, ok := args.Get(0).(message.Response)
	if !ok {
		panic(fmt.Sprintf("expected message.Response, got %T", args.Get(0)))
	}
	return resp
}
