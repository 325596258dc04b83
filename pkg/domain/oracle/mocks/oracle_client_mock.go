package mocks

import (
	"context"
	"fmt"

	"github.com/gokubot/goku/pkg/domain/oracle"
	"github.com/stretchr/testify/mock"
)

type MockOracleClient struct {
	mock.Mock
}

func (m *MockOracleClient) Translate(ctx context.Context, req oracle.Request) (*oracle.Result, error) {
	args := m.Called(ctx, req)
	res, ok := args.Get(0).(*oracle.Result)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *oracle.Result, got %T", args.Get(0))
	}
	return res, args.Error(1)
}
