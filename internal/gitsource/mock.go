package gitsource

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRunner is a mock implementation of Runner for testing.
type MockRunner struct {
	mock.Mock
}

var _ Runner = &MockRunner{} // Compile-time check

// Run implements the Runner interface.
func (m *MockRunner) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	mockArgs := []any{ctx, repoPath}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}
