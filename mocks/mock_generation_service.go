package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGenerationService is a mock implementation of port.GenerationService.
type MockGenerationService struct {
	mock.Mock
}

func (m *MockGenerationService) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
