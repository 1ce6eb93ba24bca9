package release

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/releasemate/internal/models"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context) (*models.RunResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RunResult), args.Error(1)
}
