package services

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/releasemate/internal/models"
)

type (
	MockRepositoryHost struct {
		mock.Mock
	}

	// RecordingReporter keeps every checkpoint it receives.
	RecordingReporter struct {
		mu          sync.Mutex
		Checkpoints []models.Checkpoint
	}
)

func (m *MockRepositoryHost) FindMergedReleasePR(ctx context.Context, labels []string) (*models.ReleasePR, error) {
	args := m.Called(ctx, labels)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReleasePR), args.Error(1)
}

func (m *MockRepositoryHost) FindOpenReleasePRs(ctx context.Context, labels []string) ([]models.ReleasePR, error) {
	args := m.Called(ctx, labels)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReleasePR), args.Error(1)
}

func (m *MockRepositoryHost) LatestTag(ctx context.Context) (*models.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockRepositoryHost) CommitsSinceSHA(ctx context.Context, sha string) ([]*models.Commit, error) {
	args := m.Called(ctx, sha)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Commit), args.Error(1)
}

func (m *MockRepositoryHost) GetFileContents(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func (m *MockRepositoryHost) OpenPR(ctx context.Context, opts models.OpenPROptions) (int, error) {
	args := m.Called(ctx, opts)
	return args.Int(0), args.Error(1)
}

func (m *MockRepositoryHost) AddLabels(ctx context.Context, number int, labels []string) error {
	args := m.Called(ctx, number, labels)
	return args.Error(0)
}

func (m *MockRepositoryHost) ClosePR(ctx context.Context, number int) error {
	args := m.Called(ctx, number)
	return args.Error(0)
}

func (m *MockRepositoryHost) RemoveLabels(ctx context.Context, labels []string, number int) error {
	args := m.Called(ctx, labels, number)
	return args.Error(0)
}

func (m *MockRepositoryHost) CreateRelease(ctx context.Context, tag, sha, notes string) error {
	args := m.Called(ctx, tag, sha, notes)
	return args.Error(0)
}

func (r *RecordingReporter) Report(_ context.Context, cp models.Checkpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Checkpoints = append(r.Checkpoints, cp)
}

// States returns the reported states in order.
func (r *RecordingReporter) States() []models.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	states := make([]models.State, 0, len(r.Checkpoints))
	for _, cp := range r.Checkpoints {
		states = append(states, cp.State)
	}
	return states
}
