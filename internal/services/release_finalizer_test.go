package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/models"
)

const mergedChangelog = `# Changelog

## 1.2.4 (2024-03-09)

### Bug Fixes

* null pointer (f1f1f1f)

## 1.2.3 (2024-01-01)

### Features

* older (aaaaaaa)
`

const mergedMonorepoChangelog = `# Changelog

## 3.1.1 (2024-06-01)

### 2fa-server 0.2.0

* totp (m2)

### 3d-engine 1.0.1

* mesh bug (m1)

## 3.1.0 (2024-05-01)

### 3d-engine 1.0.0

* first (m0)
`

func TestReleaseFinalizer_Run(t *testing.T) {
	t.Run("should do nothing without a merged release pr", func(t *testing.T) {
		host := &MockRepositoryHost{}
		reporter := &RecordingReporter{}
		f := NewReleaseFinalizer(host, WithFinalizerReporter(reporter))

		host.On("FindMergedReleasePR", mock.Anything, DefaultLabels).Return(nil, nil)

		result, err := f.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, models.StatusNoMergedPR, result.Status)
		assert.True(t, result.Halted())
		assert.Equal(t, []models.State{models.StateNoMergedPRFound}, reporter.States())
		host.AssertNotCalled(t, "CreateRelease", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should tag release with extracted notes and remove labels", func(t *testing.T) {
		host := &MockRepositoryHost{}
		reporter := &RecordingReporter{}
		f := NewReleaseFinalizer(host,
			WithFinalizerReporter(reporter),
			WithTaggedLabel("autorelease: tagged"))

		host.On("FindMergedReleasePR", mock.Anything, DefaultLabels).
			Return(&models.ReleasePR{Number: 7, SHA: "deadbeef", Version: "1.2.4"}, nil)
		host.On("GetFileContents", mock.Anything, "CHANGELOG.md").Return(mergedChangelog, nil)
		host.On("CreateRelease", mock.Anything, "v1.2.4", "deadbeef", "### Bug Fixes\n\n* null pointer (f1f1f1f)").
			Return(nil).Once()
		host.On("RemoveLabels", mock.Anything, DefaultLabels, 7).Return(nil).Once()
		host.On("AddLabels", mock.Anything, 7, []string{"autorelease: tagged"}).Return(nil).Once()

		result, err := f.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, models.StatusReleaseCreated, result.Status)
		assert.Equal(t, "1.2.4", result.Version)
		assert.Equal(t, 7, result.PRNumber)
		assert.Equal(t, []models.State{
			models.StateMergedPRFound,
			models.StateNotesExtracted,
			models.StateReleaseCreated,
			models.StateLabelsRemoved,
		}, reporter.States())
		host.AssertExpectations(t)
	})

	t.Run("should publish every package section of a monorepo entry", func(t *testing.T) {
		host := &MockRepositoryHost{}
		f := NewReleaseFinalizer(host)

		host.On("FindMergedReleasePR", mock.Anything, DefaultLabels).
			Return(&models.ReleasePR{Number: 9, SHA: "feedface", Version: "3.1.1"}, nil)
		host.On("GetFileContents", mock.Anything, "CHANGELOG.md").Return(mergedMonorepoChangelog, nil)
		host.On("CreateRelease", mock.Anything, "v3.1.1", "feedface",
			"### 2fa-server 0.2.0\n\n* totp (m2)\n\n### 3d-engine 1.0.1\n\n* mesh bug (m1)").
			Return(nil).Once()
		host.On("RemoveLabels", mock.Anything, DefaultLabels, 9).Return(nil)

		result, err := f.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, models.StatusReleaseCreated, result.Status)
		assert.NotEmpty(t, result.Notes)
		host.AssertExpectations(t)
	})

	t.Run("should read a custom changelog path", func(t *testing.T) {
		host := &MockRepositoryHost{}
		f := NewReleaseFinalizer(host, WithChangelogPath("docs/CHANGES.md"))

		host.On("FindMergedReleasePR", mock.Anything, DefaultLabels).
			Return(&models.ReleasePR{Number: 7, SHA: "deadbeef", Version: "v1.2.4"}, nil)
		host.On("GetFileContents", mock.Anything, "docs/CHANGES.md").Return(mergedChangelog, nil)
		host.On("CreateRelease", mock.Anything, "v1.2.4", "deadbeef", mock.Anything).Return(nil)
		host.On("RemoveLabels", mock.Anything, DefaultLabels, 7).Return(nil)

		_, err := f.Run(context.Background())

		require.NoError(t, err)
		host.AssertExpectations(t)
		host.AssertNotCalled(t, "AddLabels", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing notes is fatal and reported distinctly", func(t *testing.T) {
		host := &MockRepositoryHost{}
		reporter := &RecordingReporter{}
		f := NewReleaseFinalizer(host, WithFinalizerReporter(reporter))

		host.On("FindMergedReleasePR", mock.Anything, DefaultLabels).
			Return(&models.ReleasePR{Number: 8, SHA: "cafe", Version: "2.0.0"}, nil)
		host.On("GetFileContents", mock.Anything, "CHANGELOG.md").Return(mergedChangelog, nil)

		result, err := f.Run(context.Background())

		assert.Nil(t, result)
		assert.ErrorIs(t, err, domainErrors.ErrReleaseNotesNotFound)
		states := reporter.States()
		assert.Equal(t, models.StateNotesNotFound, states[len(states)-1])
		host.AssertNotCalled(t, "CreateRelease", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		host.AssertNotCalled(t, "RemoveLabels", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing changelog propagates not found", func(t *testing.T) {
		host := &MockRepositoryHost{}
		reporter := &RecordingReporter{}
		f := NewReleaseFinalizer(host, WithFinalizerReporter(reporter))

		host.On("FindMergedReleasePR", mock.Anything, DefaultLabels).
			Return(&models.ReleasePR{Number: 8, SHA: "cafe", Version: "2.0.0"}, nil)
		host.On("GetFileContents", mock.Anything, "CHANGELOG.md").Return("", domainErrors.ErrNotFound)

		_, err := f.Run(context.Background())

		assert.ErrorIs(t, err, domainErrors.ErrNotFound)
		states := reporter.States()
		assert.Equal(t, models.StateFinalizeFailed, states[len(states)-1])
	})

	t.Run("release pr without version fails", func(t *testing.T) {
		host := &MockRepositoryHost{}
		f := NewReleaseFinalizer(host)

		host.On("FindMergedReleasePR", mock.Anything, DefaultLabels).
			Return(&models.ReleasePR{Number: 8, SHA: "cafe"}, nil)

		_, err := f.Run(context.Background())

		assert.ErrorIs(t, err, domainErrors.ErrInvalidVersion)
		host.AssertNotCalled(t, "GetFileContents", mock.Anything, mock.Anything)
	})
}
