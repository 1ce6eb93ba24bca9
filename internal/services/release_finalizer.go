package services

import (
	"context"
	"errors"

	"github.com/thomas-vilte/releasemate/internal/changelog"
	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/logger"
	"github.com/thomas-vilte/releasemate/internal/models"
	"github.com/thomas-vilte/releasemate/internal/updaters"
	"github.com/thomas-vilte/releasemate/internal/vcs"
	"github.com/thomas-vilte/releasemate/internal/versioning"
)

// ReleaseFinalizer tags the release of a merged release PR.
type ReleaseFinalizer struct {
	host          vcs.RepositoryHost
	reporter      Reporter
	labels        []string
	taggedLabel   string
	changelogPath string
}

type FinalizerOption func(*ReleaseFinalizer)

func WithFinalizerReporter(r Reporter) FinalizerOption {
	return func(f *ReleaseFinalizer) {
		if r != nil {
			f.reporter = r
		}
	}
}

func WithFinalizerLabels(labels []string) FinalizerOption {
	return func(f *ReleaseFinalizer) {
		if len(labels) > 0 {
			f.labels = labels
		}
	}
}

// WithTaggedLabel is added to the PR once its release exists.
func WithTaggedLabel(label string) FinalizerOption {
	return func(f *ReleaseFinalizer) {
		f.taggedLabel = label
	}
}

func WithChangelogPath(path string) FinalizerOption {
	return func(f *ReleaseFinalizer) {
		if path != "" {
			f.changelogPath = path
		}
	}
}

func NewReleaseFinalizer(host vcs.RepositoryHost, opts ...FinalizerOption) *ReleaseFinalizer {
	f := &ReleaseFinalizer{
		host:          host,
		reporter:      NopReporter{},
		labels:        DefaultLabels,
		changelogPath: updaters.DefaultChangelogPath,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *ReleaseFinalizer) Run(ctx context.Context) (*models.RunResult, error) {
	result, err := f.run(ctx)
	if err != nil {
		logger.Error(ctx, "release finalization failed", err)
		state := models.StateFinalizeFailed
		if errors.Is(err, domainErrors.ErrReleaseNotesNotFound) {
			state = models.StateNotesNotFound
		}
		f.reporter.Report(ctx, checkpoint(state, models.CheckpointFailure, "error", err))
		return nil, err
	}
	return result, nil
}

func (f *ReleaseFinalizer) run(ctx context.Context) (*models.RunResult, error) {
	log := logger.FromContext(ctx)

	pr, err := f.host.FindMergedReleasePR(ctx, f.labels)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		f.reporter.Report(ctx, checkpoint(models.StateNoMergedPRFound, models.CheckpointInfo))
		return &models.RunResult{Status: models.StatusNoMergedPR}, nil
	}
	if !versioning.IsValid(pr.Version) {
		return nil, domainErrors.ErrInvalidVersion.
			WithContext("pr_number", pr.Number).
			WithDetail("release PR branch carries no version")
	}
	version := versioning.Normalize(pr.Version)
	f.reporter.Report(ctx, checkpoint(models.StateMergedPRFound, models.CheckpointInfo,
		"pr_number", pr.Number, "version", version, "sha", pr.SHA))

	document, err := f.host.GetFileContents(ctx, f.changelogPath)
	if err != nil {
		return nil, err
	}
	notes, err := changelog.Extract(document, version)
	if err != nil {
		return nil, err
	}
	f.reporter.Report(ctx, checkpoint(models.StateNotesExtracted, models.CheckpointInfo, "version", version))

	tag := "v" + version
	if err := f.host.CreateRelease(ctx, tag, pr.SHA, notes); err != nil {
		return nil, err
	}
	log.Info("release created", "version", version, "sha", pr.SHA)
	f.reporter.Report(ctx, checkpoint(models.StateReleaseCreated, models.CheckpointSuccess,
		"tag", tag, "sha", pr.SHA))

	if err := f.host.RemoveLabels(ctx, f.labels, pr.Number); err != nil {
		return nil, err
	}
	if f.taggedLabel != "" {
		if err := f.host.AddLabels(ctx, pr.Number, []string{f.taggedLabel}); err != nil {
			return nil, err
		}
	}
	f.reporter.Report(ctx, checkpoint(models.StateLabelsRemoved, models.CheckpointInfo, "pr_number", pr.Number))

	return &models.RunResult{
		Status:   models.StatusReleaseCreated,
		Version:  version,
		PRNumber: pr.Number,
		Notes:    notes,
	}, nil
}
