package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/logger"
	"github.com/thomas-vilte/releasemate/internal/models"
	"github.com/thomas-vilte/releasemate/internal/strategy"
	"github.com/thomas-vilte/releasemate/internal/vcs"
	"github.com/thomas-vilte/releasemate/internal/versioning"
)

const (
	BranchPrefix = "release-v"

	prBodyHeader = ":rocket: This release was prepared by releasemate.\n\n---\n\n"
	prBodyFooter = "\n\n---\n\nMerging this pull request tags the release. It is replaced automatically when new commits land on the release branch."
)

// DefaultLabels marks a release PR that has not been tagged yet.
var DefaultLabels = []string{"autorelease: pending"}

// ReleasePRService opens the release pull request for the commits since the latest tag.
type ReleasePRService struct {
	host     vcs.RepositoryHost
	strategy strategy.Strategy
	reporter Reporter
	labels   []string
	dryRun   bool
	now      func() time.Time
}

type ReleasePROption func(*ReleasePRService)

func WithReporter(r Reporter) ReleasePROption {
	return func(s *ReleasePRService) {
		if r != nil {
			s.reporter = r
		}
	}
}

func WithLabels(labels []string) ReleasePROption {
	return func(s *ReleasePRService) {
		if len(labels) > 0 {
			s.labels = labels
		}
	}
}

// WithDryRun stops the run once updates are prepared. Nothing is written to the host.
func WithDryRun(dryRun bool) ReleasePROption {
	return func(s *ReleasePRService) {
		s.dryRun = dryRun
	}
}

func WithClock(now func() time.Time) ReleasePROption {
	return func(s *ReleasePRService) {
		s.now = now
	}
}

// NewReleasePRService resolves the release strategy up front, so an unknown mode fails before
// the host is contacted.
func NewReleasePRService(host vcs.RepositoryHost, kind strategy.Kind, strategyOpts strategy.Options, opts ...ReleasePROption) (*ReleasePRService, error) {
	strat, err := strategy.New(kind, strategyOpts)
	if err != nil {
		return nil, err
	}

	s := &ReleasePRService{
		host:     host,
		strategy: strat,
		reporter: NopReporter{},
		labels:   DefaultLabels,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *ReleasePRService) Run(ctx context.Context) (*models.RunResult, error) {
	result, err := s.run(ctx)
	if err != nil {
		logger.Error(ctx, "release pr run failed", err)
		s.reporter.Report(ctx, checkpoint(models.StateRunFailed, models.CheckpointFailure, "error", err))
		return nil, err
	}
	return result, nil
}

func (s *ReleasePRService) run(ctx context.Context) (*models.RunResult, error) {
	log := logger.FromContext(ctx)

	merged, err := s.host.FindMergedReleasePR(ctx, s.labels)
	if err != nil {
		return nil, err
	}
	if merged != nil {
		log.Info("merged release pr awaiting tag, nothing to do",
			"pr_number", merged.Number,
			"version", merged.Version)
		s.reporter.Report(ctx, checkpoint(models.StatePendingReleaseDetected, models.CheckpointWarning,
			"pr_number", merged.Number, "version", merged.Version))
		return &models.RunResult{
			Status:   models.StatusPendingRelease,
			Version:  merged.Version,
			PRNumber: merged.Number,
		}, nil
	}
	s.reporter.Report(ctx, checkpoint(models.StateNoPendingRelease, models.CheckpointInfo))

	latest, err := s.host.LatestTag(ctx)
	if err != nil {
		return nil, err
	}
	since := ""
	if latest != nil {
		since = latest.SHA
	}

	commits, err := s.host.CommitsSinceSHA(ctx, since)
	if err != nil {
		return nil, err
	}
	log.Debug("commits collected", "commits", len(commits), "since", since)

	if len(commits) == 0 {
		s.reporter.Report(ctx, checkpoint(models.StateNothingToRelease, models.CheckpointInfo, "since", since))
		return &models.RunResult{Status: models.StatusNothingToRelease, Since: since}, nil
	}

	plan, err := s.strategy.ComputeCandidates(ctx, s.host, strategy.Input{
		Commits:   commits,
		LatestTag: latest,
		Date:      s.now(),
	})
	if err != nil {
		return nil, err
	}

	for _, skip := range plan.Skipped {
		s.reporter.Report(ctx, checkpoint(models.StatePackageSkipped, models.CheckpointWarning,
			"package", skip.Key, "reason", string(skip.Reason)))
	}

	version := plan.Candidate.Version
	s.reporter.Report(ctx, checkpoint(models.StateCandidateComputed, models.CheckpointInfo,
		"version", version,
		"previous_tag", plan.Candidate.PreviousTag,
		"release_type", string(plan.Bump.ReleaseType),
		"packages", len(plan.Packages)))

	if plan.IsEmpty() {
		log.Info("no user facing changes, skipping release pr", "version", version)
		s.reporter.Report(ctx, checkpoint(models.StateNoOpChangelogEmpty, models.CheckpointInfo, "version", version))
		return &models.RunResult{
			Status:   models.StatusNoUserFacingChanges,
			Version:  version,
			Packages: plan.Packages,
			Since:    since,
		}, nil
	}

	updates, err := s.strategy.BuildUpdates(plan)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(updates))
	for _, u := range updates {
		paths = append(paths, u.Path)
	}
	s.reporter.Report(ctx, checkpoint(models.StateUpdatesPrepared, models.CheckpointInfo,
		"version", version, "files", paths))

	result := &models.RunResult{
		Version:  version,
		Packages: plan.Packages,
		Updates:  updates,
		Notes:    plan.Entry.String(),
		Since:    since,
	}

	if s.dryRun {
		rendered, err := s.render(ctx, updates)
		if err != nil {
			return nil, err
		}
		result.Status = models.StatusDryRun
		result.Rendered = rendered
		return result, nil
	}

	number, err := s.host.OpenPR(ctx, models.OpenPROptions{
		Branch:  BranchName(version),
		Version: version,
		SHA:     commits[0].SHA,
		Title:   Title(version),
		Body:    prBodyHeader + plan.Entry.String() + prBodyFooter,
		Labels:  s.labels,
		Updates: updates,
	})
	if err != nil {
		return nil, err
	}
	log.Info("release pr opened", "pr_number", number, "version", version)

	if err := s.host.AddLabels(ctx, number, s.labels); err != nil {
		return nil, err
	}
	s.reporter.Report(ctx, checkpoint(models.StatePROpened, models.CheckpointSuccess,
		"pr_number", number, "version", version))
	result.PRNumber = number

	closed, err := s.closeStale(ctx, number)
	if err != nil {
		return nil, err
	}
	result.ClosedPRs = closed
	s.reporter.Report(ctx, checkpoint(models.StateStaleClosed, models.CheckpointInfo, "closed", closed))

	result.Status = models.StatusPROpened
	return result, nil
}

// closeStale closes every open release PR other than keep.
func (s *ReleasePRService) closeStale(ctx context.Context, keep int) ([]int, error) {
	open, err := s.host.FindOpenReleasePRs(ctx, s.labels)
	if err != nil {
		return nil, err
	}

	var closed []int
	for _, pr := range open {
		if pr.Number == keep {
			continue
		}
		if err := s.host.ClosePR(ctx, pr.Number); err != nil {
			return closed, err
		}
		logger.Info(ctx, "superseded release pr closed", "pr_number", pr.Number)
		closed = append(closed, pr.Number)
	}
	return closed, nil
}

// render applies updates to the current branch contents without writing anything.
func (s *ReleasePRService) render(ctx context.Context, updates []models.FileUpdate) ([]models.RenderedFile, error) {
	rendered := make([]models.RenderedFile, 0, len(updates))
	for _, u := range updates {
		old, err := s.host.GetFileContents(ctx, u.Path)
		if err != nil {
			if !errors.Is(err, domainErrors.ErrNotFound) {
				return nil, err
			}
			if u.Optional {
				rendered = append(rendered, models.RenderedFile{Path: u.Path, Skipped: true})
				continue
			}
			old = ""
		}

		content, err := u.Update(old)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", u.Path, err)
		}
		rendered = append(rendered, models.RenderedFile{Path: u.Path, Content: content})
	}
	return rendered, nil
}

// BranchName is the head branch of the release PR for version.
func BranchName(version string) string {
	return BranchPrefix + versioning.Normalize(version)
}

func Title(version string) string {
	return "chore: release " + versioning.Normalize(version)
}
