package strategy

import (
	"context"

	"github.com/thomas-vilte/releasemate/internal/changelog"
	"github.com/thomas-vilte/releasemate/internal/conventional"
	"github.com/thomas-vilte/releasemate/internal/logger"
	"github.com/thomas-vilte/releasemate/internal/models"
	"github.com/thomas-vilte/releasemate/internal/updaters"
	"github.com/thomas-vilte/releasemate/internal/versioning"
)

// nodeStrategy releases the repository as a single npm package.
type nodeStrategy struct {
	opts Options
}

func (s *nodeStrategy) Kind() Kind { return KindNode }

func (s *nodeStrategy) ComputeCandidates(ctx context.Context, _ ManifestReader, in Input) (*Plan, error) {
	log := logger.FromContext(ctx)

	classified := conventional.ClassifyAll(in.Commits)
	currentVersion := ""
	if in.LatestTag != nil {
		currentVersion = in.LatestTag.Version
	}

	bump := versioning.SuggestBump(classified, currentVersion, s.opts.PreMajor)
	log.Debug("bump inferred",
		"release_type", bump.ReleaseType,
		"commits", len(classified),
		"current_version", currentVersion)

	if !bump.IsRelease() && s.opts.ReleaseAs == "" && in.LatestTag != nil {
		return &Plan{Bump: bump}, nil
	}

	candidate, err := versioning.Coerce(in.LatestTag, s.opts.ReleaseAs, bump)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Candidate: candidate,
		Bump:      bump,
		Entry:     changelog.Generate(candidate.Version, in.Date, classified),
	}, nil
}

func (s *nodeStrategy) BuildUpdates(plan *Plan) ([]models.FileUpdate, error) {
	updates := updaters.Node("", s.opts.ChangelogPath, plan.Candidate.Version, plan.Entry)
	if s.opts.VersionFile == "" {
		return updates, nil
	}

	versionFile, err := updaters.VersionFile(s.opts.VersionFile, plan.Candidate.Version, s.opts.VersionPattern)
	if err != nil {
		return nil, err
	}
	return append(updates, versionFile), nil
}
