package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/thomas-vilte/releasemate/internal/changelog"
	"github.com/thomas-vilte/releasemate/internal/conventional"
	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/logger"
	"github.com/thomas-vilte/releasemate/internal/models"
	"github.com/thomas-vilte/releasemate/internal/updaters"
	"github.com/thomas-vilte/releasemate/internal/versioning"
	"golang.org/x/sync/errgroup"
)

// releaseCommit forces a top-level bump in monorepo mode so every run has a repository version
// to name the branch and tag after.
var releaseCommit = models.Commit{Message: "fix: release"}

// monorepoStrategy releases every npm package under the configured layout independently.
type monorepoStrategy struct {
	opts Options
}

type packageOutcome struct {
	release *models.PackageRelease
	skip    *Skip
}

func (s *monorepoStrategy) Kind() Kind { return KindMonorepo }

func (s *monorepoStrategy) ComputeCandidates(ctx context.Context, reader ManifestReader, in Input) (*Plan, error) {
	log := logger.FromContext(ctx)

	topBump := versioning.SuggestBump(conventional.ClassifyAll([]*models.Commit{&releaseCommit}), "", false)
	candidate, err := versioning.Coerce(in.LatestTag, s.opts.ReleaseAs, topBump)
	if err != nil {
		return nil, err
	}

	split := s.opts.Splitter.Split(in.Commits)
	keys := split.Buckets.Keys
	log.Debug("commits partitioned",
		"packages", len(keys),
		"unassigned", len(split.Unassigned),
		"convention", s.opts.Splitter.Convention)

	outcomes := make([]packageOutcome, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	if s.opts.Concurrency > 0 {
		g.SetLimit(s.opts.Concurrency)
	}
	for i, key := range keys {
		g.Go(func() error {
			outcome, err := s.releasePackage(gctx, reader, key, split.Buckets.For(key), in)
			if err != nil {
				return err
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	plan := &Plan{
		Candidate:  candidate,
		Bump:       topBump,
		Unassigned: split.Unassigned,
	}
	for _, o := range outcomes {
		if o.skip != nil {
			plan.Skipped = append(plan.Skipped, *o.skip)
			continue
		}
		plan.Packages = append(plan.Packages, *o.release)
	}
	plan.Entry = rootEntry(candidate.Version, in, plan.Packages)

	return plan, nil
}

func (s *monorepoStrategy) releasePackage(ctx context.Context, reader ManifestReader, key string, commits []*models.Commit, in Input) (packageOutcome, error) {
	log := logger.FromContext(ctx).With("package", key)

	manifestPath := key + "/" + s.opts.PackageManifest
	content, err := reader.GetFileContents(ctx, manifestPath)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			log.Warn("package has no version record, skipping", "path", manifestPath)
			return packageOutcome{skip: &Skip{Key: key, Reason: SkipNoManifest}}, nil
		}
		return packageOutcome{}, err
	}

	current, err := updaters.ReadManifestVersion(content)
	if err != nil || !versioning.IsValid(current) {
		log.Warn("package version record is not readable, skipping", "path", manifestPath, "error", err)
		return packageOutcome{skip: &Skip{Key: key, Reason: SkipInvalidManifest}}, nil
	}

	classified := conventional.ClassifyAll(commits)
	bump := versioning.SuggestBump(classified, current, s.opts.PreMajor)
	if !bump.IsRelease() {
		log.Debug("package has no releasable commits", "commits", len(commits))
		return packageOutcome{skip: &Skip{Key: key, Reason: SkipNoChanges}}, nil
	}

	pkgCandidate, err := versioning.Coerce(&models.Tag{Name: key + "-v" + versioning.Normalize(current), Version: current}, "", bump)
	if err != nil {
		return packageOutcome{}, err
	}

	entry := changelog.Generate(pkgCandidate.Version, in.Date, classified)
	if entry.IsEmpty() {
		return packageOutcome{skip: &Skip{Key: key, Reason: SkipNoChanges}}, nil
	}

	log.Debug("package candidate computed",
		"current_version", current,
		"next_version", pkgCandidate.Version,
		"release_type", bump.ReleaseType)

	return packageOutcome{release: &models.PackageRelease{
		Key:            key,
		CurrentVersion: versioning.Normalize(current),
		Candidate:      pkgCandidate,
		Entry:          entry,
	}}, nil
}

// rootEntry summarizes package releases under the repository version. Each package becomes one
// section holding its bullets in section order.
func rootEntry(version string, in Input, packages []models.PackageRelease) models.ChangelogEntry {
	entry := models.ChangelogEntry{Version: versioning.Normalize(version), Date: in.Date}
	for _, pkg := range packages {
		section := models.ChangelogSection{Title: fmt.Sprintf("%s %s", pkg.Key, pkg.Candidate.Version)}
		for _, s := range pkg.Entry.Sections {
			section.Bullets = append(section.Bullets, s.Bullets...)
		}
		entry.Sections = append(entry.Sections, section)
	}
	return entry
}

func (s *monorepoStrategy) BuildUpdates(plan *Plan) ([]models.FileUpdate, error) {
	updates := []models.FileUpdate{updaters.Changelog(s.opts.ChangelogPath, plan.Entry)}
	for _, pkg := range plan.Packages {
		updates = append(updates, updaters.Changelog(pkg.Key+"/"+s.opts.ChangelogPath, pkg.Entry))
		updates = append(updates, updaters.PackageJSON(pkg.Key+"/"+s.opts.PackageManifest, pkg.Candidate.Version))
		updates = append(updates, updaters.PackageLockJSON(pkg.Key+"/"+updaters.PackageLock, pkg.Candidate.Version))
	}
	return updates, nil
}
