// Package strategy holds the release modes the orchestrator can run in. The set is closed:
// adding a mode means adding a Kind and a case in New.
package strategy

import (
	"context"
	"time"

	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/models"
	"github.com/thomas-vilte/releasemate/internal/monorepo"
	"github.com/thomas-vilte/releasemate/internal/updaters"
)

type Kind string

const (
	KindNode     Kind = "node"
	KindMonorepo Kind = "monorepo"
)

// Kinds lists every supported release mode.
var Kinds = []Kind{KindNode, KindMonorepo}

// ManifestReader reads files from the release branch.
type ManifestReader interface {
	GetFileContents(ctx context.Context, path string) (string, error)
}

type Options struct {
	PreMajor        bool
	ReleaseAs       string
	ChangelogPath   string
	PackageManifest string
	VersionFile     string
	VersionPattern  string
	Splitter        monorepo.Splitter
	Concurrency     int
}

// Input is the repository state one run works from.
type Input struct {
	// Commits since the latest tag, newest first.
	Commits   []*models.Commit
	LatestTag *models.Tag
	Date      time.Time
}

type SkipReason string

const (
	SkipNoManifest      SkipReason = "no_version_record"
	SkipInvalidManifest SkipReason = "invalid_version_record"
	SkipNoChanges       SkipReason = "no_user_facing_changes"
)

type Skip struct {
	Key    string
	Reason SkipReason
}

// Plan is what a strategy decided to release.
type Plan struct {
	Candidate models.ReleaseCandidate
	Bump      models.BumpDecision
	// Entry is written to the root changelog and becomes the release PR body.
	Entry    models.ChangelogEntry
	Packages []models.PackageRelease
	Skipped  []Skip
	// Unassigned commits touched no package. Only monorepo plans fill it.
	Unassigned []*models.Commit
}

// IsEmpty reports whether the plan has no user-facing change, in which case no PR is opened.
func (p *Plan) IsEmpty() bool {
	return p.Entry.IsEmpty()
}

type Strategy interface {
	Kind() Kind
	ComputeCandidates(ctx context.Context, reader ManifestReader, in Input) (*Plan, error)
	BuildUpdates(plan *Plan) ([]models.FileUpdate, error)
}

// New returns the strategy for kind.
func New(kind Kind, opts Options) (Strategy, error) {
	if opts.ChangelogPath == "" {
		opts.ChangelogPath = updaters.DefaultChangelogPath
	}
	if opts.PackageManifest == "" {
		opts.PackageManifest = updaters.PackageManifest
	}

	switch kind {
	case KindNode:
		return &nodeStrategy{opts: opts}, nil
	case KindMonorepo:
		return &monorepoStrategy{opts: opts}, nil
	default:
		return nil, domainErrors.ErrUnrecognizedReleaseMode.WithContext("strategy", string(kind))
	}
}
