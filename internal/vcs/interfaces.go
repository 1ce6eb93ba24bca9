package vcs

import (
	"context"

	"github.com/thomas-vilte/releasemate/internal/models"
)

// RepositoryHost is everything the release engine needs from a hosting provider. A release pull
// request is recognized only by carrying every configured label.
type RepositoryHost interface {
	// FindMergedReleasePR returns the most recently merged release PR, or nil when there is none.
	FindMergedReleasePR(ctx context.Context, labels []string) (*models.ReleasePR, error)
	// FindOpenReleasePRs returns all open release PRs.
	FindOpenReleasePRs(ctx context.Context, labels []string) ([]models.ReleasePR, error)
	// LatestTag returns the highest semantic-version tag, or nil when the repository has none.
	LatestTag(ctx context.Context) (*models.Tag, error)
	// CommitsSinceSHA returns commits newer than sha on the release branch, newest first. An empty
	// sha means the full history.
	CommitsSinceSHA(ctx context.Context, sha string) ([]*models.Commit, error)
	// GetFileContents reads a file on the release branch. Missing files yield errors.ErrNotFound.
	GetFileContents(ctx context.Context, path string) (string, error)
	// OpenPR writes the updates to the release branch and opens (or refreshes) the PR.
	OpenPR(ctx context.Context, opts models.OpenPROptions) (int, error)
	AddLabels(ctx context.Context, number int, labels []string) error
	ClosePR(ctx context.Context, number int) error
	RemoveLabels(ctx context.Context, labels []string, number int) error
	// CreateRelease creates tag at sha and publishes notes as the release body.
	CreateRelease(ctx context.Context, tag, sha, notes string) error
}
