package providers

import (
	"context"

	"github.com/thomas-vilte/releasemate/internal/config"
	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/logger"
	"github.com/thomas-vilte/releasemate/internal/vcs"
	"github.com/thomas-vilte/releasemate/internal/vcs/github"
	"github.com/thomas-vilte/releasemate/internal/vcs/gitlab"
)

// NewRepositoryHost creates the RepositoryHost for the configured provider.
func NewRepositoryHost(ctx context.Context, cfg *config.Config) (vcs.RepositoryHost, error) {
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}

	logger.Debug(ctx, "creating repository host",
		"provider", cfg.Provider,
		"repo", cfg.Repo,
		"base_url", cfg.BaseURL)

	switch cfg.Provider {
	case config.ProviderGitHub:
		client, err := github.NewGitHubClient(cfg.Owner(), cfg.Name(), cfg.Token, cfg.BaseURL,
			github.WithBranch(cfg.Branch),
			github.WithConcurrency(cfg.Concurrency))
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderGitLab:
		client, err := gitlab.NewGitLabClient(cfg.Repo, cfg.Token, cfg.BaseURL,
			gitlab.WithBranch(cfg.Branch),
			gitlab.WithConcurrency(cfg.Concurrency))
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, domainErrors.ErrUnsupportedProvider.WithContext("provider", cfg.Provider)
	}
}
