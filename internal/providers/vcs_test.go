package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/releasemate/internal/config"
	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/vcs/github"
	"github.com/thomas-vilte/releasemate/internal/vcs/gitlab"
)

func newConfig(provider string) *config.Config {
	cfg := &config.Config{Provider: provider, Repo: "owner/name", Token: "token"}
	cfg.SetDefaults()
	return cfg
}

func TestNewRepositoryHost(t *testing.T) {
	ctx := context.Background()

	t.Run("github", func(t *testing.T) {
		host, err := NewRepositoryHost(ctx, newConfig(config.ProviderGitHub))

		require.NoError(t, err)
		assert.IsType(t, &github.GitHubClient{}, host)
	})

	t.Run("github enterprise", func(t *testing.T) {
		cfg := newConfig(config.ProviderGitHub)
		cfg.BaseURL = "https://github.example.com/api/v3/"

		host, err := NewRepositoryHost(ctx, cfg)

		require.NoError(t, err)
		assert.NotNil(t, host)
	})

	t.Run("gitlab", func(t *testing.T) {
		host, err := NewRepositoryHost(ctx, newConfig(config.ProviderGitLab))

		require.NoError(t, err)
		assert.IsType(t, &gitlab.GitLabClient{}, host)
	})

	t.Run("token is required", func(t *testing.T) {
		cfg := newConfig(config.ProviderGitHub)
		cfg.Token = ""

		host, err := NewRepositoryHost(ctx, cfg)

		assert.ErrorIs(t, err, domainErrors.ErrTokenMissing)
		assert.Nil(t, host)
	})

	t.Run("unknown provider", func(t *testing.T) {
		host, err := NewRepositoryHost(ctx, newConfig("bitbucket"))

		assert.ErrorIs(t, err, domainErrors.ErrUnsupportedProvider)
		assert.Nil(t, host)
	})
}
