package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/releasemate/internal/config"
	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/i18n"
	"github.com/urfave/cli/v3"
)

func setupConfigTest(t *testing.T) (*config.Config, *i18n.Translations, string) {
	t.Helper()
	color.NoColor = true
	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), ".releasemate.toml")
	cfg := config.Default(path)
	return cfg, translations, path
}

func runConfig(t *testing.T, cfg *config.Config, translations *i18n.Translations, args ...string) (string, error) {
	t.Helper()
	return runConfigWith(t, cfg, translations, nil, args...)
}

func runConfigWith(t *testing.T, cfg *config.Config, translations *i18n.Translations, detect RepoDetector, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewConfigCommandFactory(WithOutput(&out), WithRepoDetector(detect)).CreateCommand(translations, cfg)
	app := &cli.Command{Name: "releasemate", Commands: []*cli.Command{cmd}}
	err := app.Run(context.Background(), append([]string{"releasemate", "config"}, args...))
	return out.String(), err
}

func TestInitCommand(t *testing.T) {
	t.Run("should write default configuration", func(t *testing.T) {
		cfg, translations, path := setupConfigTest(t)

		out, err := runConfig(t, cfg, translations, "init", "--repo", "owner/name", "--provider", "gitlab")

		require.NoError(t, err)
		assert.Contains(t, out, "✓ Configuration written to "+path)

		saved, err := config.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "owner/name", saved.Repo)
		assert.Equal(t, config.ProviderGitLab, saved.Provider)
		assert.Equal(t, "node", saved.Strategy)
	})

	t.Run("should keep existing file without force", func(t *testing.T) {
		cfg, translations, path := setupConfigTest(t)
		require.NoError(t, os.WriteFile(path, []byte(`repo = "keep/me"`), 0644))

		out, err := runConfig(t, cfg, translations, "init", "--repo", "owner/name")

		require.NoError(t, err)
		assert.Contains(t, out, "already exists")
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, `repo = "keep/me"`, string(content))
	})

	t.Run("should overwrite with force", func(t *testing.T) {
		cfg, translations, path := setupConfigTest(t)
		require.NoError(t, os.WriteFile(path, []byte(`repo = "old/repo"`), 0644))

		_, err := runConfig(t, cfg, translations, "init", "--force", "--repo", "new/repo")

		require.NoError(t, err)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `repo = "new/repo"`)
	})

	t.Run("should detect repository from the git remote", func(t *testing.T) {
		cfg, translations, path := setupConfigTest(t)
		detect := func(context.Context) (string, string, error) {
			return "group/sub/project", config.ProviderGitLab, nil
		}

		_, err := runConfigWith(t, cfg, translations, detect, "init")

		require.NoError(t, err)
		saved, err := config.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "group/sub/project", saved.Repo)
		assert.Equal(t, config.ProviderGitLab, saved.Provider)
	})

	t.Run("should still write when detection fails", func(t *testing.T) {
		cfg, translations, path := setupConfigTest(t)
		detect := func(context.Context) (string, string, error) {
			return "", "", domainErrors.ErrRemoteNotDetected
		}

		out, err := runConfigWith(t, cfg, translations, detect, "init")

		require.NoError(t, err)
		assert.Contains(t, out, "Could not detect the repository")
		assert.FileExists(t, path)
	})

	t.Run("should never write the token", func(t *testing.T) {
		cfg, translations, path := setupConfigTest(t)
		cfg.Token = "secret"
		cfg.Repo = "owner/name"

		_, err := runConfig(t, cfg, translations, "init")

		require.NoError(t, err)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(content), "secret")
	})
}

func TestShowCommand(t *testing.T) {
	t.Run("should mask the token", func(t *testing.T) {
		cfg, translations, _ := setupConfigTest(t)
		cfg.Repo = "owner/name"
		cfg.Token = "secret"

		out, err := runConfig(t, cfg, translations, "show")

		require.NoError(t, err)
		assert.Contains(t, out, "repo: owner/name")
		assert.Contains(t, out, "token: set")
		assert.NotContains(t, out, "secret")
		assert.NotContains(t, out, "monorepo.root")
	})

	t.Run("should show monorepo settings and validation problems", func(t *testing.T) {
		cfg, translations, _ := setupConfigTest(t)
		cfg.Strategy = "monorepo"

		out, err := runConfig(t, cfg, translations, "show")

		require.NoError(t, err)
		assert.Contains(t, out, "monorepo.root: packages")
		assert.Contains(t, out, "token: not set")
		assert.Contains(t, out, "Repository is not configured")
	})
}
