package release

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	cfg "github.com/thomas-vilte/releasemate/internal/config"
	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/i18n"
	"github.com/thomas-vilte/releasemate/internal/models"
	"github.com/thomas-vilte/releasemate/internal/services"
	"github.com/thomas-vilte/releasemate/internal/vcs"
	"github.com/urfave/cli/v3"
)

func newTranslations(t *testing.T) *i18n.Translations {
	t.Helper()
	color.NoColor = true
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return trans
}

func newConfig() *cfg.Config {
	conf := &cfg.Config{Repo: "test-owner/test-repo", Token: "token"}
	conf.SetDefaults()
	return conf
}

func hostFactory(host vcs.RepositoryHost, calls *int) HostFactory {
	return func(context.Context, *cfg.Config) (vcs.RepositoryHost, error) {
		*calls++
		return host, nil
	}
}

func runApp(t *testing.T, command *cli.Command, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "releasemate", Commands: []*cli.Command{command}}
	return app.Run(context.Background(), append([]string{"releasemate"}, args...))
}

func runAction(t *testing.T, action cli.ActionFunc, args ...string) error {
	t.Helper()
	return runApp(t, &cli.Command{
		Name:   "release-pr",
		Flags:  []cli.Flag{&cli.BoolFlag{Name: "dry-run"}},
		Action: action,
	}, append([]string{"release-pr"}, args...)...)
}

func TestReleasePRAction(t *testing.T) {
	t.Run("prints rendered files for a dry run", func(t *testing.T) {
		var out bytes.Buffer
		svc := new(MockRunner)
		svc.On("Run", mock.Anything).Return(&models.RunResult{
			Status:   models.StatusDryRun,
			Version:  "1.3.0",
			Rendered: []models.RenderedFile{{Path: "CHANGELOG.md", Content: "## 1.3.0\n"}},
		}, nil)

		err := runAction(t, releasePRAction(svc, &out, newTranslations(t)), "--dry-run")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "--- CHANGELOG.md")
		assert.Contains(t, out.String(), "version: 1.3.0")
		svc.AssertExpectations(t)
	})

	t.Run("opened pr prints nothing extra", func(t *testing.T) {
		var out bytes.Buffer
		svc := new(MockRunner)
		svc.On("Run", mock.Anything).Return(&models.RunResult{Status: models.StatusPROpened, Version: "1.3.0", PRNumber: 9}, nil)

		err := runAction(t, releasePRAction(svc, &out, newTranslations(t)))

		require.NoError(t, err)
		assert.Empty(t, out.String())
	})

	t.Run("halted run is not an error", func(t *testing.T) {
		svc := new(MockRunner)
		svc.On("Run", mock.Anything).Return(&models.RunResult{Status: models.StatusNothingToRelease}, nil)

		err := runAction(t, releasePRAction(svc, &bytes.Buffer{}, newTranslations(t)))

		assert.NoError(t, err)
	})

	t.Run("service error is returned", func(t *testing.T) {
		svc := new(MockRunner)
		svc.On("Run", mock.Anything).Return(nil, domainErrors.ErrOpenPR)

		err := runAction(t, releasePRAction(svc, &bytes.Buffer{}, newTranslations(t)))

		assert.ErrorIs(t, err, domainErrors.ErrOpenPR)
	})
}

func TestPublishReleaseAction(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		finalizer := new(MockRunner)
		finalizer.On("Run", mock.Anything).Return(&models.RunResult{Status: models.StatusReleaseCreated, Version: "1.0.0"}, nil)

		err := runApp(t, &cli.Command{Name: "github-release", Action: publishReleaseAction(finalizer)}, "github-release")

		assert.NoError(t, err)
		finalizer.AssertExpectations(t)
	})

	t.Run("failure", func(t *testing.T) {
		finalizer := new(MockRunner)
		finalizer.On("Run", mock.Anything).Return(nil, errors.New("boom"))

		err := runApp(t, &cli.Command{Name: "github-release", Action: publishReleaseAction(finalizer)}, "github-release")

		assert.EqualError(t, err, "boom")
	})
}

func TestReleasePRCommand(t *testing.T) {
	t.Run("pending release halts with a warning", func(t *testing.T) {
		var out bytes.Buffer
		calls := 0
		host := new(services.MockRepositoryHost)
		host.On("FindMergedReleasePR", mock.Anything, []string{"autorelease: pending"}).
			Return(&models.ReleasePR{Number: 12, Version: "2.0.0"}, nil)
		conf := newConfig()

		cmd := NewReleasePRCommandFactory(hostFactory(host, &calls), WithOutput(&out)).CreateCommand(newTranslations(t), conf)
		err := runApp(t, cmd, "release-pr")

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Contains(t, out.String(), "! Release PR #12 (2.0.0) is merged but not tagged yet")
		host.AssertExpectations(t)
	})

	t.Run("invalid configuration never reaches the host", func(t *testing.T) {
		calls := 0
		conf := newConfig()
		conf.Repo = ""

		cmd := NewReleasePRCommandFactory(hostFactory(nil, &calls), WithOutput(&bytes.Buffer{})).CreateCommand(newTranslations(t), conf)
		err := runApp(t, cmd, "release-pr")

		assert.ErrorIs(t, err, domainErrors.ErrRepositoryMissing)
		assert.Zero(t, calls)
	})

	t.Run("release-as flag overrides configuration", func(t *testing.T) {
		calls := 0
		conf := newConfig()

		cmd := NewReleasePRCommandFactory(hostFactory(nil, &calls), WithOutput(&bytes.Buffer{})).CreateCommand(newTranslations(t), conf)
		err := runApp(t, cmd, "release-pr", "--release-as", "not-a-version")

		assert.ErrorIs(t, err, domainErrors.ErrInvalidConfig)
		assert.Equal(t, "not-a-version", conf.ReleaseAs)
		assert.Zero(t, calls)
	})

	t.Run("host factory error is returned", func(t *testing.T) {
		factory := func(context.Context, *cfg.Config) (vcs.RepositoryHost, error) {
			return nil, domainErrors.ErrTokenMissing
		}

		cmd := NewReleasePRCommandFactory(factory, WithOutput(&bytes.Buffer{})).CreateCommand(newTranslations(t), newConfig())
		err := runApp(t, cmd, "release-pr")

		assert.ErrorIs(t, err, domainErrors.ErrTokenMissing)
	})
}

func TestPreviewCommand(t *testing.T) {
	var out bytes.Buffer
	calls := 0
	host := new(services.MockRepositoryHost)
	host.On("FindMergedReleasePR", mock.Anything, mock.Anything).Return(nil, nil)
	host.On("LatestTag", mock.Anything).Return(&models.Tag{Name: "v1.0.0", SHA: "abc", Version: "1.0.0"}, nil)
	host.On("CommitsSinceSHA", mock.Anything, "abc").Return([]*models.Commit{}, nil)

	cmd := NewPreviewCommandFactory(hostFactory(host, &calls), WithOutput(&out)).CreateCommand(newTranslations(t), newConfig())
	err := runApp(t, cmd, "preview")

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Nothing to release since commit abc")
	host.AssertNotCalled(t, "OpenPR", mock.Anything, mock.Anything)
}

func TestGitHubReleaseCommand(t *testing.T) {
	var out bytes.Buffer
	calls := 0
	host := new(services.MockRepositoryHost)
	host.On("FindMergedReleasePR", mock.Anything, []string{"autorelease: pending"}).Return(nil, nil)

	cmd := NewGitHubReleaseCommandFactory(hostFactory(host, &calls), WithOutput(&out)).CreateCommand(newTranslations(t), newConfig())
	err := runApp(t, cmd, "github-release")

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, out.String(), "No merged release PR found")
	host.AssertExpectations(t)
}
