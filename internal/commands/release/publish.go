package release

import (
	"context"

	"github.com/thomas-vilte/releasemate/internal/commands/completion_helper"
	cfg "github.com/thomas-vilte/releasemate/internal/config"
	"github.com/thomas-vilte/releasemate/internal/i18n"
	"github.com/thomas-vilte/releasemate/internal/logger"
	"github.com/thomas-vilte/releasemate/internal/services"
	"github.com/urfave/cli/v3"
)

// GitHubReleaseCommandFactory tags a merged release PR. It works for every provider; the name
// is kept for compatibility with existing workflows.
type GitHubReleaseCommandFactory struct {
	base
}

func NewGitHubReleaseCommandFactory(newHost HostFactory, opts ...Option) *GitHubReleaseCommandFactory {
	return &GitHubReleaseCommandFactory{base: newBase(newHost, opts)}
}

func (f *GitHubReleaseCommandFactory) CreateCommand(t *i18n.Translations, conf *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:          "github-release",
		Aliases:       []string{"publish"},
		Usage:         t.GetMessage("github_release_usage", 0, nil),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sess, err := f.start(ctx, t, conf)
			if err != nil {
				return err
			}
			finalizer := services.NewReleaseFinalizer(
				sess.host,
				services.WithFinalizerReporter(sess.reporter),
				services.WithFinalizerLabels(conf.Labels),
				services.WithTaggedLabel(conf.TaggedLabel),
				services.WithChangelogPath(conf.ChangelogPath),
			)
			return publishReleaseAction(sess.wrap(finalizer))(sess.ctx, cmd)
		},
	}
}

func publishReleaseAction(finalizer runner) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		done := logger.Track(ctx, cmd.Name)

		result, err := finalizer.Run(ctx)
		if err != nil {
			done(err)
			return err
		}
		done(nil, "status", result.Status, "version", result.Version, "pr_number", result.PRNumber)
		return nil
	}
}
