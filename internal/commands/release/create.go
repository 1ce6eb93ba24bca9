package release

import (
	"context"
	"io"

	"github.com/thomas-vilte/releasemate/internal/commands/completion_helper"
	cfg "github.com/thomas-vilte/releasemate/internal/config"
	"github.com/thomas-vilte/releasemate/internal/i18n"
	"github.com/thomas-vilte/releasemate/internal/logger"
	"github.com/thomas-vilte/releasemate/internal/models"
	"github.com/thomas-vilte/releasemate/internal/services"
	"github.com/thomas-vilte/releasemate/internal/strategy"
	"github.com/thomas-vilte/releasemate/internal/ui"
	"github.com/urfave/cli/v3"
)

type ReleasePRCommandFactory struct {
	base
}

func NewReleasePRCommandFactory(newHost HostFactory, opts ...Option) *ReleasePRCommandFactory {
	return &ReleasePRCommandFactory{base: newBase(newHost, opts)}
}

func (f *ReleasePRCommandFactory) CreateCommand(t *i18n.Translations, conf *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:    "release-pr",
		Aliases: []string{"pr"},
		Usage:   t.GetMessage("release_pr_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: t.GetMessage("flag_dry_run_usage", 0, nil),
			},
			releaseAsFlag(t),
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyReleaseAs(cmd, conf)
			svc, sess, err := f.newReleasePRService(ctx, t, conf, cmd.Bool("dry-run"))
			if err != nil {
				return err
			}
			return releasePRAction(sess.wrap(svc), f.out, t)(sess.ctx, cmd)
		},
	}
}

func (b *base) newReleasePRService(ctx context.Context, t *i18n.Translations, conf *cfg.Config, dryRun bool) (*services.ReleasePRService, *session, error) {
	sess, err := b.start(ctx, t, conf)
	if err != nil {
		return nil, nil, err
	}

	svc, err := services.NewReleasePRService(
		sess.host,
		strategy.Kind(conf.Strategy),
		conf.StrategyOptions(),
		services.WithReporter(sess.reporter),
		services.WithLabels(conf.Labels),
		services.WithDryRun(dryRun),
	)
	if err != nil {
		return nil, nil, err
	}
	return svc, sess, nil
}

func releasePRAction(svc runner, out io.Writer, t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		done := logger.Track(ctx, cmd.Name, "dry_run", cmd.Bool("dry-run"))

		result, err := svc.Run(ctx)
		if err != nil {
			done(err)
			return err
		}
		done(nil, "status", result.Status, "version", result.Version, "pr_number", result.PRNumber)

		if result.Status == models.StatusDryRun {
			ui.PrintDryRun(out, t, result)
		}
		return nil
	}
}

func releaseAsFlag(t *i18n.Translations) cli.Flag {
	return &cli.StringFlag{
		Name:  "release-as",
		Usage: t.GetMessage("flag_release_as_usage", 0, nil),
	}
}

// applyReleaseAs lets --release-as win over the configuration file.
func applyReleaseAs(cmd *cli.Command, conf *cfg.Config) {
	if v := cmd.String("release-as"); v != "" {
		conf.ReleaseAs = v
	}
}
