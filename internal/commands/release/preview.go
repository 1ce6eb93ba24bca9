package release

import (
	"context"

	"github.com/thomas-vilte/releasemate/internal/commands/completion_helper"
	cfg "github.com/thomas-vilte/releasemate/internal/config"
	"github.com/thomas-vilte/releasemate/internal/i18n"
	"github.com/urfave/cli/v3"
)

// PreviewCommandFactory is release-pr in dry-run mode.
type PreviewCommandFactory struct {
	base
}

func NewPreviewCommandFactory(newHost HostFactory, opts ...Option) *PreviewCommandFactory {
	return &PreviewCommandFactory{base: newBase(newHost, opts)}
}

func (f *PreviewCommandFactory) CreateCommand(t *i18n.Translations, conf *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:          "preview",
		Aliases:       []string{"p"},
		Usage:         t.GetMessage("preview_usage", 0, nil),
		Flags:         []cli.Flag{releaseAsFlag(t)},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyReleaseAs(cmd, conf)
			svc, sess, err := f.newReleasePRService(ctx, t, conf, true)
			if err != nil {
				return err
			}
			return releasePRAction(sess.wrap(svc), f.out, t)(sess.ctx, cmd)
		},
	}
}
