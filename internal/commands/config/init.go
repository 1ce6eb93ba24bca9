package config

import (
	"context"
	"errors"
	"os"

	"github.com/thomas-vilte/releasemate/internal/commands/completion_helper"
	"github.com/thomas-vilte/releasemate/internal/config"
	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/i18n"
	"github.com/thomas-vilte/releasemate/internal/logger"
	"github.com/thomas-vilte/releasemate/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newInitCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: t.GetMessage("config_init_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   t.GetMessage("flag_force_usage", 0, nil),
			},
			&cli.StringFlag{
				Name:  "repo",
				Usage: t.GetMessage("flag_repo_usage", 0, nil),
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: t.GetMessage("flag_provider_usage", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        c.initConfigAction(cfg, t),
	}
}

// initConfigAction writes a default configuration to the --config path. An existing file is
// kept unless --force is given.
func (c *ConfigCommandFactory) initConfigAction(cfg *config.Config, t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		path := cfg.PathFile
		if path == "" {
			path = config.DefaultPath
		}
		data := map[string]interface{}{"path": path}

		_, err := os.Stat(path)
		switch {
		case err == nil && !command.Bool("force"):
			ui.PrintWarning(c.out, t.GetMessage("config_exists", 0, data))
			return nil
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return domainErrors.ErrInvalidConfig.WithError(err).WithContext("path", path)
		}

		fresh := config.Default(path)
		fresh.Language = cfg.Language
		fresh.Repo = cfg.Repo
		if repo := command.String("repo"); repo != "" {
			fresh.Repo = repo
		}
		if fresh.Repo == "" && c.detectRepo != nil {
			repo, provider, err := c.detectRepo(ctx)
			if err != nil {
				logger.Warn(ctx, "could not detect repository", "error", err)
				ui.HandleAppError(c.out, err)
			} else {
				fresh.Repo = repo
				fresh.Provider = provider
			}
		}
		if provider := command.String("provider"); provider != "" {
			fresh.Provider = provider
		}
		fresh.SetDefaults()

		logger.Info(ctx, "writing configuration",
			"path", path,
			"provider", fresh.Provider,
			"repo", fresh.Repo)

		if err := config.SaveConfig(fresh); err != nil {
			return err
		}
		ui.PrintSuccess(c.out, t.GetMessage("config_created", 0, data))
		return nil
	}
}
