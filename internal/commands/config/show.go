package config

import (
	"context"
	"strconv"
	"strings"

	"github.com/thomas-vilte/releasemate/internal/config"
	"github.com/thomas-vilte/releasemate/internal/i18n"
	"github.com/thomas-vilte/releasemate/internal/strategy"
	"github.com/thomas-vilte/releasemate/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config_show_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			ui.PrintSectionBanner(c.out, t.GetMessage("current_config", 0, map[string]interface{}{"path": cfg.PathFile}))

			token := t.GetMessage("token_not_set", 0, nil)
			if cfg.Token != "" {
				token = t.GetMessage("token_set", 0, nil)
			}

			ui.PrintKeyValue(c.out, "provider", cfg.Provider)
			ui.PrintKeyValue(c.out, "repo", cfg.Repo)
			if cfg.BaseURL != "" {
				ui.PrintKeyValue(c.out, "base_url", cfg.BaseURL)
			}
			ui.PrintKeyValue(c.out, "token", token)
			if cfg.Branch != "" {
				ui.PrintKeyValue(c.out, "branch", cfg.Branch)
			}
			ui.PrintKeyValue(c.out, "language", cfg.Language)
			ui.PrintKeyValue(c.out, "strategy", cfg.Strategy)
			ui.PrintKeyValue(c.out, "pre_major", strconv.FormatBool(cfg.PreMajor))
			if cfg.ReleaseAs != "" {
				ui.PrintKeyValue(c.out, "release_as", cfg.ReleaseAs)
			}
			ui.PrintKeyValue(c.out, "labels", strings.Join(cfg.Labels, ", "))
			ui.PrintKeyValue(c.out, "tagged_label", cfg.TaggedLabel)
			ui.PrintKeyValue(c.out, "changelog_path", cfg.ChangelogPath)
			ui.PrintKeyValue(c.out, "package_manifest", cfg.PackageManifest)
			if cfg.VersionFile != "" {
				ui.PrintKeyValue(c.out, "version_file", cfg.VersionFile)
			}
			if cfg.Strategy == string(strategy.KindMonorepo) {
				ui.PrintKeyValue(c.out, "monorepo.convention", cfg.Monorepo.Convention)
				ui.PrintKeyValue(c.out, "monorepo.root", cfg.Monorepo.Root)
				if cfg.Monorepo.Marker != "" {
					ui.PrintKeyValue(c.out, "monorepo.marker", cfg.Monorepo.Marker)
				}
			}
			ui.PrintKeyValue(c.out, "concurrency", strconv.Itoa(cfg.Concurrency))

			if err := cfg.Validate(); err != nil {
				ui.HandleAppError(c.out, err)
			}
			return nil
		},
	}
}
