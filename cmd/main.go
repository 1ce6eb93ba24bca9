package main

import (
	"context"
	"fmt"
	"os"

	"github.com/thomas-vilte/releasemate/internal/cli/registry"
	configCmd "github.com/thomas-vilte/releasemate/internal/commands/config"
	"github.com/thomas-vilte/releasemate/internal/commands/release"
	cfg "github.com/thomas-vilte/releasemate/internal/config"
	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/git"
	"github.com/thomas-vilte/releasemate/internal/i18n"
	"github.com/thomas-vilte/releasemate/internal/logger"
	"github.com/thomas-vilte/releasemate/internal/providers"
	"github.com/thomas-vilte/releasemate/internal/ui"
	"github.com/thomas-vilte/releasemate/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		ui.HandleAppError(os.Stderr, err)
		os.Exit(1)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		ui.HandleAppError(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode lets CI tell a broken setup (2) apart from a failed run (1).
func exitCode(err error) int {
	if typ, ok := domainErrors.TypeOf(err); ok && typ == domainErrors.TypeConfiguration {
		return 2
	}
	return 1
}

func initializeApp() (*cli.Command, error) {
	translations, err := i18n.NewTranslations(cfg.LangEN, "")
	if err != nil {
		return nil, fmt.Errorf("error loading translations: %w", err)
	}

	// Filled in by Before once --config is known.
	cfgApp := &cfg.Config{}

	registerCommand := registry.NewRegistry(cfgApp, translations)

	factories := []struct {
		name    string
		factory registry.CommandFactory
	}{
		{"release-pr", release.NewReleasePRCommandFactory(providers.NewRepositoryHost, release.WithProgress(os.Stderr))},
		{"preview", release.NewPreviewCommandFactory(providers.NewRepositoryHost, release.WithProgress(os.Stderr))},
		{"github-release", release.NewGitHubReleaseCommandFactory(providers.NewRepositoryHost, release.WithProgress(os.Stderr))},
		{"config", configCmd.NewConfigCommandFactory(configCmd.WithRepoDetector(git.NewGitService(".").GetRepoInfo))},
	}
	for _, f := range factories {
		if err := registerCommand.Register(f.name, f.factory); err != nil {
			return nil, fmt.Errorf("error registering command '%s': %w", f.name, err)
		}
	}

	return &cli.Command{
		Name:        "releasemate",
		Usage:       translations.GetMessage("app_usage", 0, nil),
		Version:     version.FullVersion(),
		Description: translations.GetMessage("app_description", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   translations.GetMessage("flag_config_usage", 0, nil),
				Value:   cfg.DefaultPath,
				Sources: cli.EnvVars("RELEASEMATE_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: translations.GetMessage("flag_debug_usage", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: translations.GetMessage("flag_verbose_usage", 0, nil),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger.Initialize(logger.Options{Debug: cmd.Bool("debug"), Verbose: cmd.Bool("verbose")})

			loaded, err := cfg.ReadConfig(cmd.String("config"))
			if err != nil {
				return ctx, err
			}
			*cfgApp = *loaded

			if cfg.IsSupportedLanguage(cfgApp.Language) {
				if err := translations.SetLanguage(cfgApp.Language); err != nil {
					logger.Warn(ctx, "language not available", "language", cfgApp.Language, "error", err)
				}
			}
			return ctx, nil
		},
		Commands:              registerCommand.CreateCommands(),
		EnableShellCompletion: true,
	}, nil
}
