package config

import (
	"context"
	"io"
	"os"

	"github.com/thomas-vilte/releasemate/internal/config"
	"github.com/thomas-vilte/releasemate/internal/i18n"
	"github.com/urfave/cli/v3"
)

// RepoDetector returns the repository path and provider of the local clone.
type RepoDetector func(ctx context.Context) (string, string, error)

type ConfigCommandFactory struct {
	out        io.Writer
	detectRepo RepoDetector
}

type Option func(*ConfigCommandFactory)

func WithOutput(w io.Writer) Option {
	return func(c *ConfigCommandFactory) {
		c.out = w
	}
}

// WithRepoDetector lets `config init` fill in repo and provider from the git remote.
func WithRepoDetector(d RepoDetector) Option {
	return func(c *ConfigCommandFactory) {
		c.detectRepo = d
	}
}

func NewConfigCommandFactory(opts ...Option) *ConfigCommandFactory {
	c := &ConfigCommandFactory{out: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ConfigCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: t.GetMessage("config_usage", 0, nil),
		Commands: []*cli.Command{
			c.newInitCommand(t, cfg),
			c.newShowCommand(t, cfg),
		},
	}
}
