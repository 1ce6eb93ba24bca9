package release

import (
	"context"
	"io"
	"os"

	cfg "github.com/thomas-vilte/releasemate/internal/config"
	"github.com/thomas-vilte/releasemate/internal/i18n"
	"github.com/thomas-vilte/releasemate/internal/logger"
	"github.com/thomas-vilte/releasemate/internal/models"
	"github.com/thomas-vilte/releasemate/internal/ui"
	"github.com/thomas-vilte/releasemate/internal/vcs"
)

// runner is what the release-pr and github-release actions need from a service.
type runner interface {
	Run(ctx context.Context) (*models.RunResult, error)
}

// HostFactory creates the repository host for a validated configuration.
type HostFactory func(ctx context.Context, cfg *cfg.Config) (vcs.RepositoryHost, error)

type base struct {
	newHost  HostFactory
	out      io.Writer
	progress *os.File
}

type Option func(*base)

func WithOutput(w io.Writer) Option {
	return func(b *base) {
		b.out = w
	}
}

// WithProgress shows a spinner on f while a run talks to the host.
func WithProgress(f *os.File) Option {
	return func(b *base) {
		b.progress = f
	}
}

func newBase(newHost HostFactory, opts []Option) base {
	b := base{newHost: newHost, out: os.Stdout}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

type session struct {
	ctx      context.Context
	host     vcs.RepositoryHost
	reporter *ui.ConsoleReporter
	spinner  *ui.SmartSpinner
}

// start validates the configuration, tags the context with a run id and connects to the host.
func (b *base) start(ctx context.Context, t *i18n.Translations, conf *cfg.Config) (*session, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	ctx, _ = logger.WithRun(ctx, conf.Repo)
	logger.Info(ctx, "starting run",
		"provider", conf.Provider,
		"strategy", conf.Strategy,
		"config", conf.PathFile)

	host, err := b.newHost(ctx, conf)
	if err != nil {
		return nil, err
	}

	s := &session{ctx: ctx, host: host}
	var opts []ui.ReporterOption
	if b.progress != nil {
		s.spinner = ui.NewSmartSpinner(b.progress, t.GetMessage("progress_starting", 0, nil))
		opts = append(opts, ui.WithSpinner(s.spinner))
	}
	s.reporter = ui.NewConsoleReporter(b.out, t, opts...)
	return s, nil
}

// wrap keeps the spinner running only while svc runs.
func (s *session) wrap(svc runner) runner {
	if s.spinner == nil {
		return svc
	}
	return spinningRunner{runner: svc, spinner: s.spinner}
}

type spinningRunner struct {
	runner
	spinner *ui.SmartSpinner
}

func (r spinningRunner) Run(ctx context.Context) (*models.RunResult, error) {
	r.spinner.Start()
	defer r.spinner.Stop()
	return r.runner.Run(ctx)
}
