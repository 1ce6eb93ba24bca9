package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"
	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/monorepo"
	"github.com/thomas-vilte/releasemate/internal/strategy"
	"github.com/thomas-vilte/releasemate/internal/vcs"
	"github.com/thomas-vilte/releasemate/internal/versioning"
)

type (
	Config struct {
		Provider string `toml:"provider" env:"RELEASEMATE_PROVIDER"`
		Repo     string `toml:"repo" env:"RELEASEMATE_REPO"`
		BaseURL  string `toml:"base_url,omitempty" env:"RELEASEMATE_BASE_URL"`
		Token    string `toml:"token,omitempty" env:"RELEASEMATE_TOKEN,GITHUB_TOKEN,GITLAB_TOKEN"`
		Branch   string `toml:"branch,omitempty" env:"RELEASEMATE_BRANCH"`
		Language string `toml:"language" env:"RELEASEMATE_LANGUAGE"`

		Strategy        string   `toml:"strategy" env:"RELEASEMATE_STRATEGY"`
		PreMajor        bool     `toml:"pre_major" env:"RELEASEMATE_PRE_MAJOR"`
		ReleaseAs       string   `toml:"release_as,omitempty" env:"RELEASEMATE_RELEASE_AS"`
		Labels          []string `toml:"labels" env:"RELEASEMATE_LABELS" env-separator:","`
		TaggedLabel     string   `toml:"tagged_label" env:"RELEASEMATE_TAGGED_LABEL"`
		ChangelogPath   string   `toml:"changelog_path" env:"RELEASEMATE_CHANGELOG_PATH"`
		PackageManifest string   `toml:"package_manifest" env:"RELEASEMATE_PACKAGE_MANIFEST"`
		VersionFile     string   `toml:"version_file,omitempty" env:"RELEASEMATE_VERSION_FILE"`
		VersionPattern  string   `toml:"version_pattern,omitempty" env:"RELEASEMATE_VERSION_PATTERN"`
		Concurrency     int      `toml:"concurrency" env:"RELEASEMATE_CONCURRENCY"`

		Monorepo MonorepoConfig `toml:"monorepo"`

		PathFile string `toml:"-" env:"-"`
	}

	MonorepoConfig struct {
		Convention string `toml:"convention" env:"RELEASEMATE_MONOREPO_CONVENTION"`
		Root       string `toml:"root" env:"RELEASEMATE_MONOREPO_ROOT"`
		Marker     string `toml:"marker,omitempty" env:"RELEASEMATE_MONOREPO_MARKER"`
	}
)

const (
	DefaultPath = ".releasemate.toml"

	ProviderGitHub = "github"
	ProviderGitLab = "gitlab"

	defaultLang            = "en"
	defaultStrategy        = string(strategy.KindNode)
	defaultTaggedLabel     = "autorelease: tagged"
	defaultChangelogPath   = "CHANGELOG.md"
	defaultPackageManifest = "package.json"
	defaultMonorepoRoot    = "packages"
)

var defaultLabels = []string{"autorelease: pending"}

// LoadConfig reads and validates the configuration.
func LoadConfig(path string) (*Config, error) {
	cfg, err := ReadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadConfig reads path (DefaultPath when empty), applies environment overrides and fills in
// defaults without validating. A missing file is not an error: the environment alone may
// configure a run.
func ReadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	var cfg Config
	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, domainErrors.ErrInvalidConfig.
				WithError(err).
				WithContext("path", path)
		}
	case errors.Is(statErr, os.ErrNotExist):
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, domainErrors.ErrInvalidConfig.WithError(err)
		}
	default:
		return nil, domainErrors.ErrInvalidConfig.
			WithError(statErr).
			WithContext("path", path)
	}

	cfg.PathFile = path
	cfg.SetDefaults()
	return &cfg, nil
}

// Default returns the configuration `config init` writes.
func Default(path string) *Config {
	cfg := &Config{PathFile: path}
	cfg.SetDefaults()
	return cfg
}

func (c *Config) SetDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderGitHub
	}
	if c.Language == "" {
		c.Language = defaultLang
	}
	if c.Strategy == "" {
		c.Strategy = defaultStrategy
	}
	if len(c.Labels) == 0 {
		c.Labels = append([]string(nil), defaultLabels...)
	}
	if c.TaggedLabel == "" {
		c.TaggedLabel = defaultTaggedLabel
	}
	if c.ChangelogPath == "" {
		c.ChangelogPath = defaultChangelogPath
	}
	if c.PackageManifest == "" {
		c.PackageManifest = defaultPackageManifest
	}
	if c.Concurrency <= 0 {
		c.Concurrency = vcs.DefaultConcurrency
	}
	if c.Monorepo.Convention == "" {
		c.Monorepo.Convention = string(monorepo.ConventionFirstSegment)
	}
	if c.Monorepo.Root == "" && c.Monorepo.Convention == string(monorepo.ConventionFirstSegment) {
		c.Monorepo.Root = defaultMonorepoRoot
	}
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGitHub, ProviderGitLab:
	default:
		return domainErrors.ErrUnsupportedProvider.WithContext("provider", c.Provider)
	}

	if !IsSupportedLanguage(c.Language) {
		return domainErrors.ErrInvalidConfig.
			WithContext("language", c.Language).
			WithDetail("language must be one of: "+strings.Join(SupportedLanguages(), ", "))
	}

	if c.Repo == "" {
		return domainErrors.ErrRepositoryMissing
	}
	if _, _, ok := splitRepo(c.Repo); !ok {
		return domainErrors.ErrInvalidConfig.
			WithContext("repo", c.Repo).
			WithDetail("repo must look like owner/name")
	}

	if !isKnownStrategy(c.Strategy) {
		return domainErrors.ErrUnrecognizedReleaseMode.WithContext("strategy", c.Strategy)
	}

	if c.ReleaseAs != "" && !versioning.IsValid(c.ReleaseAs) {
		return domainErrors.ErrInvalidConfig.
			WithError(domainErrors.ErrInvalidVersion).
			WithContext("release_as", c.ReleaseAs)
	}

	for _, l := range c.Labels {
		if strings.TrimSpace(l) == "" {
			return domainErrors.ErrInvalidConfig.WithDetail("labels cannot be blank")
		}
	}

	if c.VersionPattern != "" {
		re, err := regexp.Compile(c.VersionPattern)
		if err != nil {
			return domainErrors.ErrInvalidConfig.
				WithError(err).
				WithContext("version_pattern", c.VersionPattern)
		}
		if re.NumSubexp() == 0 {
			return domainErrors.ErrInvalidConfig.
				WithContext("version_pattern", c.VersionPattern).
				WithDetail("version_pattern needs a capture group for the version")
		}
	}

	switch monorepo.Convention(c.Monorepo.Convention) {
	case monorepo.ConventionFirstSegment:
	case monorepo.ConventionMarker:
		if c.Monorepo.Marker == "" {
			return domainErrors.ErrInvalidConfig.WithDetail("monorepo.marker is required for the marker convention")
		}
	default:
		return domainErrors.ErrInvalidConfig.WithContext("monorepo.convention", c.Monorepo.Convention)
	}

	return nil
}

// RequireToken is checked only by commands that talk to the host.
func (c *Config) RequireToken() error {
	if c.Token == "" {
		return domainErrors.ErrTokenMissing.WithContext("provider", c.Provider)
	}
	return nil
}

// Owner and Name split Repo. For GitLab the owner may contain subgroups.
func (c *Config) Owner() string {
	owner, _, _ := splitRepo(c.Repo)
	return owner
}

func (c *Config) Name() string {
	_, name, _ := splitRepo(c.Repo)
	return name
}

func (c *Config) StrategyOptions() strategy.Options {
	return strategy.Options{
		PreMajor:        c.PreMajor,
		ReleaseAs:       c.ReleaseAs,
		ChangelogPath:   c.ChangelogPath,
		PackageManifest: c.PackageManifest,
		VersionFile:     c.VersionFile,
		VersionPattern:  c.VersionPattern,
		Splitter: monorepo.Splitter{
			Convention: monorepo.Convention(c.Monorepo.Convention),
			Root:       c.Monorepo.Root,
			Marker:     c.Monorepo.Marker,
		},
		Concurrency: c.Concurrency,
	}
}

// SaveConfig writes the configuration as TOML. The token is never written.
func SaveConfig(config *Config) error {
	if config.PathFile == "" {
		return domainErrors.ErrConfigMissing.WithDetail("config path is not set")
	}

	toSave := *config
	toSave.Token = ""

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(toSave); err != nil {
		return domainErrors.ErrInvalidConfig.WithError(fmt.Errorf("encode config: %w", err))
	}

	if dir := filepath.Dir(config.PathFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return domainErrors.ErrInvalidConfig.WithError(err).WithContext("path", config.PathFile)
		}
	}
	if err := os.WriteFile(config.PathFile, buf.Bytes(), 0644); err != nil {
		return domainErrors.ErrInvalidConfig.WithError(err).WithContext("path", config.PathFile)
	}
	return nil
}

func isKnownStrategy(name string) bool {
	for _, k := range strategy.Kinds {
		if string(k) == name {
			return true
		}
	}
	return false
}

func splitRepo(repo string) (string, string, bool) {
	idx := strings.LastIndex(repo, "/")
	if idx <= 0 || idx == len(repo)-1 {
		return "", "", false
	}
	return repo[:idx], repo[idx+1:], true
}
