package errors

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeVCS           ErrorType = "VCS"
	TypeRelease       ErrorType = "RELEASE"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError is a categorized error with an optional cause and a hint for the user.
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

const detailKey = "detail"

func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	if d := e.Detail(); d != "" {
		msg += " - " + d
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches errors derived from the same sentinel, so decorated copies still satisfy
// errors.Is against the package-level variables.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// Detail is the human readable explanation attached with WithDetail, if any.
func (e *AppError) Detail() string {
	d, _ := e.Context[detailKey].(string)
	return d
}

// clone copies e so sentinels are never mutated. Context is copied lazily by WithContext.
func (e *AppError) clone() *AppError {
	c := *e
	return &c
}

func (e *AppError) WithError(err error) *AppError {
	c := e.clone()
	c.Err = err
	return c
}

func (e *AppError) WithContext(key string, value interface{}) *AppError {
	c := e.clone()
	c.Context = make(map[string]interface{}, len(e.Context)+1)
	for k, v := range e.Context {
		c.Context[k] = v
	}
	c.Context[key] = value
	return c
}

func (e *AppError) WithDetail(detail string) *AppError {
	return e.WithContext(detailKey, detail)
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	c := e.clone()
	c.Suggestion = suggestion
	return c
}

func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// TypeOf reports the category of the first AppError in err's chain.
func TypeOf(err error) (ErrorType, bool) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return "", false
	}
	return appErr.Type, true
}

// Configuration errors
var (
	ErrConfigMissing = NewAppError(TypeConfiguration, "Configuration is missing", nil).
				WithSuggestion("Initialize configuration: releasemate config init")

	ErrInvalidConfig = NewAppError(TypeConfiguration, "Configuration is invalid", nil).
				WithSuggestion("Review .releasemate.toml or run: releasemate config init")

	ErrTokenMissing = NewAppError(TypeConfiguration, "Repository host token is missing", nil).
			WithSuggestion("Set token in .releasemate.toml or export RELEASEMATE_TOKEN")

	ErrRepositoryMissing = NewAppError(TypeConfiguration, "Repository is not configured", nil).
				WithSuggestion("Set repo = \"owner/name\" in .releasemate.toml or export RELEASEMATE_REPO")

	ErrUnrecognizedReleaseMode = NewAppError(TypeConfiguration, "Release strategy is not recognized", nil).
					WithSuggestion("Supported strategies: node, monorepo")

	ErrUnsupportedProvider = NewAppError(TypeConfiguration, "Repository host provider is not supported", nil).
				WithSuggestion("Supported providers: github, gitlab")

	ErrRemoteNotDetected = NewAppError(TypeConfiguration, "Could not detect the repository from the git remote", nil).
				WithSuggestion("Pass --repo owner/name or run inside a clone with an origin remote")
)

// Release errors
var (
	ErrNotFound = NewAppError(TypeVCS, "not found", nil)

	ErrReleaseNotesNotFound = NewAppError(TypeRelease, "release notes not found in changelog", nil).
				WithSuggestion("Make sure the merged release PR included the generated changelog entry")

	ErrVersionIncrement = NewAppError(TypeRelease, "version increment produced no value", nil).
				WithSuggestion("Check that the latest tag is a valid semantic version (vX.Y.Z)")

	ErrInvalidVersion = NewAppError(TypeRelease, "version is not a valid semantic version", nil)

	ErrManifestVersion = NewAppError(TypeRelease, "manifest has no readable version", nil).
				WithSuggestion("Make sure the package manifest is valid JSON with a top-level \"version\" field")

	ErrVersionPattern = NewAppError(TypeRelease, "version pattern not found in file", nil).
				WithSuggestion("Set version_pattern in .releasemate.toml to match the version line")
)

// VCS errors
var (
	ErrRepositoryNotFound = NewAppError(TypeVCS, "repository not found", nil).
				WithSuggestion("Check repository name and access permissions")

	ErrListTags = NewAppError(TypeVCS, "failed to list tags", nil)

	ErrListCommits = NewAppError(TypeVCS, "failed to list commits", nil)

	ErrListPRs = NewAppError(TypeVCS, "failed to list pull requests", nil)

	ErrGetFile = NewAppError(TypeVCS, "failed to get file contents", nil)

	ErrOpenPR = NewAppError(TypeVCS, "failed to open release pull request", nil).
			WithSuggestion("Check the token can push branches and open pull requests")

	ErrUpdateLabels = NewAppError(TypeVCS, "failed to update pull request labels", nil)

	ErrClosePR = NewAppError(TypeVCS, "failed to close pull request", nil)

	ErrCreateRelease = NewAppError(TypeVCS, "failed to create release", nil).
				WithSuggestion("Check your token has permission to create releases and tags")
)

// Host specific errors
var (
	ErrGitHubTokenInvalid = NewAppError(TypeVCS, "GitHub token is invalid or expired", nil).
				WithSuggestion("Generate a new token at: https://github.com/settings/tokens")

	ErrGitHubInsufficientPerms = NewAppError(TypeVCS, "GitHub token has insufficient permissions", nil).
					WithSuggestion("Token needs 'contents' and 'pull_requests' write access")

	ErrGitHubRateLimit = NewAppError(TypeVCS, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait a few minutes or use a personal access token for higher limits")

	ErrGitLabTokenInvalid = NewAppError(TypeVCS, "GitLab token is invalid or expired", nil).
				WithSuggestion("Create a token with 'api' scope in your GitLab user settings")

	ErrGitLabInsufficientPerms = NewAppError(TypeVCS, "GitLab token has insufficient permissions", nil).
					WithSuggestion("Token needs the 'api' scope and Developer role on the project")

	ErrGitLabRateLimit = NewAppError(TypeVCS, "GitLab API rate limit exceeded", nil).
				WithSuggestion("Wait a few minutes before retrying")
)
