package models

type ReleaseType string

const (
	ReleaseNone  ReleaseType = "none"
	ReleaseMajor ReleaseType = "major"
	ReleaseMinor ReleaseType = "minor"
	ReleasePatch ReleaseType = "patch"
)

type (
	// BumpDecision is the semantic-version component a set of commits calls for.
	BumpDecision struct {
		ReleaseType ReleaseType
	}

	// Tag is a release tag on the repository host.
	Tag struct {
		Name    string
		SHA     string
		Version string
	}

	// ReleaseCandidate is a computed next version. It is never persisted.
	ReleaseCandidate struct {
		Version     string
		PreviousTag string
	}

	// PackageRelease is the outcome of one monorepo package pipeline.
	PackageRelease struct {
		Key            string
		CurrentVersion string
		Candidate      ReleaseCandidate
		Entry          ChangelogEntry
	}
)

// IsRelease reports whether the decision warrants a release.
func (b BumpDecision) IsRelease() bool {
	return b.ReleaseType != "" && b.ReleaseType != ReleaseNone
}
