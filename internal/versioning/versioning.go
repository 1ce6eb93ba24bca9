// Package versioning infers semantic-version bumps and resolves release candidates.
package versioning

import (
	"fmt"
	"strconv"
	"strings"

	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/models"
	"github.com/thomas-vilte/releasemate/internal/regex"
	"golang.org/x/mod/semver"
)

// InitialVersion is used when the repository has no release tag yet.
const InitialVersion = "1.0.0"

// SuggestBump reduces classified commits to a single bump. Only the presence of each category
// matters, never commit order.
func SuggestBump(commits []models.ClassifiedCommit, currentVersion string, preMajor bool) models.BumpDecision {
	var breaking, feature, fix bool
	for _, c := range commits {
		if c.Type == models.CommitOther {
			continue
		}
		if c.Breaking {
			breaking = true
		}
		switch c.Type {
		case models.CommitFeat:
			feature = true
		case models.CommitFix, models.CommitPerf:
			fix = true
		}
	}

	switch {
	case breaking:
		if preMajor && majorOf(currentVersion) == 0 {
			return models.BumpDecision{ReleaseType: models.ReleaseMinor}
		}
		return models.BumpDecision{ReleaseType: models.ReleaseMajor}
	case feature:
		return models.BumpDecision{ReleaseType: models.ReleaseMinor}
	case fix:
		return models.BumpDecision{ReleaseType: models.ReleasePatch}
	default:
		return models.BumpDecision{ReleaseType: models.ReleaseNone}
	}
}

// Coerce turns the latest tag, an explicit override and a bump into the next version.
func Coerce(latest *models.Tag, override string, bump models.BumpDecision) (models.ReleaseCandidate, error) {
	previousTag := ""
	if latest != nil {
		previousTag = latest.Name
	}

	if override != "" {
		return models.ReleaseCandidate{Version: override, PreviousTag: previousTag}, nil
	}

	if latest == nil {
		return models.ReleaseCandidate{Version: InitialVersion}, nil
	}

	next, err := Increment(latest.Version, bump.ReleaseType)
	if err != nil {
		return models.ReleaseCandidate{}, err
	}

	return models.ReleaseCandidate{Version: next, PreviousTag: previousTag}, nil
}

// Increment applies a release type to a semantic version. Prerelease and build metadata are
// dropped. The result has no "v" prefix.
func Increment(version string, releaseType models.ReleaseType) (string, error) {
	clean := Normalize(version)
	if !IsValid(clean) {
		return "", domainErrors.ErrVersionIncrement.
			WithError(domainErrors.ErrInvalidVersion).
			WithContext("version", version)
	}

	matches := regex.SemVer.FindStringSubmatch(clean)
	major, _ := strconv.Atoi(matches[1])
	minor, _ := strconv.Atoi(matches[2])
	patch, _ := strconv.Atoi(matches[3])

	switch releaseType {
	case models.ReleaseMajor:
		major++
		minor = 0
		patch = 0
	case models.ReleaseMinor:
		minor++
		patch = 0
	case models.ReleasePatch:
		patch++
	default:
		return "", domainErrors.ErrVersionIncrement.
			WithContext("version", version).
			WithContext("release_type", string(releaseType))
	}

	return fmt.Sprintf("%d.%d.%d", major, minor, patch), nil
}

// Normalize strips a leading "v" and surrounding whitespace.
func Normalize(version string) string {
	return strings.TrimPrefix(strings.TrimSpace(version), "v")
}

// IsValid reports whether version is a full X.Y.Z semantic version, with or without "v".
func IsValid(version string) bool {
	clean := Normalize(version)
	return regex.SemVer.MatchString(clean) && semver.IsValid("v"+clean)
}

// Compare orders two versions with or without "v" prefix.
func Compare(a, b string) int {
	return semver.Compare("v"+Normalize(a), "v"+Normalize(b))
}

func majorOf(version string) int {
	matches := regex.SemVer.FindStringSubmatch(Normalize(version))
	if matches == nil {
		return -1
	}
	major, _ := strconv.Atoi(matches[1])
	return major
}
