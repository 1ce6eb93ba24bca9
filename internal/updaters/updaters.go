// Package updaters builds the file updates a release pull request carries.
package updaters

import (
	"github.com/thomas-vilte/releasemate/internal/changelog"
	"github.com/thomas-vilte/releasemate/internal/models"
)

const (
	DefaultChangelogPath = "CHANGELOG.md"
	PackageManifest      = "package.json"
	PackageLock          = "package-lock.json"
)

// Changelog prepends entry to the changelog at path, creating it when missing.
func Changelog(path string, entry models.ChangelogEntry) models.FileUpdate {
	return models.FileUpdate{
		Path: path,
		Update: func(old string) (string, error) {
			return changelog.Prepend(old, entry), nil
		},
	}
}

// Node returns the updates of a single npm package rooted at dir ("" for the repository root).
func Node(dir, changelogPath, version string, entry models.ChangelogEntry) []models.FileUpdate {
	return []models.FileUpdate{
		Changelog(join(dir, changelogPath), entry),
		PackageJSON(join(dir, PackageManifest), version),
		PackageLockJSON(join(dir, PackageLock), version),
	}
}

func join(dir, file string) string {
	if dir == "" || dir == "." {
		return file
	}
	return dir + "/" + file
}
