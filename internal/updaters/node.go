package updaters

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/models"
	"github.com/thomas-vilte/releasemate/internal/regex"
	"github.com/thomas-vilte/releasemate/internal/versioning"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type manifest struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Packages map[string]struct {
		Version string `json:"version"`
	} `json:"packages"`
}

// ReadManifestVersion returns the top-level "version" of a package.json-style document.
func ReadManifestVersion(content string) (string, error) {
	var m manifest
	if err := json.UnmarshalFromString(content, &m); err != nil {
		return "", domainErrors.ErrManifestVersion.WithError(err)
	}
	if strings.TrimSpace(m.Version) == "" {
		return "", domainErrors.ErrManifestVersion
	}
	return m.Version, nil
}

// PackageJSON rewrites the top-level version of a package.json, keeping the rest of the
// document byte for byte.
func PackageJSON(path, version string) models.FileUpdate {
	return models.FileUpdate{
		Path: path,
		Update: func(old string) (string, error) {
			return setManifestVersion(old, version)
		},
	}
}

// PackageLockJSON rewrites a package-lock.json: the top-level version and, for lockfile v2+,
// the root entry of "packages". The lock file is optional.
func PackageLockJSON(path, version string) models.FileUpdate {
	return models.FileUpdate{
		Path:     path,
		Optional: true,
		Update: func(old string) (string, error) {
			updated, err := setManifestVersion(old, version)
			if err != nil {
				return "", err
			}

			var m manifest
			if err := json.UnmarshalFromString(updated, &m); err != nil {
				return "", domainErrors.ErrManifestVersion.WithError(err)
			}
			if root, ok := m.Packages[""]; !ok || root.Version == "" {
				return updated, nil
			}

			loc := regex.LockRootPackage.FindStringIndex(updated)
			if loc == nil {
				return updated, nil
			}
			return replaceObjectVersion(updated, loc[1], version)
		},
	}
}

func setManifestVersion(old, version string) (string, error) {
	if _, err := ReadManifestVersion(old); err != nil {
		return "", err
	}
	return replaceObjectVersion(old, strings.IndexByte(old, '{')+1, version)
}

// replaceObjectVersion rewrites the "version" member of the object whose body starts at
// from. Members of nested objects and arrays are left alone.
func replaceObjectVersion(content string, from int, version string) (string, error) {
	start, end, ok := objectVersionSpan(content, from)
	if !ok {
		return "", domainErrors.ErrManifestVersion
	}
	return content[:start] + versioning.Normalize(version) + content[end:], nil
}

// objectVersionSpan returns the bounds of the "version" string value at depth 1, scanning
// from just after the object's opening brace.
func objectVersionSpan(content string, from int) (int, int, bool) {
	depth := 1
	for i := from; i < len(content) && depth > 0; {
		switch content[i] {
		case '{', '[':
			depth++
			i++
		case '}', ']':
			depth--
			i++
		case '"':
			end := closingQuote(content, i)
			if end < 0 {
				return 0, 0, false
			}
			if depth == 1 && content[i+1:end] == "version" {
				j := skipSpace(content, end+1)
				if j < len(content) && content[j] == ':' {
					j = skipSpace(content, j+1)
					if j < len(content) && content[j] == '"' {
						vend := closingQuote(content, j)
						if vend < 0 {
							return 0, 0, false
						}
						return j + 1, vend, true
					}
				}
			}
			i = end + 1
		default:
			i++
		}
	}
	return 0, 0, false
}

func closingQuote(s string, open int) int {
	for j := open + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"':
			return j
		}
	}
	return -1
}

func skipSpace(s string, i int) int {
	for i < len(s) && strings.ContainsRune(" \t\r\n", rune(s[i])) {
		i++
	}
	return i
}
