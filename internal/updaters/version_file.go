package updaters

import (
	"path/filepath"
	"regexp"
	"strings"

	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/models"
	"github.com/thomas-vilte/releasemate/internal/regex"
	"github.com/thomas-vilte/releasemate/internal/versioning"
)

// VersionFile rewrites the version string of an arbitrary source or manifest file. A custom
// pattern must capture the version in its first group; without one the patterns of the file's
// language are tried in order.
func VersionFile(path, version, pattern string) (models.FileUpdate, error) {
	var patterns []regex.VersionPattern
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return models.FileUpdate{}, domainErrors.ErrInvalidConfig.
				WithError(err).
				WithDetail("version_pattern does not compile")
		}
		if re.NumSubexp() < 1 {
			return models.FileUpdate{}, domainErrors.ErrInvalidConfig.
				WithDetail("version_pattern needs a capture group around the version")
		}
		patterns = []regex.VersionPattern{{Name: "custom", Pattern: re}}
	} else {
		patterns = regex.LanguageVersionPatterns[DetectLanguage(path)]
	}

	return models.FileUpdate{
		Path: path,
		Update: func(old string) (string, error) {
			return replaceVersion(old, path, versioning.Normalize(version), patterns)
		},
	}, nil
}

func replaceVersion(content, path, version string, patterns []regex.VersionPattern) (string, error) {
	for _, p := range patterns {
		loc := p.Pattern.FindStringSubmatchIndex(content)
		if loc == nil || loc[2] < 0 {
			continue
		}
		if !versioning.IsValid(content[loc[2]:loc[3]]) {
			continue
		}
		return content[:loc[2]] + version + content[loc[3]:], nil
	}
	return "", domainErrors.ErrVersionPattern.WithDetail(path)
}

// DetectLanguage maps a file name to the pattern family used for it.
func DetectLanguage(path string) string {
	filename := strings.ToLower(filepath.Base(path))
	switch filename {
	case "package.json", "package-lock.json":
		return "js"
	case "composer.json":
		return "php"
	case "cargo.toml":
		return "rust"
	case "pom.xml", "gradle.properties":
		return "java"
	case "setup.py", "pyproject.toml":
		return "python"
	}

	extToLang := map[string]string{
		".go":      "go",
		".py":      "python",
		".js":      "js",
		".ts":      "js",
		".json":    "js",
		".rs":      "rust",
		".toml":    "rust",
		".xml":     "java",
		".cs":      "csharp",
		".csproj":  "csharp",
		".props":   "csharp",
		".php":     "php",
		".rb":      "ruby",
		".gemspec": "ruby",
	}
	if lang, ok := extToLang[filepath.Ext(filename)]; ok {
		return lang
	}
	return "unknown"
}
