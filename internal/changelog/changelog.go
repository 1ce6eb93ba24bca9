// Package changelog renders changelog entries from classified commits and reads previously
// written entries back out of a changelog document.
package changelog

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/models"
	"github.com/thomas-vilte/releasemate/internal/regex"
	"github.com/thomas-vilte/releasemate/internal/versioning"
)

const (
	SectionBreaking    = "Breaking Changes"
	SectionFeatures    = "Features"
	SectionBugFixes    = "Bug Fixes"
	SectionPerformance = "Performance"
	SectionOther       = "Other"

	defaultHeader = "# Changelog"
)

var sectionOrder = []string{
	SectionBreaking,
	SectionFeatures,
	SectionBugFixes,
	SectionPerformance,
	SectionOther,
}

// Generate builds the entry for version from classified commits. Bullets keep the order of
// commits within each section; empty sections are omitted.
func Generate(version string, date time.Time, commits []models.ClassifiedCommit) models.ChangelogEntry {
	bullets := make(map[string][]string, len(sectionOrder))
	for _, c := range commits {
		section, ok := sectionFor(c)
		if !ok {
			continue
		}
		bullets[section] = append(bullets[section], formatBullet(c))
	}

	entry := models.ChangelogEntry{
		Version: versioning.Normalize(version),
		Date:    date,
	}
	for _, title := range sectionOrder {
		if len(bullets[title]) == 0 {
			continue
		}
		entry.Sections = append(entry.Sections, models.ChangelogSection{
			Title:   title,
			Bullets: bullets[title],
		})
	}
	return entry
}

func sectionFor(c models.ClassifiedCommit) (string, bool) {
	if c.Type == models.CommitOther {
		return "", false
	}
	if c.Breaking {
		return SectionBreaking, true
	}
	switch c.Type {
	case models.CommitFeat:
		return SectionFeatures, true
	case models.CommitFix:
		return SectionBugFixes, true
	case models.CommitPerf:
		return SectionPerformance, true
	case models.CommitRefactor, models.CommitDocs:
		return SectionOther, true
	}
	return "", false
}

func formatBullet(c models.ClassifiedCommit) string {
	line := ""
	if c.Scope != "" {
		line += fmt.Sprintf("**%s:** ", c.Scope)
	}
	line += c.Description
	if sha := c.ShortSHA(); sha != "" {
		line += fmt.Sprintf(" (%s)", sha)
	}
	return line
}

// Extract returns the body of the section headed by version, without its heading.
func Extract(document, version string) (string, error) {
	want := versioning.Normalize(version)
	lines := strings.Split(strings.ReplaceAll(document, "\r\n", "\n"), "\n")

	start, end := -1, len(lines)
	for i, line := range lines {
		if start < 0 {
			if headingMatches(line, want) {
				start = i + 1
			}
			continue
		}
		if isBoundary(line) {
			end = i
			break
		}
	}

	if start < 0 {
		return "", domainErrors.ErrReleaseNotesNotFound.
			WithError(domainErrors.ErrNotFound).
			WithContext("version", want)
	}
	return strings.TrimSpace(strings.Join(lines[start:end], "\n")), nil
}

func headingMatches(line, version string) bool {
	if !strings.HasPrefix(line, "## ") {
		return false
	}
	rest := strings.TrimLeft(line[len("## "):], " ")
	rest = strings.TrimPrefix(rest, "[")
	rest = strings.TrimPrefix(rest, "v")
	if !strings.HasPrefix(rest, version) {
		return false
	}
	tail := rest[len(version):]
	if tail == "" {
		return true
	}
	next := rune(tail[0])
	return !(unicode.IsLetter(next) || unicode.IsDigit(next) || strings.ContainsRune(".-+", next))
}

func isBoundary(line string) bool {
	return regex.VersionHeading.MatchString(line) || regex.NumberedHeading.MatchString(line)
}

// Prepend places entry above every previous entry, below the document title.
func Prepend(document string, entry models.ChangelogEntry) string {
	newContent := strings.TrimSpace(entry.String())
	current := strings.TrimSpace(document)

	if current == "" {
		return defaultHeader + "\n\n" + newContent + "\n"
	}

	var sb strings.Builder
	if strings.HasPrefix(current, "## ") {
		sb.WriteString(newContent)
		sb.WriteString("\n\n")
		sb.WriteString(current)
		sb.WriteString("\n")
		return sb.String()
	}

	idx := strings.Index(current, "\n## ")
	if idx != -1 {
		sb.WriteString(strings.TrimSpace(current[:idx]))
		sb.WriteString("\n\n")
		sb.WriteString(newContent)
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(current[idx:]))
		sb.WriteString("\n")
		return sb.String()
	}

	if strings.HasPrefix(current, "# ") {
		sb.WriteString(current)
		sb.WriteString("\n\n")
		sb.WriteString(newContent)
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(defaultHeader)
	sb.WriteString("\n\n")
	sb.WriteString(newContent)
	sb.WriteString("\n\n")
	sb.WriteString(current)
	sb.WriteString("\n")
	return sb.String()
}
