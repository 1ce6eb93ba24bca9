package models

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type (
	// ChangelogSection is one "### Title" block of a changelog entry.
	ChangelogSection struct {
		Title   string
		Bullets []string
	}

	// ChangelogEntry is the Markdown release notes for one version.
	ChangelogEntry struct {
		Version  string
		Date     time.Time
		Sections []ChangelogSection
	}
)

func (e ChangelogEntry) Heading() string {
	return fmt.Sprintf("## %s (%s)", e.Version, e.Date.Format(dateLayout))
}

// IsEmpty reports whether the entry has no user-facing bullet. A serialized empty entry is the
// heading line alone.
func (e ChangelogEntry) IsEmpty() bool {
	for _, s := range e.Sections {
		if len(s.Bullets) > 0 {
			return false
		}
	}
	return true
}

// Lines renders the entry as Markdown lines, heading first.
func (e ChangelogEntry) Lines() []string {
	lines := []string{e.Heading()}
	lines = append(lines, e.bodyLines()...)
	return lines
}

// Body renders the entry without its heading line.
func (e ChangelogEntry) Body() string {
	return strings.TrimSpace(strings.Join(e.bodyLines(), "\n"))
}

func (e ChangelogEntry) String() string {
	return strings.Join(e.Lines(), "\n")
}

func (e ChangelogEntry) bodyLines() []string {
	var lines []string
	for _, s := range e.Sections {
		if len(s.Bullets) == 0 {
			continue
		}
		lines = append(lines, "", fmt.Sprintf("### %s", s.Title), "")
		for _, b := range s.Bullets {
			lines = append(lines, "* "+b)
		}
	}
	return lines
}
