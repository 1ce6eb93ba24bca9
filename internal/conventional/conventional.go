// Package conventional reads commit messages written in the conventional-commit style.
package conventional

import (
	"strings"

	"github.com/thomas-vilte/releasemate/internal/models"
	"github.com/thomas-vilte/releasemate/internal/regex"
)

var knownTypes = map[string]models.CommitType{
	"feat":     models.CommitFeat,
	"fix":      models.CommitFix,
	"chore":    models.CommitChore,
	"docs":     models.CommitDocs,
	"refactor": models.CommitRefactor,
	"perf":     models.CommitPerf,
	"breaking": models.CommitBreaking,
	// conventional aliases that never reach the changelog
	"style":  models.CommitOther,
	"test":   models.CommitOther,
	"build":  models.CommitOther,
	"ci":     models.CommitOther,
	"revert": models.CommitOther,
}

// Classify parses the header of a commit message. It never fails: a header that is not a
// recognized conventional commit yields CommitOther with the first line as description.
func Classify(commit *models.Commit) models.ClassifiedCommit {
	lines := strings.Split(strings.ReplaceAll(commit.Message, "\r\n", "\n"), "\n")
	firstLine := strings.TrimSpace(lines[0])

	unparsed := models.ClassifiedCommit{
		SHA:         commit.SHA,
		Type:        models.CommitOther,
		Description: firstLine,
	}

	matches := regex.ConventionalCommit.FindStringSubmatch(firstLine)
	if matches == nil {
		return unparsed
	}

	commitType, ok := knownTypes[strings.ToLower(matches[1])]
	if !ok {
		return unparsed
	}

	description := strings.TrimSpace(matches[5])
	prNumber := ""
	if pr := regex.GitHubPR.FindStringSubmatch(description); pr != nil {
		prNumber = pr[1]
		description = strings.TrimSpace(regex.GitHubPR.ReplaceAllString(description, ""))
	}

	classified := models.ClassifiedCommit{
		SHA:         commit.SHA,
		Type:        commitType,
		Scope:       strings.TrimSpace(matches[3]),
		Description: description,
		PRNumber:    prNumber,
	}
	if commitType == models.CommitOther {
		classified.Description = firstLine
		return classified
	}

	classified.Breaking = matches[4] == "!" || commitType == models.CommitBreaking || hasBreakingFooter(lines[1:])
	return classified
}

// ClassifyAll classifies commits keeping their order.
func ClassifyAll(commits []*models.Commit) []models.ClassifiedCommit {
	classified := make([]models.ClassifiedCommit, 0, len(commits))
	for _, c := range commits {
		classified = append(classified, Classify(c))
	}
	return classified
}

func hasBreakingFooter(body []string) bool {
	for _, line := range body {
		if regex.BreakingChange.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}
