package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConventionalCommit(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		match    bool
		kind     string
		scope    string
		breaking bool
		desc     string
	}{
		{"type only", "fix: null pointer", true, "fix", "", false, "null pointer"},
		{"with scope", "feat(api): add endpoint", true, "feat", "api", false, "add endpoint"},
		{"bang", "feat!: remove legacy API", true, "feat", "", true, "remove legacy API"},
		{"scope and bang", "refactor(core)!: rename", true, "refactor", "core", true, "rename"},
		{"no colon", "update readme", false, "", "", false, ""},
		{"merge commit", "Merge pull request #12 from foo/bar", false, "", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ConventionalCommit.FindStringSubmatch(tt.input)
			if !tt.match {
				assert.Nil(t, m)
				return
			}
			if assert.NotNil(t, m) {
				assert.Equal(t, tt.kind, m[1])
				assert.Equal(t, tt.scope, m[3])
				assert.Equal(t, tt.breaking, m[4] == "!")
				assert.Equal(t, tt.desc, m[5])
			}
		})
	}
}

func TestReleaseBranch(t *testing.T) {
	m := ReleaseBranch.FindStringSubmatch("release-v1.2.3")
	assert.Equal(t, []string{"release-v1.2.3", "1.2.3"}, m)

	m = ReleaseBranch.FindStringSubmatch("release-v2.0.0-rc.1")
	assert.Equal(t, "2.0.0-rc.1", m[1])

	assert.False(t, ReleaseBranch.MatchString("feature/release-v1.2.3"))
}

func TestSemVer(t *testing.T) {
	assert.True(t, SemVer.MatchString("v1.2.3"))
	assert.True(t, SemVer.MatchString("0.9.0"))
	assert.True(t, SemVer.MatchString("1.0.0-beta.1+build.5"))
	assert.False(t, SemVer.MatchString("1.2"))
	assert.False(t, SemVer.MatchString("release-1.2.3"))
}

func TestGitHubPR(t *testing.T) {
	m := GitHubPR.FindStringSubmatch("fix: null pointer (#1)")
	assert.Equal(t, "1", m[1])
	assert.Nil(t, GitHubPR.FindStringSubmatch("fix: see (#1) for context"))
}

func TestNumberedHeading(t *testing.T) {
	assert.True(t, NumberedHeading.MatchString("### 2.9.9 (2020-01-01)"))
	assert.True(t, NumberedHeading.MatchString("### [1.0.0](https://example.com)"))
	assert.False(t, NumberedHeading.MatchString("### 2FA"))
	assert.False(t, NumberedHeading.MatchString("### 3d-engine 1.0.1"))
	assert.False(t, NumberedHeading.MatchString("### Bug Fixes"))
}

func TestLanguageVersionPatterns(t *testing.T) {
	for lang, patterns := range LanguageVersionPatterns {
		for _, p := range patterns {
			assert.GreaterOrEqual(t, p.Pattern.NumSubexp(), 1, "%s/%s", lang, p.Name)
		}
	}
	m := LanguageVersionPatterns["go"][0].Pattern.FindStringSubmatch(`const Version = "1.4.0"`)
	assert.Equal(t, "1.4.0", m[1])
}
