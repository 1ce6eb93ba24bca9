package models

type CommitType string

const (
	CommitFeat     CommitType = "feat"
	CommitFix      CommitType = "fix"
	CommitChore    CommitType = "chore"
	CommitDocs     CommitType = "docs"
	CommitRefactor CommitType = "refactor"
	CommitPerf     CommitType = "perf"
	CommitBreaking CommitType = "breaking"
	CommitOther    CommitType = "other"
)

type (
	// Commit is a commit as fetched from the repository host. It is not modified after fetch.
	Commit struct {
		SHA     string
		Message string
		Files   []string
	}

	// ClassifiedCommit is the conventional-commit reading of a Commit message.
	ClassifiedCommit struct {
		SHA         string
		Type        CommitType
		Scope       string
		Breaking    bool
		Description string
		PRNumber    string
	}
)

// ShortSHA returns the abbreviated sha used in changelog bullets.
func (c ClassifiedCommit) ShortSHA() string {
	if len(c.SHA) > 7 {
		return c.SHA[:7]
	}
	return c.SHA
}

// PackageBucket groups commits by package key. Commits touching several packages appear in each
// of their buckets as the same pointer.
type PackageBucket struct {
	Keys    []string
	Commits map[string][]*Commit
}

// For returns the commits assigned to key, in fetch order.
func (b PackageBucket) For(key string) []*Commit {
	return b.Commits[key]
}
