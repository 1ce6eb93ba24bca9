package models

type (
	// ReleasePR is a release pull request as seen on the host. The host owns its lifecycle.
	ReleasePR struct {
		Number  int
		SHA     string
		Version string
		Labels  []string
	}

	// UpdateFunc produces the new contents of a file from its current contents. An empty old
	// value means the file does not exist yet.
	UpdateFunc func(old string) (string, error)

	// FileUpdate is one file a release touches.
	FileUpdate struct {
		Path string
		// Optional updates are skipped when the file does not exist on the base branch.
		Optional bool
		Update   UpdateFunc
	}

	// OpenPROptions carries everything the host needs to open a release pull request.
	OpenPROptions struct {
		Branch  string
		Version string
		SHA     string
		Title   string
		Body    string
		Labels  []string
		Updates []FileUpdate
	}
)
