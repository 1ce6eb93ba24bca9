package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v80/github"
	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/logger"
	"github.com/thomas-vilte/releasemate/internal/models"
	"github.com/thomas-vilte/releasemate/internal/regex"
	"github.com/thomas-vilte/releasemate/internal/vcs"
	"github.com/thomas-vilte/releasemate/internal/versioning"
	"golang.org/x/oauth2"
)

var _ vcs.RepositoryHost = (*GitHubClient)(nil)

const (
	perPage = 100
	// Merged release PRs are looked up among the most recently updated closed PRs only.
	mergedLookupPages = 3
)

type PullRequestsService interface {
	List(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error)
	Create(ctx context.Context, owner, repo string, pull *github.NewPullRequest) (*github.PullRequest, *github.Response, error)
	Edit(ctx context.Context, owner, repo string, number int, pr *github.PullRequest) (*github.PullRequest, *github.Response, error)
}

type IssuesService interface {
	AddLabelsToIssue(ctx context.Context, owner, repo string, number int, labels []string) ([]*github.Label, *github.Response, error)
	RemoveLabelForIssue(ctx context.Context, owner, repo string, number int, label string) (*github.Response, error)
}

type RepositoriesService interface {
	Get(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error)
	ListTags(ctx context.Context, owner, repo string, opts *github.ListOptions) ([]*github.RepositoryTag, *github.Response, error)
	ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error)
	GetCommit(ctx context.Context, owner, repo, sha string, opts *github.ListOptions) (*github.RepositoryCommit, *github.Response, error)
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
	CreateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error)
	UpdateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error)
}

type ReleasesService interface {
	CreateRelease(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, *github.Response, error)
}

type GitService interface {
	GetRef(ctx context.Context, owner, repo, ref string) (*github.Reference, *github.Response, error)
	CreateRef(ctx context.Context, owner, repo string, ref github.CreateRef) (*github.Reference, *github.Response, error)
	UpdateRef(ctx context.Context, owner, repo, ref string, updateRef github.UpdateRef) (*github.Reference, *github.Response, error)
}

type GitHubClient struct {
	prService      PullRequestsService
	issuesService  IssuesService
	repoService    RepositoriesService
	releaseService ReleasesService
	gitService     GitService
	owner          string
	repo           string
	branch         string
	concurrency    int
}

type Option func(*GitHubClient)

// WithBranch sets the release branch. The repository default branch is used otherwise.
func WithBranch(branch string) Option {
	return func(ghc *GitHubClient) {
		ghc.branch = branch
	}
}

// WithConcurrency bounds parallel per-commit requests.
func WithConcurrency(n int) Option {
	return func(ghc *GitHubClient) {
		ghc.concurrency = n
	}
}

// NewGitHubClient builds a client for github.com, or for a GitHub Enterprise server when
// baseURL is set.
func NewGitHubClient(owner, repo, token, baseURL string, opts ...Option) (*GitHubClient, error) {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, domainErrors.ErrInvalidConfig.
				WithError(err).
				WithDetail("base_url is not a valid GitHub Enterprise URL")
		}
	}

	return NewGitHubClientWithServices(
		client.PullRequests,
		client.Issues,
		client.Repositories,
		client.Repositories,
		client.Git,
		owner,
		repo,
		opts...,
	), nil
}

func NewGitHubClientWithServices(
	prService PullRequestsService,
	issuesService IssuesService,
	repoService RepositoriesService,
	releaseService ReleasesService,
	gitService GitService,
	owner string,
	repo string,
	opts ...Option,
) *GitHubClient {
	ghc := &GitHubClient{
		prService:      prService,
		issuesService:  issuesService,
		repoService:    repoService,
		releaseService: releaseService,
		gitService:     gitService,
		owner:          owner,
		repo:           repo,
		concurrency:    vcs.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(ghc)
	}
	return ghc
}

func (ghc *GitHubClient) FindMergedReleasePR(ctx context.Context, labels []string) (*models.ReleasePR, error) {
	base, err := ghc.baseBranch(ctx)
	if err != nil {
		return nil, err
	}

	opts := &github.PullRequestListOptions{
		State:       "closed",
		Base:        base,
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	for page := 0; page < mergedLookupPages; page++ {
		prs, resp, err := ghc.prService.List(ctx, ghc.owner, ghc.repo, opts)
		if err != nil {
			return nil, ghc.handleError(resp, err, domainErrors.ErrListPRs, "list closed pull requests")
		}

		for _, pr := range prs {
			if pr.MergedAt == nil || !hasAllLabels(pr.Labels, labels) {
				continue
			}
			version, ok := versionFromBranch(pr.GetHead().GetRef())
			if !ok {
				continue
			}
			return &models.ReleasePR{
				Number:  pr.GetNumber(),
				SHA:     pr.GetMergeCommitSHA(),
				Version: version,
				Labels:  labelNames(pr.Labels),
			}, nil
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return nil, nil
}

func (ghc *GitHubClient) FindOpenReleasePRs(ctx context.Context, labels []string) ([]models.ReleasePR, error) {
	opts := &github.PullRequestListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var found []models.ReleasePR
	for {
		prs, resp, err := ghc.prService.List(ctx, ghc.owner, ghc.repo, opts)
		if err != nil {
			return nil, ghc.handleError(resp, err, domainErrors.ErrListPRs, "list open pull requests")
		}
		for _, pr := range prs {
			if !hasAllLabels(pr.Labels, labels) {
				continue
			}
			version, _ := versionFromBranch(pr.GetHead().GetRef())
			found = append(found, models.ReleasePR{
				Number:  pr.GetNumber(),
				SHA:     pr.GetHead().GetSHA(),
				Version: version,
				Labels:  labelNames(pr.Labels),
			})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return found, nil
}

// LatestTag returns the highest semantic version among the repository tags.
func (ghc *GitHubClient) LatestTag(ctx context.Context) (*models.Tag, error) {
	opts := &github.ListOptions{PerPage: perPage}

	var latest *models.Tag
	for {
		tags, resp, err := ghc.repoService.ListTags(ctx, ghc.owner, ghc.repo, opts)
		if err != nil {
			return nil, ghc.handleError(resp, err, domainErrors.ErrListTags, "list tags")
		}
		for _, t := range tags {
			name := t.GetName()
			if !versioning.IsValid(name) {
				continue
			}
			if latest == nil || versioning.Compare(name, latest.Name) > 0 {
				latest = &models.Tag{
					Name:    name,
					SHA:     t.GetCommit().GetSHA(),
					Version: versioning.Normalize(name),
				}
			}
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return latest, nil
}

// CommitsSinceSHA walks the release branch from its head until sha. Files are fetched per
// commit on a bounded pool.
func (ghc *GitHubClient) CommitsSinceSHA(ctx context.Context, sha string) ([]*models.Commit, error) {
	log := logger.FromContext(ctx)

	base, err := ghc.baseBranch(ctx)
	if err != nil {
		return nil, err
	}

	opts := &github.CommitsListOptions{
		SHA:         base,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var listed []*github.RepositoryCommit
	reached := false
	for !reached {
		commits, resp, err := ghc.repoService.ListCommits(ctx, ghc.owner, ghc.repo, opts)
		if err != nil {
			return nil, ghc.handleError(resp, err, domainErrors.ErrListCommits, "list commits")
		}
		for _, c := range commits {
			if sha != "" && c.GetSHA() == sha {
				reached = true
				break
			}
			listed = append(listed, c)
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if sha != "" && !reached {
		log.Warn("tag commit not found on release branch, using full history",
			"sha", sha,
			"branch", base)
	}

	return vcs.FetchConcurrently(ctx, len(listed), ghc.concurrency, func(ctx context.Context, i int) (*models.Commit, error) {
		c := listed[i]
		full, resp, err := ghc.repoService.GetCommit(ctx, ghc.owner, ghc.repo, c.GetSHA(), nil)
		if err != nil {
			return nil, ghc.handleError(resp, err, domainErrors.ErrListCommits, "get commit").
				WithContext("sha", c.GetSHA())
		}
		files := make([]string, 0, len(full.Files))
		for _, f := range full.Files {
			files = append(files, f.GetFilename())
		}
		return &models.Commit{
			SHA:     c.GetSHA(),
			Message: c.GetCommit().GetMessage(),
			Files:   files,
		}, nil
	})
}

func (ghc *GitHubClient) GetFileContents(ctx context.Context, path string) (string, error) {
	base, err := ghc.baseBranch(ctx)
	if err != nil {
		return "", err
	}
	content, _, err := ghc.getFile(ctx, path, base)
	return content, err
}

// getFile returns the decoded contents and blob sha of path at ref.
func (ghc *GitHubClient) getFile(ctx context.Context, path, ref string) (string, string, error) {
	file, _, resp, err := ghc.repoService.GetContents(ctx, ghc.owner, ghc.repo, path, &github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", "", domainErrors.ErrNotFound.WithContext("path", path).WithContext("ref", ref)
		}
		return "", "", ghc.handleError(resp, err, domainErrors.ErrGetFile, "get contents").WithContext("path", path)
	}
	if file == nil {
		return "", "", domainErrors.ErrNotFound.
			WithContext("path", path).
			WithDetail("path is a directory")
	}

	content, err := file.GetContent()
	if err != nil {
		return "", "", domainErrors.ErrGetFile.WithError(err).WithContext("path", path)
	}
	return content, file.GetSHA(), nil
}

// OpenPR resets the release branch to opts.SHA, commits every update to it and opens the pull
// request, or refreshes the one already open for the branch.
func (ghc *GitHubClient) OpenPR(ctx context.Context, opts models.OpenPROptions) (int, error) {
	log := logger.FromContext(ctx)

	base, err := ghc.baseBranch(ctx)
	if err != nil {
		return 0, err
	}

	if err := ghc.resetBranch(ctx, opts.Branch, opts.SHA); err != nil {
		return 0, err
	}

	message := opts.Title
	for _, u := range opts.Updates {
		old, blobSHA, err := ghc.getFile(ctx, u.Path, opts.Branch)
		exists := err == nil
		if err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
			return 0, err
		}
		if !exists && u.Optional {
			log.Debug("optional file absent, skipping", "path", u.Path)
			continue
		}

		content, err := u.Update(old)
		if err != nil {
			return 0, domainErrors.ErrOpenPR.WithError(err).WithContext("path", u.Path)
		}
		if exists && content == old {
			continue
		}

		fileOpts := &github.RepositoryContentFileOptions{
			Message: github.Ptr(message),
			Content: []byte(content),
			Branch:  github.Ptr(opts.Branch),
		}
		var resp *github.Response
		if exists {
			fileOpts.SHA = github.Ptr(blobSHA)
			_, resp, err = ghc.repoService.UpdateFile(ctx, ghc.owner, ghc.repo, u.Path, fileOpts)
		} else {
			_, resp, err = ghc.repoService.CreateFile(ctx, ghc.owner, ghc.repo, u.Path, fileOpts)
		}
		if err != nil {
			return 0, ghc.handleError(resp, err, domainErrors.ErrOpenPR, "write file").WithContext("path", u.Path)
		}
		log.Debug("release file written", "path", u.Path, "branch", opts.Branch)
	}

	existing, resp, err := ghc.prService.List(ctx, ghc.owner, ghc.repo, &github.PullRequestListOptions{
		State: "open",
		Head:  fmt.Sprintf("%s:%s", ghc.owner, opts.Branch),
		Base:  base,
	})
	if err != nil {
		return 0, ghc.handleError(resp, err, domainErrors.ErrListPRs, "list release branch pull requests")
	}
	if len(existing) > 0 {
		number := existing[0].GetNumber()
		_, resp, err := ghc.prService.Edit(ctx, ghc.owner, ghc.repo, number, &github.PullRequest{
			Title: github.Ptr(opts.Title),
			Body:  github.Ptr(opts.Body),
		})
		if err != nil {
			return 0, ghc.handleError(resp, err, domainErrors.ErrOpenPR, "update pull request").
				WithContext("pr_number", number)
		}
		return number, nil
	}

	pr, resp, err := ghc.prService.Create(ctx, ghc.owner, ghc.repo, &github.NewPullRequest{
		Title: github.Ptr(opts.Title),
		Head:  github.Ptr(opts.Branch),
		Base:  github.Ptr(base),
		Body:  github.Ptr(opts.Body),
	})
	if err != nil {
		return 0, ghc.handleError(resp, err, domainErrors.ErrOpenPR, "create pull request").
			WithContext("branch", opts.Branch)
	}
	return pr.GetNumber(), nil
}

func (ghc *GitHubClient) resetBranch(ctx context.Context, branch, sha string) error {
	ref := "heads/" + branch

	_, resp, err := ghc.gitService.GetRef(ctx, ghc.owner, ghc.repo, ref)
	if err != nil {
		if resp == nil || resp.StatusCode != http.StatusNotFound {
			return ghc.handleError(resp, err, domainErrors.ErrOpenPR, "get branch").WithContext("branch", branch)
		}
		_, resp, err = ghc.gitService.CreateRef(ctx, ghc.owner, ghc.repo, github.CreateRef{
			Ref: "refs/" + ref,
			SHA: sha,
		})
		if err != nil {
			return ghc.handleError(resp, err, domainErrors.ErrOpenPR, "create branch").WithContext("branch", branch)
		}
		return nil
	}

	_, resp, err = ghc.gitService.UpdateRef(ctx, ghc.owner, ghc.repo, ref, github.UpdateRef{
		SHA:   sha,
		Force: github.Ptr(true),
	})
	if err != nil {
		return ghc.handleError(resp, err, domainErrors.ErrOpenPR, "reset branch").WithContext("branch", branch)
	}
	return nil
}

func (ghc *GitHubClient) AddLabels(ctx context.Context, number int, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	_, resp, err := ghc.issuesService.AddLabelsToIssue(ctx, ghc.owner, ghc.repo, number, labels)
	if err != nil {
		return ghc.handleError(resp, err, domainErrors.ErrUpdateLabels, "add labels").WithContext("pr_number", number)
	}
	return nil
}

// RemoveLabels removes each label. Labels already absent are ignored.
func (ghc *GitHubClient) RemoveLabels(ctx context.Context, labels []string, number int) error {
	for _, label := range labels {
		resp, err := ghc.issuesService.RemoveLabelForIssue(ctx, ghc.owner, ghc.repo, number, label)
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusNotFound {
				continue
			}
			return ghc.handleError(resp, err, domainErrors.ErrUpdateLabels, "remove label").
				WithContext("pr_number", number).
				WithContext("label", label)
		}
	}
	return nil
}

func (ghc *GitHubClient) ClosePR(ctx context.Context, number int) error {
	_, resp, err := ghc.prService.Edit(ctx, ghc.owner, ghc.repo, number, &github.PullRequest{
		State: github.Ptr("closed"),
	})
	if err != nil {
		return ghc.handleError(resp, err, domainErrors.ErrClosePR, "close pull request").WithContext("pr_number", number)
	}
	return nil
}

func (ghc *GitHubClient) CreateRelease(ctx context.Context, tag, sha, notes string) error {
	_, resp, err := ghc.releaseService.CreateRelease(ctx, ghc.owner, ghc.repo, &github.RepositoryRelease{
		TagName:         github.Ptr(tag),
		TargetCommitish: github.Ptr(sha),
		Name:            github.Ptr(tag),
		Body:            github.Ptr(notes),
		MakeLatest:      github.Ptr("true"),
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnprocessableEntity {
			return domainErrors.ErrCreateRelease.
				WithError(err).
				WithContext("version", tag).
				WithContext("reason", "release already exists")
		}
		return ghc.handleError(resp, err, domainErrors.ErrCreateRelease, "create release").WithContext("version", tag)
	}
	return nil
}

func (ghc *GitHubClient) baseBranch(ctx context.Context) (string, error) {
	if ghc.branch != "" {
		return ghc.branch, nil
	}
	repo, resp, err := ghc.repoService.Get(ctx, ghc.owner, ghc.repo)
	if err != nil {
		return "", ghc.handleError(resp, err, domainErrors.ErrRepositoryNotFound, "get repository")
	}
	ghc.branch = repo.GetDefaultBranch()
	return ghc.branch, nil
}

// handleError maps HTTP failures onto the error taxonomy. Anything unmapped becomes fallback.
func (ghc *GitHubClient) handleError(resp *github.Response, err error, fallback *domainErrors.AppError, operation string) *domainErrors.AppError {
	repoName := fmt.Sprintf("%s/%s", ghc.owner, ghc.repo)
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return domainErrors.ErrGitHubTokenInvalid.
				WithError(err).
				WithContext("operation", operation)
		case http.StatusTooManyRequests:
			return domainErrors.ErrGitHubRateLimit.
				WithContext("retry_after", resp.Header.Get("Retry-After")).
				WithContext("operation", operation)
		case http.StatusForbidden:
			if resp.Header.Get("X-RateLimit-Remaining") == "0" {
				return domainErrors.ErrGitHubRateLimit.
					WithContext("reset", resp.Header.Get("X-RateLimit-Reset")).
					WithContext("operation", operation)
			}
			return domainErrors.ErrGitHubInsufficientPerms.
				WithError(err).
				WithContext("operation", operation).
				WithContext("repo", repoName)
		case http.StatusNotFound:
			return domainErrors.ErrRepositoryNotFound.
				WithError(err).
				WithContext("operation", operation).
				WithContext("repo", repoName)
		}
	}
	return fallback.WithError(err).WithContext("operation", operation)
}

func hasAllLabels(have []*github.Label, want []string) bool {
	if len(want) == 0 {
		return false
	}
	for _, w := range want {
		found := false
		for _, l := range have {
			if strings.EqualFold(l.GetName(), w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func labelNames(labels []*github.Label) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.GetName())
	}
	return names
}

func versionFromBranch(branch string) (string, bool) {
	m := regex.ReleaseBranch.FindStringSubmatch(branch)
	if m == nil {
		return "", false
	}
	return m[1], true
}
