package gitlab

import (
	"context"
	"errors"
	"net/http"
	"strings"

	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/logger"
	"github.com/thomas-vilte/releasemate/internal/models"
	"github.com/thomas-vilte/releasemate/internal/regex"
	"github.com/thomas-vilte/releasemate/internal/vcs"
	"github.com/thomas-vilte/releasemate/internal/versioning"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

var _ vcs.RepositoryHost = (*GitLabClient)(nil)

const (
	perPage           = 100
	mergedLookupPages = 3
)

type MergeRequestsService interface {
	ListProjectMergeRequests(pid any, opt *gitlab.ListProjectMergeRequestsOptions, options ...gitlab.RequestOptionFunc) ([]*gitlab.BasicMergeRequest, *gitlab.Response, error)
	CreateMergeRequest(pid any, opt *gitlab.CreateMergeRequestOptions, options ...gitlab.RequestOptionFunc) (*gitlab.MergeRequest, *gitlab.Response, error)
	UpdateMergeRequest(pid any, mergeRequest int, opt *gitlab.UpdateMergeRequestOptions, options ...gitlab.RequestOptionFunc) (*gitlab.MergeRequest, *gitlab.Response, error)
}

type TagsService interface {
	ListTags(pid any, opt *gitlab.ListTagsOptions, options ...gitlab.RequestOptionFunc) ([]*gitlab.Tag, *gitlab.Response, error)
}

type CommitsService interface {
	ListCommits(pid any, opt *gitlab.ListCommitsOptions, options ...gitlab.RequestOptionFunc) ([]*gitlab.Commit, *gitlab.Response, error)
	GetCommitDiff(pid any, sha string, opt *gitlab.GetCommitDiffOptions, options ...gitlab.RequestOptionFunc) ([]*gitlab.Diff, *gitlab.Response, error)
	CreateCommit(pid any, opt *gitlab.CreateCommitOptions, options ...gitlab.RequestOptionFunc) (*gitlab.Commit, *gitlab.Response, error)
}

type RepositoryFilesService interface {
	GetRawFile(pid any, fileName string, opt *gitlab.GetRawFileOptions, options ...gitlab.RequestOptionFunc) ([]byte, *gitlab.Response, error)
}

type ProjectsService interface {
	GetProject(pid any, opt *gitlab.GetProjectOptions, options ...gitlab.RequestOptionFunc) (*gitlab.Project, *gitlab.Response, error)
}

type ReleasesService interface {
	CreateRelease(pid any, opts *gitlab.CreateReleaseOptions, options ...gitlab.RequestOptionFunc) (*gitlab.Release, *gitlab.Response, error)
}

// GitLabClient talks to a single project, addressed by its "group/name" path.
type GitLabClient struct {
	mrService      MergeRequestsService
	tagsService    TagsService
	commitsService CommitsService
	filesService   RepositoryFilesService
	projectService ProjectsService
	releaseService ReleasesService
	project        string
	branch         string
	concurrency    int
}

type Option func(*GitLabClient)

func WithBranch(branch string) Option {
	return func(glc *GitLabClient) {
		glc.branch = branch
	}
}

func WithConcurrency(n int) Option {
	return func(glc *GitLabClient) {
		glc.concurrency = n
	}
}

// NewGitLabClient builds a client for gitlab.com, or for a self-managed instance when baseURL
// is set.
func NewGitLabClient(project, token, baseURL string, opts ...Option) (*GitLabClient, error) {
	var clientOpts []gitlab.ClientOptionFunc
	if baseURL != "" {
		clientOpts = append(clientOpts, gitlab.WithBaseURL(baseURL))
	}

	client, err := gitlab.NewClient(token, clientOpts...)
	if err != nil {
		return nil, domainErrors.ErrInvalidConfig.
			WithError(err).
			WithDetail("could not create GitLab client")
	}

	return NewGitLabClientWithServices(
		client.MergeRequests,
		client.Tags,
		client.Commits,
		client.RepositoryFiles,
		client.Projects,
		client.Releases,
		project,
		opts...,
	), nil
}

func NewGitLabClientWithServices(
	mrService MergeRequestsService,
	tagsService TagsService,
	commitsService CommitsService,
	filesService RepositoryFilesService,
	projectService ProjectsService,
	releaseService ReleasesService,
	project string,
	opts ...Option,
) *GitLabClient {
	glc := &GitLabClient{
		mrService:      mrService,
		tagsService:    tagsService,
		commitsService: commitsService,
		filesService:   filesService,
		projectService: projectService,
		releaseService: releaseService,
		project:        project,
		concurrency:    vcs.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(glc)
	}
	return glc
}

func (glc *GitLabClient) FindMergedReleasePR(ctx context.Context, labels []string) (*models.ReleasePR, error) {
	base, err := glc.baseBranch(ctx)
	if err != nil {
		return nil, err
	}

	opts := &gitlab.ListProjectMergeRequestsOptions{
		State:        gitlab.Ptr("merged"),
		TargetBranch: gitlab.Ptr(base),
		OrderBy:      gitlab.Ptr("updated_at"),
		Sort:         gitlab.Ptr("desc"),
		ListOptions:  gitlab.ListOptions{PerPage: perPage, Page: 1},
	}
	if len(labels) > 0 {
		opts.Labels = labelOptions(labels)
	}

	for page := 0; page < mergedLookupPages; page++ {
		mrs, resp, err := glc.mrService.ListProjectMergeRequests(glc.project, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, glc.handleError(resp, err, domainErrors.ErrListPRs, "list merged merge requests")
		}
		for _, mr := range mrs {
			if mr.MergedAt == nil || !hasAllLabels(mr.Labels, labels) {
				continue
			}
			version, ok := versionFromBranch(mr.SourceBranch)
			if !ok {
				continue
			}
			return &models.ReleasePR{
				Number:  mr.IID,
				SHA:     mergeSHA(mr),
				Version: version,
				Labels:  append([]string(nil), mr.Labels...),
			}, nil
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return nil, nil
}

func (glc *GitLabClient) FindOpenReleasePRs(ctx context.Context, labels []string) ([]models.ReleasePR, error) {
	opts := &gitlab.ListProjectMergeRequestsOptions{
		State:       gitlab.Ptr("opened"),
		ListOptions: gitlab.ListOptions{PerPage: perPage, Page: 1},
	}
	if len(labels) > 0 {
		opts.Labels = labelOptions(labels)
	}

	var found []models.ReleasePR
	for {
		mrs, resp, err := glc.mrService.ListProjectMergeRequests(glc.project, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, glc.handleError(resp, err, domainErrors.ErrListPRs, "list open merge requests")
		}
		for _, mr := range mrs {
			if !hasAllLabels(mr.Labels, labels) {
				continue
			}
			version, _ := versionFromBranch(mr.SourceBranch)
			found = append(found, models.ReleasePR{
				Number:  mr.IID,
				SHA:     mr.SHA,
				Version: version,
				Labels:  append([]string(nil), mr.Labels...),
			})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return found, nil
}

func (glc *GitLabClient) LatestTag(ctx context.Context) (*models.Tag, error) {
	opts := &gitlab.ListTagsOptions{ListOptions: gitlab.ListOptions{PerPage: perPage, Page: 1}}

	var latest *models.Tag
	for {
		tags, resp, err := glc.tagsService.ListTags(glc.project, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, glc.handleError(resp, err, domainErrors.ErrListTags, "list tags")
		}
		for _, t := range tags {
			if !versioning.IsValid(t.Name) {
				continue
			}
			if latest == nil || versioning.Compare(t.Name, latest.Name) > 0 {
				sha := ""
				if t.Commit != nil {
					sha = t.Commit.ID
				}
				latest = &models.Tag{Name: t.Name, SHA: sha, Version: versioning.Normalize(t.Name)}
			}
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return latest, nil
}

func (glc *GitLabClient) CommitsSinceSHA(ctx context.Context, sha string) ([]*models.Commit, error) {
	log := logger.FromContext(ctx)

	base, err := glc.baseBranch(ctx)
	if err != nil {
		return nil, err
	}

	opts := &gitlab.ListCommitsOptions{
		RefName:     gitlab.Ptr(base),
		ListOptions: gitlab.ListOptions{PerPage: perPage, Page: 1},
	}

	var listed []*gitlab.Commit
	reached := false
	for !reached {
		commits, resp, err := glc.commitsService.ListCommits(glc.project, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, glc.handleError(resp, err, domainErrors.ErrListCommits, "list commits")
		}
		for _, c := range commits {
			if sha != "" && c.ID == sha {
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

	return vcs.FetchConcurrently(ctx, len(listed), glc.concurrency, func(ctx context.Context, i int) (*models.Commit, error) {
		c := listed[i]
		files, err := glc.commitFiles(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		return &models.Commit{SHA: c.ID, Message: c.Message, Files: files}, nil
	})
}

func (glc *GitLabClient) commitFiles(ctx context.Context, sha string) ([]string, error) {
	opts := &gitlab.GetCommitDiffOptions{ListOptions: gitlab.ListOptions{PerPage: perPage, Page: 1}}

	var files []string
	for {
		diffs, resp, err := glc.commitsService.GetCommitDiff(glc.project, sha, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, glc.handleError(resp, err, domainErrors.ErrListCommits, "get commit diff").
				WithContext("sha", sha)
		}
		for _, d := range diffs {
			if d.DeletedFile {
				files = append(files, d.OldPath)
				continue
			}
			files = append(files, d.NewPath)
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return files, nil
}

func (glc *GitLabClient) GetFileContents(ctx context.Context, path string) (string, error) {
	base, err := glc.baseBranch(ctx)
	if err != nil {
		return "", err
	}
	return glc.getFile(ctx, path, base)
}

func (glc *GitLabClient) getFile(ctx context.Context, path, ref string) (string, error) {
	raw, resp, err := glc.filesService.GetRawFile(glc.project, path, &gitlab.GetRawFileOptions{Ref: gitlab.Ptr(ref)}, gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", domainErrors.ErrNotFound.WithContext("path", path).WithContext("ref", ref)
		}
		return "", glc.handleError(resp, err, domainErrors.ErrGetFile, "get raw file").WithContext("path", path)
	}
	return string(raw), nil
}

// OpenPR commits every update in one commit on a branch forced to opts.SHA, then opens the
// merge request or refreshes the one already open for the branch.
func (glc *GitLabClient) OpenPR(ctx context.Context, opts models.OpenPROptions) (int, error) {
	log := logger.FromContext(ctx)

	base, err := glc.baseBranch(ctx)
	if err != nil {
		return 0, err
	}

	var actions []*gitlab.CommitActionOptions
	for _, u := range opts.Updates {
		old, err := glc.getFile(ctx, u.Path, opts.SHA)
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

		action := gitlab.FileCreate
		if exists {
			action = gitlab.FileUpdate
		}
		actions = append(actions, &gitlab.CommitActionOptions{
			Action:   gitlab.Ptr(action),
			FilePath: gitlab.Ptr(u.Path),
			Content:  gitlab.Ptr(content),
		})
	}
	if len(actions) == 0 {
		return 0, domainErrors.ErrOpenPR.
			WithContext("branch", opts.Branch).
			WithDetail("no files to commit")
	}

	_, resp, err := glc.commitsService.CreateCommit(glc.project, &gitlab.CreateCommitOptions{
		Branch:        gitlab.Ptr(opts.Branch),
		CommitMessage: gitlab.Ptr(opts.Title),
		StartSHA:      gitlab.Ptr(opts.SHA),
		Actions:       actions,
		Force:         gitlab.Ptr(true),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return 0, glc.handleError(resp, err, domainErrors.ErrOpenPR, "commit release files").
			WithContext("branch", opts.Branch)
	}
	log.Debug("release files committed", "branch", opts.Branch, "files", len(actions))

	existing, resp, err := glc.mrService.ListProjectMergeRequests(glc.project, &gitlab.ListProjectMergeRequestsOptions{
		State:        gitlab.Ptr("opened"),
		SourceBranch: gitlab.Ptr(opts.Branch),
		TargetBranch: gitlab.Ptr(base),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return 0, glc.handleError(resp, err, domainErrors.ErrListPRs, "list release branch merge requests")
	}
	if len(existing) > 0 {
		number := existing[0].IID
		_, resp, err := glc.mrService.UpdateMergeRequest(glc.project, number, &gitlab.UpdateMergeRequestOptions{
			Title:       gitlab.Ptr(opts.Title),
			Description: gitlab.Ptr(opts.Body),
		}, gitlab.WithContext(ctx))
		if err != nil {
			return 0, glc.handleError(resp, err, domainErrors.ErrOpenPR, "update merge request").
				WithContext("pr_number", number)
		}
		return number, nil
	}

	mr, resp, err := glc.mrService.CreateMergeRequest(glc.project, &gitlab.CreateMergeRequestOptions{
		Title:        gitlab.Ptr(opts.Title),
		Description:  gitlab.Ptr(opts.Body),
		SourceBranch: gitlab.Ptr(opts.Branch),
		TargetBranch: gitlab.Ptr(base),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return 0, glc.handleError(resp, err, domainErrors.ErrOpenPR, "create merge request").
			WithContext("branch", opts.Branch)
	}
	return mr.IID, nil
}

func (glc *GitLabClient) AddLabels(ctx context.Context, number int, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	_, resp, err := glc.mrService.UpdateMergeRequest(glc.project, number, &gitlab.UpdateMergeRequestOptions{
		AddLabels: labelOptions(labels),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return glc.handleError(resp, err, domainErrors.ErrUpdateLabels, "add labels").WithContext("pr_number", number)
	}
	return nil
}

// RemoveLabels drops labels in one request. GitLab ignores labels the merge request lacks.
func (glc *GitLabClient) RemoveLabels(ctx context.Context, labels []string, number int) error {
	if len(labels) == 0 {
		return nil
	}
	_, resp, err := glc.mrService.UpdateMergeRequest(glc.project, number, &gitlab.UpdateMergeRequestOptions{
		RemoveLabels: labelOptions(labels),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return glc.handleError(resp, err, domainErrors.ErrUpdateLabels, "remove labels").WithContext("pr_number", number)
	}
	return nil
}

func (glc *GitLabClient) ClosePR(ctx context.Context, number int) error {
	_, resp, err := glc.mrService.UpdateMergeRequest(glc.project, number, &gitlab.UpdateMergeRequestOptions{
		StateEvent: gitlab.Ptr("close"),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return glc.handleError(resp, err, domainErrors.ErrClosePR, "close merge request").WithContext("pr_number", number)
	}
	return nil
}

func (glc *GitLabClient) CreateRelease(ctx context.Context, tag, sha, notes string) error {
	_, resp, err := glc.releaseService.CreateRelease(glc.project, &gitlab.CreateReleaseOptions{
		Name:        gitlab.Ptr(tag),
		TagName:     gitlab.Ptr(tag),
		Ref:         gitlab.Ptr(sha),
		Description: gitlab.Ptr(notes),
	}, gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusConflict {
			return domainErrors.ErrCreateRelease.
				WithError(err).
				WithContext("version", tag).
				WithContext("reason", "release already exists")
		}
		return glc.handleError(resp, err, domainErrors.ErrCreateRelease, "create release").WithContext("version", tag)
	}
	return nil
}

func (glc *GitLabClient) baseBranch(ctx context.Context) (string, error) {
	if glc.branch != "" {
		return glc.branch, nil
	}
	project, resp, err := glc.projectService.GetProject(glc.project, nil, gitlab.WithContext(ctx))
	if err != nil {
		return "", glc.handleError(resp, err, domainErrors.ErrRepositoryNotFound, "get project")
	}
	glc.branch = project.DefaultBranch
	return glc.branch, nil
}

func (glc *GitLabClient) handleError(resp *gitlab.Response, err error, fallback *domainErrors.AppError, operation string) *domainErrors.AppError {
	if resp != nil && resp.Response != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return domainErrors.ErrGitLabTokenInvalid.
				WithError(err).
				WithContext("operation", operation)
		case http.StatusForbidden:
			return domainErrors.ErrGitLabInsufficientPerms.
				WithError(err).
				WithContext("operation", operation).
				WithContext("repo", glc.project)
		case http.StatusTooManyRequests:
			return domainErrors.ErrGitLabRateLimit.
				WithContext("retry_after", resp.Header.Get("Retry-After")).
				WithContext("operation", operation)
		case http.StatusNotFound:
			return domainErrors.ErrRepositoryNotFound.
				WithError(err).
				WithContext("operation", operation).
				WithContext("repo", glc.project)
		}
	}
	return fallback.WithError(err).WithContext("operation", operation)
}

func labelOptions(labels []string) *gitlab.LabelOptions {
	opts := gitlab.LabelOptions(labels)
	return &opts
}

func hasAllLabels(have []string, want []string) bool {
	if len(want) == 0 {
		return false
	}
	for _, w := range want {
		found := false
		for _, h := range have {
			if strings.EqualFold(h, w) {
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

// mergeSHA prefers the merge commit, then the squash commit, then the source head.
func mergeSHA(mr *gitlab.BasicMergeRequest) string {
	switch {
	case mr.MergeCommitSHA != "":
		return mr.MergeCommitSHA
	case mr.SquashCommitSHA != "":
		return mr.SquashCommitSHA
	default:
		return mr.SHA
	}
}

func versionFromBranch(branch string) (string, bool) {
	m := regex.ReleaseBranch.FindStringSubmatch(branch)
	if m == nil {
		return "", false
	}
	return m[1], true
}
