package github

import (
	"context"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/mock"
)

func response(args mock.Arguments, i int) *github.Response {
	if r := args.Get(i); r != nil {
		return r.(*github.Response)
	}
	return nil
}

type MockPRService struct {
	mock.Mock
}

func (m *MockPRService) List(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error) {
	args := m.Called(ctx, owner, repo, opts)
	prs, _ := args.Get(0).([]*github.PullRequest)
	return prs, response(args, 1), args.Error(2)
}

func (m *MockPRService) Create(ctx context.Context, owner, repo string, pull *github.NewPullRequest) (*github.PullRequest, *github.Response, error) {
	args := m.Called(ctx, owner, repo, pull)
	pr, _ := args.Get(0).(*github.PullRequest)
	return pr, response(args, 1), args.Error(2)
}

func (m *MockPRService) Edit(ctx context.Context, owner, repo string, number int, pr *github.PullRequest) (*github.PullRequest, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number, pr)
	out, _ := args.Get(0).(*github.PullRequest)
	return out, response(args, 1), args.Error(2)
}

type MockIssuesService struct {
	mock.Mock
}

func (m *MockIssuesService) AddLabelsToIssue(ctx context.Context, owner, repo string, number int, labels []string) ([]*github.Label, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number, labels)
	out, _ := args.Get(0).([]*github.Label)
	return out, response(args, 1), args.Error(2)
}

func (m *MockIssuesService) RemoveLabelForIssue(ctx context.Context, owner, repo string, number int, label string) (*github.Response, error) {
	args := m.Called(ctx, owner, repo, number, label)
	return response(args, 0), args.Error(1)
}

type MockRepoService struct {
	mock.Mock
}

func (m *MockRepoService) Get(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error) {
	args := m.Called(ctx, owner, repo)
	out, _ := args.Get(0).(*github.Repository)
	return out, response(args, 1), args.Error(2)
}

func (m *MockRepoService) ListTags(ctx context.Context, owner, repo string, opts *github.ListOptions) ([]*github.RepositoryTag, *github.Response, error) {
	args := m.Called(ctx, owner, repo, opts)
	out, _ := args.Get(0).([]*github.RepositoryTag)
	return out, response(args, 1), args.Error(2)
}

func (m *MockRepoService) ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
	args := m.Called(ctx, owner, repo, opts)
	out, _ := args.Get(0).([]*github.RepositoryCommit)
	return out, response(args, 1), args.Error(2)
}

func (m *MockRepoService) GetCommit(ctx context.Context, owner, repo, sha string, opts *github.ListOptions) (*github.RepositoryCommit, *github.Response, error) {
	args := m.Called(ctx, owner, repo, sha, opts)
	out, _ := args.Get(0).(*github.RepositoryCommit)
	return out, response(args, 1), args.Error(2)
}

func (m *MockRepoService) GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error) {
	args := m.Called(ctx, owner, repo, path, opts)
	file, _ := args.Get(0).(*github.RepositoryContent)
	dir, _ := args.Get(1).([]*github.RepositoryContent)
	return file, dir, response(args, 2), args.Error(3)
}

func (m *MockRepoService) CreateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error) {
	args := m.Called(ctx, owner, repo, path, opts)
	out, _ := args.Get(0).(*github.RepositoryContentResponse)
	return out, response(args, 1), args.Error(2)
}

func (m *MockRepoService) UpdateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error) {
	args := m.Called(ctx, owner, repo, path, opts)
	out, _ := args.Get(0).(*github.RepositoryContentResponse)
	return out, response(args, 1), args.Error(2)
}

type MockReleaseService struct {
	mock.Mock
}

func (m *MockReleaseService) CreateRelease(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, *github.Response, error) {
	args := m.Called(ctx, owner, repo, release)
	out, _ := args.Get(0).(*github.RepositoryRelease)
	return out, response(args, 1), args.Error(2)
}

type MockGitService struct {
	mock.Mock
}

func (m *MockGitService) GetRef(ctx context.Context, owner, repo, ref string) (*github.Reference, *github.Response, error) {
	args := m.Called(ctx, owner, repo, ref)
	out, _ := args.Get(0).(*github.Reference)
	return out, response(args, 1), args.Error(2)
}

func (m *MockGitService) CreateRef(ctx context.Context, owner, repo string, ref github.CreateRef) (*github.Reference, *github.Response, error) {
	args := m.Called(ctx, owner, repo, ref)
	out, _ := args.Get(0).(*github.Reference)
	return out, response(args, 1), args.Error(2)
}

func (m *MockGitService) UpdateRef(ctx context.Context, owner, repo, ref string, updateRef github.UpdateRef) (*github.Reference, *github.Response, error) {
	args := m.Called(ctx, owner, repo, ref, updateRef)
	out, _ := args.Get(0).(*github.Reference)
	return out, response(args, 1), args.Error(2)
}
