package gitlab

import (
	"github.com/stretchr/testify/mock"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// Request options are not recorded: they only carry the context.

func response(args mock.Arguments, i int) *gitlab.Response {
	if r := args.Get(i); r != nil {
		return r.(*gitlab.Response)
	}
	return nil
}

type MockMergeRequestsService struct {
	mock.Mock
}

func (m *MockMergeRequestsService) ListProjectMergeRequests(pid any, opt *gitlab.ListProjectMergeRequestsOptions, _ ...gitlab.RequestOptionFunc) ([]*gitlab.BasicMergeRequest, *gitlab.Response, error) {
	args := m.Called(pid, opt)
	out, _ := args.Get(0).([]*gitlab.BasicMergeRequest)
	return out, response(args, 1), args.Error(2)
}

func (m *MockMergeRequestsService) CreateMergeRequest(pid any, opt *gitlab.CreateMergeRequestOptions, _ ...gitlab.RequestOptionFunc) (*gitlab.MergeRequest, *gitlab.Response, error) {
	args := m.Called(pid, opt)
	out, _ := args.Get(0).(*gitlab.MergeRequest)
	return out, response(args, 1), args.Error(2)
}

func (m *MockMergeRequestsService) UpdateMergeRequest(pid any, mergeRequest int, opt *gitlab.UpdateMergeRequestOptions, _ ...gitlab.RequestOptionFunc) (*gitlab.MergeRequest, *gitlab.Response, error) {
	args := m.Called(pid, mergeRequest, opt)
	out, _ := args.Get(0).(*gitlab.MergeRequest)
	return out, response(args, 1), args.Error(2)
}

type MockTagsService struct {
	mock.Mock
}

func (m *MockTagsService) ListTags(pid any, opt *gitlab.ListTagsOptions, _ ...gitlab.RequestOptionFunc) ([]*gitlab.Tag, *gitlab.Response, error) {
	args := m.Called(pid, opt)
	out, _ := args.Get(0).([]*gitlab.Tag)
	return out, response(args, 1), args.Error(2)
}

type MockCommitsService struct {
	mock.Mock
}

func (m *MockCommitsService) ListCommits(pid any, opt *gitlab.ListCommitsOptions, _ ...gitlab.RequestOptionFunc) ([]*gitlab.Commit, *gitlab.Response, error) {
	args := m.Called(pid, opt)
	out, _ := args.Get(0).([]*gitlab.Commit)
	return out, response(args, 1), args.Error(2)
}

func (m *MockCommitsService) GetCommitDiff(pid any, sha string, opt *gitlab.GetCommitDiffOptions, _ ...gitlab.RequestOptionFunc) ([]*gitlab.Diff, *gitlab.Response, error) {
	args := m.Called(pid, sha, opt)
	out, _ := args.Get(0).([]*gitlab.Diff)
	return out, response(args, 1), args.Error(2)
}

func (m *MockCommitsService) CreateCommit(pid any, opt *gitlab.CreateCommitOptions, _ ...gitlab.RequestOptionFunc) (*gitlab.Commit, *gitlab.Response, error) {
	args := m.Called(pid, opt)
	out, _ := args.Get(0).(*gitlab.Commit)
	return out, response(args, 1), args.Error(2)
}

type MockRepositoryFilesService struct {
	mock.Mock
}

func (m *MockRepositoryFilesService) GetRawFile(pid any, fileName string, opt *gitlab.GetRawFileOptions, _ ...gitlab.RequestOptionFunc) ([]byte, *gitlab.Response, error) {
	args := m.Called(pid, fileName, opt)
	out, _ := args.Get(0).([]byte)
	return out, response(args, 1), args.Error(2)
}

type MockProjectsService struct {
	mock.Mock
}

func (m *MockProjectsService) GetProject(pid any, opt *gitlab.GetProjectOptions, _ ...gitlab.RequestOptionFunc) (*gitlab.Project, *gitlab.Response, error) {
	args := m.Called(pid, opt)
	out, _ := args.Get(0).(*gitlab.Project)
	return out, response(args, 1), args.Error(2)
}

type MockReleasesService struct {
	mock.Mock
}

func (m *MockReleasesService) CreateRelease(pid any, opts *gitlab.CreateReleaseOptions, _ ...gitlab.RequestOptionFunc) (*gitlab.Release, *gitlab.Response, error) {
	args := m.Called(pid, opts)
	out, _ := args.Get(0).(*gitlab.Release)
	return out, response(args, 1), args.Error(2)
}
