package github

import (
	"context"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/mock"
)

type MockPRService struct {
	mock.Mock
}

func mockResponse(v interface{}) *github.Response {
	if v == nil {
		return nil
	}
	return v.(*github.Response)
}

func (m *MockPRService) Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number)
	pr, _ := args.Get(0).(*github.PullRequest)
	return pr, mockResponse(args.Get(1)), args.Error(2)
}

func (m *MockPRService) ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number, opts)
	files, _ := args.Get(0).([]*github.CommitFile)
	return files, mockResponse(args.Get(1)), args.Error(2)
}

func (m *MockPRService) ListReviews(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.PullRequestReview, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number, opts)
	reviews, _ := args.Get(0).([]*github.PullRequestReview)
	return reviews, mockResponse(args.Get(1)), args.Error(2)
}

func (m *MockPRService) ListReviewers(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) (*github.Reviewers, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number, opts)
	reviewers, _ := args.Get(0).(*github.Reviewers)
	return reviewers, mockResponse(args.Get(1)), args.Error(2)
}

type MockGraphQLClient struct {
	mock.Mock
}

func (m *MockGraphQLClient) Query(ctx context.Context, q interface{}, variables map[string]interface{}) error {
	args := m.Called(ctx, q, variables)
	return args.Error(0)
}
