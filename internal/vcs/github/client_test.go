package github

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/thomas-vilte/prtriage/internal/errors"
	"github.com/thomas-vilte/prtriage/internal/logger"
	"github.com/thomas-vilte/prtriage/internal/models"
)

func newTestClient(pr *MockPRService) (*GitHubClient, *logger.ErrorLog) {
	errLog := logger.NewErrorLog(10)
	client := NewGitHubClientWithServices(pr, &MockGraphQLClient{}, errLog)
	client.retryDelay = time.Millisecond
	return client, errLog
}

func statusResponse(status int) *github.Response {
	return &github.Response{Response: &http.Response{StatusCode: status, Header: http.Header{}}}
}

func expectDetails(m *MockPRService, number int) {
	m.On("ListFiles", mock.Anything, "test-owner", "test-repo", number, mock.Anything).
		Return([]*github.CommitFile{
			{Filename: github.Ptr("src/app.go"), Additions: github.Ptr(10), Deletions: github.Ptr(2), Status: github.Ptr("modified")},
			{Filename: github.Ptr("docs/old.md"), Deletions: github.Ptr(5), Status: github.Ptr("removed")},
			{Filename: github.Ptr("src/new.go"), Additions: github.Ptr(3), Status: github.Ptr("added")},
		}, statusResponse(http.StatusOK), nil).Once()
	m.On("ListReviews", mock.Anything, "test-owner", "test-repo", number, mock.Anything).
		Return([]*github.PullRequestReview{
			{User: &github.User{Login: github.Ptr("bob")}, State: github.Ptr("APPROVED"), SubmittedAt: &github.Timestamp{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}},
		}, statusResponse(http.StatusOK), nil).Once()
	m.On("ListReviewers", mock.Anything, "test-owner", "test-repo", number, mock.Anything).
		Return(&github.Reviewers{Users: []*github.User{{Login: github.Ptr("carol")}, {}}}, statusResponse(http.StatusOK), nil).Once()
}

func TestGitHubClient_GetPR(t *testing.T) {
	t.Run("should convert a REST pull request", func(t *testing.T) {
		// Arrange
		mockPR := &MockPRService{}
		client, _ := newTestClient(mockPR)
		mockPR.On("Get", mock.Anything, "test-owner", "test-repo", 42).
			Return(&github.PullRequest{
				Number:       github.Ptr(42),
				Title:        github.Ptr("Add feature"),
				Body:         github.Ptr("body"),
				User:         &github.User{Login: github.Ptr("alice")},
				HTMLURL:      github.Ptr("https://github.com/test-owner/test-repo/pull/42"),
				Draft:        github.Ptr(true),
				Head:         &github.PullRequestBranch{Ref: github.Ptr("feature")},
				Base:         &github.PullRequestBranch{Ref: github.Ptr("main")},
				Additions:    github.Ptr(13),
				Deletions:    github.Ptr(7),
				ChangedFiles: github.Ptr(3),
				Labels:       []*github.Label{{Name: github.Ptr("hold"), Color: github.Ptr("ff0000")}},
			}, statusResponse(http.StatusOK), nil).Once()
		expectDetails(mockPR, 42)

		// Act
		pr, err := client.GetPR(context.Background(), "test-owner", "test-repo", 42)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 42, pr.Number)
		assert.Equal(t, "alice", pr.Author)
		assert.True(t, pr.IsDraft)
		assert.Equal(t, models.Unknown, pr.Mergeable)
		assert.Equal(t, "feature", pr.HeadRef)
		assert.Equal(t, "main", pr.BaseRef)
		assert.Equal(t, []models.Label{{Name: "hold", Color: "ff0000"}}, pr.Labels)
		require.Len(t, pr.Files, 3)
		assert.Equal(t, models.ChangeModified, pr.Files[0].ChangeType)
		assert.Equal(t, models.ChangeDeleted, pr.Files[1].ChangeType)
		assert.Equal(t, models.ChangeAdded, pr.Files[2].ChangeType)
		require.Len(t, pr.Reviews, 1)
		assert.Equal(t, models.ReviewApproved, pr.Reviews[0].State)
		assert.Equal(t, []string{"carol"}, pr.ReviewRequests)
		mockPR.AssertExpectations(t)
	})

	t.Run("should map mergeable flags", func(t *testing.T) {
		assert.Equal(t, models.Mergeable, convertRESTPullRequest(&github.PullRequest{Mergeable: github.Ptr(true)}).Mergeable)
		assert.Equal(t, models.Conflicting, convertRESTPullRequest(&github.PullRequest{Mergeable: github.Ptr(false)}).Mergeable)
	})

	t.Run("should follow file pagination", func(t *testing.T) {
		// Arrange
		mockPR := &MockPRService{}
		client, _ := newTestClient(mockPR)
		mockPR.On("Get", mock.Anything, "test-owner", "test-repo", 1).
			Return(&github.PullRequest{Number: github.Ptr(1)}, statusResponse(http.StatusOK), nil).Once()
		next := statusResponse(http.StatusOK)
		next.NextPage = 2
		mockPR.On("ListFiles", mock.Anything, "test-owner", "test-repo", 1, mock.Anything).
			Return([]*github.CommitFile{{Filename: github.Ptr("a.go")}}, next, nil).Once()
		mockPR.On("ListFiles", mock.Anything, "test-owner", "test-repo", 1, mock.MatchedBy(func(o *github.ListOptions) bool {
			return o.Page == 2
		})).Return([]*github.CommitFile{{Filename: github.Ptr("b.go")}}, statusResponse(http.StatusOK), nil).Once()
		mockPR.On("ListReviews", mock.Anything, "test-owner", "test-repo", 1, mock.Anything).
			Return([]*github.PullRequestReview{}, statusResponse(http.StatusOK), nil).Once()
		mockPR.On("ListReviewers", mock.Anything, "test-owner", "test-repo", 1, mock.Anything).
			Return(&github.Reviewers{}, statusResponse(http.StatusOK), nil).Once()

		// Act
		pr, err := client.GetPR(context.Background(), "test-owner", "test-repo", 1)

		// Assert
		require.NoError(t, err)
		require.Len(t, pr.Files, 2)
		assert.Equal(t, "b.go", pr.Files[1].Path)
		assert.Empty(t, pr.ReviewRequests)
	})

	t.Run("should return PR not found on 404", func(t *testing.T) {
		// Arrange
		mockPR := &MockPRService{}
		client, errLog := newTestClient(mockPR)
		mockPR.On("Get", mock.Anything, "test-owner", "test-repo", 9).
			Return(nil, statusResponse(http.StatusNotFound), errors.New("404 Not Found")).Once()

		// Act
		pr, err := client.GetPR(context.Background(), "test-owner", "test-repo", 9)

		// Assert
		assert.Nil(t, pr)
		assert.True(t, errors.Is(err, domainErrors.ErrPRNotFound))
		assert.Equal(t, 1, errLog.User.Len())
		assert.Equal(t, 0, errLog.Product.Len())
	})

	t.Run("should not retry invalid tokens", func(t *testing.T) {
		// Arrange
		mockPR := &MockPRService{}
		client, _ := newTestClient(mockPR)
		mockPR.On("Get", mock.Anything, "test-owner", "test-repo", 1).
			Return(nil, statusResponse(http.StatusUnauthorized), errors.New("401 Bad credentials"))

		// Act
		_, err := client.GetPR(context.Background(), "test-owner", "test-repo", 1)

		// Assert
		assert.True(t, errors.Is(err, domainErrors.ErrGitHubTokenInvalid))
		mockPR.AssertNumberOfCalls(t, "Get", 1)
	})

	t.Run("should detect secondary rate limits on 403", func(t *testing.T) {
		// Arrange
		mockPR := &MockPRService{}
		client, _ := newTestClient(mockPR)
		resp := statusResponse(http.StatusForbidden)
		resp.Header.Set("X-RateLimit-Remaining", "0")
		mockPR.On("Get", mock.Anything, "test-owner", "test-repo", 1).
			Return(nil, resp, errors.New("403 Forbidden"))

		// Act
		_, err := client.GetPR(context.Background(), "test-owner", "test-repo", 1)

		// Assert
		assert.True(t, errors.Is(err, domainErrors.ErrGitHubRateLimit))
		mockPR.AssertNumberOfCalls(t, "Get", 1)
	})

	t.Run("should map go-github rate limit errors", func(t *testing.T) {
		err := classifyREST(&github.RateLimitError{Message: "API rate limit exceeded"}, nil, "o/r")

		assert.True(t, errors.Is(err, domainErrors.ErrGitHubRateLimit))
	})

	t.Run("should retry a bad gateway and then succeed", func(t *testing.T) {
		// Arrange
		mockPR := &MockPRService{}
		client, _ := newTestClient(mockPR)
		mockPR.On("Get", mock.Anything, "test-owner", "test-repo", 5).
			Return(nil, statusResponse(http.StatusBadGateway), errors.New("502 Bad Gateway")).Once()
		mockPR.On("Get", mock.Anything, "test-owner", "test-repo", 5).
			Return(&github.PullRequest{Number: github.Ptr(5)}, statusResponse(http.StatusOK), nil).Once()
		expectDetails(mockPR, 5)

		// Act
		pr, err := client.GetPR(context.Background(), "test-owner", "test-repo", 5)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 5, pr.Number)
		mockPR.AssertNumberOfCalls(t, "Get", 2)
	})

	t.Run("should give up after three unavailable responses", func(t *testing.T) {
		// Arrange
		mockPR := &MockPRService{}
		client, errLog := newTestClient(mockPR)
		mockPR.On("Get", mock.Anything, "test-owner", "test-repo", 5).
			Return(nil, statusResponse(http.StatusServiceUnavailable), errors.New("503 Service Unavailable"))

		// Act
		_, err := client.GetPR(context.Background(), "test-owner", "test-repo", 5)

		// Assert
		assert.True(t, errors.Is(err, domainErrors.ErrGitHubUnavailable))
		mockPR.AssertNumberOfCalls(t, "Get", 3)
		assert.Equal(t, 1, errLog.Product.Len())
	})
}

func TestNewGitHubClient(t *testing.T) {
	t.Run("should require credentials", func(t *testing.T) {
		_, err := NewGitHubClient(context.Background(), Options{})

		assert.True(t, errors.Is(err, domainErrors.ErrTokenMissing))
	})

	t.Run("should build a token client", func(t *testing.T) {
		client, err := NewGitHubClient(context.Background(), Options{Token: "ghp_test"})

		require.NoError(t, err)
		assert.NotNil(t, client.prService)
		assert.NotNil(t, client.graphql)
	})

	t.Run("should reject malformed app keys", func(t *testing.T) {
		_, err := NewGitHubClient(context.Background(), Options{App: &AppCredentials{AppID: 1, InstallationID: 2, PrivateKey: []byte("nope")}})

		assert.True(t, errors.Is(err, domainErrors.ErrAppAuth))
	})
}

func TestGraphQLURL(t *testing.T) {
	tests := map[string]string{
		"https://api.github.com":          "https://api.github.com/graphql",
		"https://ghe.example.com/api/v3":  "https://ghe.example.com/api/graphql",
		"https://ghe.example.com/api/v3/": "https://ghe.example.com/api/graphql",
		"http://127.0.0.1:8080":           "http://127.0.0.1:8080/graphql",
	}
	for in, want := range tests {
		assert.Equal(t, want, graphQLURL(in), in)
	}
}
