package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v80/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	domainErrors "github.com/thomas-vilte/prtriage/internal/errors"
	"github.com/thomas-vilte/prtriage/internal/logger"
	"github.com/thomas-vilte/prtriage/internal/models"
	"github.com/thomas-vilte/prtriage/internal/vcs"
)

var _ vcs.PRProvider = (*GitHubClient)(nil)

const (
	defaultHTTPTimeout = 30 * time.Second
	defaultAPIURL      = "https://api.github.com"
	restPageSize       = 100
	errorSource        = "github-client"
)

type PullRequestsService interface {
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
	ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error)
	ListReviews(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.PullRequestReview, *github.Response, error)
	ListReviewers(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) (*github.Reviewers, *github.Response, error)
}

// GraphQLClient is satisfied by *githubv4.Client.
type GraphQLClient interface {
	Query(ctx context.Context, q interface{}, variables map[string]interface{}) error
}

type GitHubClient struct {
	prService  PullRequestsService
	graphql    GraphQLClient
	errLog     *logger.ErrorLog
	retryDelay time.Duration
}

// Options configure NewGitHubClient. App takes precedence over Token.
type Options struct {
	Token       string
	App         *AppCredentials
	APIURL      string
	HTTPTimeout time.Duration
	ErrorLog    *logger.ErrorLog
}

func NewGitHubClient(ctx context.Context, opts Options) (*GitHubClient, error) {
	apiURL := strings.TrimSuffix(opts.APIURL, "/")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	timeout := opts.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	var source oauth2.TokenSource
	switch {
	case opts.App != nil:
		ts, err := NewAppTokenSource(ctx, opts.App, apiURL, nil)
		if err != nil {
			return nil, err
		}
		source = ts
	case opts.Token != "":
		source = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	default:
		return nil, domainErrors.ErrTokenMissing
	}

	httpClient := &http.Client{
		Transport: &oauth2.Transport{Source: source, Base: http.DefaultTransport},
		Timeout:   timeout,
	}

	rest, err := newRESTClient(httpClient, apiURL)
	if err != nil {
		return nil, err
	}

	return &GitHubClient{
		prService:  rest.PullRequests,
		graphql:    githubv4.NewEnterpriseClient(graphQLURL(apiURL), httpClient),
		errLog:     opts.ErrorLog,
		retryDelay: initialRetryDelay,
	}, nil
}

func NewGitHubClientWithServices(prService PullRequestsService, graphql GraphQLClient, errLog *logger.ErrorLog) *GitHubClient {
	return &GitHubClient{
		prService:  prService,
		graphql:    graphql,
		errLog:     errLog,
		retryDelay: initialRetryDelay,
	}
}

func newRESTClient(httpClient *http.Client, apiURL string) (*github.Client, error) {
	client := github.NewClient(httpClient)
	if apiURL == "" || apiURL == defaultAPIURL {
		return client, nil
	}
	base, err := url.Parse(strings.TrimSuffix(apiURL, "/") + "/")
	if err != nil {
		return nil, domainErrors.ErrConfigInvalid.WithError(err).WithContext("github_api_url", apiURL)
	}
	client.BaseURL = base
	return client, nil
}

// graphQLURL derives the GraphQL endpoint: api.github.com/graphql for the
// public API and <host>/api/graphql for Enterprise's <host>/api/v3.
func graphQLURL(apiURL string) string {
	apiURL = strings.TrimSuffix(apiURL, "/")
	return strings.TrimSuffix(apiURL, "/v3") + "/graphql"
}

// GetPR fetches one pull request over REST, with its files, reviews and
// pending review requests.
func (ghc *GitHubClient) GetPR(ctx context.Context, owner, repo string, number int) (*models.PullRequest, error) {
	repository := owner + "/" + repo
	log := logger.FromContext(ctx)
	log.Debug("fetching github pull request", "repository", repository, "pr_number", number)

	var pr *github.PullRequest
	err := ghc.withRetry(ctx, "get PR", func() error {
		var (
			resp *github.Response
			err  error
		)
		pr, resp, err = ghc.prService.Get(ctx, owner, repo, number)
		if err != nil {
			return classifyREST(err, resp, repository)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrRepositoryNotFound) {
			err = domainErrors.ErrPRNotFound.
				WithContext("repository", repository).
				WithContext("pr_number", number)
		}
		return nil, ghc.report(ctx, "get PR", err)
	}

	files, err := ghc.listFiles(ctx, owner, repo, number)
	if err != nil {
		return nil, ghc.report(ctx, "list PR files", err)
	}
	reviews, err := ghc.listReviews(ctx, owner, repo, number)
	if err != nil {
		return nil, ghc.report(ctx, "list PR reviews", err)
	}
	requested, err := ghc.listRequestedReviewers(ctx, owner, repo, number)
	if err != nil {
		return nil, ghc.report(ctx, "list PR reviewers", err)
	}

	result := convertRESTPullRequest(pr)
	result.Files = files
	result.Reviews = reviews
	result.ReviewRequests = requested

	log.Debug("github PR fetched successfully",
		"pr_number", number,
		"files_count", len(files),
		"reviews_count", len(reviews))
	return &result, nil
}

func (ghc *GitHubClient) listFiles(ctx context.Context, owner, repo string, number int) ([]models.ChangedFile, error) {
	repository := owner + "/" + repo
	opts := &github.ListOptions{PerPage: restPageSize}
	var files []models.ChangedFile

	for {
		var (
			page []*github.CommitFile
			resp *github.Response
		)
		err := ghc.withRetry(ctx, "list PR files", func() error {
			var err error
			page, resp, err = ghc.prService.ListFiles(ctx, owner, repo, number, opts)
			if err != nil {
				return classifyREST(err, resp, repository)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		for _, f := range page {
			if f == nil {
				continue
			}
			files = append(files, models.ChangedFile{
				Path:       f.GetFilename(),
				Additions:  f.GetAdditions(),
				Deletions:  f.GetDeletions(),
				ChangeType: changeTypeFromREST(f.GetStatus()),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			return files, nil
		}
		opts.Page = resp.NextPage
	}
}

func (ghc *GitHubClient) listReviews(ctx context.Context, owner, repo string, number int) ([]models.Review, error) {
	repository := owner + "/" + repo
	opts := &github.ListOptions{PerPage: restPageSize}
	var reviews []models.Review

	for {
		var (
			page []*github.PullRequestReview
			resp *github.Response
		)
		err := ghc.withRetry(ctx, "list PR reviews", func() error {
			var err error
			page, resp, err = ghc.prService.ListReviews(ctx, owner, repo, number, opts)
			if err != nil {
				return classifyREST(err, resp, repository)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		for _, r := range page {
			if r == nil {
				continue
			}
			reviews = append(reviews, models.Review{
				Author:      r.GetUser().GetLogin(),
				State:       models.ReviewState(strings.ToUpper(r.GetState())),
				SubmittedAt: r.GetSubmittedAt().Time,
			})
		}

		if resp == nil || resp.NextPage == 0 {
			return reviews, nil
		}
		opts.Page = resp.NextPage
	}
}

func (ghc *GitHubClient) listRequestedReviewers(ctx context.Context, owner, repo string, number int) ([]string, error) {
	repository := owner + "/" + repo
	var reviewers *github.Reviewers
	err := ghc.withRetry(ctx, "list PR reviewers", func() error {
		var (
			resp *github.Response
			err  error
		)
		reviewers, resp, err = ghc.prService.ListReviewers(ctx, owner, repo, number, &github.ListOptions{PerPage: restPageSize})
		if err != nil {
			return classifyREST(err, resp, repository)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logins := []string{}
	if reviewers == nil {
		return logins, nil
	}
	for _, u := range reviewers.Users {
		if login := u.GetLogin(); login != "" {
			logins = append(logins, login)
		}
	}
	return logins, nil
}

// report records err in the error log and returns it unchanged.
func (ghc *GitHubClient) report(ctx context.Context, operation string, err error) error {
	if isUserError(err) {
		ghc.errLog.UserError(ctx, errorSource, err.Error(), operation)
	} else {
		ghc.errLog.ProductError(ctx, errorSource, fmt.Sprintf("GitHub request failed: %s", operation), err)
	}
	return err
}

func convertRESTPullRequest(pr *github.PullRequest) models.PullRequest {
	labels := make([]models.Label, 0, len(pr.Labels))
	for _, l := range pr.Labels {
		if l == nil {
			continue
		}
		labels = append(labels, models.Label{Name: l.GetName(), Color: l.GetColor()})
	}

	mergeable := models.Unknown
	if pr.Mergeable != nil {
		if *pr.Mergeable {
			mergeable = models.Mergeable
		} else {
			mergeable = models.Conflicting
		}
	}

	return models.PullRequest{
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		Body:         pr.GetBody(),
		Author:       pr.GetUser().GetLogin(),
		URL:          pr.GetHTMLURL(),
		CreatedAt:    pr.GetCreatedAt().Time,
		UpdatedAt:    pr.GetUpdatedAt().Time,
		IsDraft:      pr.GetDraft(),
		Mergeable:    mergeable,
		HeadRef:      pr.GetHead().GetRef(),
		BaseRef:      pr.GetBase().GetRef(),
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
		ChangedFiles: pr.GetChangedFiles(),
		Labels:       labels,
	}
}

func changeTypeFromREST(status string) models.FileChangeType {
	switch status {
	case "added":
		return models.ChangeAdded
	case "removed":
		return models.ChangeDeleted
	case "renamed":
		return models.ChangeRenamed
	default:
		return models.ChangeModified
	}
}
