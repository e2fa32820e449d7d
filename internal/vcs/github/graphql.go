package github

import (
	"context"
	"strings"

	"github.com/shurcooL/githubv4"

	"github.com/thomas-vilte/prtriage/internal/logger"
	"github.com/thomas-vilte/prtriage/internal/models"
)

const graphQLPageSize = 100

type prNode struct {
	Number       githubv4.Int
	Title        githubv4.String
	Body         githubv4.String
	URL          githubv4.URI
	CreatedAt    githubv4.DateTime
	UpdatedAt    githubv4.DateTime
	IsDraft      githubv4.Boolean
	Mergeable    githubv4.MergeableState
	HeadRefName  githubv4.String
	BaseRefName  githubv4.String
	Additions    githubv4.Int
	Deletions    githubv4.Int
	ChangedFiles githubv4.Int
	Author       struct{ Login githubv4.String }
	Labels       struct {
		Nodes []*struct {
			Name  githubv4.String
			Color githubv4.String
		}
	} `graphql:"labels(first: 20)"`
	Reviews struct {
		Nodes []*struct {
			Author      struct{ Login githubv4.String }
			State       githubv4.PullRequestReviewState
			SubmittedAt *githubv4.DateTime
		}
	} `graphql:"reviews(first: 50)"`
	ReviewRequests struct {
		Nodes []*struct {
			RequestedReviewer struct {
				User struct{ Login githubv4.String } `graphql:"... on User"`
			}
		}
	} `graphql:"reviewRequests(first: 20)"`
	Files struct {
		Nodes []*struct {
			Path       githubv4.String
			Additions  githubv4.Int
			Deletions  githubv4.Int
			ChangeType githubv4.String
		}
	} `graphql:"files(first: 100)"`
}

type openPRsQuery struct {
	Repository *struct {
		PullRequests struct {
			TotalCount githubv4.Int
			PageInfo   struct {
				HasNextPage githubv4.Boolean
				EndCursor   githubv4.String
			}
			Nodes []*prNode
		} `graphql:"pullRequests(first: $first, after: $cursor, states: OPEN)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// ListOpenPRs pages through open pull requests over GraphQL until limit is
// reached or the connection is exhausted.
func (ghc *GitHubClient) ListOpenPRs(ctx context.Context, owner, repo string, limit int) ([]models.PullRequest, error) {
	repository := owner + "/" + repo
	log := logger.FromContext(ctx)
	log.Debug("fetching open pull requests", "repository", repository, "limit", limit)

	var (
		prs    []models.PullRequest
		cursor *githubv4.String
		pages  int
	)

	for {
		var q openPRsQuery
		variables := map[string]interface{}{
			"owner":  githubv4.String(owner),
			"name":   githubv4.String(repo),
			"first":  githubv4.Int(graphQLPageSize),
			"cursor": cursor,
		}

		err := ghc.withRetry(ctx, "list open PRs", func() error {
			if err := ghc.graphql.Query(ctx, &q, variables); err != nil {
				return classifyGraphQL(err, repository)
			}
			return nil
		})
		if err != nil {
			return nil, ghc.report(ctx, "list open PRs", err)
		}
		pages++

		if q.Repository == nil {
			break
		}
		conn := q.Repository.PullRequests
		for _, node := range conn.Nodes {
			if node == nil {
				continue
			}
			prs = append(prs, convertGraphQLNode(node))
		}

		if len(prs) >= limit || !bool(conn.PageInfo.HasNextPage) {
			break
		}
		next := conn.PageInfo.EndCursor
		cursor = &next
	}

	if len(prs) > limit {
		prs = prs[:limit]
	}
	log.Debug("open pull requests fetched", "repository", repository, "count", len(prs), "pages", pages)
	return prs, nil
}

func convertGraphQLNode(n *prNode) models.PullRequest {
	pr := models.PullRequest{
		Number:         int(n.Number),
		Title:          string(n.Title),
		Body:           string(n.Body),
		Author:         string(n.Author.Login),
		CreatedAt:      n.CreatedAt.Time,
		UpdatedAt:      n.UpdatedAt.Time,
		IsDraft:        bool(n.IsDraft),
		Mergeable:      mergeableFromGraphQL(n.Mergeable),
		HeadRef:        string(n.HeadRefName),
		BaseRef:        string(n.BaseRefName),
		Additions:      int(n.Additions),
		Deletions:      int(n.Deletions),
		ChangedFiles:   int(n.ChangedFiles),
		Labels:         []models.Label{},
		Reviews:        []models.Review{},
		Files:          []models.ChangedFile{},
		ReviewRequests: []string{},
	}
	if n.URL.URL != nil {
		pr.URL = n.URL.String()
	}

	for _, l := range n.Labels.Nodes {
		if l == nil {
			continue
		}
		pr.Labels = append(pr.Labels, models.Label{Name: string(l.Name), Color: string(l.Color)})
	}

	for _, r := range n.Reviews.Nodes {
		if r == nil {
			continue
		}
		review := models.Review{
			Author: string(r.Author.Login),
			State:  models.ReviewState(r.State),
		}
		if r.SubmittedAt != nil {
			review.SubmittedAt = r.SubmittedAt.Time
		}
		pr.Reviews = append(pr.Reviews, review)
	}

	for _, rr := range n.ReviewRequests.Nodes {
		if rr == nil {
			continue
		}
		if login := string(rr.RequestedReviewer.User.Login); login != "" {
			pr.ReviewRequests = append(pr.ReviewRequests, login)
		}
	}

	for _, f := range n.Files.Nodes {
		if f == nil {
			continue
		}
		pr.Files = append(pr.Files, models.ChangedFile{
			Path:       string(f.Path),
			Additions:  int(f.Additions),
			Deletions:  int(f.Deletions),
			ChangeType: changeTypeFromGraphQL(string(f.ChangeType)),
		})
	}

	return pr
}

func mergeableFromGraphQL(s githubv4.MergeableState) models.MergeableState {
	switch s {
	case githubv4.MergeableStateMergeable:
		return models.Mergeable
	case githubv4.MergeableStateConflicting:
		return models.Conflicting
	default:
		return models.Unknown
	}
}

func changeTypeFromGraphQL(s string) models.FileChangeType {
	switch strings.ToUpper(s) {
	case "ADDED":
		return models.ChangeAdded
	case "DELETED":
		return models.ChangeDeleted
	case "RENAMED":
		return models.ChangeRenamed
	default:
		return models.ChangeModified
	}
}
