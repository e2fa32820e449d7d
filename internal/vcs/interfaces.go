package vcs

import (
	"context"

	"github.com/thomas-vilte/prtriage/internal/models"
)

// PRProvider fetches pull request metadata from a hosting service.
type PRProvider interface {
	// ListOpenPRs returns at most limit open pull requests, including files, labels, reviews and review requests.
	ListOpenPRs(ctx context.Context, owner, repo string, limit int) ([]models.PullRequest, error)
	// GetPR returns a single pull request by number.
	GetPR(ctx context.Context, owner, repo string, number int) (*models.PullRequest, error)
}
