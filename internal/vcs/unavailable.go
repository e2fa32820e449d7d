package vcs

import (
	"context"

	"github.com/thomas-vilte/prtriage/internal/models"
)

// Unavailable fails every call with Err. The server uses it to start without
// credentials and answer 401 until a token is configured.
type Unavailable struct {
	Err error
}

func (u Unavailable) ListOpenPRs(context.Context, string, string, int) ([]models.PullRequest, error) {
	return nil, u.Err
}

func (u Unavailable) GetPR(context.Context, string, string, int) (*models.PullRequest, error) {
	return nil, u.Err
}
