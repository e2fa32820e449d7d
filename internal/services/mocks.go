package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/thomas-vilte/prtriage/internal/filters"
	"github.com/thomas-vilte/prtriage/internal/models"
)

type MockPRProvider struct {
	mock.Mock
}

func (m *MockPRProvider) ListOpenPRs(ctx context.Context, owner, repo string, limit int) ([]models.PullRequest, error) {
	args := m.Called(ctx, owner, repo, limit)
	prs, _ := args.Get(0).([]models.PullRequest)
	return prs, args.Error(1)
}

func (m *MockPRProvider) GetPR(ctx context.Context, owner, repo string, number int) (*models.PullRequest, error) {
	args := m.Called(ctx, owner, repo, number)
	pr, _ := args.Get(0).(*models.PullRequest)
	return pr, args.Error(1)
}

type MockRanking struct {
	mock.Mock
}

func (m *MockRanking) Rank(ctx context.Context, req RankRequest) (*models.RankResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*models.RankResult)
	return res, args.Error(1)
}

func (m *MockRanking) RankMany(ctx context.Context, reqs []RankRequest) ([]*models.RankResult, error) {
	args := m.Called(ctx, reqs)
	res, _ := args.Get(0).([]*models.RankResult)
	return res, args.Error(1)
}

func (m *MockRanking) ScoreOne(ctx context.Context, owner, repo string, number int, cfg filters.Config) (*ScoreReport, error) {
	args := m.Called(ctx, owner, repo, number, cfg)
	report, _ := args.Get(0).(*ScoreReport)
	return report, args.Error(1)
}
