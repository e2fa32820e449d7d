package rank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/prtriage/internal/config"
	domainErrors "github.com/thomas-vilte/prtriage/internal/errors"
	"github.com/thomas-vilte/prtriage/internal/i18n"
	"github.com/thomas-vilte/prtriage/internal/models"
	"github.com/thomas-vilte/prtriage/internal/scoring"
	"github.com/thomas-vilte/prtriage/internal/services"
)

func init() {
	color.NoColor = true
}

type fakeServiceFactory struct {
	svc     services.Ranking
	err     error
	weights scoring.Weights
}

func (f *fakeServiceFactory) CreateRankingService(_ context.Context, w scoring.Weights) (services.Ranking, error) {
	f.weights = w
	return f.svc, f.err
}

func setupRankTest(t *testing.T) (*services.MockRanking, *fakeServiceFactory, *cli.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	translations, err := i18n.NewTranslations("en")
	require.NoError(t, err)

	svc := &services.MockRanking{}
	f := &fakeServiceFactory{svc: svc}

	var out, errOut bytes.Buffer
	app := &cli.Command{
		Name:      "prtriage",
		Writer:    &out,
		ErrWriter: &errOut,
		Commands:  []*cli.Command{NewRankCommandFactory(f).CreateCommand(translations, config.Default())},
	}
	return svc, f, app, &out, &errOut
}

func sampleResult(owner, repo string) *models.RankResult {
	return &models.RankResult{
		Owner: owner,
		Repo:  repo,
		Total: 3,
		PRs: []models.FilteredPR{
			{PullRequest: models.PullRequest{Number: 1, Title: "Small fix", Additions: 3}, Score: 2},
			{PullRequest: models.PullRequest{Number: 2, Title: "New engine", Additions: 900}, Score: 8},
		},
		Filtered: 1,
		Excluded: []models.ExcludedPR{{Number: 3, Title: "WIP", Reason: "draft"}},
	}
}

func TestRankCommand(t *testing.T) {
	t.Run("should print a sorted ranking as JSON", func(t *testing.T) {
		// Arrange
		svc, _, app, out, _ := setupRankTest(t)
		svc.On("Rank", mock.Anything, mock.MatchedBy(func(r services.RankRequest) bool {
			return r.Owner == "acme" && r.Repo == "widgets" && r.Limit == 50 && !r.NoCache
		})).Return(sampleResult("acme", "widgets"), nil)

		// Act
		err := app.Run(context.Background(), []string{"prtriage", "rank", "-o", "json", "acme/widgets"})

		// Assert
		require.NoError(t, err)
		var got models.RankResult
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		require.Len(t, got.PRs, 2)
		assert.Equal(t, 2, got.PRs[0].Number)
		assert.Equal(t, 1, got.PRs[1].Number)
		svc.AssertExpectations(t)
	})

	t.Run("should sort ascending by another field", func(t *testing.T) {
		// Arrange
		svc, _, app, out, _ := setupRankTest(t)
		svc.On("Rank", mock.Anything, mock.Anything).Return(sampleResult("acme", "widgets"), nil)

		// Act
		err := app.Run(context.Background(), []string{"prtriage", "rank", "-o", "json", "--sort", "additions", "--asc", "acme/widgets"})

		// Assert
		require.NoError(t, err)
		var got models.RankResult
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, 1, got.PRs[0].Number)
	})

	t.Run("should pass limit, cache and filter flags to the service", func(t *testing.T) {
		// Arrange
		svc, _, app, _, _ := setupRankTest(t)
		svc.On("Rank", mock.Anything, mock.MatchedBy(func(r services.RankRequest) bool {
			return r.Limit == 1000 && r.NoCache && r.Filters.ExcludeConflicts && !r.Filters.ExcludeDrafts &&
				assert.ObjectsAreEqual([]string{"frozen"}, r.Filters.HoldLabels)
		})).Return(sampleResult("acme", "widgets"), nil)

		// Act
		err := app.Run(context.Background(), []string{
			"prtriage", "rank", "-o", "yaml",
			"--limit", "5000", "--no-cache",
			"--exclude-conflicts", "--exclude-drafts=false", "--hold-labels", "frozen",
			"https://github.com/acme/widgets",
		})

		// Assert
		require.NoError(t, err)
		svc.AssertExpectations(t)
	})

	t.Run("should rank several repositories at once", func(t *testing.T) {
		// Arrange
		svc, _, app, out, _ := setupRankTest(t)
		svc.On("RankMany", mock.Anything, mock.MatchedBy(func(reqs []services.RankRequest) bool {
			return len(reqs) == 2 && reqs[0].Repo == "widgets" && reqs[1].Repo == "gadgets"
		})).Return([]*models.RankResult{sampleResult("acme", "widgets"), sampleResult("acme", "gadgets")}, nil)

		// Act
		err := app.Run(context.Background(), []string{"prtriage", "rank", "-o", "json", "acme/widgets", "acme/gadgets"})

		// Assert
		require.NoError(t, err)
		var got []models.RankResult
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "gadgets", got[1].Repo)
	})

	t.Run("should render a table with the excluded pull requests", func(t *testing.T) {
		// Arrange
		svc, _, app, out, _ := setupRankTest(t)
		svc.On("Rank", mock.Anything, mock.Anything).Return(sampleResult("acme", "widgets"), nil)

		// Act
		err := app.Run(context.Background(), []string{"prtriage", "rank", "--show-filtered", "acme/widgets"})

		// Assert
		require.NoError(t, err)
		assert.Contains(t, out.String(), "New engine")
		assert.Contains(t, out.String(), "WIP")
		assert.Contains(t, out.String(), "draft")
	})

	t.Run("should warn when the weights do not add up to one", func(t *testing.T) {
		// Arrange
		svc, f, app, _, errOut := setupRankTest(t)
		svc.On("Rank", mock.Anything, mock.Anything).Return(sampleResult("acme", "widgets"), nil)

		// Act
		err := app.Run(context.Background(), []string{"prtriage", "rank", "-o", "json", "-w", "lines=0.9", "acme/widgets"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 0.9, f.weights.Lines)
		assert.Contains(t, errOut.String(), "1.65")
	})

	t.Run("should reject a missing repository", func(t *testing.T) {
		_, _, app, _, _ := setupRankTest(t)

		err := app.Run(context.Background(), []string{"prtriage", "rank"})

		assert.True(t, errors.Is(err, domainErrors.ErrInvalidRepository))
	})

	t.Run("should reject an unknown sort field", func(t *testing.T) {
		_, _, app, _, _ := setupRankTest(t)

		err := app.Run(context.Background(), []string{"prtriage", "rank", "--sort", "stars", "acme/widgets"})

		assert.True(t, errors.Is(err, domainErrors.ErrInvalidSortField))
	})

	t.Run("should reject an invalid weight", func(t *testing.T) {
		_, _, app, _, _ := setupRankTest(t)

		err := app.Run(context.Background(), []string{"prtriage", "rank", "-w", "stars=1", "acme/widgets"})

		assert.True(t, errors.Is(err, domainErrors.ErrUnknownWeight))
	})

	t.Run("should return service errors", func(t *testing.T) {
		// Arrange
		svc, _, app, _, _ := setupRankTest(t)
		svc.On("Rank", mock.Anything, mock.Anything).Return(nil, domainErrors.ErrRepositoryNotFound)

		// Act
		err := app.Run(context.Background(), []string{"prtriage", "rank", "-o", "json", "acme/widgets"})

		// Assert
		assert.True(t, errors.Is(err, domainErrors.ErrRepositoryNotFound))
	})

	t.Run("should return factory errors", func(t *testing.T) {
		// Arrange
		_, f, app, _, _ := setupRankTest(t)
		f.err = domainErrors.ErrTokenMissing

		// Act
		err := app.Run(context.Background(), []string{"prtriage", "rank", "acme/widgets"})

		// Assert
		assert.True(t, errors.Is(err, domainErrors.ErrTokenMissing))
	})
}
