package scoring

import (
	"math"
	"sort"

	"github.com/thomas-vilte/prtriage/internal/models"
)

const (
	refactorMultiplier   = 1.15
	mechanicalMultiplier = 0.6
	minScore             = 1
	maxScore             = 10
)

// Engine scores pull requests by estimated review complexity.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	weights Weights
}

func NewEngine(w Weights) *Engine {
	return &Engine{weights: w}
}

func (e *Engine) Weights() Weights {
	return e.weights
}

// ScorePR returns the total score in [1,10] and the per-dimension breakdown.
// Breakdown dimensions are reported before the refactor and mechanical adjustments.
func (e *Engine) ScorePR(pr models.PullRequest) (int, models.ScoreBreakdown) {
	files := pr.Files

	if IsDocumentationOnly(files) {
		return minScore, models.ScoreBreakdown{
			Lines: 1, Files: 1, FileTypes: 1, Deps: 1, Tests: 1, Docs: 1, CrossCutting: 1, Total: 1,
		}
	}

	b := models.ScoreBreakdown{
		Lines:        LinesScore(pr.Additions, pr.Deletions),
		Files:        FilesScore(files),
		FileTypes:    FileTypesScore(files),
		Deps:         DependencyScore(files),
		Tests:        TestCoverageScore(files),
		Docs:         DocumentationScore(files),
		CrossCutting: CrossCuttingScore(files),
	}

	weighted := e.weightedSum(b)
	if IsRefactoring(files, pr.Additions, pr.Deletions) {
		weighted = math.Min(maxScore, weighted*refactorMultiplier)
	}
	if SeemsMechanical(files) {
		weighted = math.Max(minScore, weighted*mechanicalMultiplier)
	}

	b.Total = clamp(int(math.Round(weighted)), minScore, maxScore)
	return b.Total, b
}

func (e *Engine) weightedSum(b models.ScoreBreakdown) float64 {
	w := e.weights
	return float64(b.Lines)*w.Lines +
		float64(b.Files)*w.Files +
		float64(b.FileTypes)*w.FileTypes +
		float64(b.Deps)*w.Deps +
		float64(b.Tests)*w.Tests +
		float64(b.Docs)*w.Docs +
		float64(b.CrossCutting)*w.CrossCutting
}

// ScorePRs scores every pull request and returns them ordered by score, highest first.
// Pull requests with equal scores keep their input order.
func (e *Engine) ScorePRs(prs []models.PullRequest) []models.FilteredPR {
	out := make([]models.FilteredPR, 0, len(prs))
	for _, pr := range prs {
		score, breakdown := e.ScorePR(pr)
		out = append(out, models.FilteredPR{
			PullRequest:    pr,
			Score:          score,
			ScoreBreakdown: breakdown,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

type Complexity string

const (
	Easy   Complexity = "Easy"
	Medium Complexity = "Medium"
	Hard   Complexity = "Hard"
)

func ComplexityLabel(score int) Complexity {
	switch {
	case score <= 3:
		return Easy
	case score <= 6:
		return Medium
	default:
		return Hard
	}
}

// ComplexityColor returns green, yellow or red for the badge of a score.
func ComplexityColor(score int) string {
	switch ComplexityLabel(score) {
	case Easy:
		return "green"
	case Medium:
		return "yellow"
	default:
		return "red"
	}
}
