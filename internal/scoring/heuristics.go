package scoring

import (
	"math"

	"github.com/thomas-vilte/prtriage/internal/models"
)

var (
	lineThresholds = []int{10, 50, 100, 250, 500, 1000}
	lineScores     = []int{1, 2, 3, 5, 7, 9, 10}
	fileThresholds = []int{1, 3, 5, 10, 20, 50}
	fileScores     = []int{1, 2, 3, 5, 7, 9, 10}
	depThresholds  = []int{0, 1, 2, 3}
	depScores      = []int{1, 3, 5, 7, 9}
)

const (
	minLargeChangeFiles = 5
	minRefactorFiles    = 3
	refactorRatioLow    = 0.3
	refactorRatioHigh   = 0.7
	mechanicalMaxCV     = 0.3
)

// ThresholdScore returns scores[i] for the smallest i with value <= thresholds[i],
// or the last score when value exceeds every threshold.
// scores must have one more element than thresholds.
func ThresholdScore(value int, thresholds, scores []int) int {
	for i, t := range thresholds {
		if value <= t {
			return scores[i]
		}
	}
	return scores[len(scores)-1]
}

func LinesScore(additions, deletions int) int {
	return ThresholdScore(additions+deletions, lineThresholds, lineScores)
}

func FilesScore(files []models.ChangedFile) int {
	return ThresholdScore(len(files), fileThresholds, fileScores)
}

// FileTypesScore rewards changes that touch costly or diverse kinds of files.
func FileTypesScore(files []models.ChangedFile) int {
	if len(files) == 0 {
		return 1
	}

	seen := make(map[CategoryName]struct{})
	var total float64
	for _, f := range files {
		c := Categorize(f.Path)
		seen[c.Name] = struct{}{}
		total += c.ComplexityWeight
	}

	avg := total / float64(len(files))
	bonus := math.Min(float64(len(seen)-1), 3)
	return clamp(int(math.Round(avg*7+bonus)), 1, 10)
}

// TestCoverageScore is low when core logic changes ship with tests.
func TestCoverageScore(files []models.ChangedFile) int {
	if len(files) == 0 {
		return 1
	}

	var tests, core int
	for _, f := range files {
		if testCategory.Matches(f.Path) {
			tests++
		}
		if Categorize(f.Path) == coreLogicCategory {
			core++
		}
	}

	if core == 0 {
		return 1
	}
	if tests == 0 {
		return 8
	}

	ratio := float64(tests) / float64(core)
	switch {
	case ratio >= 1:
		return 1
	case ratio >= 0.5:
		return 3
	case ratio >= 0.25:
		return 5
	default:
		return 7
	}
}

func DocumentationScore(files []models.ChangedFile) int {
	if len(files) == 0 {
		return 1
	}

	docs := 0
	for _, f := range files {
		if documentationCategory.Matches(f.Path) {
			docs++
		}
	}

	ratio := float64(docs) / float64(len(files))
	switch {
	case ratio >= 0.9:
		return 1
	case ratio >= 0.5:
		return 3
	case ratio > 0:
		return 5
	default:
		return 6
	}
}

// CrossCuttingScore grows with the number of distinct top-level areas touched.
func CrossCuttingScore(files []models.ChangedFile) int {
	areas := make(map[int]struct{})
	for _, f := range files {
		for i, p := range crossCuttingAreas {
			if p.MatchString(f.Path) {
				areas[i] = struct{}{}
				break
			}
		}
	}

	switch n := len(areas); {
	case n <= 1:
		return 1
	case n <= 2:
		return 3
	case n <= 3:
		return 5
	case n <= 4:
		return 7
	default:
		return 9
	}
}

func CountDependencyChanges(files []models.ChangedFile) int {
	n := 0
	for _, f := range files {
		if dependencyCategory.Matches(f.Path) {
			n++
		}
	}
	return n
}

func DependencyScore(files []models.ChangedFile) int {
	return ThresholdScore(CountDependencyChanges(files), depThresholds, depScores)
}

func IsDocumentationOnly(files []models.ChangedFile) bool {
	if len(files) == 0 {
		return false
	}
	for _, f := range files {
		if !documentationCategory.Matches(f.Path) {
			return false
		}
	}
	return true
}

// IsRefactoring reports a balanced mix of deletions and additions across many files.
func IsRefactoring(files []models.ChangedFile, additions, deletions int) bool {
	if len(files) < minRefactorFiles {
		return false
	}
	if additions+deletions == 0 {
		return false
	}
	ratio := float64(deletions) / float64(additions+deletions)
	return ratio >= refactorRatioLow && ratio <= refactorRatioHigh && len(files) >= minLargeChangeFiles
}

// SeemsMechanical reports many files with near-identical change sizes,
// typical of renames and generated edits.
func SeemsMechanical(files []models.ChangedFile) bool {
	if len(files) < minLargeChangeFiles {
		return false
	}

	changes := make([]float64, len(files))
	var sum float64
	for i, f := range files {
		changes[i] = float64(f.Additions + f.Deletions)
		sum += changes[i]
	}

	mean := sum / float64(len(changes))
	if mean == 0 {
		return true
	}

	var variance float64
	for _, c := range changes {
		variance += (c - mean) * (c - mean)
	}
	variance /= float64(len(changes))

	return math.Sqrt(variance)/mean < mechanicalMaxCV
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
