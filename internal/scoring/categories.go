package scoring

import "regexp"

type CategoryName string

const (
	CategoryDocumentation CategoryName = "documentation"
	CategoryConfig        CategoryName = "config"
	CategoryTest          CategoryName = "test"
	CategoryGenerated     CategoryName = "generated"
	CategoryDependency    CategoryName = "dependency"
	CategoryCoreLogic     CategoryName = "core_logic"
)

// FileCategory groups file paths that carry a similar review cost.
type FileCategory struct {
	Name             CategoryName
	Patterns         []*regexp.Regexp
	ComplexityWeight float64
}

// Matches reports whether any of the category patterns matches path.
func (c *FileCategory) Matches(path string) bool {
	for _, p := range c.Patterns {
		if p.MatchString(path) {
			return true
		}
	}
	return false
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+e))
	}
	return out
}

// Order matters: the first matching category wins and core_logic is the fallback.
var categories = []*FileCategory{
	{
		Name:             CategoryDocumentation,
		Patterns:         patterns(`\.md$`, `\.txt$`, `\.rst$`, `CHANGELOG`, `LICENSE`, `NOTICE`),
		ComplexityWeight: 0.1,
	},
	{
		Name: CategoryConfig,
		Patterns: patterns(`\.json$`, `\.ya?ml$`, `\.toml$`, `\.ini$`, `\.env`, `\.config\.`,
			`\.prettierrc`, `\.eslintrc`, `Makefile$`, `Dockerfile$`),
		ComplexityWeight: 0.3,
	},
	{
		Name:             CategoryTest,
		Patterns:         patterns(`\.test\.`, `\.spec\.`, `/__tests__/`, `/e2e/`, `\.stories\.`),
		ComplexityWeight: 0.4,
	},
	{
		Name:             CategoryGenerated,
		Patterns:         patterns(`\.lock$`, `\.min\.`, `/dist/`, `/build/`, `\.d\.ts$`),
		ComplexityWeight: 0.1,
	},
	{
		Name:             CategoryDependency,
		Patterns:         patterns(`package\.json$`, `go\.mod$`, `go\.sum$`, `requirements\.txt$`, `Cargo\.toml$`),
		ComplexityWeight: 0.5,
	},
	{
		Name:             CategoryCoreLogic,
		Patterns:         patterns(`\.tsx?$`, `\.jsx?$`, `\.go$`, `\.py$`, `\.rs$`, `\.java$`),
		ComplexityWeight: 1.0,
	},
}

var (
	documentationCategory = categoryByName(CategoryDocumentation)
	testCategory          = categoryByName(CategoryTest)
	dependencyCategory    = categoryByName(CategoryDependency)
	coreLogicCategory     = categoryByName(CategoryCoreLogic)
)

// Top-level areas of a codebase, used to measure how cross-cutting a change is.
var crossCuttingAreas = patterns(
	`^src/`, `^lib/`, `^api/`, `^components/`, `^hooks/`,
	`^utils/`, `^shared/`, `^features/`, `^app/`,
)

func categoryByName(name CategoryName) *FileCategory {
	for _, c := range categories {
		if c.Name == name {
			return c
		}
	}
	panic("scoring: unknown category " + string(name))
}

// Categories returns the category table in evaluation order.
// The returned categories must not be modified.
func Categories() []*FileCategory {
	out := make([]*FileCategory, len(categories))
	copy(out, categories)
	return out
}

// Categorize returns the first category whose patterns match path,
// falling back to core_logic when none do.
func Categorize(path string) *FileCategory {
	for _, c := range categories {
		if c.Name == CategoryCoreLogic {
			continue
		}
		if c.Matches(path) {
			return c
		}
	}
	return coreLogicCategory
}
