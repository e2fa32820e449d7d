package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		path string
		want CategoryName
	}{
		{"README.md", CategoryDocumentation},
		{"docs/guide.md", CategoryDocumentation},
		{"CHANGELOG", CategoryDocumentation},
		{"LICENSE", CategoryDocumentation},
		{"notes.TXT", CategoryDocumentation},
		{"config.yaml", CategoryConfig},
		{"deploy/values.yml", CategoryConfig},
		{"Dockerfile", CategoryConfig},
		{"Makefile", CategoryConfig},
		{".env.local", CategoryConfig},
		{"jest.config.ts", CategoryConfig},
		{"src/app.test.ts", CategoryTest},
		{"src/app.spec.js", CategoryTest},
		{"src/__tests__/app.ts", CategoryTest},
		{"web/e2e/login.ts", CategoryTest},
		{"src/Button.stories.tsx", CategoryTest},
		{"yarn.lock", CategoryGenerated},
		{"vendor/jquery.min.js", CategoryGenerated},
		{"web/dist/app.js", CategoryGenerated},
		{"types/index.d.ts", CategoryGenerated},
		{"go.mod", CategoryDependency},
		{"go.sum", CategoryDependency},
		{"Cargo.toml", CategoryConfig},
		{"package.json", CategoryConfig},
		{"requirements.txt", CategoryDocumentation},
		{"src/main.go", CategoryCoreLogic},
		{"internal/server/server.go", CategoryCoreLogic},
		{"__tests__/root.ts", CategoryCoreLogic},
		{"scripts/run.sh", CategoryCoreLogic},
		{"", CategoryCoreLogic},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			// Act
			got := Categorize(tt.path)

			// Assert
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestCategories(t *testing.T) {
	t.Run("should keep core_logic last and weights within [0,1]", func(t *testing.T) {
		// Act
		cats := Categories()

		// Assert
		assert.Len(t, cats, 6)
		assert.Equal(t, CategoryCoreLogic, cats[len(cats)-1].Name)
		for _, c := range cats {
			assert.GreaterOrEqual(t, c.ComplexityWeight, 0.0)
			assert.LessOrEqual(t, c.ComplexityWeight, 1.0)
		}
	})

	t.Run("should not expose the internal table slice", func(t *testing.T) {
		// Arrange
		cats := Categories()

		// Act
		cats[0] = nil

		// Assert
		assert.Equal(t, CategoryDocumentation, Categorize("README.md").Name)
	})
}
