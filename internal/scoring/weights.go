package scoring

import (
	"strconv"
	"strings"

	"github.com/thomas-vilte/prtriage/internal/errors"
)

// Weights sets how much each dimension contributes to the total score.
// They are expected to sum to 1.0 but the engine does not enforce it.
type Weights struct {
	Lines        float64 `toml:"lines" json:"lines" yaml:"lines"`
	Files        float64 `toml:"files" json:"files" yaml:"files"`
	FileTypes    float64 `toml:"file_types" json:"fileTypes" yaml:"fileTypes"`
	Deps         float64 `toml:"deps" json:"deps" yaml:"deps"`
	Tests        float64 `toml:"tests" json:"tests" yaml:"tests"`
	Docs         float64 `toml:"docs" json:"docs" yaml:"docs"`
	CrossCutting float64 `toml:"cross_cutting" json:"crossCutting" yaml:"crossCutting"`
}

func DefaultWeights() Weights {
	return Weights{
		Lines:        0.25,
		Files:        0.20,
		FileTypes:    0.15,
		Deps:         0.15,
		Tests:        0.10,
		Docs:         0.05,
		CrossCutting: 0.10,
	}
}

func (w Weights) Sum() float64 {
	return w.Lines + w.Files + w.FileTypes + w.Deps + w.Tests + w.Docs + w.CrossCutting
}

// Set assigns the weight for a dimension. Names are matched case-insensitively
// and accept both camelCase and snake_case spellings.
func (w *Weights) Set(name string, value float64) error {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "")) {
	case "lines":
		w.Lines = value
	case "files":
		w.Files = value
	case "filetypes":
		w.FileTypes = value
	case "deps":
		w.Deps = value
	case "tests":
		w.Tests = value
	case "docs":
		w.Docs = value
	case "crosscutting":
		w.CrossCutting = value
	default:
		return errors.ErrUnknownWeight.WithContext("weight", name)
	}
	return nil
}

// ParseWeights applies name=value overrides on top of base.
func ParseWeights(overrides []string, base Weights) (Weights, error) {
	w := base
	for _, o := range overrides {
		name, raw, ok := strings.Cut(o, "=")
		if !ok {
			return base, errors.ErrInvalidWeight.WithContext("weight", o)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || v < 0 {
			return base, errors.ErrInvalidWeight.WithError(err).WithContext("weight", o)
		}
		if err := w.Set(name, v); err != nil {
			return base, err
		}
	}
	return w, nil
}
