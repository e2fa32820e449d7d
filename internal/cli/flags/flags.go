package flags

import (
	"io"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/prtriage/internal/filters"
	"github.com/thomas-vilte/prtriage/internal/i18n"
	"github.com/thomas-vilte/prtriage/internal/scoring"
	"github.com/thomas-vilte/prtriage/internal/ui"
)

const (
	HoldLabels           = "hold-labels"
	SkipLabels           = "skip-labels"
	ExcludeDrafts        = "exclude-drafts"
	ExcludeApproved      = "exclude-approved"
	ExcludeHold          = "exclude-hold"
	ExcludeConflicts     = "exclude-conflicts"
	ExcludeActiveReviews = "exclude-active-reviews"
	ExcludeSkipReview    = "exclude-skip-review"
	Weight               = "weight"
	Output               = "output"
	NoCache              = "no-cache"
)

// paramNames maps CLI flags to the parameter names filters.FromValues reads.
var paramNames = map[string]string{
	filters.ParamHoldLabels:           HoldLabels,
	filters.ParamSkipLabels:           SkipLabels,
	filters.ParamExcludeDrafts:        ExcludeDrafts,
	filters.ParamExcludeApproved:      ExcludeApproved,
	filters.ParamExcludeHold:          ExcludeHold,
	filters.ParamExcludeConflicts:     ExcludeConflicts,
	filters.ParamExcludeActiveReviews: ExcludeActiveReviews,
	filters.ParamExcludeSkipReview:    ExcludeSkipReview,
}

var boolFlags = map[string]bool{
	ExcludeDrafts: true, ExcludeApproved: true, ExcludeHold: true,
	ExcludeConflicts: true, ExcludeActiveReviews: true, ExcludeSkipReview: true,
}

// FilterFlags declares one flag per filter setting. Unset flags keep the
// configured value.
func FilterFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: HoldLabels, Usage: t.GetMessage("flags.hold_labels", 0, nil)},
		&cli.StringFlag{Name: SkipLabels, Usage: t.GetMessage("flags.skip_labels", 0, nil)},
		&cli.BoolFlag{Name: ExcludeDrafts, Usage: t.GetMessage("flags.exclude_drafts", 0, nil)},
		&cli.BoolFlag{Name: ExcludeApproved, Usage: t.GetMessage("flags.exclude_approved", 0, nil)},
		&cli.BoolFlag{Name: ExcludeHold, Usage: t.GetMessage("flags.exclude_hold", 0, nil)},
		&cli.BoolFlag{Name: ExcludeConflicts, Usage: t.GetMessage("flags.exclude_conflicts", 0, nil)},
		&cli.BoolFlag{Name: ExcludeActiveReviews, Usage: t.GetMessage("flags.exclude_active_reviews", 0, nil)},
		&cli.BoolFlag{Name: ExcludeSkipReview, Usage: t.GetMessage("flags.exclude_skip_review", 0, nil)},
	}
}

// ScoringFlags declares --weight and --output.
func ScoringFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: Weight, Aliases: []string{"w"}, Usage: t.GetMessage("flags.weight", 0, nil)},
		&cli.StringFlag{Name: Output, Aliases: []string{"o"}, Value: string(ui.FormatTable), Usage: t.GetMessage("flags.output", 0, nil)},
	}
}

type commandValues struct {
	cmd *cli.Command
}

func (v commandValues) Get(param string) string {
	name := paramNames[param]
	if boolFlags[name] {
		return strconv.FormatBool(v.cmd.Bool(name))
	}
	return v.cmd.String(name)
}

func (v commandValues) Has(param string) bool {
	return v.cmd.IsSet(paramNames[param])
}

// FilterConfig reads the filter flags of cmd on top of defaults.
func FilterConfig(cmd *cli.Command, defaults filters.Config) filters.Config {
	return filters.FromValues(commandValues{cmd: cmd}, defaults)
}

// Weights applies --weight name=value overrides on top of base.
func Weights(cmd *cli.Command, base scoring.Weights) (scoring.Weights, error) {
	return scoring.ParseWeights(cmd.StringSlice(Weight), base)
}

func Format(cmd *cli.Command) (ui.Format, error) {
	return ui.ParseFormat(cmd.String(Output))
}

// Stdout is where command output goes; tests swap the root writer.
func Stdout(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

func Stderr(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.ErrWriter != nil {
		return root.ErrWriter
	}
	return os.Stderr
}
