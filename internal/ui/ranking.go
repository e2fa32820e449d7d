package ui

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/thomas-vilte/prtriage/internal/i18n"
	"github.com/thomas-vilte/prtriage/internal/models"
	"github.com/thomas-vilte/prtriage/internal/scoring"
)

const defaultTitleWidth = 50

var (
	badgeColors = map[string]lipgloss.Color{
		"green":  lipgloss.Color("2"),
		"yellow": lipgloss.Color("3"),
		"red":    lipgloss.Color("1"),
	}

	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("5")).
			Padding(0, 2)
)

type RankingOptions struct {
	ShowBreakdown bool
	ShowExcluded  bool
	TitleWidth    int
}

// ScoreBadge renders "7 Hard" in the color of its complexity band.
func ScoreBadge(score int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(badgeColors[scoring.ComplexityColor(score)])
	return style.Render(fmt.Sprintf("%d %s", score, scoring.ComplexityLabel(score)))
}

// Truncate shortens s to width runes, ending with an ellipsis when cut.
func Truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// RenderRanking writes the summary box, the ranked table and, optionally,
// the excluded pull requests.
func RenderRanking(w io.Writer, t *i18n.Translations, res *models.RankResult, opts RankingOptions) {
	_, _ = fmt.Fprintln(w, renderSummary(t, res))

	if len(res.PRs) == 0 {
		PrintInfo(w, t.GetMessage("rank.no_candidates", 0, nil))
	} else {
		_, _ = fmt.Fprintln(w, renderTable(t, res.PRs, opts))
	}

	if opts.ShowExcluded && len(res.Excluded) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, Dim.Sprint(t.GetMessage("rank.excluded_header", 0, nil)))
		for _, ex := range res.Excluded {
			_, _ = fmt.Fprintf(w, "   #%d %s %s\n", ex.Number, Truncate(ex.Title, titleWidth(opts)), Dim.Sprintf("(%s)", ex.Reason))
		}
	}
}

func titleWidth(opts RankingOptions) int {
	if opts.TitleWidth > 0 {
		return opts.TitleWidth
	}
	return defaultTitleWidth
}

func renderSummary(t *i18n.Translations, res *models.RankResult) string {
	source := t.GetMessage("rank.source_live", 0, nil)
	if res.Cached {
		source = t.GetMessage("rank.source_cache", 0, nil)
	}

	lines := []string{
		Accent.Sprintf("%s/%s", res.Owner, res.Repo),
		t.GetMessage("rank.summary_total", 0, map[string]interface{}{"Total": res.Total}),
		t.GetMessage("prs_filtered_count", res.Filtered, map[string]interface{}{"Count": res.Filtered}),
		t.GetMessage("rank.summary_candidates", 0, map[string]interface{}{"Count": len(res.PRs)}),
		t.GetMessage("rank.summary_fetched", 0, map[string]interface{}{
			"Time":   res.FetchedAt.Local().Format(time.RFC822),
			"Source": source,
		}),
	}
	return summaryStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderTable(t *i18n.Translations, prs []models.FilteredPR, opts RankingOptions) string {
	headers := []string{
		"#",
		t.GetMessage("rank.col_pr", 0, nil),
		t.GetMessage("rank.col_score", 0, nil),
		t.GetMessage("rank.col_lines", 0, nil),
		t.GetMessage("rank.col_files", 0, nil),
		t.GetMessage("rank.col_title", 0, nil),
		t.GetMessage("rank.col_author", 0, nil),
	}
	if opts.ShowBreakdown {
		headers = append(headers, "L", "F", "T", "D", "Ts", "Dc", "X")
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		})

	for i, pr := range prs {
		row := []string{
			strconv.Itoa(i + 1),
			"#" + strconv.Itoa(pr.Number),
			ScoreBadge(pr.Score),
			fmt.Sprintf("+%d/-%d", pr.Additions, pr.Deletions),
			strconv.Itoa(pr.ChangedFiles),
			Truncate(pr.Title, titleWidth(opts)),
			pr.Author,
		}
		if opts.ShowBreakdown {
			b := pr.ScoreBreakdown
			for _, v := range []int{b.Lines, b.Files, b.FileTypes, b.Deps, b.Tests, b.Docs, b.CrossCutting} {
				row = append(row, strconv.Itoa(v))
			}
		}
		tbl.Row(row...)
	}
	return tbl.Render()
}
