package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/thomas-vilte/prtriage/internal/i18n"
	"github.com/thomas-vilte/prtriage/internal/services"
)

// RenderScoreReport prints the verdict for a single pull request.
func RenderScoreReport(w io.Writer, t *i18n.Translations, report *services.ScoreReport, showFiles bool) {
	pr := report.PR
	PrintSectionBanner(w, fmt.Sprintf("#%d %s", pr.Number, pr.Title))

	PrintKeyValue(w, t.GetMessage("score.label_score", 0, nil), ScoreBadge(pr.Score))
	PrintKeyValue(w, t.GetMessage("score.label_author", 0, nil), pr.Author)
	PrintKeyValue(w, t.GetMessage("score.label_size", 0, nil),
		fmt.Sprintf("+%d/-%d, %d files", pr.Additions, pr.Deletions, pr.ChangedFiles))

	if report.Filter.Passes {
		PrintKeyValue(w, t.GetMessage("score.label_filters", 0, nil), t.GetMessage("score.passes", 0, nil))
	} else {
		PrintKeyValue(w, t.GetMessage("score.label_filters", 0, nil),
			t.GetMessage("score.excluded", 0, map[string]interface{}{"Reasons": strings.Join(report.Filter.Reasons, ", ")}))
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, Info.Sprint(t.GetMessage("score.breakdown_header", 0, nil)))
	b := pr.ScoreBreakdown
	for _, dim := range []struct {
		id    string
		value int
	}{
		{"score.dim_lines", b.Lines},
		{"score.dim_files", b.Files},
		{"score.dim_file_types", b.FileTypes},
		{"score.dim_deps", b.Deps},
		{"score.dim_tests", b.Tests},
		{"score.dim_docs", b.Docs},
		{"score.dim_cross_cutting", b.CrossCutting},
	} {
		PrintKeyValue(w, t.GetMessage(dim.id, 0, nil), strconv.Itoa(dim.value)+"/10")
	}

	if showFiles {
		ShowFilesTree(w, pr.Files, t.GetMessage("score.files_header", 0, nil))
	}
}
