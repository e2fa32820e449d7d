package services

import (
	"sort"
	"strings"

	domainErrors "github.com/thomas-vilte/prtriage/internal/errors"
	"github.com/thomas-vilte/prtriage/internal/models"
)

type lessFunc func(a, b *models.FilteredPR) bool

var sortFields = map[string]lessFunc{
	"score":        func(a, b *models.FilteredPR) bool { return a.Score < b.Score },
	"number":       func(a, b *models.FilteredPR) bool { return a.Number < b.Number },
	"additions":    func(a, b *models.FilteredPR) bool { return a.Additions < b.Additions },
	"deletions":    func(a, b *models.FilteredPR) bool { return a.Deletions < b.Deletions },
	"changedfiles": func(a, b *models.FilteredPR) bool { return a.ChangedFiles < b.ChangedFiles },
	"createdat":    func(a, b *models.FilteredPR) bool { return a.CreatedAt.Before(b.CreatedAt) },
	"updatedat":    func(a, b *models.FilteredPR) bool { return a.UpdatedAt.Before(b.UpdatedAt) },
}

// SortFields lists the accepted field names.
var SortFields = []string{"score", "number", "additions", "deletions", "changedFiles", "createdAt", "updatedAt"}

func lessFor(field string) (lessFunc, error) {
	less, ok := sortFields[strings.ToLower(field)]
	if !ok {
		return nil, domainErrors.ErrInvalidSortField.WithContext("detail", field+" (use "+strings.Join(SortFields, ", ")+")")
	}
	return less, nil
}

func ValidateSortField(field string) error {
	_, err := lessFor(field)
	return err
}

// Sort reorders prs in place by field, descending unless ascending is set.
// Equal elements keep their relative order.
func Sort(prs []models.FilteredPR, field string, ascending bool) error {
	less, err := lessFor(field)
	if err != nil {
		return err
	}
	sort.SliceStable(prs, func(i, j int) bool {
		if ascending {
			return less(&prs[i], &prs[j])
		}
		return less(&prs[j], &prs[i])
	})
	return nil
}
