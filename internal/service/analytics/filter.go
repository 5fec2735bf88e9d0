package analytics

import (
	"sort"

	"github.com/Domenick1991/flightroutes/internal/domain"
)

// Options lists the filter choices present in a dataset.
type Options struct {
	Years []int    `json:"years"`
	Types []string `json:"types"`
}

// BuildOptions returns years ascending and types in first-seen order.
func BuildOptions(records []domain.RouteRecord) Options {
	years := make([]int, 0)
	types := make([]string, 0)
	seenYears := make(map[int]struct{})
	seenTypes := make(map[string]struct{})

	for _, r := range records {
		if _, ok := seenYears[r.Year]; !ok {
			seenYears[r.Year] = struct{}{}
			years = append(years, r.Year)
		}
		if _, ok := seenTypes[r.Type]; !ok {
			seenTypes[r.Type] = struct{}{}
			types = append(types, r.Type)
		}
	}
	sort.Ints(years)

	return Options{Years: years, Types: types}
}

// DefaultSelection selects every year and type.
func DefaultSelection(records []domain.RouteRecord) domain.Selection {
	opts := BuildOptions(records)
	return domain.NewSelection(opts.Years, opts.Types)
}

// Filter keeps rows whose year and type are both selected, in input order.
func Filter(records []domain.RouteRecord, sel domain.Selection) []domain.RouteRecord {
	out := make([]domain.RouteRecord, 0)
	if len(sel.Years) == 0 || len(sel.Types) == 0 {
		return out
	}
	for _, r := range records {
		if sel.HasYear(r.Year) && sel.HasType(r.Type) {
			out = append(out, r)
		}
	}
	return out
}
