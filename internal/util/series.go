package util

import (
	"exusiai.dev/drawbank/internal/model"
	"exusiai.dev/drawbank/internal/pkg/bankerr"
)

// BuildSeries lays out one row per ranked group and year, followed by an Others row
// holding what is left of the year's total. Every year between the first and the last
// present in totals is emitted, ascending, so that charts never silently skip a year.
//
// When cumulative is set, each group's count becomes its running sum over the years.
func BuildSeries(totals model.YearTotals, ranked model.RankedGroups, cumulative bool) ([]model.SeriesRow, error) {
	first, last, ok := totals.Span()
	if !ok {
		return []model.SeriesRow{}, nil
	}

	rows := make([]model.SeriesRow, 0, (last-first+1)*(len(ranked)+1))
	// running sums are kept by series position, so a group literally labelled
	// "Others" does not share a sum with the remainder series
	running := make([]int, len(ranked)+1)

	emit := func(series int, group string, year int, count int) {
		if cumulative {
			count += running[series]
			running[series] = count
		}
		rows = append(rows, model.SeriesRow{
			Group: group,
			Year:  year,
			Count: count,
		})
	}

	for year := first; year <= last; year++ {
		remainder := totals[year]
		for i, g := range ranked {
			count := g.Years[year]
			remainder -= count
			emit(i, g.Group, year, count)
		}
		if remainder < 0 {
			return nil, bankerr.ErrInconsistentTally.Msg("ranked groups account for %d more assemblies than the %d recorded in %d", -remainder, totals[year], year)
		}
		emit(len(ranked), model.OthersLabel, year, remainder)
	}

	return rows, nil
}
