package util

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"exusiai.dev/drawbank/internal/model"
)

// RankGroups returns the n groups with the most assemblies, most numerous first, each
// with a copy of its yearly counts. Groups with equal totals keep the order in which
// they were first encountered while parsing. n larger than the number of groups is
// clamped; n <= 0 yields no groups.
func RankGroups(groups *model.YearGroupTally, n int) model.RankedGroups {
	if n <= 0 || groups == nil {
		return model.RankedGroups{}
	}

	ranked := lo.Map(groups.Groups(), func(group string, _ int) model.RankedGroup {
		years := groups.Years(group)
		return model.RankedGroup{
			Group: group,
			Total: lo.Sum(lo.Values(years)),
			Years: years,
		}
	})
	slices.SortStableFunc(ranked, func(a, b model.RankedGroup) bool {
		return a.Total > b.Total
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}
