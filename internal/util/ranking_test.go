package util

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"exusiai.dev/drawbank/internal/model"
)

func tallyOf(rows ...model.SeriesRow) *model.YearGroupTally {
	t := model.NewYearGroupTally()
	for _, r := range rows {
		t.Add(r.Group, r.Year, r.Count)
	}
	return t
}

func TestRankGroups(t *testing.T) {
	groups := tallyOf(
		model.SeriesRow{Group: "Escherichia coli", Year: 2019, Count: 2},
		model.SeriesRow{Group: "Salmonella enterica", Year: 2019, Count: 5},
		model.SeriesRow{Group: "Homo sapiens", Year: 2020, Count: 1},
		model.SeriesRow{Group: "Escherichia coli", Year: 2020, Count: 3},
		model.SeriesRow{Group: "Mus musculus", Year: 2021, Count: 1},
	)

	type testCase struct {
		name   string
		n      int
		expect []string
	}

	testCases := []testCase{
		{"zero disables ranking", 0, []string{}},
		{"negative behaves as zero", -3, []string{}},
		{"top one", 1, []string{"Escherichia coli"}},
		{"ties keep encounter order", 4, []string{"Escherichia coli", "Salmonella enterica", "Homo sapiens", "Mus musculus"}},
		{"clamped to group count", 42, []string{"Escherichia coli", "Salmonella enterica", "Homo sapiens", "Mus musculus"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ranked := RankGroups(groups, tc.n)
			assert.Equal(t, tc.expect, ranked.Labels())
		})
	}
}

func TestRankGroupsCopiesYears(t *testing.T) {
	groups := tallyOf(model.SeriesRow{Group: "bacteria", Year: 2020, Count: 1})

	ranked := RankGroups(groups, 1)
	ranked[0].Years[2020] = 100

	assert.Equal(t, 1, groups.Count("bacteria", 2020), "ranking must not alias the tally")
	assert.Equal(t, 1, ranked[0].Total)
}

func TestRankGroupsMonotonic(t *testing.T) {
	groups := model.NewYearGroupTally()
	for i := 0; i < 50; i++ {
		groups.Add(string(rune('a'+i%26))+string(rune('a'+i/26)), 2000+i%7, (i*37)%11+1)
	}

	ranked := RankGroups(groups, groups.Len())
	assert.Len(t, ranked, groups.Len())
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Total, ranked[i].Total, "rank %d before rank %d", i-1, i)
	}
}

func TestRankGroupsNil(t *testing.T) {
	assert.Empty(t, RankGroups(nil, 5))
	assert.Empty(t, RankGroups(model.NewYearGroupTally(), 5))
}
