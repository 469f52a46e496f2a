package model

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// YearGroupTally counts assemblies per group and per year. Groups remember the order in
// which they were first added, which is the tie-break order used when ranking.
type YearGroupTally struct {
	groups []string
	counts map[string]map[int]int
}

func NewYearGroupTally() *YearGroupTally {
	return &YearGroupTally{
		groups: []string{},
		counts: map[string]map[int]int{},
	}
}

// Add increments the count of group at year by n.
func (t *YearGroupTally) Add(group string, year int, n int) {
	years, ok := t.counts[group]
	if !ok {
		years = map[int]int{}
		t.counts[group] = years
		t.groups = append(t.groups, group)
	}
	if _, ok := years[year]; !ok {
		years[year] = 0
	}
	years[year] += n
}

// Merge adds every count of other into t. Groups unknown to t are appended in the
// order other first saw them.
func (t *YearGroupTally) Merge(other *YearGroupTally) {
	for _, group := range other.groups {
		for year, n := range other.counts[group] {
			t.Add(group, year, n)
		}
	}
}

// Groups returns the group labels in first-seen order.
func (t *YearGroupTally) Groups() []string {
	groups := make([]string, len(t.groups))
	copy(groups, t.groups)
	return groups
}

// Years returns a copy of the per-year counts of group, or nil when the group is unknown.
func (t *YearGroupTally) Years(group string) map[int]int {
	years, ok := t.counts[group]
	if !ok {
		return nil
	}
	cp := make(map[int]int, len(years))
	for year, n := range years {
		cp[year] = n
	}
	return cp
}

func (t *YearGroupTally) Count(group string, year int) int {
	return t.counts[group][year]
}

func (t *YearGroupTally) Total(group string) int {
	return lo.Sum(lo.Values(t.counts[group]))
}

func (t *YearGroupTally) Len() int {
	return len(t.groups)
}

// YearTotals counts assemblies per year across every group.
type YearTotals map[int]int

func (y YearTotals) Add(year int, n int) {
	if _, ok := y[year]; !ok {
		y[year] = 0
	}
	y[year] += n
}

func (y YearTotals) Merge(other YearTotals) {
	for year, n := range other {
		y.Add(year, n)
	}
}

// Span returns the smallest and largest year present. ok is false when y is empty.
func (y YearTotals) Span() (first int, last int, ok bool) {
	for year := range y {
		if !ok {
			first, last, ok = year, year, true
			continue
		}
		if year < first {
			first = year
		}
		if year > last {
			last = year
		}
	}
	return first, last, ok
}

// Years returns the years present, ascending.
func (y YearTotals) Years() []int {
	years := lo.Keys(y)
	slices.Sort(years)
	return years
}

func (y YearTotals) Sum() int {
	return lo.Sum(lo.Values(y))
}

// Tally is the result of parsing a set of assembly summaries.
type Tally struct {
	Groups *YearGroupTally
	Years  YearTotals

	// Rows is the number of data lines that contributed to the tallies.
	Rows int

	// MissingDates is the number of data lines skipped because their submission date
	// column was empty.
	MissingDates int

	// Sources is the number of distinct sources read.
	Sources int
}

func NewTally() *Tally {
	return &Tally{
		Groups: NewYearGroupTally(),
		Years:  YearTotals{},
	}
}

// Merge folds other into t. Merging partial tallies in source order gives the same
// result as reading the sources one after another.
func (t *Tally) Merge(other *Tally) {
	t.Groups.Merge(other.Groups)
	t.Years.Merge(other.Years)
	t.Rows += other.Rows
	t.MissingDates += other.MissingDates
	t.Sources += other.Sources
}
