package chart

import (
	"io"
	"strings"

	"github.com/ahmetb/go-linq/v3"

	"exusiai.dev/drawbank/internal/constant"
	"exusiai.dev/drawbank/internal/model"
	"exusiai.dev/drawbank/internal/pkg/bankerr"
)

// Figure is everything a renderer needs to draw one chart.
type Figure struct {
	Title      string
	Section    string
	Cumulative bool
	Rows       []model.SeriesRow
}

// Title names a chart of section, e.g. "Cumulative GenBank genome count per year".
func Title(section string, cumulative bool) string {
	name, ok := constant.SectionNameMapping[strings.ToLower(section)]
	if !ok {
		name = section
	}
	title := name + " genome count per year"
	if cumulative {
		title = "Cumulative " + title
	}
	return title
}

// Basename is the default output file name, without extension, of a chart of section.
func Basename(section string, cumulative bool) string {
	name := "drawbank_" + strings.ToLower(section)
	if cumulative {
		name += "_cumulative"
	}
	return name
}

type Renderer interface {
	Render(w io.Writer, fig *Figure) error
}

var renderers = map[string]Renderer{
	constant.FormatHTML: HTML{},
	constant.FormatJSON: JSON{},
	constant.FormatCSV:  CSV{},
	constant.FormatXLSX: XLSX{},
}

// For returns the renderer of format.
func For(format string) (Renderer, error) {
	r, ok := renderers[strings.ToLower(format)]
	if !ok {
		return nil, bankerr.ErrInvalidOptions.Msg("unknown output format %q: expected one of %s", format, strings.Join(constant.Formats, ", "))
	}
	return r, nil
}

// pivot is the wide form of a series: one column per series, one row per year.
// Series are told apart by their position within a year, so a ranked group that
// happens to be labelled like the remainder keeps its own column.
type pivot struct {
	groups []string
	years  []int
	// counts[series][year index]
	counts [][]int
}

func pivotRows(rows []model.SeriesRow) *pivot {
	p := &pivot{}

	linq.From(rows).
		SelectT(func(r model.SeriesRow) int { return r.Year }).
		Distinct().
		ToSlice(&p.years)
	yearIndex := make(map[int]int, len(p.years))
	for i, y := range p.years {
		yearIndex[y] = i
	}

	seen := make(map[int]int, len(p.years))
	for _, r := range rows {
		series := seen[r.Year]
		seen[r.Year]++
		if series == len(p.groups) {
			p.groups = append(p.groups, r.Group)
			p.counts = append(p.counts, make([]int, len(p.years)))
		}
		p.counts[series][yearIndex[r.Year]] = r.Count
	}
	return p
}

// column returns the counts of the series at position i in year order.
func (p *pivot) column(i int) []int {
	return p.counts[i]
}
