package chart

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"

	"exusiai.dev/drawbank/internal/model"
	"exusiai.dev/drawbank/internal/pkg/bankerr"
)

func testFigure() *Figure {
	return &Figure{
		Title:   Title("genbank", false),
		Section: "genbank",
		Rows: []model.SeriesRow{
			{Group: "bacteria", Year: 2020, Count: 3},
			{Group: "viral", Year: 2020, Count: 1},
			{Group: model.OthersLabel, Year: 2020, Count: 2},
			{Group: "bacteria", Year: 2021, Count: 0},
			{Group: "viral", Year: 2021, Count: 4},
			{Group: model.OthersLabel, Year: 2021, Count: 0},
		},
	}
}

func TestTitleAndBasename(t *testing.T) {
	type testCase struct {
		section    string
		cumulative bool
		title      string
		basename   string
	}

	testCases := []testCase{
		{"genbank", false, "GenBank genome count per year", "drawbank_genbank"},
		{"refseq", true, "Cumulative RefSeq genome count per year", "drawbank_refseq_cumulative"},
		{"GenBank", true, "Cumulative GenBank genome count per year", "drawbank_genbank_cumulative"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.title, Title(tc.section, tc.cumulative))
		assert.Equal(t, tc.basename, Basename(tc.section, tc.cumulative))
	}
}

func TestFor(t *testing.T) {
	for _, format := range []string{"html", "json", "csv", "XLSX"} {
		r, err := For(format)
		require.NoError(t, err, format)
		assert.NotNil(t, r)
	}

	_, err := For("png")
	assert.True(t, errors.Is(err, bankerr.ErrInvalidOptions), "got %v", err)
}

func TestPivotKeepsSeriesOrder(t *testing.T) {
	p := pivotRows(testFigure().Rows)

	assert.Equal(t, []string{"bacteria", "viral", model.OthersLabel}, p.groups)
	assert.Equal(t, []int{2020, 2021}, p.years)
	assert.Equal(t, []int{1, 4}, p.column(1), spew.Sdump(p.counts))
}

func TestPivotKeepsGroupNamedLikeRemainder(t *testing.T) {
	rows := []model.SeriesRow{
		{Group: model.OthersLabel, Year: 2020, Count: 5},
		{Group: model.OthersLabel, Year: 2020, Count: 1},
		{Group: model.OthersLabel, Year: 2021, Count: 7},
		{Group: model.OthersLabel, Year: 2021, Count: 2},
	}
	p := pivotRows(rows)

	assert.Equal(t, []string{model.OthersLabel, model.OthersLabel}, p.groups)
	assert.Equal(t, []int{5, 7}, p.column(0), spew.Sdump(p.counts))
	assert.Equal(t, []int{1, 2}, p.column(1), spew.Sdump(p.counts))

	b, err := figureJSON(&Figure{Title: "t", Rows: rows})
	require.NoError(t, err)
	assert.EqualValues(t, 2, gjson.GetBytes(b, "data.#").Int())
	assert.Equal(t, "[1,2]", gjson.GetBytes(b, "data.1.y").Raw)
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML{}.Render(&buf, testFigure()))
	out := buf.String()

	assert.Contains(t, out, "<title>GenBank genome count per year</title>")
	assert.Contains(t, out, plotlyURL)

	m := regexp.MustCompile(`var figure = (.*);`).FindStringSubmatch(out)
	require.Len(t, m, 2)
	fig := gjson.Parse(m[1])

	assert.Equal(t, "stack", fig.Get("layout.barmode").String())
	assert.Equal(t, "GenBank genome count per year", fig.Get("layout.title.text").String())
	assert.Equal(t, "normal", fig.Get("layout.legend.traceorder").String())
	assert.Equal(t, []interface{}{"bacteria", "viral", "Others"}, fig.Get("data.#.name").Value())
	assert.Equal(t, "[2020,2021]", fig.Get("data.0.x").Raw)
	assert.Equal(t, "[3,0]", fig.Get("data.0.y").Raw)
	assert.Equal(t, "[2,0]", fig.Get("data.2.y").Raw)
}

func TestHTMLEscapesTitle(t *testing.T) {
	fig := testFigure()
	fig.Title = "</script><b>x</b>"

	var buf bytes.Buffer
	require.NoError(t, HTML{}.Render(&buf, fig))
	assert.NotContains(t, buf.String(), "<b>x</b>")
}

func TestJSON(t *testing.T) {
	fig := testFigure()
	fig.Cumulative = true

	var buf bytes.Buffer
	require.NoError(t, JSON{}.Render(&buf, fig))
	doc := gjson.ParseBytes(buf.Bytes())

	assert.Equal(t, fig.Title, doc.Get("title").String())
	assert.True(t, doc.Get("cumulative").Bool())
	assert.Equal(t, "genbank", doc.Get("section").String())
	assert.EqualValues(t, 6, doc.Get("rows.#").Int())
	assert.Equal(t, "viral", doc.Get("rows.4.group").String())
	assert.EqualValues(t, 2021, doc.Get("rows.4.year").Int())
	assert.EqualValues(t, 4, doc.Get("rows.4.count").Int())
}

func TestJSONEmptyRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON{}.Render(&buf, &Figure{Title: "t"}))
	assert.Equal(t, "[]", gjson.GetBytes(buf.Bytes(), "rows").Raw)
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV{}.Render(&buf, testFigure()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"group,year,count",
		"bacteria,2020,3",
		"viral,2020,1",
		"Others,2020,2",
		"bacteria,2021,0",
		"viral,2021,4",
		"Others,2021,0",
	}, lines)
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSX{}.Render(&buf, testFigure()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"year", "bacteria", "viral", "Others"},
		{"2020", "3", "1", "2"},
		{"2021", "0", "4", "0"},
	}, rows)
}

func TestXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSX{}.Render(&buf, &Figure{Title: "empty"}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"year"}}, rows)
}
