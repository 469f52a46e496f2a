package chart

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const SheetName = "series"

// XLSX renders a workbook with the series pivoted to one column per group and a
// stacked column chart next to it.
type XLSX struct{}

func (XLSX) Render(w io.Writer, fig *Figure) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return errors.Wrap(err, "failed to rename sheet")
	}

	p := pivotRows(fig.Rows)

	header := []interface{}{"year"}
	for _, g := range p.groups {
		header = append(header, g)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return errors.Wrap(err, "failed to write header")
	}

	for i, y := range p.years {
		row := []interface{}{y}
		for series := range p.groups {
			row = append(row, p.column(series)[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return errors.Wrapf(err, "failed to write year %d", y)
		}
	}

	if len(p.years) > 0 {
		if err := addChart(f, fig.Title, p); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func addChart(f *excelize.File, title string, p *pivot) error {
	last := len(p.years) + 1
	series := make([]excelize.ChartSeries, 0, len(p.groups))
	for i := range p.groups {
		col, err := excelize.ColumnNumberToName(i + 2)
		if err != nil {
			return err
		}
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", SheetName, col),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", SheetName, last),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", SheetName, col, col, last),
		})
	}

	anchor, err := excelize.ColumnNumberToName(len(p.groups) + 3)
	if err != nil {
		return err
	}
	err = f.AddChart(SheetName, anchor+"1", &excelize.Chart{
		Type:   excelize.ColStacked,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: title}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		XAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: "Year"}},
		},
		YAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: "Genome count"}},
		},
		Dimension: excelize.ChartDimension{Width: 960, Height: 540},
	})
	return errors.Wrap(err, "failed to add chart")
}
