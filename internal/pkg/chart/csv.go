package chart

import (
	"encoding/csv"
	"io"
	"strconv"
)

// CSV renders the tidy series as group,year,count records.
type CSV struct{}

func (CSV) Render(w io.Writer, fig *Figure) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"group", "year", "count"}); err != nil {
		return err
	}
	for _, r := range fig.Rows {
		if err := cw.Write([]string{r.Group, strconv.Itoa(r.Year), strconv.Itoa(r.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
