package chart

import (
	"io"

	"github.com/goccy/go-json"

	"exusiai.dev/drawbank/internal/model"
)

type jsonFigure struct {
	Title      string            `json:"title"`
	Cumulative bool              `json:"cumulative"`
	Section    string            `json:"section"`
	Rows       []model.SeriesRow `json:"rows"`
}

// JSON renders the tidy series with its title.
type JSON struct{}

func (JSON) Render(w io.Writer, fig *Figure) error {
	rows := fig.Rows
	if rows == nil {
		rows = []model.SeriesRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonFigure{
		Title:      fig.Title,
		Cumulative: fig.Cumulative,
		Section:    fig.Section,
		Rows:       rows,
	})
}
