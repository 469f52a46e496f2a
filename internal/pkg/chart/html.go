package chart

import (
	"html/template"
	"io"

	"github.com/goccy/go-json"
	"github.com/tidwall/sjson"
)

const plotlyURL = "https://cdn.plot.ly/plotly-2.27.0.min.js"

var page = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.PlotlyURL}}"></script>
<style>html, body, #chart { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="chart"></div>
<script>
var figure = {{.Figure}};
Plotly.newPlot("chart", figure.data, figure.layout, {responsive: true});
</script>
</body>
</html>
`))

type trace struct {
	Type string `json:"type"`
	Name string `json:"name"`
	X    []int  `json:"x"`
	Y    []int  `json:"y"`
}

// HTML renders a standalone page drawing the chart with Plotly.
type HTML struct{}

func (HTML) Render(w io.Writer, fig *Figure) error {
	b, err := figureJSON(fig)
	if err != nil {
		return err
	}
	return page.Execute(w, struct {
		Title     string
		PlotlyURL string
		Figure    json.RawMessage
	}{
		Title:     fig.Title,
		PlotlyURL: plotlyURL,
		Figure:    json.RawMessage(b),
	})
}

// figureJSON builds the Plotly figure of fig. Traces follow series order, which is
// also the legend order.
func figureJSON(fig *Figure) ([]byte, error) {
	p := pivotRows(fig.Rows)
	traces := make([]trace, 0, len(p.groups))
	for i, g := range p.groups {
		traces = append(traces, trace{
			Type: "bar",
			Name: g,
			X:    p.years,
			Y:    p.column(i),
		})
	}

	b, err := json.Marshal(map[string]any{"data": traces})
	if err != nil {
		return nil, err
	}

	layout := []struct {
		path  string
		value any
	}{
		{"layout.title.text", fig.Title},
		{"layout.barmode", "stack"},
		{"layout.xaxis.title.text", "Year"},
		{"layout.xaxis.dtick", 1},
		{"layout.yaxis.title.text", "Genome count"},
		{"layout.legend.traceorder", "normal"},
	}
	for _, l := range layout {
		if b, err = sjson.SetBytes(b, l.path, l.value); err != nil {
			return nil, err
		}
	}
	return b, nil
}
