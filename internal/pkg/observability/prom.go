package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ServiceName = "drawbank"
)

var (
	ParseRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "parse", "rows_total"),
		Help: "Assembly summary data lines read, by outcome",
	}, []string{"outcome"})
	ParseSources = promauto.NewCounter(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "parse", "sources_total"),
		Help: "Assembly summary sources parsed",
	})
	FetchResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "fetch", "total"),
		Help: "Assembly summary resolutions, by cache result",
	}, []string{"result"})
	StageDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "stage", "duration_seconds"),
		Help: "Duration of the last run of each pipeline stage in seconds",
	}, []string{"stage"})
	Refreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "refresh", "total"),
		Help: "Background reloads of the served tally, by outcome",
	}, []string{"outcome"})
)

// WriteTextfile dumps every registered metric to path in the node_exporter textfile
// collector format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
