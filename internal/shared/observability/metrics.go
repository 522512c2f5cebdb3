package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Import outcomes recorded on ImportsTotal.
const (
	OutcomeResolved   = "resolved"
	OutcomeUnresolved = "unresolved"
	OutcomeExternal   = "external"
	OutcomeExcluded   = "excluded"
)

// Metrics owns a private registry so each App (and each test) gets
// independent counters.
type Metrics struct {
	Registry *prometheus.Registry

	FilesPrinted       prometheus.Counter
	ReadErrors         prometheus.Counter
	VisitsSkipped      prometheus.Counter
	ImportsTotal       *prometheus.CounterVec
	ParsingDuration    *prometheus.HistogramVec
	WatchRunsTotal     prometheus.Counter
	WatcherEventsTotal prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		FilesPrinted: factory.NewCounter(prometheus.CounterOpts{
			Name: "printts_files_printed_total",
			Help: "Total number of files whose content was printed.",
		}),

		ReadErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "printts_read_errors_total",
			Help: "Total number of files that could not be read or parsed.",
		}),

		VisitsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "printts_visits_skipped_total",
			Help: "Total number of visits skipped because the path was already printed.",
		}),

		ImportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "printts_imports_total",
			Help: "Import declarations seen during walks, by outcome.",
		}, []string{"outcome"}),

		ParsingDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "printts_parse_seconds",
			Help:    "Time spent parsing a source file for imports.",
			Buckets: prometheus.DefBuckets,
		}, []string{"language"}),

		WatchRunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "printts_watch_runs_total",
			Help: "Total number of walks triggered by file changes.",
		}),

		WatcherEventsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "printts_watcher_events_total",
			Help: "Total number of file system events received by the watcher.",
		}),
	}
}

// WriteTextfile writes the current values in Prometheus text format, for
// node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
