package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the dashboard's Prometheus collectors.
type Metrics struct {
	RefreshTotal    prometheus.Counter
	RefreshDuration prometheus.Histogram
	QueriesTotal    prometheus.Counter
	IssuesLoaded    prometheus.Gauge
	OpenIssues      prometheus.Gauge
}

// New creates and registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RefreshTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "opsdash_refresh_total",
			Help: "Number of dataset recomputations",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "opsdash_refresh_duration_seconds",
			Help:    "Time spent recomputing the dataset",
			Buckets: prometheus.DefBuckets,
		}),
		QueriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "opsdash_queries_total",
			Help: "Number of query-language executions",
		}),
		IssuesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "opsdash_issues_loaded",
			Help: "Issues in the current dataset",
		}),
		OpenIssues: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "opsdash_issues_open",
			Help: "Open issues in the current dataset",
		}),
	}
	reg.MustRegister(m.RefreshTotal, m.RefreshDuration, m.QueriesTotal, m.IssuesLoaded, m.OpenIssues)
	return m
}
