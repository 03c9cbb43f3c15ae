package metrics

import (
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Hostname        = "undefined"
	MetricNamespace = "fieldreach"
	MetricComponent = "intelligenceapi"

	MetricPrometheusLabels = stdprometheus.Labels{"component": MetricComponent, "hostname": Hostname}
)

func InitMetricLabels(hostname string) {
	Hostname = hostname
	MetricPrometheusLabels = stdprometheus.Labels{"component": MetricComponent, "hostname": Hostname}
}

var (
	// DecisionsTotal counts every processed event by resulting tier
	DecisionsTotal = promauto.NewCounterVec(stdprometheus.CounterOpts{
		Namespace: MetricNamespace,
		Name:      "engine_decisions_total",
		Help:      "Number of decisions produced by the engine, partitioned by tier",
	}, []string{"tier"})

	// TriggerFiresTotal counts trigger matches by trigger name
	TriggerFiresTotal = promauto.NewCounterVec(stdprometheus.CounterOpts{
		Namespace: MetricNamespace,
		Name:      "engine_trigger_fires_total",
		Help:      "Number of trigger fires, partitioned by trigger name",
	}, []string{"trigger"})

	// ProcessingDuration observes end-to-end event scoring latency
	ProcessingDuration = promauto.NewHistogram(stdprometheus.HistogramOpts{
		Namespace: MetricNamespace,
		Name:      "engine_processing_duration_seconds",
		Help:      "Event processing latency",
		Buckets:   stdprometheus.DefBuckets,
	})
)
