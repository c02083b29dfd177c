package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const Namespace = "healthtracker"

// NewRegistry is the registry served on /metrics: go runtime, process and module build
// info collectors, plus a constant healthtracker_version{version="..."} 1 series.
func NewRegistry(version string) *prometheus.Registry {
	if version == "" {
		version = "unknown"
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: Namespace}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   Namespace,
			Name:        "version",
			Help:        "Version of the running service, always 1",
			ConstLabels: prometheus.Labels{"version": version},
		}, func() float64 { return 1 }),
	)

	return promRegistry
}
