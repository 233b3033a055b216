// Package metrics exposes the outcome of a compilation run as Prometheus gauges, written in the
// node_exporter textfile collector format.
package metrics

import (
	"time"

	"blockgen/pkg/blocklist"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "blockgen"

// Record builds a registry describing report.
func Record(report *blocklist.Report, duration time.Duration, now time.Time) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	sources := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sources",
		Help:      "Number of configured block list sources.",
	})
	failed := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sources_failed",
		Help:      "Number of sources that could not be downloaded.",
	})
	sourceDomains := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "source_domains",
		Help:      "Domains accepted from each source, before deduplication.",
	}, []string{"source", "location"})
	local := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "local_entries",
		Help:      "Entries read from the local block list.",
	})
	domains := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "domains",
		Help:      "Unique domains written to the output file.",
	})
	runDuration := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of the last run.",
	})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix time of the last successful run.",
	})

	reg.MustRegister(sources, failed, sourceDomains, local, domains, runDuration, lastSuccess)

	sources.Set(float64(len(report.Sources)))
	failed.Set(float64(report.FailedSources()))
	for _, s := range report.Sources {
		sourceDomains.WithLabelValues(s.Source.ID, s.Source.Location).Set(float64(s.Stats.Domains))
	}
	local.Set(float64(report.LocalEntries))
	domains.Set(float64(report.Domains))
	runDuration.Set(duration.Seconds())
	lastSuccess.Set(float64(now.Unix()))

	return reg
}

// WriteFile atomically writes the registry to path for the textfile collector.
func WriteFile(path string, reg prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, reg)
}
