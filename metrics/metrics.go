// Package metrics exports a session result as a Prometheus text file, for
// node_exporter's textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/brokenrelease/samilstatus/samil"
)

// Gather builds a registry holding the gauges for one result.
func Gather(name string, r *samil.Result) *prometheus.Registry {
	labels := prometheus.Labels{"inverter": name}

	online := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "samil_inverter_online",
		Help:        "Whether the inverter answered the status query.",
		ConstLabels: labels,
	})
	lastRead := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "samil_inverter_last_read_timestamp_seconds",
		Help:        "Time of the last successful status query.",
		ConstLabels: labels,
	})
	values := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "samil_inverter_value",
		Help:        "Telemetry value decoded from the status response.",
		ConstLabels: labels,
	}, []string{"field", "unit"})

	reg := prometheus.NewRegistry()
	reg.MustRegister(online)

	if !r.Online {
		return reg
	}

	online.Set(1)
	lastRead.Set(float64(r.Time.UnixNano()) / 1e9)
	for _, v := range r.Values {
		values.WithLabelValues(v.Label, v.Unit).Set(v.Value)
	}
	reg.MustRegister(lastRead, values)

	return reg
}

// WriteTextfile writes the gauges for r to path, replacing it atomically.
func WriteTextfile(path, name string, r *samil.Result) error {
	return prometheus.WriteToTextfile(path, Gather(name, r))
}
