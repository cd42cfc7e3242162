package vspheredb

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// writePrometheusTextfile stores the result in a file for the node_exporter textfile collector.
func writePrometheusTextfile(path string, spec *CheckSpec, result *CheckResult) error {
	infoCount := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vspheredb_check_info",
			Help: "information about this plugin",
		},
		[]string{"version"})
	stateGauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vspheredb_check_state",
			Help: "state of the last check run: 0 ok, 1 warning, 2 critical, 3 unknown",
		},
		[]string{"check", "machine"})
	metricGauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vspheredb_check_metric",
			Help: "numeric performance values of the last check run",
		},
		[]string{"check", "machine", "metric"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(infoCount, stateGauge, metricGauge)

	infoCount.WithLabelValues(VERSION).Set(1)
	stateGauge.WithLabelValues(string(spec.Kind), spec.Target).Set(float64(result.ExitCode()))
	for _, m := range result.Metrics {
		val, ok := m.Float64()
		if !ok {
			continue
		}
		metricGauge.WithLabelValues(string(spec.Kind), spec.Target, m.Name).Set(val)
	}

	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("writing prometheus textfile %s failed: %s", path, err.Error())
	}
	log.Debugf("wrote prometheus textfile %s", path)

	return nil
}
