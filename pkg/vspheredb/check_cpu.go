package vspheredb

import (
	"fmt"

	"github.com/consol-monitoring/check_vspheredb/pkg/threshold"
)

func init() {
	registerCheck(CheckEntry{
		Name:        CheckCPU,
		Description: "checks CPU usage",
		Handler:     &CheckCPUUsage{},
		Defaults:    threshold.Threshold[int64]{Warning: 80, Critical: 90, Direction: threshold.HigherIsWorse},
	})
}

const queryCPU = `SELECT hqs.overall_cpu_usage, hs.hardware_cpu_mhz, hs.hardware_cpu_cores
FROM host_quick_stats hqs
INNER JOIN host_system hs ON hqs.uuid = hs.uuid
WHERE hs.host_name LIKE ?`

// CheckCPUUsage compares the overall cpu usage of a host against its total clock.
type CheckCPUUsage struct{}

func (l *CheckCPUUsage) Query(spec *CheckSpec) *Query {
	return &Query{Text: queryCPU, Args: []interface{}{spec.Target}}
}

func (l *CheckCPUUsage) Interpret(_ *CheckSpec, thresholds *threshold.Threshold[int64], rows []*Row) *CheckResult {
	row := rows[0]

	usage, err := row.Int64(0)
	if err != nil {
		return unknownResult(err, "No performance data found.")
	}
	mhz, err := row.Int64(1)
	if err != nil {
		return unknownResult(err, "No performance data found.")
	}
	cores, err := row.Int64(2)
	if err != nil {
		return unknownResult(err, "No performance data found.")
	}

	capacity, err := multiply(mhz, cores)
	if err != nil {
		return unknownResult(err, fmt.Sprintf("Cannot compute CPU usage: %d MHz x %d cores overflows.", mhz, cores))
	}
	usagePct, err := percent(usage, capacity)
	if err != nil {
		return unknownResult(err, fmt.Sprintf("Cannot compute CPU usage: host reports %d MHz and %d cores.", mhz, cores))
	}

	result := NewCheckResult(
		thresholds.Evaluate(usagePct),
		fmt.Sprintf("Total CPU usage is %dGHz (%d%%)", usage/1024, usagePct),
	)
	result.AddMetrics(
		NewMetric("usage", usage, ""),
		NewMetric("usage_percent", usagePct, "%").WithThresholds(thresholds.Warning, thresholds.Critical),
		NewMetric("mhz", mhz, ""),
		NewMetric("cores", cores, ""),
	)

	return result
}
