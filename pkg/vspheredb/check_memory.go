package vspheredb

import (
	"fmt"

	"github.com/consol-monitoring/check_vspheredb/pkg/threshold"
)

func init() {
	registerCheck(CheckEntry{
		Name:        CheckMemory,
		Description: "checks memory usage",
		Handler:     &CheckMemoryUsage{},
		Defaults:    threshold.Threshold[int64]{Warning: 80, Critical: 90, Direction: threshold.HigherIsWorse},
	})
}

const queryMemory = `SELECT hqs.overall_memory_usage_mb, hs.hardware_memory_size_mb
FROM host_quick_stats hqs
INNER JOIN host_system hs ON hqs.uuid = hs.uuid
WHERE hs.host_name LIKE ?`

// CheckMemoryUsage compares the used memory of a host against its installed memory.
type CheckMemoryUsage struct{}

func (l *CheckMemoryUsage) Query(spec *CheckSpec) *Query {
	return &Query{Text: queryMemory, Args: []interface{}{spec.Target}}
}

func (l *CheckMemoryUsage) Interpret(_ *CheckSpec, thresholds *threshold.Threshold[int64], rows []*Row) *CheckResult {
	row := rows[0]

	usage, err := row.Int64(0)
	if err != nil {
		return unknownResult(err, "No performance data found.")
	}
	capacity, err := row.Int64(1)
	if err != nil {
		return unknownResult(err, "No performance data found.")
	}

	usagePct, err := percent(usage, capacity)
	if err != nil {
		return unknownResult(err, fmt.Sprintf("Cannot compute memory usage: host reports %dMB memory.", capacity))
	}

	result := NewCheckResult(
		thresholds.Evaluate(usagePct),
		fmt.Sprintf("Total memory usage is %dGB (%d%%)", usage/1024, usagePct),
	)
	result.AddMetrics(
		NewMetric("usage", usage, "MB"),
		NewMetric("usage_percent", usagePct, "%").WithThresholds(thresholds.Warning, thresholds.Critical),
		NewMetric("capacity", capacity, "MB"),
	)

	return result
}
