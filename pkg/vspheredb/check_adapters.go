package vspheredb

import (
	"fmt"

	"github.com/consol-monitoring/check_vspheredb/pkg/threshold"
)

func init() {
	registerCheck(CheckEntry{
		Name:        CheckNIC,
		Description: "checks number of attached NICs",
		Handler:     &CheckAdapters{query: queryNIC, metric: "nics", label: "NICs"},
		Defaults:    threshold.Threshold[int64]{Warning: 1, Critical: 0, Direction: threshold.LowerIsWorse},
	})
	registerCheck(CheckEntry{
		Name:        CheckHBA,
		Description: "checks number of attached HBAs",
		Handler:     &CheckAdapters{query: queryHBA, metric: "hbas", label: "HBAs"},
		Defaults:    threshold.Threshold[int64]{Warning: 1, Critical: 0, Direction: threshold.LowerIsWorse},
	})
}

const (
	queryNIC = `SELECT hardware_num_nic
FROM host_system
WHERE host_system.host_name LIKE ?`

	queryHBA = `SELECT hardware_num_hba
FROM host_system
WHERE host_system.host_name LIKE ?`
)

// CheckAdapters counts network or storage adapters, losing adapters is what raises the state.
type CheckAdapters struct {
	query  string
	metric string
	label  string
}

func (l *CheckAdapters) Query(spec *CheckSpec) *Query {
	return &Query{Text: l.query, Args: []interface{}{spec.Target}}
}

func (l *CheckAdapters) Interpret(_ *CheckSpec, thresholds *threshold.Threshold[int64], rows []*Row) *CheckResult {
	num, err := rows[0].Int64(0)
	if err != nil {
		return unknownResult(err, "No performance data found.")
	}

	result := NewCheckResult(thresholds.Evaluate(num), fmt.Sprintf("Number of %s: %d", l.label, num))
	result.AddMetrics(
		NewMetric(l.metric, num, "").WithThresholds(thresholds.Warning, thresholds.Critical),
	)

	return result
}
