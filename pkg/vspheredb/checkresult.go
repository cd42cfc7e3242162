package vspheredb

import (
	"strings"

	"github.com/consol-monitoring/check_vspheredb/pkg/convert"
	"github.com/mackerelio/checkers"
)

// CheckResult is the result of a single check run.
type CheckResult struct {
	State   checkers.Status
	Output  string
	Metrics PerfData
}

// NewCheckResult returns a result with given state and output.
func NewCheckResult(state checkers.Status, output string) *CheckResult {
	return &CheckResult{
		State:  state,
		Output: output,
	}
}

func (cr *CheckResult) StateString() string {
	return convert.StateString(int64(cr.State))
}

// EscalateStatus raises the state, it never lowers it.
func (cr *CheckResult) EscalateStatus(state checkers.Status) {
	if state > cr.State {
		cr.State = state
	}
}

// AddMetrics appends metrics in given order.
func (cr *CheckResult) AddMetrics(metrics ...*CheckMetric) {
	cr.Metrics = append(cr.Metrics, metrics...)
}

// ExitCode returns the plugin exit code, anything out of range is unknown.
func (cr *CheckResult) ExitCode() int {
	switch cr.State {
	case checkers.OK, checkers.WARNING, checkers.CRITICAL:
		return int(cr.State)
	}

	return int(checkers.UNKNOWN)
}

// Render returns the plugin output along with the exit code.
//
//	STATE - output
//	perfdata
func (cr *CheckResult) Render() (string, int) {
	var res strings.Builder

	res.WriteString(cr.StateString())
	if cr.Output != "" {
		res.WriteString(" - ")
		res.WriteString(cr.Output)
	}

	if len(cr.Metrics) > 0 {
		res.WriteString("\n")
		res.WriteString(cr.Metrics.String())
	}

	return res.String(), cr.ExitCode()
}
