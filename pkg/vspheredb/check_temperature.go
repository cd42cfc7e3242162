package vspheredb

import (
	"fmt"

	"github.com/consol-monitoring/check_vspheredb/pkg/threshold"
)

func init() {
	registerCheck(CheckEntry{
		Name:        CheckTemperature,
		Description: "checks the inlet temperature",
		Handler:     &CheckInletTemperature{},
		Defaults:    threshold.Threshold[int64]{Warning: 50, Critical: 60, Direction: threshold.HigherIsWorse},
	})
}

// InletSensor is the name of the sensor used for the temperature check.
const InletSensor = "System Board 1 Inlet Temp"

const queryTemperature = `SELECT se.current_reading
FROM host_sensor se
INNER JOIN host_system hs ON se.host_uuid = hs.uuid
WHERE hs.host_name LIKE ? AND se.name LIKE ?`

// CheckInletTemperature reads the system board inlet sensor, readings are stored in 1/100 °C.
type CheckInletTemperature struct{}

func (l *CheckInletTemperature) Query(spec *CheckSpec) *Query {
	return &Query{Text: queryTemperature, Args: []interface{}{spec.Target, InletSensor}}
}

func (l *CheckInletTemperature) Interpret(_ *CheckSpec, thresholds *threshold.Threshold[int64], rows []*Row) *CheckResult {
	reading, err := rows[0].Int64(0)
	if err != nil {
		return unknownResult(err, "No performance data found.")
	}

	temp := reading / 100

	result := NewCheckResult(thresholds.Evaluate(temp), fmt.Sprintf("Temperature is %d°C", temp))
	result.AddMetrics(
		NewMetric("temp", temp, "C").WithThresholds(thresholds.Warning, thresholds.Critical),
	)

	return result
}
