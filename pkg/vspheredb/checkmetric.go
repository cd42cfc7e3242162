package vspheredb

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// UnknownValue marks a metric whose value could not be determined.
const UnknownValue = "U"

// CheckMetric contains a single performance value.
type CheckMetric struct {
	Name     string
	Unit     string
	Value    string
	Warning  *int64 // threshold used for warnings
	Critical *int64 // threshold used for critical
}

// NewMetric returns a metric without thresholds.
func NewMetric(name string, value interface{}, unit string) *CheckMetric {
	return &CheckMetric{
		Name:  name,
		Unit:  unit,
		Value: fmt.Sprintf("%v", value),
	}
}

// WithThresholds sets warning and critical threshold.
func (m *CheckMetric) WithThresholds(warning, critical int64) *CheckMetric {
	m.Warning = &warning
	m.Critical = &critical

	return m
}

// String returns the metric as name=value;warning;critical
func (m *CheckMetric) String() string {
	var res bytes.Buffer

	res.WriteString(quoteName(m.Name))
	res.WriteString("=")
	res.WriteString(m.Value)
	if m.Value != UnknownValue {
		res.WriteString(m.Unit)
	}

	res.WriteString(";")
	if m.Warning != nil {
		res.WriteString(strconv.FormatInt(*m.Warning, 10))
	}

	res.WriteString(";")
	if m.Critical != nil {
		res.WriteString(strconv.FormatInt(*m.Critical, 10))
	}

	return res.String()
}

// Float64 returns the numeric value, ok is false for text values like the maintenance mode.
func (m *CheckMetric) Float64() (val float64, ok bool) {
	val, err := strconv.ParseFloat(m.Value, 64)
	if err != nil {
		return 0, false
	}

	return val, true
}

// labels need quotes if they contain spaces, equal signs or quotes
func quoteName(name string) string {
	if !strings.ContainsAny(name, " ='") {
		return name
	}

	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// PerfData is the ordered list of metrics of a check result.
type PerfData []*CheckMetric

// String returns all metrics space separated.
func (p PerfData) String() string {
	perf := make([]string, 0, len(p))
	for _, m := range p {
		perf = append(perf, m.String())
	}

	return strings.Join(perf, " ")
}
