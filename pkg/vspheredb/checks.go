package vspheredb

import (
	"context"
	"fmt"

	"github.com/consol-monitoring/check_vspheredb/pkg/threshold"
	"github.com/mackerelio/checkers"
	"golang.org/x/exp/slices"
)

// CheckKind names a check, it equals the sub command.
type CheckKind string

const (
	CheckCPU         CheckKind = "cpu"
	CheckMemory      CheckKind = "memory"
	CheckTemperature CheckKind = "temperature"
	CheckNIC         CheckKind = "nic"
	CheckHBA         CheckKind = "hba"
	CheckDatastore   CheckKind = "datastore"
)

// CheckSpec is the resolved description of which check to run.
type CheckSpec struct {
	Kind     CheckKind
	Target   string // host name, vCenter name for datastores
	Store    string // datastore only, empty means all datastores
	Warning  *int64 // overrides the default warning threshold
	Critical *int64 // overrides the default critical threshold
}

// CheckHandler builds the query of a check and interprets its rows.
type CheckHandler interface {
	Query(spec *CheckSpec) *Query
	// Interpret is called with at least one row unless the handler implements
	// EmptyResultHandler and accepts the empty result.
	Interpret(spec *CheckSpec, thresholds *threshold.Threshold[int64], rows []*Row) *CheckResult
}

// EmptyResultHandler is implemented by handlers which can interpret an empty result set.
type EmptyResultHandler interface {
	AcceptsEmptyResult(spec *CheckSpec) bool
}

// CheckEntry is a row of the check table.
type CheckEntry struct {
	Name        CheckKind
	Description string
	Handler     CheckHandler
	Defaults    threshold.Threshold[int64]
}

// AvailableChecks contains all checks by name.
var AvailableChecks = make(map[CheckKind]CheckEntry)

func registerCheck(entry CheckEntry) {
	if _, ok := AvailableChecks[entry.Name]; ok {
		panic(fmt.Sprintf("check %s registered twice", entry.Name))
	}
	AvailableChecks[entry.Name] = entry
}

// CheckNames returns the sorted list of check names.
func CheckNames() []string {
	names := make([]string, 0, len(AvailableChecks))
	for name := range AvailableChecks {
		names = append(names, string(name))
	}
	slices.Sort(names)

	return names
}

// Thresholds returns the defaults of entry with the overrides from spec applied.
func (spec *CheckSpec) Thresholds(entry *CheckEntry) *threshold.Threshold[int64] {
	res := entry.Defaults
	if spec.Warning != nil {
		res.Warning = *spec.Warning
	}
	if spec.Critical != nil {
		res.Critical = *spec.Critical
	}

	return &res
}

// BuildQuery returns the query for spec.
func BuildQuery(spec *CheckSpec) (*Query, error) {
	entry, ok := AvailableChecks[spec.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown check: %s", spec.Kind)
	}

	return entry.Handler.Query(spec), nil
}

// Interpret turns the rows returned for spec into a check result.
func Interpret(spec *CheckSpec, rows []*Row) *CheckResult {
	entry, ok := AvailableChecks[spec.Kind]
	if !ok {
		return NewCheckResult(checkers.UNKNOWN, fmt.Sprintf("unknown check: %s", spec.Kind))
	}

	if len(rows) == 0 && !acceptsEmptyResult(entry.Handler, spec) {
		return resultFromError(ErrEmptyResult)
	}

	thresholds := spec.Thresholds(&entry)
	log.Debugf("%s thresholds: %s", spec.Kind, thresholds.String())

	return entry.Handler.Interpret(spec, thresholds, rows)
}

func acceptsEmptyResult(handler CheckHandler, spec *CheckSpec) bool {
	if empty, ok := handler.(EmptyResultHandler); ok {
		return empty.AcceptsEmptyResult(spec)
	}

	return false
}

// RunCheck queries source and interprets the result, errors are turned into a result as well.
func RunCheck(ctx context.Context, source QuerySource, spec *CheckSpec) *CheckResult {
	query, err := BuildQuery(spec)
	if err != nil {
		return NewCheckResult(checkers.UNKNOWN, err.Error())
	}

	rows, err := source.Fetch(ctx, query)
	if err != nil {
		log.Debugf("fetch failed: %s", err.Error())

		return resultFromError(err)
	}

	return Interpret(spec, rows)
}

// unknownResult logs err and returns an unknown result with given output.
func unknownResult(err error, output string) *CheckResult {
	log.Debugf("%s", err.Error())

	return NewCheckResult(checkers.UNKNOWN, output)
}
