package vspheredb

import (
	"fmt"
	"strings"

	"github.com/consol-monitoring/check_vspheredb/pkg/threshold"
	"github.com/dustin/go-humanize"
	"github.com/mackerelio/checkers"
)

func init() {
	registerCheck(CheckEntry{
		Name:        CheckDatastore,
		Description: "checks all datastores or a single, specified datastore",
		Handler:     &CheckDatastoreUsage{},
		Defaults:    threshold.Threshold[int64]{Warning: 80, Critical: 90, Direction: threshold.HigherIsWorse},
	})
}

const (
	queryDatastores = `SELECT o.object_name, ds.maintenance_mode, ds.capacity, ds.free_space
FROM datastore ds
INNER JOIN vcenter vc ON ds.vcenter_uuid = vc.instance_uuid
INNER JOIN object o ON ds.uuid = o.uuid
WHERE vc.name LIKE ?
ORDER BY o.object_name`

	queryDatastore = `SELECT o.object_name, ds.maintenance_mode, ds.capacity, ds.free_space
FROM datastore ds
INNER JOIN vcenter vc ON ds.vcenter_uuid = vc.instance_uuid
INNER JOIN object o ON ds.uuid = o.uuid
WHERE o.object_name LIKE ? AND vc.name LIKE ?
ORDER BY o.object_name`
)

// CheckDatastoreUsage checks the used space of the datastores of a vCenter.
type CheckDatastoreUsage struct{}

// datastore is a single row of the datastore query.
type datastore struct {
	name            string
	maintenanceMode string
	capacity        int64
	free            int64
}

func (l *CheckDatastoreUsage) Query(spec *CheckSpec) *Query {
	if spec.Store != "" {
		return &Query{Text: queryDatastore, Args: []interface{}{spec.Store, spec.Target}}
	}

	return &Query{Text: queryDatastores, Args: []interface{}{spec.Target}}
}

// AcceptsEmptyResult returns true for the aggregate mode, a vCenter without datastores is OK.
func (l *CheckDatastoreUsage) AcceptsEmptyResult(spec *CheckSpec) bool {
	return spec.Store == ""
}

func (l *CheckDatastoreUsage) Interpret(spec *CheckSpec, thresholds *threshold.Threshold[int64], rows []*Row) *CheckResult {
	if spec.Store != "" {
		if len(rows) > 1 {
			return NewCheckResult(checkers.UNKNOWN, fmt.Sprintf("Datastore %s matches %d datastores: %s.", spec.Store, len(rows), strings.Join(datastoreNames(rows), ", ")))
		}

		return l.single(spec, thresholds, rows[0])
	}

	return l.aggregate(thresholds, rows)
}

func (l *CheckDatastoreUsage) single(spec *CheckSpec, thresholds *threshold.Threshold[int64], row *Row) *CheckResult {
	store, err := parseDatastore(row)
	if err != nil {
		return unknownResult(err, "No performance data found.")
	}

	usedPct, err := store.usedPercent()
	if err != nil {
		return unknownResult(err, fmt.Sprintf("Cannot compute used storage space for datastore %s: capacity %d, free %d.", spec.Store, store.capacity, store.free))
	}

	result := NewCheckResult(
		thresholds.Evaluate(usedPct),
		fmt.Sprintf("Used storage space for datastore %s (mode: %s): %d%%", spec.Store, store.maintenanceMode, usedPct),
	)
	result.AddMetrics(
		NewMetric("used", usedPct, "%").WithThresholds(thresholds.Warning, thresholds.Critical),
		NewMetric("maintenance_mode", store.maintenanceMode, ""),
	)

	return result
}

func (l *CheckDatastoreUsage) aggregate(thresholds *threshold.Threshold[int64], rows []*Row) *CheckResult {
	result := NewCheckResult(checkers.OK, "")
	problems := []string{}

	for _, row := range rows {
		store, err := parseDatastore(row)
		if err != nil {
			log.Debugf("skipping datastore row: %s", err.Error())
			result.EscalateStatus(checkers.UNKNOWN)

			continue
		}

		usedPct, err := store.usedPercent()
		if err != nil {
			log.Debugf("datastore %s: %s", store.name, err.Error())
			result.EscalateStatus(checkers.UNKNOWN)
			result.AddMetrics(
				NewMetric(store.name+"_used", UnknownValue, "%").WithThresholds(thresholds.Warning, thresholds.Critical),
				NewMetric(store.name+"_maintenance_mode", store.maintenanceMode, ""),
			)

			continue
		}

		state := thresholds.Evaluate(usedPct)
		result.EscalateStatus(state)
		result.AddMetrics(
			NewMetric(store.name+"_used", usedPct, "%").WithThresholds(thresholds.Warning, thresholds.Critical),
			NewMetric(store.name+"_maintenance_mode", store.maintenanceMode, ""),
		)

		switch state {
		case checkers.WARNING, checkers.CRITICAL:
			problems = append(problems, fmt.Sprintf("Datastore %s (mode: %s) uses %d%% of storage space!", store.name, store.maintenanceMode, usedPct))
		}
	}

	result.Output = strings.Join(problems, "\n")

	return result
}

func datastoreNames(rows []*Row) []string {
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		name, err := row.String(0)
		if err != nil {
			name = UnknownValue
		}
		names = append(names, name)
	}

	return names
}

func parseDatastore(row *Row) (*datastore, error) {
	var err error
	store := &datastore{}

	if store.name, err = row.String(0); err != nil {
		return nil, err
	}
	if store.maintenanceMode, err = row.String(1); err != nil {
		return nil, err
	}
	if store.capacity, err = row.Int64(2); err != nil {
		return nil, err
	}
	if store.free, err = row.Int64(3); err != nil {
		return nil, err
	}

	if store.capacity >= 0 && store.free >= 0 {
		log.Debugf("datastore %s: capacity %s, free %s, mode %s",
			store.name, humanize.IBytes(uint64(store.capacity)), humanize.IBytes(uint64(store.free)), store.maintenanceMode)
	}

	return store, nil
}

func (d *datastore) usedPercent() (int64, error) {
	if d.free < 0 {
		return 0, fmt.Errorf("%w: negative free space %d", ErrArithmetic, d.free)
	}
	if d.free > d.capacity {
		return 0, fmt.Errorf("%w: free space %d exceeds capacity %d", ErrArithmetic, d.free, d.capacity)
	}

	return percent(d.capacity-d.free, d.capacity)
}
