package vspheredb

import (
	"strings"
	"testing"

	"github.com/mackerelio/checkers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(val int64) *int64 {
	return &val
}

func TestCheckRegistry(t *testing.T) {
	t.Parallel()

	assert.Equalf(t, []string{"cpu", "datastore", "hba", "memory", "nic", "temperature"}, CheckNames(), "all checks registered")

	for name, entry := range AvailableChecks {
		assert.Equalf(t, name, entry.Name, "entry name matches key")
		assert.NotNilf(t, entry.Handler, "handler for %s", name)
		assert.NotEmptyf(t, entry.Description, "description for %s", name)
	}
}

func TestCheckSpecThresholds(t *testing.T) {
	t.Parallel()

	entry := AvailableChecks[CheckCPU]

	spec := &CheckSpec{Kind: CheckCPU, Target: "esx01"}
	thr := spec.Thresholds(&entry)
	assert.Equal(t, int64(80), thr.Warning)
	assert.Equal(t, int64(90), thr.Critical)

	spec.Warning = int64Ptr(70)
	thr = spec.Thresholds(&entry)
	assert.Equal(t, int64(70), thr.Warning)
	assert.Equalf(t, int64(90), thr.Critical, "critical keeps its default")
	assert.Equalf(t, int64(80), AvailableChecks[CheckCPU].Defaults.Warning, "defaults unchanged")
}

func TestBuildQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec   CheckSpec
		args   []interface{}
		inText string
	}{
		{CheckSpec{Kind: CheckCPU, Target: "esx01"}, []interface{}{"esx01"}, "overall_cpu_usage"},
		{CheckSpec{Kind: CheckMemory, Target: "esx01"}, []interface{}{"esx01"}, "overall_memory_usage_mb"},
		{CheckSpec{Kind: CheckTemperature, Target: "esx01"}, []interface{}{"esx01", InletSensor}, "current_reading"},
		{CheckSpec{Kind: CheckNIC, Target: "esx01"}, []interface{}{"esx01"}, "hardware_num_nic"},
		{CheckSpec{Kind: CheckHBA, Target: "esx01"}, []interface{}{"esx01"}, "hardware_num_hba"},
		{CheckSpec{Kind: CheckDatastore, Target: "vc01"}, []interface{}{"vc01"}, "free_space"},
		{CheckSpec{Kind: CheckDatastore, Target: "vc01", Store: "ds1"}, []interface{}{"ds1", "vc01"}, "o.object_name LIKE ?"},
	}

	for i := range tests {
		tst := tests[i]
		query, err := BuildQuery(&tst.spec)
		require.NoErrorf(t, err, "query for %s", tst.spec.Kind)
		assert.Equalf(t, tst.args, query.Args, "args for %s", tst.spec.Kind)
		assert.Containsf(t, query.Text, tst.inText, "text for %s", tst.spec.Kind)
		assert.Equalf(t, len(tst.args), strings.Count(query.Text, "?"), "one placeholder per arg for %s", tst.spec.Kind)
	}

	_, err := BuildQuery(&CheckSpec{Kind: "disk"})
	assert.Errorf(t, err, "unknown check")
}

func TestQueryTextIndependentOfInput(t *testing.T) {
	t.Parallel()

	for _, kind := range []CheckKind{CheckCPU, CheckMemory, CheckTemperature, CheckNIC, CheckHBA, CheckDatastore} {
		plain, err := BuildQuery(&CheckSpec{Kind: kind, Target: "esx01"})
		require.NoError(t, err)
		evil, err := BuildQuery(&CheckSpec{Kind: kind, Target: `x' OR '1'='1"; DROP TABLE host_system; --`})
		require.NoError(t, err)
		assert.Equalf(t, plain.Text, evil.Text, "statement text for %s must not contain input", kind)
	}
}

func TestInterpretEmptyResult(t *testing.T) {
	t.Parallel()

	for _, name := range CheckNames() {
		for _, store := range []string{"", "ds1"} {
			spec := &CheckSpec{Kind: CheckKind(name), Target: "unknown", Store: store}
			if spec.Kind == CheckDatastore && store == "" {
				continue
			}
			res := Interpret(spec, []*Row{})
			out, rc := res.Render()
			assert.Equalf(t, "UNKNOWN - Query returned no results.", out, "empty result for %s", name)
			assert.Equalf(t, 3, rc, "exit code for %s", name)
		}
	}
}

func TestInterpretDatastoreAggregateEmpty(t *testing.T) {
	t.Parallel()

	res := Interpret(&CheckSpec{Kind: CheckDatastore, Target: "vc01"}, []*Row{})
	out, rc := res.Render()
	assert.Equalf(t, "OK", out, "vCenter without datastores")
	assert.Equal(t, 0, rc)
	assert.Empty(t, res.Metrics)
}

func TestInterpretCPU(t *testing.T) {
	t.Parallel()

	spec := &CheckSpec{Kind: CheckCPU, Target: "esx01"}
	res := Interpret(spec, []*Row{NewRow(int64(51200), int64(2000), int64(8))})

	out, rc := res.Render()
	assert.Equalf(t, "CRITICAL - Total CPU usage is 50GHz (320%)\nusage=51200;; usage_percent=320%;80;90 mhz=2000;; cores=8;;", out, "cpu output")
	assert.Equal(t, 2, rc)

	// values as sent by the mysql text protocol
	res = Interpret(spec, []*Row{NewRow([]byte("10240"), []byte("2000"), []byte("8"))})
	assert.Equal(t, checkers.OK, res.State)
	assert.Equal(t, "Total CPU usage is 10GHz (64%)", res.Output)

	spec.Warning = int64Ptr(50)
	res = Interpret(spec, []*Row{NewRow(int64(10240), int64(2000), int64(8))})
	assert.Equalf(t, checkers.WARNING, res.State, "warning override")
	assert.Equal(t, "usage_percent=64%;50;90", res.Metrics[1].String())
}

func TestInterpretCPUErrors(t *testing.T) {
	t.Parallel()

	spec := &CheckSpec{Kind: CheckCPU, Target: "esx01"}

	tests := []struct {
		row    *Row
		output string
	}{
		{NewRow(nil, int64(2000), int64(8)), "No performance data found."},
		{NewRow(int64(51200), int64(2000)), "No performance data found."},
		{NewRow(int64(51200), []byte("fast"), int64(8)), "No performance data found."},
		{NewRow(int64(51200), int64(0), int64(8)), "Cannot compute CPU usage: host reports 0 MHz and 8 cores."},
		{NewRow(int64(51200), int64(2000), int64(0)), "Cannot compute CPU usage: host reports 2000 MHz and 0 cores."},
		{NewRow(int64(1), int64(1<<40), int64(1<<40)), "Cannot compute CPU usage: 1099511627776 MHz x 1099511627776 cores overflows."},
	}

	for _, tst := range tests {
		res := Interpret(spec, []*Row{tst.row})
		assert.Equalf(t, checkers.UNKNOWN, res.State, "row %v", tst.row.Values)
		assert.Equalf(t, tst.output, res.Output, "row %v", tst.row.Values)
		assert.Emptyf(t, res.Metrics, "no metrics on error")
	}
}

func TestInterpretMemory(t *testing.T) {
	t.Parallel()

	spec := &CheckSpec{Kind: CheckMemory, Target: "esx01"}

	res := Interpret(spec, []*Row{NewRow(int64(131072), int64(262144))})
	out, rc := res.Render()
	assert.Equal(t, "OK - Total memory usage is 128GB (50%)\nusage=131072MB;; usage_percent=50%;80;90 capacity=262144MB;;", out)
	assert.Equal(t, 0, rc)

	res = Interpret(spec, []*Row{NewRow(int64(236000), int64(262144))})
	assert.Equalf(t, checkers.CRITICAL, res.State, "90%% is critical")

	res = Interpret(spec, []*Row{NewRow(int64(1024), int64(0))})
	assert.Equal(t, checkers.UNKNOWN, res.State)
	assert.Equal(t, "Cannot compute memory usage: host reports 0MB memory.", res.Output)

	res = Interpret(spec, []*Row{NewRow(nil, nil)})
	assert.Equal(t, checkers.UNKNOWN, res.State)
	assert.Equal(t, "No performance data found.", res.Output)

	for _, usage := range []string{"1e30", "NaN", "+Inf"} {
		res = Interpret(spec, []*Row{NewRow([]byte(usage), []byte("100"))})
		assert.Equalf(t, checkers.UNKNOWN, res.State, "usage %s", usage)
		assert.Equalf(t, "No performance data found.", res.Output, "usage %s", usage)
	}
}

func TestInterpretTemperature(t *testing.T) {
	t.Parallel()

	spec := &CheckSpec{Kind: CheckTemperature, Target: "esx01"}

	tests := []struct {
		reading int64
		state   checkers.Status
		output  string
		perf    string
	}{
		{2450, checkers.OK, "Temperature is 24°C", "temp=24C;50;60"},
		{4999, checkers.OK, "Temperature is 49°C", "temp=49C;50;60"},
		{5000, checkers.WARNING, "Temperature is 50°C", "temp=50C;50;60"},
		{6000, checkers.CRITICAL, "Temperature is 60°C", "temp=60C;50;60"},
	}

	for _, tst := range tests {
		res := Interpret(spec, []*Row{NewRow(tst.reading)})
		assert.Equalf(t, tst.state, res.State, "reading %d", tst.reading)
		assert.Equalf(t, tst.output, res.Output, "reading %d", tst.reading)
		assert.Equalf(t, tst.perf, res.Metrics.String(), "reading %d", tst.reading)
	}
}

func TestInterpretAdapters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind   CheckKind
		count  int64
		state  checkers.Status
		output string
		perf   string
	}{
		{CheckNIC, 4, checkers.OK, "Number of NICs: 4", "nics=4;1;0"},
		{CheckNIC, 2, checkers.OK, "Number of NICs: 2", "nics=2;1;0"},
		{CheckNIC, 1, checkers.WARNING, "Number of NICs: 1", "nics=1;1;0"},
		{CheckNIC, 0, checkers.CRITICAL, "Number of NICs: 0", "nics=0;1;0"},
		{CheckHBA, 2, checkers.OK, "Number of HBAs: 2", "hbas=2;1;0"},
		{CheckHBA, 1, checkers.WARNING, "Number of HBAs: 1", "hbas=1;1;0"},
		{CheckHBA, 0, checkers.CRITICAL, "Number of HBAs: 0", "hbas=0;1;0"},
	}

	for _, tst := range tests {
		res := Interpret(&CheckSpec{Kind: tst.kind, Target: "esx01"}, []*Row{NewRow(tst.count)})
		assert.Equalf(t, tst.state, res.State, "%s with %d", tst.kind, tst.count)
		assert.Equalf(t, tst.output, res.Output, "%s with %d", tst.kind, tst.count)
		assert.Equalf(t, tst.perf, res.Metrics.String(), "%s with %d", tst.kind, tst.count)
	}

	res := Interpret(&CheckSpec{Kind: CheckNIC, Target: "esx01", Warning: int64Ptr(3), Critical: int64Ptr(1)}, []*Row{NewRow(int64(2))})
	assert.Equalf(t, checkers.WARNING, res.State, "overridden thresholds keep direction")
	assert.Equal(t, "nics=2;3;1", res.Metrics.String())
}

func TestInterpretDatastoreAggregate(t *testing.T) {
	t.Parallel()

	spec := &CheckSpec{Kind: CheckDatastore, Target: "vcenter"}
	rows := []*Row{
		NewRow([]byte("A"), []byte("normal"), int64(1000), int64(500)),
		NewRow([]byte("B"), []byte("normal"), int64(1000), int64(50)),
	}

	res := Interpret(spec, rows)
	out, rc := res.Render()
	assert.Equal(t, "CRITICAL - Datastore B (mode: normal) uses 95% of storage space!\nA_used=50%;80;90 A_maintenance_mode=normal;; B_used=95%;80;90 B_maintenance_mode=normal;;", out)
	assert.Equal(t, 2, rc)
	assert.Lenf(t, res.Metrics, 4, "two metrics per datastore")
}

func TestInterpretDatastoreAggregateStates(t *testing.T) {
	t.Parallel()

	spec := &CheckSpec{Kind: CheckDatastore, Target: "vcenter"}

	res := Interpret(spec, []*Row{
		NewRow("A", "normal", int64(1000), int64(900)),
		NewRow("B", "normal", int64(1000), int64(800)),
	})
	out, rc := res.Render()
	assert.Equalf(t, "OK\nA_used=10%;80;90 A_maintenance_mode=normal;; B_used=20%;80;90 B_maintenance_mode=normal;;", out, "no problem lines")
	assert.Equal(t, 0, rc)

	res = Interpret(spec, []*Row{
		NewRow("A", "inMaintenance", int64(1000), int64(150)),
		NewRow("B", "normal", int64(1000), int64(100)),
		NewRow("C", "normal", int64(1000), int64(500)),
	})
	assert.Equal(t, checkers.CRITICAL, res.State)
	assert.Equal(t, "Datastore A (mode: inMaintenance) uses 85% of storage space!\nDatastore B (mode: normal) uses 90% of storage space!", res.Output)
	assert.Len(t, res.Metrics, 6)

	res = Interpret(spec, []*Row{
		NewRow("A", "normal", int64(0), int64(0)),
		NewRow("B", "normal", int64(1000), int64(50)),
	})
	assert.Equalf(t, checkers.UNKNOWN, res.State, "uncomputable store escalates to unknown")
	assert.Equal(t, "Datastore B (mode: normal) uses 95% of storage space!", res.Output)
	assert.Equal(t, "A_used=U;80;90 A_maintenance_mode=normal;; B_used=95%;80;90 B_maintenance_mode=normal;;", res.Metrics.String())

	res = Interpret(spec, []*Row{
		NewRow(nil, "normal", int64(1000), int64(50)),
		NewRow("B", "normal", int64(1000), int64(900)),
	})
	assert.Equal(t, checkers.UNKNOWN, res.State)
	assert.Lenf(t, res.Metrics, 2, "broken row has no metrics")
}

func TestInterpretDatastoreSingle(t *testing.T) {
	t.Parallel()

	spec := &CheckSpec{Kind: CheckDatastore, Target: "vcenter", Store: "A"}

	res := Interpret(spec, []*Row{NewRow("A", "normal", int64(1000), int64(150))})
	out, rc := res.Render()
	assert.Equal(t, "WARNING - Used storage space for datastore A (mode: normal): 85%\nused=85%;80;90 maintenance_mode=normal;;", out)
	assert.Equal(t, 1, rc)

	res = Interpret(spec, []*Row{
		NewRow("A1", "normal", int64(1000), int64(150)),
		NewRow("A2", "normal", int64(1000), int64(950)),
	})
	assert.Equalf(t, checkers.UNKNOWN, res.State, "pattern matching several datastores")
	assert.Equal(t, "Datastore A matches 2 datastores: A1, A2.", res.Output)
	assert.Empty(t, res.Metrics)

	tests := []struct {
		capacity, free int64
		output         string
	}{
		{0, 0, "Cannot compute used storage space for datastore A: capacity 0, free 0."},
		{100, 200, "Cannot compute used storage space for datastore A: capacity 100, free 200."},
		{100, -1, "Cannot compute used storage space for datastore A: capacity 100, free -1."},
	}
	for _, tst := range tests {
		res = Interpret(spec, []*Row{NewRow("A", "normal", tst.capacity, tst.free)})
		assert.Equalf(t, checkers.UNKNOWN, res.State, "capacity %d free %d", tst.capacity, tst.free)
		assert.Equal(t, tst.output, res.Output)
	}
}

func TestInterpretDeterministic(t *testing.T) {
	t.Parallel()

	spec := &CheckSpec{Kind: CheckDatastore, Target: "vcenter"}
	rows := []*Row{
		NewRow("A", "normal", int64(1000), int64(100)),
		NewRow("B", "normal", int64(1000), int64(50)),
		NewRow("C", "normal", int64(1000), int64(150)),
	}

	first, rc1 := Interpret(spec, rows).Render()
	for i := 0; i < 10; i++ {
		out, rc := Interpret(spec, rows).Render()
		assert.Equal(t, first, out)
		assert.Equal(t, rc1, rc)
	}
}
