package vspheredb

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// minimal copy of the vSphereDB tables used by the checks
var testSchema = []string{
	`CREATE TABLE host_system (
		uuid TEXT PRIMARY KEY,
		host_name TEXT NOT NULL,
		hardware_cpu_mhz INTEGER,
		hardware_cpu_cores INTEGER,
		hardware_memory_size_mb INTEGER,
		hardware_num_nic INTEGER,
		hardware_num_hba INTEGER
	)`,
	`CREATE TABLE host_quick_stats (
		uuid TEXT PRIMARY KEY,
		overall_cpu_usage INTEGER,
		overall_memory_usage_mb INTEGER
	)`,
	`CREATE TABLE host_sensor (
		host_uuid TEXT NOT NULL,
		name TEXT NOT NULL,
		current_reading INTEGER
	)`,
	`CREATE TABLE vcenter (
		instance_uuid TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE object (
		uuid TEXT PRIMARY KEY,
		object_name TEXT NOT NULL
	)`,
	`CREATE TABLE datastore (
		uuid TEXT PRIMARY KEY,
		vcenter_uuid TEXT NOT NULL,
		maintenance_mode TEXT NOT NULL,
		capacity INTEGER,
		free_space INTEGER
	)`,
	`INSERT INTO host_system VALUES
		('h1', 'esx01.example.com', 2000, 8, 262144, 4, 2),
		('h2', 'esx02.example.com', 0, 0, 0, 0, 1)`,
	`INSERT INTO host_quick_stats VALUES
		('h1', 51200, 131072),
		('h2', NULL, NULL)`,
	`INSERT INTO host_sensor VALUES
		('h1', 'System Board 1 Inlet Temp', 2450),
		('h1', 'Processor 1 Temp', 6500)`,
	`INSERT INTO vcenter VALUES
		('vc1', 'vcenter.example.com'),
		('vc2', 'other.example.com')`,
	`INSERT INTO object VALUES
		('ds1', 'datastore-a'),
		('ds2', 'datastore-b'),
		('ds3', 'foreign')`,
	`INSERT INTO datastore VALUES
		('ds1', 'vc1', 'normal', 1000, 500),
		('ds2', 'vc1', 'normal', 1000, 50),
		('ds3', 'vc2', 'inMaintenance', 100, 100)`,
}

// newTestDB returns an in-memory database filled with testSchema.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoErrorf(t, err, "sqlite opened")

	// every connection would get its own in-memory database
	db.SetMaxOpenConns(1)

	for _, stmt := range testSchema {
		_, err = db.Exec(stmt)
		require.NoErrorf(t, err, "schema statement: %s", stmt)
	}

	return db
}

// newTestSource returns a SQLSource on top of newTestDB.
func newTestSource(t *testing.T) *SQLSource {
	t.Helper()

	source, err := OpenSQLSource(context.Background(), newTestDB(t))
	require.NoErrorf(t, err, "source opened")
	t.Cleanup(func() {
		source.Close()
	})

	return source
}

// testOpener returns an opener which hands out a fresh test database.
func testOpener(t *testing.T) SourceOpener {
	t.Helper()

	db := newTestDB(t)

	return func(ctx context.Context, _ *DatabaseOptions) (QuerySource, error) {
		return OpenSQLSource(ctx, db)
	}
}

// runTestCheck runs the plugin with given arguments and returns output and exit code.
func runTestCheck(t *testing.T, open SourceOpener, args ...string) (string, int) {
	t.Helper()

	output := bytes.NewBuffer(nil)
	rc := CheckWithSource(context.Background(), output, args, open)

	return output.String(), rc
}
