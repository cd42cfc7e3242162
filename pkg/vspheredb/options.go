package vspheredb

import (
	"fmt"
	"time"
)

// DatabaseOptions contains everything required to reach the vSphereDB database.
type DatabaseOptions struct {
	Host     string        `short:"H" long:"host" default:"localhost" env:"VSPHEREDB_HOST" description:"database host to connect to"`
	Port     int           `short:"p" long:"port" default:"3306" env:"VSPHEREDB_PORT" description:"database port to connect to"`
	Database string        `short:"d" long:"database" default:"vspheredb" env:"VSPHEREDB_DATABASE" description:"database name"`
	User     string        `short:"u" long:"user" default:"vspheredb" env:"VSPHEREDB_USER" description:"database user"`
	Password string        `short:"P" long:"password" default:"vspheredb" env:"VSPHEREDB_PASSWORD" description:"database password"`
	Timeout  time.Duration `short:"t" long:"timeout" default:"10s" description:"connect and query timeout"`
}

// ThresholdOptions overrides the default thresholds of a check.
type ThresholdOptions struct {
	Warning  *int64 `short:"w" long:"warning" description:"warning threshold as integer"`
	Critical *int64 `short:"c" long:"critical" description:"critical threshold as integer"`
}

// DatastoreOptions adds the optional datastore filter.
type DatastoreOptions struct {
	ThresholdOptions
	Store string `short:"s" long:"store" description:"check this datastore only, all datastores of the vCenter otherwise"`
}

// Options contains all command line options.
type Options struct {
	Machine string `short:"m" long:"machine" env:"VSPHEREDB_MACHINE" description:"host or vCenter name to be queried for" required:"true"`

	Database DatabaseOptions `group:"Database Options"`

	Config             string `long:"config" description:"path to ini file with a [/settings/vspheredb] section" value-name:"FILE"`
	PrometheusTextfile string `long:"prometheus-textfile" description:"additionally write the result into this prometheus textfile" value-name:"FILE"`
	Verbose            []bool `short:"v" long:"verbose" description:"increase loglevel, -v means debug, -vv means trace"`
	LogFile            string `long:"logfile" description:"path to log file (default: stderr)" value-name:"FILE"`
	Version            bool   `short:"V" long:"version" description:"print version and exit"`

	CPU         ThresholdOptions `command:"cpu" description:"checks CPU usage (default: warning 80%, critical 90%)"`
	Memory      ThresholdOptions `command:"memory" description:"checks memory usage (default: warning 80%, critical 90%)"`
	Temperature ThresholdOptions `command:"temperature" description:"checks the inlet temperature (default: warning 50°C, critical 60°C)"`
	NIC         ThresholdOptions `command:"nic" description:"checks number of attached NICs (default: warning 1, critical 0)"`
	HBA         ThresholdOptions `command:"hba" description:"checks number of attached HBAs (default: warning 1, critical 0)"`
	Datastore   DatastoreOptions `command:"datastore" description:"checks all datastores or a single, specified datastore (default: warning 80%, critical 90%)"`
}

// checkSpec resolves the active sub command into a CheckSpec.
func (opts *Options) checkSpec(command string) (*CheckSpec, error) {
	spec := &CheckSpec{
		Kind:   CheckKind(command),
		Target: opts.Machine,
	}

	var thresholds *ThresholdOptions
	switch spec.Kind {
	case CheckCPU:
		thresholds = &opts.CPU
	case CheckMemory:
		thresholds = &opts.Memory
	case CheckTemperature:
		thresholds = &opts.Temperature
	case CheckNIC:
		thresholds = &opts.NIC
	case CheckHBA:
		thresholds = &opts.HBA
	case CheckDatastore:
		thresholds = &opts.Datastore.ThresholdOptions
		spec.Store = opts.Datastore.Store
	default:
		return nil, fmt.Errorf("unknown check: %s", command)
	}

	spec.Warning = thresholds.Warning
	spec.Critical = thresholds.Critical

	return spec, nil
}
