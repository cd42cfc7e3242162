package vspheredb

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jessevdk/go-flags"
	"github.com/mackerelio/checkers"
)

const (
	// NAME contains the plugin name.
	NAME = "check_vspheredb"

	// VERSION contains the actual check_vspheredb version.
	VERSION = "0.1.0"
)

// Build contains the git commit id, set from main.
var Build = "unknown"

// Check runs the plugin against the vSphereDB MySQL database, prints the
// result into output and returns the exit code.
func Check(ctx context.Context, output io.Writer, args []string) int {
	return CheckWithSource(ctx, output, args, OpenMySQL)
}

// CheckWithSource works like Check but connects through the given opener.
func CheckWithSource(ctx context.Context, output io.Writer, args []string, open SourceOpener) int {
	if hasVersionFlag(args) {
		fmt.Fprintf(output, "%s v%s (Build: %s)\n", NAME, VERSION, Build)

		return int(checkers.OK)
	}

	opts, command, err := parseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintf(output, "%s\n", err.Error())
		} else {
			fmt.Fprintf(output, "UNKNOWN - %s\n", err.Error())
		}

		return int(checkers.UNKNOWN)
	}

	closeLogger, err := setupLogger(opts)
	if err != nil {
		fmt.Fprintf(output, "UNKNOWN - %s\n", err.Error())

		return int(checkers.UNKNOWN)
	}
	defer closeLogger()

	spec, err := opts.checkSpec(command)
	if err != nil {
		fmt.Fprintf(output, "UNKNOWN - %s\n", err.Error())

		return int(checkers.UNKNOWN)
	}

	result := run(ctx, opts, spec, open)

	if opts.PrometheusTextfile != "" {
		LogError(writePrometheusTextfile(opts.PrometheusTextfile, spec, result))
	}

	out, exitCode := result.Render()
	fmt.Fprintf(output, "%s\n", out)

	return exitCode
}

// run opens the connection, runs exactly one query and releases the connection on all paths.
func run(ctx context.Context, opts *Options, spec *CheckSpec, open SourceOpener) *CheckResult {
	if opts.Database.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Database.Timeout)
		defer cancel()
	}

	log.Debugf("running %s check for %s", spec.Kind, spec.Target)

	source, err := open(ctx, &opts.Database)
	if err != nil {
		log.Debugf("connect failed: %s", err.Error())

		return resultFromError(err)
	}
	defer func() {
		LogError(source.Close())
	}()

	return RunCheck(ctx, source, spec)
}

func parseArgs(args []string) (opts *Options, command string, err error) {
	opts = &Options{}
	psr := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash) // default flags without flags.PrintErrors
	psr.Name = NAME
	_, err = psr.ParseArgs(args)
	if err != nil {
		return nil, "", err //nolint:wrapcheck // go-flags errors are printed as is
	}

	if psr.Active == nil {
		return nil, "", fmt.Errorf("no check given, use one of: %v", CheckNames())
	}

	if opts.Config != "" {
		if err = applyConfig(psr, opts); err != nil {
			return nil, "", err
		}
	}

	return opts, psr.Active.Name, nil
}

// applyConfig sets database options from the config file unless they were given on the command line.
func applyConfig(psr *flags.Parser, opts *Options) error {
	cfg := NewConfig()
	if err := cfg.ReadSettingsFile(opts.Config); err != nil {
		return err
	}
	section := cfg.Section(ConfigSettingsSection)

	notOnCmdLine := func(long string) bool {
		opt := psr.FindOptionByLongName(long)

		return opt == nil || !opt.IsSet() || opt.IsSetDefault()
	}

	for key, target := range map[string]*string{
		"host":     &opts.Database.Host,
		"database": &opts.Database.Database,
		"user":     &opts.Database.User,
		"password": &opts.Database.Password,
	} {
		if val, ok := section.GetString(key); ok && notOnCmdLine(key) {
			*target = val
		}
	}

	port, ok, err := section.GetInt("port")
	if err != nil {
		return fmt.Errorf("config error in %s: %s", opts.Config, err.Error())
	}
	if ok && notOnCmdLine("port") {
		opts.Database.Port = port
	}

	timeout, ok, err := section.GetDuration("timeout")
	if err != nil {
		return fmt.Errorf("config error in %s: %s", opts.Config, err.Error())
	}
	if ok && notOnCmdLine("timeout") {
		opts.Database.Timeout = timeout
	}

	return nil
}

func hasVersionFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--":
			return false
		case "-V", "--version":
			return true
		}
	}

	return false
}
