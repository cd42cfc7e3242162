package vspheredb

import (
	"fmt"
	"io"
	standardlog "log"
	"os"
	"strings"

	"github.com/kdar/factorlog"
)

// define all available log level.
const (
	// LogVerbosityNone disables logging.
	LogVerbosityNone = 0

	// LogVerbosityDefault sets the default log level.
	LogVerbosityDefault = 1

	// LogVerbosityDebug sets the debug log level.
	LogVerbosityDebug = 2

	// LogVerbosityTrace sets trace log level.
	LogVerbosityTrace = 3
)

var (
	DateTimeLogFormat = `[%{Date} %{Time "15:04:05.000"}]`
	LogFormat         = `[%{Severity}][pid:%{Pid}][%{ShortFile}:%{Line}] %{Message}`

	// plugins must keep stdout clean for the status line
	log          = factorlog.New(os.Stderr, BuildFormatter(DateTimeLogFormat+LogFormat))
	targetWriter io.Writer = os.Stderr
)

func setLogLevel(level string) {
	switch strings.ToLower(level) {
	case "off":
		log.SetMinMaxSeverity(factorlog.StringToSeverity("PANIC"), factorlog.StringToSeverity("PANIC"))
		log.SetVerbosity(LogVerbosityNone)
	case "error", "info":
		log.SetMinMaxSeverity(factorlog.StringToSeverity(strings.ToUpper(level)), factorlog.StringToSeverity("PANIC"))
		log.SetVerbosity(LogVerbosityDefault)
	case "debug":
		log.SetMinMaxSeverity(factorlog.StringToSeverity(strings.ToUpper(level)), factorlog.StringToSeverity("PANIC"))
		log.SetVerbosity(LogVerbosityDebug)
	case "trace":
		log.SetMinMaxSeverity(factorlog.StringToSeverity(strings.ToUpper(level)), factorlog.StringToSeverity("PANIC"))
		log.SetVerbosity(LogVerbosityTrace)
	case "":
	default:
		log.Errorf("unknown log level: %s", level)
	}
}

// verbosityLevel maps the number of -v flags onto a log level.
func verbosityLevel(verbose int) string {
	switch {
	case verbose >= 2:
		return "trace"
	case verbose == 1:
		return "debug"
	}

	return "error"
}

// setupLogger applies level and target file from the command line. The
// returned function switches back to stderr and closes the log file.
func setupLogger(opts *Options) (func(), error) {
	setLogLevel(verbosityLevel(len(opts.Verbose)))

	switch opts.LogFile {
	case "", "stderr":
		targetWriter = os.Stderr
		log.SetOutput(targetWriter)

		return func() {}, nil
	}

	fHandle, err := os.OpenFile(opts.LogFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o600)
	if err != nil {
		return func() {}, fmt.Errorf("failed to open logfile %s: %s", opts.LogFile, err.Error())
	}
	targetWriter = fHandle
	log.SetOutput(targetWriter)

	return func() {
		targetWriter = os.Stderr
		log.SetOutput(targetWriter)
		if err := fHandle.Close(); err != nil {
			LogError(fmt.Errorf("closing logfile %s failed: %s", opts.LogFile, err.Error()))
		}
	}, nil
}

func BuildFormatter(format string) *factorlog.StdFormatter {
	format = strings.ReplaceAll(format, "%{Pid}", fmt.Sprintf("%d", os.Getpid()))

	return (factorlog.NewStdFormatter(format))
}

func LogError(err error) {
	if err != nil {
		logErr := log.Output(factorlog.ERROR, 2, err.Error())
		if logErr != nil {
			fmt.Fprintf(os.Stderr, "failed to log: %s (%s)\n", err.Error(), logErr.Error())
		}
	}
}

// LogWriter implements the io.Writer interface and simply logs everything with given level.
type LogWriter struct {
	level string
}

func (l *LogWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimSpace(string(p))
	callLevel := 2

	switch strings.ToLower(l.level) {
	case "error":
		err = log.Output(factorlog.ERROR, callLevel, msg)
	case "debug":
		err = log.Output(factorlog.DEBUG, callLevel, msg)
	}

	if err != nil {
		return 0, fmt.Errorf("log: %s", err.Error())
	}

	return len(p), nil
}

func NewLogWriter(level string) *LogWriter {
	l := new(LogWriter)
	l.level = level

	return l
}

// NewStandardLog returns a standard logger which writes into our log, used
// for the mysql driver.
func NewStandardLog(level string) *standardlog.Logger {
	writer := NewLogWriter(level)
	logger := standardlog.New(writer, "", 0)

	return logger
}
