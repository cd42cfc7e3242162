package t

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pluginTimeout = 30 * time.Second
	buildTimeout  = 5 * time.Minute
)

// plugin exit codes
const (
	exitOK       = 0
	exitWarning  = 1
	exitCritical = 2
	exitUnknown  = 3
)

var stateWords = map[int]string{
	exitOK:       "OK",
	exitWarning:  "WARNING",
	exitCritical: "CRITICAL",
	exitUnknown:  "UNKNOWN",
}

// pluginRun is a single execution of the plugin binary.
type pluginRun struct {
	Args []string
	Env  map[string]string

	Status   string // first line of stdout
	PerfData string // second line of stdout, empty without metrics
	Stdout   string
	Stderr   string
	Exit     int
}

// binaryPath returns the path of the plugin built by TestBuild.
func binaryPath() string {
	name := "check_vspheredb"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	workDir, _ := filepath.Abs(".")

	return filepath.Join(workDir, name)
}

// buildPlugin compiles cmd/check_vspheredb without cgo into binaryPath.
func buildPlugin(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
	defer cancel()

	build := exec.CommandContext(ctx, "go", "build", "-ldflags", "-X main.Build=test", "-o", binaryPath(), ".")
	build.Dir = filepath.Join("..", "cmd", "check_vspheredb")
	build.Env = append(os.Environ(), "CGO_ENABLED=0")

	out, err := build.CombinedOutput()
	require.NoErrorf(t, err, "go build failed:\n%s", out)
	require.FileExistsf(t, binaryPath(), "check_vspheredb binary must exist")
}

// runPlugin executes the plugin and splits its output into status and perf line.
func runPlugin(t *testing.T, run *pluginRun) *pluginRun {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), pluginTimeout)
	defer cancel()

	plugin := exec.CommandContext(ctx, binaryPath(), run.Args...)
	plugin.Env = os.Environ()
	for key, val := range run.Env {
		plugin.Env = append(plugin.Env, key+"="+val)
	}

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	plugin.Stdout = stdout
	plugin.Stderr = stderr

	t.Logf("run: %s", plugin.String())
	err := plugin.Run()
	require.NoErrorf(t, ctx.Err(), "plugin finished within %s", pluginTimeout)

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		run.Exit = exitOK
	case errors.As(err, &exitErr):
		run.Exit = exitErr.ExitCode()
	default:
		require.NoErrorf(t, err, "plugin started")
	}

	run.Stdout = stdout.String()
	run.Stderr = stderr.String()
	run.Status, run.PerfData, _ = strings.Cut(strings.TrimSuffix(run.Stdout, "\n"), "\n")

	assert.Containsf(t, stateWords, run.Exit, "exit code %d is a plugin state", run.Exit)
	assert.Emptyf(t, strings.TrimSpace(run.Stderr), "nothing logged at default level")

	return run
}

// assertState checks the exit code, that the status line starts with the
// matching state word and that at most one perfdata line follows.
func (run *pluginRun) assertState(t *testing.T, exit int, statusPattern string) {
	t.Helper()

	assert.NotContainsf(t, run.PerfData, "\n", "plugin prints at most status and perfdata:\n%s", run.Stdout)

	assert.Equalf(t, exit, run.Exit, "exit code of %v", run.Args)
	assert.Truef(t, strings.HasPrefix(run.Status, stateWords[exit]+" - "), "status starts with %s: %s", stateWords[exit], run.Status)
	assert.Regexpf(t, statusPattern, run.Status, "status line of %v", run.Args)
}

// writeFile creates/updates a file with given content
func writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoErrorf(t, err, "writing file %s succeeded", path)
}
