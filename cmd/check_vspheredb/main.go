package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/consol-monitoring/check_vspheredb/pkg/vspheredb"
)

// Build contains the current git commit id
// compile passing -ldflags "-X main.Build=<build sha1>" to set the id.
var Build string

func main() {
	if Build != "" {
		vspheredb.Build = Build
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rc := vspheredb.Check(ctx, os.Stdout, os.Args[1:])
	cancel()

	os.Exit(rc)
}
