// Package main is the entry point of the score tracker command line.
//
// Each invocation loads the students, the recent activity and the login flag
// from the configured document store, runs one command and writes back what
// changed. Storage failures are reported as warnings and never abort a
// command.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alem-hub/score-tracker/internal/interface/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Run(ctx, cli.Options{Stdout: os.Stdout, Stderr: os.Stderr}, os.Args)
	stop()
	os.Exit(code)
}
