package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/alem-hub/score-tracker/config"
	"github.com/alem-hub/score-tracker/internal/domain/shared"
	"github.com/alem-hub/score-tracker/pkg/logger"
)

const runtimeKey = "runtime"

// NewApp builds the tracker command tree.
func NewApp(opts Options) *cli.App {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	app := &cli.App{
		Name:      "tracker",
		Usage:     "keep track of students and their scores",
		Writer:    opts.Stdout,
		ErrWriter: opts.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data-dir", Usage: "directory of the JSON documents (file backend)", EnvVars: []string{"DATA_DIR"}},
			&cli.StringFlag{Name: "backend", Usage: "file, postgres, redis or memory", EnvVars: []string{"STORAGE_BACKEND"}},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error", EnvVars: []string{"LOG_LEVEL"}},
		},
		Before: func(c *cli.Context) error {
			rt, err := newRuntime(c.Context, opts, Overrides{
				DataDir:  c.String("data-dir"),
				Backend:  c.String("backend"),
				LogLevel: c.String("log-level"),
			})
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			c.App.Metadata[runtimeKey] = rt
			c.Context = logger.WithContext(rt.Context(), rt.Logger)
			return nil
		},
		After: func(c *cli.Context) error {
			rt, ok := c.App.Metadata[runtimeKey].(*Runtime)
			if !ok {
				return nil
			}
			if rt.Config.Observability.MetricsEnabled || rt.Config.Features.IsEnabled(config.FeatureMetricsReport) {
				if report, err := rt.Metrics.Report(); err == nil && report != "" {
					fmt.Fprintln(c.App.ErrWriter, report)
				}
			}
			return rt.Close()
		},
		// Exit codes are decided by the caller of Run.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			recoverCommand(),
			studentCommand(),
			scoreCommand(),
			rankCommand(),
			attemptsCommand(),
			exportCommand(),
		},
	}
	app.Metadata = make(map[string]interface{})
	return app
}

// Run executes the app and maps the outcome to a process exit code.
func Run(ctx context.Context, opts Options, args []string) int {
	app := NewApp(opts)
	err := app.RunContext(ctx, args)
	if err == nil {
		return 0
	}
	fmt.Fprintln(app.ErrWriter, err)
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return 1
}

func runtimeFrom(c *cli.Context) (*Runtime, error) {
	rt, ok := c.App.Metadata[runtimeKey].(*Runtime)
	if !ok {
		return nil, errNoRuntime
	}
	return rt, nil
}

// rejected turns a domain error into a user-facing exit error.
func rejected(err error) error {
	return cli.Exit(shared.Message(err), 1)
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// protected runs action only when the gate is open, unless the gate is
// switched off by feature flag.
func protected(action func(*cli.Context, *Runtime) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		rt, err := runtimeFrom(c)
		if err != nil {
			return err
		}
		if rt.Config.Features.IsEnabled(config.FeatureAuthRequired) {
			if err := rt.Gate.Require(c.Context); err != nil {
				logger.FromContext(c.Context).Info("command refused, not logged in",
					logger.String("command", c.Command.FullName()))
				return rejected(err)
			}
		}
		return action(c, rt)
	}
}

// public runs action without the gate.
func public(action func(*cli.Context, *Runtime) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		rt, err := runtimeFrom(c)
		if err != nil {
			return err
		}
		return action(c, rt)
	}
}

// featureEnabled rejects commands switched off by feature flag.
func featureEnabled(rt *Runtime, name string) error {
	if !rt.Config.Features.IsEnabled(name) {
		return cli.Exit(fmt.Sprintf("%s is disabled", name), 1)
	}
	return nil
}
