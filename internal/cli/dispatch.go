// Package cli parses the command line and dispatches to registered commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/logger"
	"taskboard/internal/metrics"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		if hints := d.registry.Suggest(cmdName); len(hints) > 0 {
			fmt.Fprintf(errOut, "error: unknown command: %s (did you mean: %s?)\n", cmdName, strings.Join(hints, ", "))
		} else {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		}
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var (
		configDir string
		apiURL    string
		quiet     bool
		debug     bool
	)
	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&apiURL, "api-url", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&quiet, "q", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A leading dash left after parsing is a flag the parser stopped at
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && positionalArgs[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	if apiURL != "" {
		cfg.APIURL = strings.TrimRight(apiURL, "/")
	}

	log, closer, err := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		File:   cfg.LogFile,
		Debug:  cfg.Debug,
		Stderr: errOut,
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	defer closer.Close()
	cfg.Log = log
	cfg.Metrics = metrics.New()

	start := time.Now()
	code := d.runCommand(ctx, cfg, cmd, positionalArgs, out, errOut)

	log.Debug("command finished", "command", cmd.Name(), "exit_code", code, "duration", time.Since(start))
	cfg.Metrics.RecordCommand(cmd.Name(), code)
	if cfg.MetricsFile != "" {
		if err := cfg.Metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn("failed to write metrics", "path", cfg.MetricsFile, "error", err)
		}
	}
	return code
}

// runCommand creates the service the command requires and runs it.
func (d *Dispatcher) runCommand(ctx context.Context, cfg *config.Config, cmd commands.Command, args []string, out, errOut io.Writer) int {
	var svc service.Service

	switch cmd.Requires() {
	case commands.SessionService:
		// No request is sent without a stored, unexpired session
		if _, err := session.NewStore(cfg.SessionPath()).Load(); err != nil {
			switch {
			case errors.Is(err, session.ErrNoSession):
				fmt.Fprintln(errOut, "error: not logged in (run: taskboard login)")
			case errors.Is(err, service.ErrSessionExpired):
				fmt.Fprintln(errOut, "error: session expired (run: taskboard login)")
			default:
				fmt.Fprintf(errOut, "error: %s\n", err)
			}
			return exitcode.AuthError
		}
		fallthrough
	case commands.AnonymousService:
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: no backend configured")
			return exitcode.BackendError
		}
		s, err := d.factory(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
		svc = s
	}

	return cmd.Run(ctx, cfg, svc, args, out, errOut)
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	switch {
	case strings.HasPrefix(errStr, "flag needs an argument:"):
		name := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		return "flag needs an argument: " + name
	case strings.HasPrefix(errStr, "flag provided but not defined:"):
		name := strings.TrimSpace(strings.TrimPrefix(errStr, "flag provided but not defined:"))
		return "unknown flag: " + name
	}
	return errStr
}
