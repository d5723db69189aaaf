// Package runner executes external programs for the installer. In dry-run
// mode it reports every command that could change user state and returns a
// synthetic success instead.
package runner

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rengeos/house-overlay/pkg/errors"
	"github.com/rengeos/house-overlay/pkg/logging"
	"github.com/rs/zerolog"
)

// Command is one external program invocation
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one
	Dir string
	// Env is appended to the inherited environment
	Env []string
	// Capture collects output instead of streaming it to the terminal
	Capture bool
	// ReadOnly marks commands that leave user state alone, such as a clone
	// into a scratch directory. They run in dry-run mode too.
	ReadOnly bool
}

// String renders the argument vector the way a shell user would type it
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result is the outcome of a successful invocation
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	DryRun   bool
}

// Runner executes commands and probes the search path
type Runner interface {
	// Run executes cmd. A non-zero exit or a missing executable yields a nil
	// result and an error carrying COMMAND_FAILED or COMMAND_NOT_FOUND.
	Run(ctx context.Context, cmd Command) (*Result, error)

	// LookPath reports where name is found on the search path
	LookPath(name string) (string, bool)
}

// Options configures an Exec runner
type Options struct {
	DryRun bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Report receives "Would execute: ..." lines in dry-run mode
	Report func(line string)
}

// Exec runs commands with os/exec
type Exec struct {
	opts   Options
	logger zerolog.Logger
}

// New creates an Exec runner. Unset streams default to the process streams.
func New(opts Options) *Exec {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Report == nil {
		opts.Report = func(string) {}
	}
	return &Exec{
		opts:   opts,
		logger: logging.GetLogger("runner"),
	}
}

// LookPath searches PATH for name. It is a read and runs in dry-run mode too.
func (e *Exec) LookPath(name string) (string, bool) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return path, true
}

// Run implements Runner
func (e *Exec) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Name == "" {
		return nil, errors.New(errors.ErrInvalidInput, "command requires a program name")
	}

	if e.opts.DryRun && !cmd.ReadOnly {
		e.logger.Info().
			Str("command", cmd.Name).
			Strs("args", cmd.Args).
			Str("dir", cmd.Dir).
			Msg("Dry run mode - command would be executed")
		e.opts.Report("Would execute: " + cmd.String())
		return &Result{DryRun: true}, nil
	}

	logging.LogCommand(e.logger, cmd.Name, cmd.Args)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	if cmd.Capture {
		c.Stdout = &stdout
		c.Stderr = &stderr
	} else {
		c.Stdin = e.opts.Stdin
		c.Stdout = e.opts.Stdout
		c.Stderr = e.opts.Stderr
	}

	err := c.Run()
	if err != nil {
		return nil, e.failure(cmd, err, stderr.String())
	}

	e.logger.Debug().Str("command", cmd.Name).Msg("Command executed successfully")

	return &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}, nil
}

func (e *Exec) failure(cmd Command, err error, stderr string) error {
	if stderrors.Is(err, exec.ErrNotFound) {
		e.logger.Error().Err(err).Str("command", cmd.Name).Msg("Command not found")
		return errors.Wrapf(err, errors.ErrCommandNotFound, "command not found: %s", cmd.Name).
			WithDetail("command", cmd.String())
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	e.logger.Error().
		Err(err).
		Str("command", cmd.Name).
		Strs("args", cmd.Args).
		Int("exitCode", exitCode).
		Str("stderr", stderr).
		Msg("Command execution failed")

	return errors.Wrapf(err, errors.ErrCommandFailed, "failed to execute command: %s", cmd.String()).
		WithDetail("command", cmd.String()).
		WithDetail("exitCode", exitCode).
		WithDetail("stderr", strings.TrimSpace(stderr))
}
