package testutil

import (
	"context"
	"sync"

	"github.com/rengeos/house-overlay/pkg/errors"
	"github.com/rengeos/house-overlay/pkg/runner"
)

// FakeRunner implements runner.Runner without starting processes
type FakeRunner struct {
	mu       sync.Mutex
	commands []runner.Command
	failures map[string]error
	paths    map[string]string
	outputs  map[string]string

	// OnRun is called for every command before failures are applied, so a
	// test can emulate side effects such as a build installing a binary.
	OnRun func(cmd runner.Command)
}

// NewFakeRunner creates an empty fake with nothing on the search path
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		failures: make(map[string]error),
		paths:    make(map[string]string),
		outputs:  make(map[string]string),
	}
}

// Program returns the program a command runs, looking through sudo
func Program(cmd runner.Command) string {
	if cmd.Name == "sudo" && len(cmd.Args) > 0 {
		return cmd.Args[0]
	}
	return cmd.Name
}

// AddPath puts the named programs on the fake search path
func (f *FakeRunner) AddPath(names ...string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, name := range names {
		f.paths[name] = "/usr/bin/" + name
	}
	return f
}

// RemovePath takes a program off the search path
func (f *FakeRunner) RemovePath(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.paths, name)
}

// FailOn makes every invocation of program fail with err
func (f *FakeRunner) FailOn(program string, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		err = errors.Newf(errors.ErrCommandFailed, "%s failed", program)
	}
	f.failures[program] = err
	return f
}

// Output sets the captured stdout returned for program
func (f *FakeRunner) Output(program, stdout string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outputs[program] = stdout
	return f
}

// Run implements runner.Runner
func (f *FakeRunner) Run(ctx context.Context, cmd runner.Command) (*runner.Result, error) {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	hook := f.OnRun
	f.mu.Unlock()

	if hook != nil {
		hook(cmd)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failures[Program(cmd)]; ok {
		return nil, err
	}
	return &runner.Result{Stdout: f.outputs[Program(cmd)]}, nil
}

// LookPath implements runner.Runner
func (f *FakeRunner) LookPath(name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path, ok := f.paths[name]
	return path, ok
}

// Commands returns the recorded commands in order
func (f *FakeRunner) Commands() []runner.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]runner.Command(nil), f.commands...)
}

// CommandLines returns the recorded commands rendered as strings
func (f *FakeRunner) CommandLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, 0, len(f.commands))
	for _, cmd := range f.commands {
		lines = append(lines, cmd.String())
	}
	return lines
}

// Ran reports whether program was invoked at least once
func (f *FakeRunner) Ran(program string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cmd := range f.commands {
		if Program(cmd) == program {
			return true
		}
	}
	return false
}
