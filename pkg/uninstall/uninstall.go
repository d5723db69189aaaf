// Package uninstall removes the configuration state written by an install.
// System packages are left alone.
package uninstall

import (
	"context"

	"github.com/rengeos/house-overlay/pkg/config"
	"github.com/rengeos/house-overlay/pkg/filesystem"
	"github.com/rengeos/house-overlay/pkg/logging"
	"github.com/rengeos/house-overlay/pkg/paths"
	"github.com/rengeos/house-overlay/pkg/privileged"
	"github.com/rengeos/house-overlay/pkg/prompt"
	"github.com/rengeos/house-overlay/pkg/style"
	"github.com/rengeos/house-overlay/pkg/types"
	"github.com/rs/zerolog"
)

const dependenciesNote = "**Note:** Dependencies were NOT removed to preserve system stability."

// Options wires an Uninstaller to its collaborators
type Options struct {
	Deploy    config.Deploy
	Uninstall config.Uninstall

	// CommandPath is the installed global command, removed with privileges
	CommandPath string

	Paths      *paths.Paths
	FS         types.FS
	Privileged privileged.Executor
	Prompter   prompt.Prompter
	Printer    *style.Printer
	DryRun     bool
}

// Report summarizes a sweep
type Report struct {
	Removed []string
	Absent  []string
	Failed  map[string]error
}

// Uninstaller deletes the installed configuration
type Uninstaller struct {
	opts   Options
	logger zerolog.Logger
}

// New creates an Uninstaller
func New(opts Options) *Uninstaller {
	return &Uninstaller{
		opts:   opts,
		logger: logging.GetLogger("uninstall"),
	}
}

// Targets lists every path the sweep considers, in removal order
func (u *Uninstaller) Targets() []string {
	var targets []string
	for _, name := range u.opts.Deploy.ConfigFolders {
		targets = append(targets, u.opts.Paths.ConfigPath(name))
	}
	if u.opts.CommandPath != "" {
		targets = append(targets, u.opts.CommandPath)
	}
	for _, path := range u.opts.Uninstall.ExtraPaths {
		targets = append(targets, u.opts.Paths.Resolve(path))
	}
	for _, name := range u.opts.Deploy.HomeFolders {
		targets = append(targets, u.opts.Paths.HomePath(name))
	}
	return targets
}

// Run confirms once and then removes every existing target. A declined
// confirmation returns a nil report. Each removal is independent: a failure
// is recorded and the sweep moves on.
func (u *Uninstaller) Run(ctx context.Context) (*Report, error) {
	p := u.opts.Printer
	p.Header("Uninstaller")
	p.Error("WARNING: Removing configuration files.")

	proceed, err := prompt.Confirm(u.opts.Prompter, p.Prompt("Continue? (y/n): "))
	if err != nil {
		return nil, err
	}
	if !proceed {
		u.logger.Info().Msg("Uninstall declined")
		return nil, nil
	}

	report := &Report{Failed: make(map[string]error)}
	for _, path := range u.Targets() {
		if !filesystem.Exists(u.opts.FS, path) {
			u.logger.Debug().Str("path", path).Msg("Not present")
			report.Absent = append(report.Absent, path)
			continue
		}

		if err := u.remove(ctx, path); err != nil {
			u.logger.Error().Err(err).Str("path", path).Msg("Removal failed")
			p.Error("Error removing %s: %v", path, err)
			report.Failed[path] = err
			continue
		}

		report.Removed = append(report.Removed, path)
		if !u.opts.DryRun {
			p.Line("Removed %s", path)
		}
	}

	p.Header("Uninstall Complete")
	p.Note(dependenciesNote)

	return report, nil
}

func (u *Uninstaller) remove(ctx context.Context, path string) error {
	switch {
	case filesystem.IsDir(u.opts.FS, path):
		return u.opts.FS.RemoveAll(path)
	case path == u.opts.CommandPath:
		return u.opts.Privileged.Remove(ctx, path)
	default:
		return u.opts.FS.Remove(path)
	}
}
