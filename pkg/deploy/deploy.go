// Package deploy copies the configuration trees of a checkout into place,
// resolving existing destinations interactively, and runs the auxiliary
// installer scripts shipped with the checkout.
package deploy

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rengeos/house-overlay/pkg/config"
	"github.com/rengeos/house-overlay/pkg/errors"
	"github.com/rengeos/house-overlay/pkg/filesystem"
	"github.com/rengeos/house-overlay/pkg/logging"
	"github.com/rengeos/house-overlay/pkg/paths"
	"github.com/rengeos/house-overlay/pkg/prompt"
	"github.com/rengeos/house-overlay/pkg/runner"
	"github.com/rengeos/house-overlay/pkg/style"
	"github.com/rengeos/house-overlay/pkg/types"
	"github.com/rs/zerolog"
)

const conflictQuestion = "Backup (b), Overwrite (o), or Quit (q)? "

var decisionKeys = []string{"b", "o", "q"}

// Options wires a Deployer to its collaborators
type Options struct {
	Config  config.Deploy
	Scripts []config.Script

	Paths     *paths.Paths
	FS        types.FS
	Runner    runner.Runner
	Prompter  prompt.Prompter
	Printer   *style.Printer
	SourceDir string
}

// Deployer copies configuration trees from a checkout
type Deployer struct {
	opts   Options
	logger zerolog.Logger
}

// New creates a Deployer
func New(opts Options) *Deployer {
	return &Deployer{
		opts:   opts,
		logger: logging.GetLogger("deploy"),
	}
}

// ConfigTargets returns the configuration folders in display order
func (d *Deployer) ConfigTargets() []types.Target {
	targets := make([]types.Target, 0, len(d.opts.Config.ConfigFolders))
	for _, name := range d.opts.Config.ConfigFolders {
		targets = append(targets, types.Target{
			Name:        name,
			Source:      filepath.Join(d.opts.Config.OverlayDir, name),
			Destination: d.opts.Paths.ConfigPath(name),
		})
	}
	return targets
}

// HomeTargets returns the dot-directories placed directly in the home directory
func (d *Deployer) HomeTargets() []types.Target {
	targets := make([]types.Target, 0, len(d.opts.Config.HomeFolders))
	for _, name := range d.opts.Config.HomeFolders {
		targets = append(targets, types.Target{
			Name:        name,
			Source:      filepath.Join(d.opts.Config.OverlayDir, name),
			Destination: d.opts.Paths.HomePath(name),
		})
	}
	return targets
}

// Run deploys configuration folders, then home folders, then runs the
// scripts. It only fails when the user quits or input ends.
func (d *Deployer) Run(ctx context.Context) error {
	if err := d.DeployConfigs(); err != nil {
		return err
	}
	d.DeployHome()
	d.RunScripts(ctx)
	return nil
}

// DeployConfigs copies every configuration folder. An existing destination
// is resolved through the prompt; Quit stops immediately and leaves earlier
// entries in place.
func (d *Deployer) DeployConfigs() error {
	p := d.opts.Printer
	p.Header("Copying Configuration")

	for _, target := range d.ConfigTargets() {
		if filesystem.Exists(d.opts.FS, target.Destination) {
			p.Warning("Warning: '%s' already exists.", target.Destination)

			decision, err := d.Decide()
			if err != nil {
				return err
			}
			if decision == types.DecisionQuit {
				d.logger.Info().Str("target", target.Name).Msg("User quit at conflict")
				return errors.Newf(errors.ErrUserQuit, "quit at existing %s", target.Destination).
					WithDetail("target", target.Name)
			}
			if err := d.clear(target, decision); err != nil {
				d.logger.Error().Err(err).Str("target", target.Name).Msg("Failed to resolve conflict")
				p.Error("Error copying '%s': %v", target.Name, err)
				continue
			}
		}

		if err := d.copy(target); err != nil {
			d.logger.Error().Err(err).Str("target", target.Name).Msg("Copy failed")
			p.Error("Error copying '%s': %v", target.Name, err)
			continue
		}
		p.Success("Copied '%s'.", target.Name)
	}

	return nil
}

// Decide asks how to treat an existing destination
func (d *Deployer) Decide() (types.Decision, error) {
	choice, err := d.opts.Prompter.Choose(d.opts.Printer.Prompt(conflictQuestion), decisionKeys)
	if err != nil {
		return types.DecisionQuit, err
	}
	switch choice {
	case "b":
		return types.DecisionBackup, nil
	case "o":
		return types.DecisionOverwrite, nil
	default:
		return types.DecisionQuit, nil
	}
}

// clear moves the existing destination out of the way according to decision
func (d *Deployer) clear(target types.Target, decision types.Decision) error {
	fsys := d.opts.FS
	dest := target.Destination

	switch decision {
	case types.DecisionBackup:
		backup := BackupPath(fsys, dest, d.opts.Config.BackupSuffix)
		if err := fsys.Rename(dest, backup); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot back up %s", dest)
		}
		d.opts.Printer.Line("Backed up '%s' to '%s'.", dest, backup)
		d.logger.Info().Str("from", dest).Str("to", backup).Msg("Backed up existing destination")

	case types.DecisionOverwrite:
		if found := filesystem.FindProtected(fsys, dest, d.opts.Config.ProtectedFiles); len(found) > 0 {
			d.opts.Printer.Warning("Overwriting '%s' removes protected files: %s", target.Name, strings.Join(found, ", "))
		}
		if err := fsys.RemoveAll(dest); err != nil {
			return errors.Wrapf(err, errors.ErrRemoveFailed, "cannot remove %s", dest)
		}
		d.logger.Info().Str("path", dest).Msg("Removed existing destination")
	}

	return nil
}

func (d *Deployer) copy(target types.Target) error {
	src := filepath.Join(d.opts.SourceDir, target.Source)
	return filesystem.CopyTree(d.opts.FS, src, target.Destination, filesystem.CopyOptions{
		Protected: d.opts.Config.ProtectedFiles,
		OnProtected: func(path string) {
			d.opts.Printer.Warning("Kept protected file '%s'.", path)
		},
	})
}

// DeployHome replaces the home dot-directories. They are caches, so an
// existing copy is removed without asking.
func (d *Deployer) DeployHome() {
	p := d.opts.Printer

	for _, target := range d.HomeTargets() {
		if filesystem.Exists(d.opts.FS, target.Destination) {
			if err := d.opts.FS.RemoveAll(target.Destination); err != nil {
				d.logger.Error().Err(err).Str("path", target.Destination).Msg("Failed to remove home folder")
				p.Error("Error copying '%s': %v", target.Name, err)
				continue
			}
		}
		if err := d.copy(target); err != nil {
			d.logger.Error().Err(err).Str("target", target.Name).Msg("Copy failed")
			p.Error("Error copying '%s': %v", target.Name, err)
			continue
		}
		p.Success("Copied '%s'.", target.Name)
	}
}

// RunScripts runs the configured installer scripts from inside the
// checkout. A failing script is reported and the next one still runs.
func (d *Deployer) RunScripts(ctx context.Context) {
	for _, script := range d.opts.Scripts {
		d.opts.Printer.Line("\nInstalling %s...", script.Name)

		cmd := runner.Command{
			Name: script.Command[0],
			Args: script.Command[1:],
			Dir:  filepath.Join(d.opts.SourceDir, script.Dir),
		}
		if _, err := d.opts.Runner.Run(ctx, cmd); err != nil {
			d.logger.Warn().Err(err).Str("script", script.Name).Msg("Installer script failed")
			d.opts.Printer.Warning("%s installation failed: %v", script.Name, err)
		}
	}
}

// BackupPath returns dest with suffix appended, numbered when a previous
// backup already occupies the name.
func BackupPath(fsys types.FS, dest, suffix string) string {
	candidate := dest + suffix
	for i := 1; filesystem.Exists(fsys, candidate); i++ {
		candidate = fmt.Sprintf("%s%s.%d", dest, suffix, i)
	}
	return candidate
}
