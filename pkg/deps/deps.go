// Package deps resolves a package helper and installs the system packages
// the desktop configuration depends on.
package deps

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rengeos/house-overlay/pkg/config"
	"github.com/rengeos/house-overlay/pkg/errors"
	"github.com/rengeos/house-overlay/pkg/logging"
	"github.com/rengeos/house-overlay/pkg/privileged"
	"github.com/rengeos/house-overlay/pkg/prompt"
	"github.com/rengeos/house-overlay/pkg/runner"
	"github.com/rengeos/house-overlay/pkg/style"
	"github.com/rengeos/house-overlay/pkg/types"
	"github.com/rs/zerolog"
)

// Options wires a Resolver to its collaborators
type Options struct {
	Config     config.Dependencies
	Runner     runner.Runner
	Privileged privileged.Executor
	Prompter   prompt.Prompter
	FS         types.FS
	Printer    *style.Printer

	// SourceDir is the checkout holding the local build recipes
	SourceDir string
	// WorkDir receives the helper build directory during bootstrap
	WorkDir string
	DryRun  bool
}

// Resolver drives helper resolution and package installation
type Resolver struct {
	opts   Options
	logger zerolog.Logger
}

// New creates a Resolver
func New(opts Options) *Resolver {
	return &Resolver{
		opts:   opts,
		logger: logging.GetLogger("deps"),
	}
}

// Run resolves the helper and then installs packages through it. Only a
// missing helper or an aborted prompt is returned as an error.
func (r *Resolver) Run(ctx context.Context) error {
	helper, err := r.ResolveHelper(ctx)
	if err != nil {
		return err
	}
	return r.InstallPackages(ctx, helper)
}

// ResolveHelper probes for a known helper, bootstrapping one when none is
// installed. It fails with HELPER_UNRESOLVED when none can be found.
func (r *Resolver) ResolveHelper(ctx context.Context) (string, error) {
	p := r.opts.Printer
	p.Header("Checking for AUR Helper")

	if helper, ok := r.probe(); ok {
		p.Success("Found AUR helper: %s", helper)
		return helper, nil
	}

	bootstrap := r.opts.Config.BootstrapHelper
	p.Warning("Neither %s found. Attempting to install %s...",
		strings.Join(r.opts.Config.Helpers, " nor "), bootstrap)

	if err := r.bootstrap(ctx); err != nil {
		r.logger.Error().Err(err).Str("helper", bootstrap).Msg("Helper bootstrap failed")
	} else if _, ok := r.opts.Runner.LookPath(bootstrap); ok {
		p.Success("Found AUR helper: %s", bootstrap)
		return bootstrap, nil
	} else if r.opts.DryRun {
		r.logger.Info().Str("helper", bootstrap).Msg("Dry run - assuming bootstrapped helper")
		return bootstrap, nil
	}

	p.Error("Failed to find or install an AUR helper.")
	return "", errors.New(errors.ErrHelperUnresolved, "no package helper available").
		WithDetail("helpers", r.opts.Config.Helpers)
}

func (r *Resolver) probe() (string, bool) {
	for _, helper := range r.opts.Config.Helpers {
		if _, ok := r.opts.Runner.LookPath(helper); ok {
			r.logger.Debug().Str("helper", helper).Msg("Package helper found")
			return helper, true
		}
	}
	return "", false
}

// bootstrap builds the bootstrap helper from its recipe repository. The build
// directory is removed whatever the outcome.
func (r *Resolver) bootstrap(ctx context.Context) error {
	cfg := r.opts.Config
	p := r.opts.Printer

	p.Line("Installing %s...", strings.Join(cfg.BootstrapPackages, " and "))
	install := runner.Command{
		Name: cfg.BaseManager,
		Args: append([]string{"-S", "--needed", "--noconfirm"}, cfg.BootstrapPackages...),
	}
	if err := r.opts.Privileged.Run(ctx, install); err != nil {
		return err
	}

	buildDir := filepath.Join(r.opts.WorkDir, cfg.BootstrapHelper+"-build")
	if err := r.opts.FS.RemoveAll(buildDir); err != nil {
		return errors.Wrapf(err, errors.ErrRemoveFailed, "cannot clear %s", buildDir)
	}
	defer func() {
		if err := r.opts.FS.RemoveAll(buildDir); err != nil {
			r.logger.Warn().Err(err).Str("dir", buildDir).Msg("Failed to remove helper build directory")
		}
	}()

	p.Line("Cloning %s from the AUR...", cfg.BootstrapHelper)
	clone := runner.Command{Name: "git", Args: []string{"clone", cfg.BootstrapRepo, buildDir}}
	if _, err := r.opts.Runner.Run(ctx, clone); err != nil {
		return err
	}

	p.Line("Running %s to build and install %s...", cfg.BuildTool, cfg.BootstrapHelper)
	if _, err := r.opts.Runner.Run(ctx, r.buildCommand(buildDir)); err != nil {
		return err
	}

	return nil
}

// buildCommand builds and installs the recipe in dir. The build tool
// elevates for the install step itself and refuses to run as root.
func (r *Resolver) buildCommand(dir string) runner.Command {
	return runner.Command{
		Name: r.opts.Config.BuildTool,
		Args: []string{"-si", "--noconfirm"},
		Dir:  dir,
	}
}

// InstallPackages asks for consent, then installs the package list through
// helper and builds the bundled local packages. Failures are warnings.
func (r *Resolver) InstallPackages(ctx context.Context, helper string) error {
	cfg := r.opts.Config
	p := r.opts.Printer

	p.Header("Installing Dependencies")

	install, err := prompt.Confirm(r.opts.Prompter, p.Prompt("Do you want to automatically install dependencies? (y/n): "))
	if err != nil {
		return err
	}
	if !install {
		p.Line("Skipping dependency installation.")
		return nil
	}

	if len(cfg.Packages) > 0 {
		p.Line("Attempting to install dependencies using %s...", helper)
		cmd := runner.Command{
			Name: helper,
			Args: append([]string{"-S", "--noconfirm"}, cfg.Packages...),
		}
		if _, err := r.opts.Runner.Run(ctx, cmd); err != nil {
			r.logger.Warn().Err(err).Int("packages", len(cfg.Packages)).Msg("Package installation failed")
			p.Error("Failed to install some packages. You may need to install them manually.")
		}
	}

	if len(cfg.LocalPackages) == 0 {
		return nil
	}

	p.Header("Installing Local PKGBUILD Packages (Requires Sudo)")
	for _, name := range cfg.LocalPackages {
		p.Line("\nInstalling %s from source...", name)
		dir := filepath.Join(r.opts.SourceDir, cfg.RecipeDir, name)
		if _, err := r.opts.Runner.Run(ctx, r.buildCommand(dir)); err != nil {
			r.logger.Warn().Err(err).Str("package", name).Msg("Local package build failed")
			p.Warning("Failed to build %s. You may need to build it manually.", name)
		}
	}

	return nil
}
