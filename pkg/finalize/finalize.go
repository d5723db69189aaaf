// Package finalize performs the post-install steps: seeding default files,
// generating the color scheme and offering editor extensions.
package finalize

import (
	"context"
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

// CommandInstaller registers the installer as a global command
type CommandInstaller interface {
	IsInstalled() bool
	Install(ctx context.Context) error
}

// Options wires a Finalizer to its collaborators
type Options struct {
	Config    config.Finalize
	Paths     *paths.Paths
	FS        types.FS
	Runner    runner.Runner
	Prompter  prompt.Prompter
	Printer   *style.Printer
	Command   CommandInstaller
	SourceDir string
}

// Finalizer runs the post-install steps
type Finalizer struct {
	opts   Options
	logger zerolog.Logger
}

// New creates a Finalizer
func New(opts Options) *Finalizer {
	return &Finalizer{
		opts:   opts,
		logger: logging.GetLogger("finalize"),
	}
}

// Seeds returns the configured seeds with resolved paths
func (f *Finalizer) Seeds() []types.Seed {
	seeds := make([]types.Seed, 0, len(f.opts.Config.Seeds))
	for _, s := range f.opts.Config.Seeds {
		seeds = append(seeds, types.Seed{
			Name:        s.Name,
			Source:      filepath.Join(f.opts.SourceDir, s.Source),
			Destination: f.opts.Paths.Resolve(s.Destination),
		})
	}
	return seeds
}

// Run performs every step. Only an aborted prompt is returned.
func (f *Finalizer) Run(ctx context.Context) error {
	f.opts.Printer.Header("Final Setup")

	f.SeedDefaults()

	if wallpaper, ok := f.wallpaper(); ok {
		f.GenerateColors(ctx, wallpaper)
	}

	if err := f.InstallExtensions(ctx); err != nil {
		return err
	}

	if f.opts.Command != nil && !f.opts.Command.IsInstalled() {
		if err := f.opts.Command.Install(ctx); err != nil {
			f.logger.Warn().Err(err).Msg("Command registration failed")
		}
	}

	return nil
}

// SeedDefaults copies each default file unless something already exists at
// its destination. Running it again never overwrites anything.
func (f *Finalizer) SeedDefaults() {
	p := f.opts.Printer

	for _, seed := range f.Seeds() {
		if filesystem.Exists(f.opts.FS, seed.Destination) {
			f.logger.Debug().Str("seed", seed.Name).Str("path", seed.Destination).Msg("Seed already present")
		} else {
			p.Line("Copying default %s...", seed.Name)
			if err := filesystem.CopyFile(f.opts.FS, seed.Source, seed.Destination); err != nil {
				err = errors.Wrapf(err, errors.ErrSeedFailed, "cannot seed %s", seed.Name)
				f.logger.Error().Err(err).Str("seed", seed.Name).Msg("Seeding failed")
				p.Error("Error copying default %s: %v", seed.Name, err)
				continue
			}
		}

		if seed.Name == f.opts.Config.Wallpaper {
			p.Success("Default wallpaper placed in %s", filepath.Dir(seed.Destination))
		}
	}
}

func (f *Finalizer) wallpaper() (string, bool) {
	for _, seed := range f.Seeds() {
		if seed.Name == f.opts.Config.Wallpaper {
			return seed.Destination, true
		}
	}
	return "", false
}

// GenerateColors derives the color scheme from the wallpaper when the
// generator is installed
func (f *Finalizer) GenerateColors(ctx context.Context, wallpaper string) {
	p := f.opts.Printer
	tool := f.opts.Config.ColorGenerator
	if tool == "" {
		return
	}
	label := titleCase(tool)

	p.Line("\nGenerating initial color scheme with %s...", label)
	if _, ok := f.opts.Runner.LookPath(tool); !ok {
		p.Warning("%s not found. Skipping color generation.", label)
		return
	}

	args := append(append([]string{}, f.opts.Config.ColorGeneratorArgs...), wallpaper)
	if _, err := f.opts.Runner.Run(ctx, runner.Command{Name: tool, Args: args}); err != nil {
		f.logger.Warn().Err(err).Msg("Color generation failed")
		p.Warning("Color generation failed: %v", err)
		return
	}
	p.Success("Initial color scheme generated.")
}

// InstallExtensions offers the bundled extension to each installed editor
func (f *Finalizer) InstallExtensions(ctx context.Context) error {
	cfg := f.opts.Config
	if cfg.Extension == "" {
		return nil
	}
	extension := filepath.Join(f.opts.SourceDir, cfg.Extension)

	for _, editor := range cfg.Editors {
		if _, ok := f.opts.Runner.LookPath(editor); !ok {
			f.logger.Debug().Str("editor", editor).Msg("Editor not installed")
			continue
		}

		question := f.opts.Printer.Prompt("\nInstall " + cfg.ExtensionName + " for " + editor + "? (y/n): ")
		install, err := prompt.Confirm(f.opts.Prompter, question)
		if err != nil {
			return err
		}
		if !install {
			continue
		}

		cmd := runner.Command{Name: editor, Args: []string{"--install-extension", extension}}
		if _, err := f.opts.Runner.Run(ctx, cmd); err != nil {
			f.logger.Warn().Err(err).Str("editor", editor).Msg("Extension install failed")
			f.opts.Printer.Warning("Failed to install %s for %s.", cfg.ExtensionName, editor)
		}
	}

	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
