// Package selfupdate installs the running executable as a global command and
// keeps the installed copy in sync with the checkout by content hash.
package selfupdate

import (
	"context"
	"path/filepath"
	"unicode/utf8"

	"github.com/aymanbagabas/go-udiff"
	"github.com/rengeos/house-overlay/pkg/config"
	"github.com/rengeos/house-overlay/pkg/errors"
	"github.com/rengeos/house-overlay/pkg/filesystem"
	"github.com/rengeos/house-overlay/pkg/logging"
	"github.com/rengeos/house-overlay/pkg/privileged"
	"github.com/rengeos/house-overlay/pkg/style"
	"github.com/rengeos/house-overlay/pkg/types"
	"github.com/rengeos/house-overlay/pkg/utils"
	"github.com/rs/zerolog"
)

const (
	// maxDiffSize bounds the files a debug diff is computed for
	maxDiffSize = 64 * 1024

	commandMode = "755"
)

// Options wires an Updater to its collaborators
type Options struct {
	Command    config.Command
	FS         types.FS
	Privileged privileged.Executor
	Printer    *style.Printer

	// Executable is the resolved path of the running program
	Executable string
	// SourceDir is the checkout; empty when none is available
	SourceDir string
}

// Updater manages the installed command
type Updater struct {
	opts   Options
	logger zerolog.Logger

	// registered is set once Install succeeds during this run. In a dry run
	// nothing lands on disk, so the filesystem alone cannot answer.
	registered bool
}

// New creates an Updater
func New(opts Options) *Updater {
	return &Updater{
		opts:   opts,
		logger: logging.GetLogger("selfupdate"),
	}
}

// InstalledPath is the fixed location of the global command
func (u *Updater) InstalledPath() string {
	return filepath.Join(u.opts.Command.InstallDir, u.opts.Command.Name)
}

// IsInstalled reports whether the global command exists or was installed
// by this Updater
func (u *Updater) IsInstalled() bool {
	return u.registered || filesystem.Exists(u.opts.FS, u.InstalledPath())
}

// Install copies the running executable to the install path as an
// executable.
func (u *Updater) Install(ctx context.Context) error {
	p := u.opts.Printer
	dest := u.InstalledPath()

	p.Header("Installing as Command")

	if u.opts.Executable == "" {
		return errors.New(errors.ErrNotFound, "running executable is unknown")
	}
	if err := u.opts.Privileged.Install(ctx, u.opts.Executable, dest, commandMode); err != nil {
		p.Error("Error installing command: %v", err)
		return err
	}

	u.registered = true
	p.Success("Installed to %s", dest)
	u.logger.Info().Str("path", dest).Msg("Command installed")
	return nil
}

// Source returns the file the installed command is compared against. When
// the installed command itself is running, that is its copy in the
// checkout; otherwise it is the running executable.
func (u *Updater) Source() string {
	if u.opts.Executable != "" && filepath.Base(u.opts.Executable) != u.opts.Command.Name {
		return u.opts.Executable
	}
	if u.opts.SourceDir == "" {
		return ""
	}
	return filepath.Join(u.opts.SourceDir, u.opts.Command.Source)
}

// Reconcile refreshes the installed command when its hash differs from the
// source. It reports whether a copy was issued.
func (u *Updater) Reconcile(ctx context.Context) (bool, error) {
	installed := u.InstalledPath()
	if !u.IsInstalled() {
		u.logger.Debug().Str("path", installed).Msg("Command not installed, nothing to reconcile")
		return false, nil
	}

	source := u.Source()
	if source == "" || !filesystem.Exists(u.opts.FS, source) {
		u.logger.Debug().Str("source", source).Msg("No source copy of the command, skipping update")
		return false, nil
	}

	installedSum, err := utils.CalculateFileChecksum(u.opts.FS, installed)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot hash %s", installed)
	}
	sourceSum, err := utils.CalculateFileChecksum(u.opts.FS, source)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot hash %s", source)
	}

	if installedSum == sourceSum {
		u.logger.Debug().Str("checksum", sourceSum).Msg("Installed command is current")
		return false, nil
	}

	u.logger.Info().
		Str("installed", installedSum).
		Str("source", sourceSum).
		Msg("Installed command differs from source")
	u.logDiff(installed, source)

	u.opts.Printer.Warning("Updating command...")
	if err := u.opts.Privileged.Install(ctx, source, installed, commandMode); err != nil {
		return false, err
	}
	return true, nil
}

// logDiff writes a unified diff to the debug log when both copies are small
// text files, which is the case for script builds of the command.
func (u *Updater) logDiff(installed, source string) {
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		return
	}
	oldData, err := u.opts.FS.ReadFile(installed)
	if err != nil {
		return
	}
	newData, err := u.opts.FS.ReadFile(source)
	if err != nil {
		return
	}
	if !isSmallText(oldData) || !isSmallText(newData) {
		return
	}
	u.logger.Debug().Str("diff", Diff(installed, source, string(oldData), string(newData))).Msg("Command update diff")
}

// Diff renders a unified diff between two versions of the command
func Diff(oldLabel, newLabel, oldText, newText string) string {
	return udiff.Unified(oldLabel, newLabel, oldText, newText)
}

func isSmallText(data []byte) bool {
	return len(data) <= maxDiffSize && utf8.Valid(data)
}
