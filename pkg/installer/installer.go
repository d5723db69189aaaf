// Package installer is the top-level workflow: it prepares a checkout,
// reconciles the installed command, presents the menu and dispatches to the
// install chain or the uninstaller.
package installer

import (
	"context"
	"os"
	"strconv"

	"github.com/rengeos/house-overlay/pkg/config"
	"github.com/rengeos/house-overlay/pkg/deploy"
	"github.com/rengeos/house-overlay/pkg/deps"
	"github.com/rengeos/house-overlay/pkg/errors"
	"github.com/rengeos/house-overlay/pkg/filesystem"
	"github.com/rengeos/house-overlay/pkg/finalize"
	"github.com/rengeos/house-overlay/pkg/logging"
	"github.com/rengeos/house-overlay/pkg/paths"
	"github.com/rengeos/house-overlay/pkg/privileged"
	"github.com/rengeos/house-overlay/pkg/prompt"
	"github.com/rengeos/house-overlay/pkg/runner"
	"github.com/rengeos/house-overlay/pkg/selfupdate"
	"github.com/rengeos/house-overlay/pkg/style"
	"github.com/rengeos/house-overlay/pkg/types"
	"github.com/rengeos/house-overlay/pkg/uninstall"
	"github.com/rs/zerolog"
)

const (
	welcomeTitle   = "Welcome to NiriWM Edition Dotfiles -*-RengeOS-*-"
	cleanedUp      = "\nTemporary files have been cleaned up."
	installedNotes = `**Installation complete.**

Log out and select the niri session to start using the new desktop.`
)

// Menu choices
const (
	ChoiceInstall   = "1"
	ChoiceUninstall = "2"
	ChoiceQuit      = "q"
)

// Options wires the workflow to its collaborators. FS and Runner are already
// the dry-run variants when DryRun is set.
type Options struct {
	Config     *config.Config
	Paths      *paths.Paths
	FS         types.FS
	Runner     runner.Runner
	Privileged privileged.Executor
	Prompter   prompt.Prompter
	Printer    *style.Printer

	// Executable is the resolved path of the running program
	Executable string
	// SourceDir is a local checkout used instead of cloning; it is never removed
	SourceDir string
	// TempDir is where the clone directory is created; empty means the OS default
	TempDir string
	DryRun  bool
}

// Installer runs the interactive workflow
type Installer struct {
	opts   Options
	logger zerolog.Logger
}

// New creates an Installer
func New(opts Options) *Installer {
	return &Installer{
		opts:   opts,
		logger: logging.GetLogger("installer"),
	}
}

// EnsureRegularUser refuses to run for the root user
func EnsureRegularUser(euid int) error {
	if euid == 0 {
		return errors.New(errors.ErrRunAsRoot, "Please run as a regular user, not root.")
	}
	return nil
}

// Run executes the interactive workflow. A user quit or interrupt is a
// clean exit and returns nil.
func (i *Installer) Run(ctx context.Context) error {
	return ignoreAbort(i.run(ctx))
}

func (i *Installer) run(ctx context.Context) error {
	p := i.opts.Printer
	p.Header(welcomeTitle)

	defer p.Line(cleanedUp)

	source, release, err := i.checkout(ctx)
	if err != nil {
		return err
	}
	defer release()

	updater := i.updater(source)
	commandExisted := updater.IsInstalled()

	if _, err := updater.Reconcile(ctx); err != nil {
		i.logger.Warn().Err(err).Msg("Command update failed")
		p.Warning("Could not update the installed command: %v", err)
	}

	choice, err := i.menu()
	if err != nil {
		return err
	}

	i.logger.Info().Str("choice", choice).Msg("Menu selection")

	switch choice {
	case ChoiceInstall:
		if !commandExisted {
			if err := updater.Install(ctx); err != nil {
				i.logger.Warn().Err(err).Msg("Command registration failed")
			}
		}
		return i.install(ctx, source, updater)
	case ChoiceUninstall:
		return i.uninstall(ctx)
	default:
		p.Line("Quitting.")
		return nil
	}
}

// Uninstall runs the uninstaller directly, without a checkout
func (i *Installer) Uninstall(ctx context.Context) error {
	return ignoreAbort(i.uninstall(ctx))
}

func (i *Installer) menu() (string, error) {
	p := i.opts.Printer
	p.Line("1: Full Installation")
	p.Line("%s", p.Danger("2: Uninstall"))
	p.Line("q: Quit")
	return i.opts.Prompter.Choose(p.Prompt("Select an option: "), []string{ChoiceInstall, ChoiceUninstall, ChoiceQuit})
}

// checkout returns the source tree and a function releasing it. A clone is
// removed on release; a local source is left alone.
func (i *Installer) checkout(ctx context.Context) (string, func(), error) {
	p := i.opts.Printer
	noop := func() {}

	if i.opts.SourceDir != "" {
		if !filesystem.IsDir(i.opts.FS, i.opts.SourceDir) {
			return "", noop, errors.Newf(errors.ErrNotFound, "source directory %s does not exist", i.opts.SourceDir)
		}
		i.logger.Info().Str("source", i.opts.SourceDir).Msg("Using local checkout")
		return i.opts.SourceDir, noop, nil
	}

	if _, ok := i.opts.Runner.LookPath("git"); !ok {
		p.Error("Git command not found. Please install Git.")
		return "", noop, errors.New(errors.ErrToolMissing, "git is required to fetch the configuration")
	}

	repo := i.opts.Config.Repository
	p.Line("Cloning '%s' into a temporary directory...", repo.URL)

	// The clone only fills a scratch directory, so a dry run performs it
	// too and previews against the real tree.
	dir, err := os.MkdirTemp(i.opts.TempDir, "house-overlay-")
	if err != nil {
		return "", noop, errors.Wrap(err, errors.ErrDirCreate, "cannot create temporary directory")
	}
	release := func() {
		if err := os.RemoveAll(dir); err != nil {
			i.logger.Warn().Err(err).Str("dir", dir).Msg("Failed to remove temporary checkout")
		}
	}

	args := []string{"clone"}
	if repo.Depth > 0 {
		args = append(args, "--depth", strconv.Itoa(repo.Depth))
	}
	args = append(args, repo.URL, dir)

	if _, err := i.opts.Runner.Run(ctx, runner.Command{Name: "git", Args: args, Capture: true, ReadOnly: true}); err != nil {
		release()
		p.Error("Error cloning repository: %s", failureOutput(err))
		return "", noop, errors.Wrap(err, errors.ErrCloneFailed, "failed to clone the configuration repository")
	}

	return dir, release, nil
}

func (i *Installer) updater(source string) *selfupdate.Updater {
	return selfupdate.New(selfupdate.Options{
		Command:    i.opts.Config.Command,
		FS:         i.opts.FS,
		Privileged: i.opts.Privileged,
		Printer:    i.opts.Printer,
		Executable: i.opts.Executable,
		SourceDir:  source,
	})
}

// install runs the dependency, deploy and finalize chain. A missing package
// helper ends the install without an error exit.
func (i *Installer) install(ctx context.Context, source string, updater *selfupdate.Updater) error {
	cfg := i.opts.Config
	p := i.opts.Printer

	p.Header("Starting Full Installation")
	defer logging.LogOperationStart(i.logger, "install")()

	if marker := cfg.Paths.DistroMarker; marker != "" && !filesystem.Exists(i.opts.FS, marker) {
		p.Error("This script is optimized for Arch based on Linux. Proceed with caution.")
	}

	resolver := deps.New(deps.Options{
		Config:     cfg.Dependencies,
		Runner:     i.opts.Runner,
		Privileged: i.opts.Privileged,
		Prompter:   i.opts.Prompter,
		FS:         i.opts.FS,
		Printer:    p,
		SourceDir:  source,
		WorkDir:    source,
		DryRun:     i.opts.DryRun,
	})
	if err := resolver.Run(ctx); err != nil {
		if errors.IsErrorCode(err, errors.ErrHelperUnresolved) {
			i.logger.Error().Err(err).Msg("Install aborted")
			return nil
		}
		return err
	}

	deployer := deploy.New(deploy.Options{
		Config:    cfg.Deploy,
		Scripts:   cfg.Scripts,
		Paths:     i.opts.Paths,
		FS:        i.opts.FS,
		Runner:    i.opts.Runner,
		Prompter:  i.opts.Prompter,
		Printer:   p,
		SourceDir: source,
	})
	if err := deployer.Run(ctx); err != nil {
		return err
	}

	finalizer := finalize.New(finalize.Options{
		Config:    cfg.Finalize,
		Paths:     i.opts.Paths,
		FS:        i.opts.FS,
		Runner:    i.opts.Runner,
		Prompter:  i.opts.Prompter,
		Printer:   p,
		Command:   updater,
		SourceDir: source,
	})
	if err := finalizer.Run(ctx); err != nil {
		return err
	}

	p.Line("")
	p.Note(installedNotes)
	return nil
}

func (i *Installer) uninstall(ctx context.Context) error {
	defer logging.LogOperationStart(i.logger, "uninstall")()

	cfg := i.opts.Config
	u := uninstall.New(uninstall.Options{
		Deploy:      cfg.Deploy,
		Uninstall:   cfg.Uninstall,
		CommandPath: i.updater("").InstalledPath(),
		Paths:       i.opts.Paths,
		FS:          i.opts.FS,
		Privileged:  i.opts.Privileged,
		Prompter:    i.opts.Prompter,
		Printer:     i.opts.Printer,
		DryRun:      i.opts.DryRun,
	})

	report, err := u.Run(ctx)
	if err != nil {
		return err
	}
	if report != nil {
		i.logger.Info().
			Int("removed", len(report.Removed)).
			Int("absent", len(report.Absent)).
			Int("failed", len(report.Failed)).
			Msg("Uninstall finished")
	}
	return nil
}

// failureOutput prefers the captured stderr of a failed command
func failureOutput(err error) string {
	if stderr, ok := errors.GetErrorDetails(err)["stderr"].(string); ok && stderr != "" {
		return stderr
	}
	return err.Error()
}

func ignoreAbort(err error) error {
	if errors.IsAbort(err) {
		return nil
	}
	return err
}
