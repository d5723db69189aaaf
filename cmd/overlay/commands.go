package overlay

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rengeos/house-overlay/internal/version"
	"github.com/rengeos/house-overlay/pkg/config"
	"github.com/rengeos/house-overlay/pkg/errors"
	"github.com/rengeos/house-overlay/pkg/filesystem"
	"github.com/rengeos/house-overlay/pkg/installer"
	"github.com/rengeos/house-overlay/pkg/logging"
	"github.com/rengeos/house-overlay/pkg/paths"
	"github.com/rengeos/house-overlay/pkg/privileged"
	"github.com/rengeos/house-overlay/pkg/prompt"
	"github.com/rengeos/house-overlay/pkg/runner"
	"github.com/rengeos/house-overlay/pkg/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// geteuid is replaced in tests
var geteuid = os.Geteuid

type rootOptions struct {
	verbosity  int
	dryRun     bool
	uninstall  bool
	configFile string
	configDir  string
	source     string
	format     string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "house-overlay-update",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "", MsgFlagConfigDir)
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "auto", MsgFlagFormat)

	rootCmd.Flags().BoolVar(&opts.uninstall, "uninstall", false, MsgFlagUninstall)
	rootCmd.Flags().StringVar(&opts.source, "source", "", MsgFlagSource)
	_ = rootCmd.MarkFlagDirname("source")
	_ = rootCmd.MarkPersistentFlagFilename("config", "toml")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func runRoot(cmd *cobra.Command, opts *rootOptions) error {
	if err := installer.EnsureRegularUser(geteuid()); err != nil {
		return err
	}

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	format, err := style.ParseFormat(opts.format)
	if err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, "invalid --format")
	}

	app, err := newInstaller(cmd, cfg, opts.source, format)
	if err != nil {
		return err
	}

	if opts.uninstall {
		log.Info().Msg("Direct uninstall requested")
		return app.Uninstall(cmd.Context())
	}
	return app.Run(cmd.Context())
}

// loadConfig layers the flags that were set explicitly over the file and
// environment configuration
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	overrides := map[string]interface{}{}
	flags := cmd.Flags()
	if flags.Changed("dry-run") {
		overrides["dry_run"] = o.dryRun
	}
	if flags.Changed("config-dir") {
		overrides["paths.config_dir"] = o.configDir
	}

	return config.Load(config.LoadOptions{
		ConfigFile: o.configFile,
		Overrides:  overrides,
	})
}

func newInstaller(cmd *cobra.Command, cfg *config.Config, source string, format style.Format) (*installer.Installer, error) {
	out := cmd.OutOrStdout()
	printer := style.NewPrinter(out, outputFormat(out, format))
	report := func(action string) { printer.DryRun("%s", action) }

	p, err := paths.New(cfg.Paths.ConfigDir, cfg.Paths.HomeDir)
	if err != nil {
		return nil, err
	}

	fsys := filesystem.NewOS()
	if cfg.DryRun {
		printer.Warning(MsgDryRunBanner)
		fsys = filesystem.NewDryRun(fsys, report)
	}

	run := runner.New(runner.Options{
		DryRun: cfg.DryRun,
		Stdin:  cmd.InOrStdin(),
		Stdout: out,
		Stderr: cmd.ErrOrStderr(),
		Report: report,
	})

	if source != "" {
		abs, err := filepath.Abs(source)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid source directory %s", source)
		}
		source = abs
	}

	return installer.New(installer.Options{
		Config:     cfg,
		Paths:      p,
		FS:         fsys,
		Runner:     run,
		Privileged: privileged.NewSudo(run),
		Prompter: prompt.NewTerminal(cmd.InOrStdin(), out,
			prompt.WithInvalidDecorator(printer.Danger)),
		Printer:    printer,
		Executable: executable(),
		SourceDir:  source,
		DryRun:     cfg.DryRun,
	}), nil
}

// outputFormat resolves FormatAuto: only real terminals are styled
func outputFormat(out io.Writer, requested style.Format) style.Format {
	if requested != style.FormatAuto {
		return requested
	}
	if f, ok := out.(*os.File); ok {
		return style.DetectFormat(f)
	}
	return style.FormatText
}

// executable is the resolved path of the running binary, empty if unknown
func executable() string {
	exe, err := os.Executable()
	if err != nil {
		log.Debug().Err(err).Msg("Cannot locate the running executable")
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		return resolved
	}
	return exe
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := config.ToTOML(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
