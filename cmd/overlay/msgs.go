package overlay

// Command descriptions and user facing messages
const (
	MsgRootShort = "Install or remove the NiriWM Edition dotfiles"
	MsgRootLong  = `house-overlay-update installs the NiriWM Edition dotfiles on Arch based systems.

Without arguments it clones the configuration repository, keeps the installed
command up to date and offers an interactive menu: a full installation or an
uninstall. Use --uninstall to remove the configuration directly.`

	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun    = "Preview changes without executing them"
	MsgFlagUninstall = "Remove the installed configuration without showing the menu"
	MsgFlagConfig    = "Read configuration from FILE instead of the default location"
	MsgFlagConfigDir = "Base configuration directory (default $XDG_CONFIG_HOME)"
	MsgFlagSource    = "Use an existing local checkout instead of cloning"
	MsgFlagFormat    = "Output style: auto, term or text"

	MsgVersionShort    = "Show version information"
	MsgConfigShort     = "Print the effective configuration as TOML"
	MsgCompletionShort = "Generate the autocompletion script for the specified shell"
	MsgCompletionLong  = `To load completions:

Bash:
  $ source <(house-overlay-update completion bash)

Zsh:
  $ house-overlay-update completion zsh > "${fpath[1]}/_house-overlay-update"

Fish:
  $ house-overlay-update completion fish | source
`

	MsgRunAsRoot     = "Please run as a regular user, not root."
	MsgDryRunBanner  = "Dry run: nothing will be changed."
	MsgVersionFormat = "house-overlay-update %s (commit %s, built %s)\n"
)
