package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"
	"github.com/rengeos/house-overlay/pkg/errors"
)

// Environment variable names
const (
	// EnvHome is the standard home directory variable
	EnvHome = "HOME"

	// EnvStateHome is the XDG state directory variable
	EnvStateHome = "XDG_STATE_HOME"
)

// Fixed names. These are not user-configurable.
const (
	// AppDirName is the directory name used under XDG config and state homes
	AppDirName = "house-overlay"

	// ConfigFileName is the name of the optional user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "house-overlay.log"
)

// Paths resolves the destinations the installer writes to.
type Paths struct {
	configDir string
	homeDir   string
}

// New creates a Paths instance. An empty configDir means the XDG config home;
// an empty homeDir means the current user's home directory.
func New(configDir, homeDir string) (*Paths, error) {
	xdg.Reload()

	p := &Paths{}

	if homeDir == "" {
		home, err := GetHomeDirectory()
		if err != nil {
			return nil, err
		}
		homeDir = home
	}
	home, err := Expand(homeDir)
	if err != nil {
		return nil, err
	}
	p.homeDir = home

	if configDir == "" {
		configDir = xdg.ConfigHome
	}
	cfgDir, err := Expand(configDir)
	if err != nil {
		return nil, err
	}
	absCfg, err := filepath.Abs(cfgDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", cfgDir)
	}
	p.configDir = absCfg

	return p, nil
}

// ConfigDir returns the base configuration directory (default ~/.config)
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// HomeDir returns the user's home directory
func (p *Paths) HomeDir() string {
	return p.homeDir
}

// ConfigPath joins elements onto the base configuration directory
func (p *Paths) ConfigPath(elem ...string) string {
	return filepath.Join(append([]string{p.configDir}, elem...)...)
}

// HomePath joins elements onto the home directory
func (p *Paths) HomePath(elem ...string) string {
	return filepath.Join(append([]string{p.homeDir}, elem...)...)
}

// Resolve expands a path template. A leading "~" is the home directory and a
// leading "$CONFIG" is the base configuration directory; relative paths are
// resolved against the home directory.
func (p *Paths) Resolve(path string) string {
	switch {
	case path == "~":
		return p.homeDir
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(p.homeDir, path[2:])
	case path == "$CONFIG":
		return p.configDir
	case strings.HasPrefix(path, "$CONFIG/"):
		return filepath.Join(p.configDir, path[len("$CONFIG/"):])
	case filepath.IsAbs(path):
		return filepath.Clean(path)
	default:
		return filepath.Join(p.homeDir, path)
	}
}

// DefaultConfigFile returns the user configuration file under the XDG config home
func DefaultConfigFile() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, AppDirName, ConfigFileName)
}

// StateDir returns the state directory for house-overlay. XDG_STATE_HOME is
// read directly so that changes to the environment made after start-up apply.
func StateDir() string {
	if stateHome := os.Getenv(EnvStateHome); stateHome != "" {
		return filepath.Join(stateHome, AppDirName)
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}

// LogFilePath returns the log file under the state directory
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}

// Expand expands a leading ~ to the home directory
func Expand(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot expand path %q", path)
	}
	return expanded, nil
}

// GetHomeDirectory returns the user's home directory.
// It first tries os.UserHomeDir(), then falls back to the HOME environment variable.
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err == nil && homeDir != "" {
		return homeDir, nil
	}

	homeDir = os.Getenv(EnvHome)
	if homeDir != "" {
		return homeDir, nil
	}

	return "", errors.New(errors.ErrNotFound, "cannot determine home directory")
}
