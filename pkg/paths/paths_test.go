package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/rengeos/house-overlay/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Overrides(t *testing.T) {
	home := t.TempDir()
	cfg := filepath.Join(home, "cfg")

	p, err := paths.New(cfg, home)
	require.NoError(t, err)

	assert.Equal(t, cfg, p.ConfigDir())
	assert.Equal(t, home, p.HomeDir())
	assert.Equal(t, filepath.Join(cfg, "niri"), p.ConfigPath("niri"))
	assert.Equal(t, filepath.Join(home, ".icons"), p.HomePath(".icons"))
}

func TestNew_DefaultsToXDGConfigHome(t *testing.T) {
	home := t.TempDir()
	xdgConfig := filepath.Join(home, "xdg-config")
	t.Setenv("XDG_CONFIG_HOME", xdgConfig)

	p, err := paths.New("", home)
	require.NoError(t, err)

	assert.Equal(t, xdgConfig, p.ConfigDir())
	assert.Equal(t, filepath.Join(xdgConfig, paths.AppDirName, paths.ConfigFileName), paths.DefaultConfigFile())
}

func TestResolve(t *testing.T) {
	home := t.TempDir()
	cfg := filepath.Join(home, "conf")
	p, err := paths.New(cfg, home)
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"home alone", "~", home},
		{"home relative", "~/Pictures/Wallpapers/a.jpg", filepath.Join(home, "Pictures", "Wallpapers", "a.jpg")},
		{"config relative", "$CONFIG/starship.toml", filepath.Join(cfg, "starship.toml")},
		{"config alone", "$CONFIG", cfg},
		{"absolute", "/usr/local/bin/house-overlay-update", "/usr/local/bin/house-overlay-update"},
		{"bare relative", ".icons", filepath.Join(home, ".icons")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Resolve(tt.in))
		})
	}
}

func TestStateDir_RespectsEnv(t *testing.T) {
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)

	assert.Equal(t, filepath.Join(state, paths.AppDirName), paths.StateDir())
	assert.Equal(t, filepath.Join(state, paths.AppDirName, paths.LogFileName), paths.LogFilePath())
}
