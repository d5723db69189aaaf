package selfupdate_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rengeos/house-overlay/pkg/config"
	"github.com/rengeos/house-overlay/pkg/errors"
	"github.com/rengeos/house-overlay/pkg/filesystem"
	"github.com/rengeos/house-overlay/pkg/selfupdate"
	"github.com/rengeos/house-overlay/pkg/style"
	"github.com/rengeos/house-overlay/pkg/testutil"
	"github.com/rengeos/house-overlay/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const installed = "/usr/local/bin/house-overlay-update"

func newUpdater(t *testing.T, fsys types.FS, exe, sourceDir string) (*selfupdate.Updater, *testutil.FakePrivileged, *bytes.Buffer) {
	t.Helper()
	priv := testutil.NewFakePrivileged(fsys)
	out := &bytes.Buffer{}
	u := selfupdate.New(selfupdate.Options{
		Command: config.Command{
			Name:       "house-overlay-update",
			InstallDir: "/usr/local/bin",
			Source:     "house-overlay-update",
		},
		FS:         fsys,
		Privileged: priv,
		Printer:    style.NewPrinter(out, style.FormatText),
		Executable: exe,
		SourceDir:  sourceDir,
	})
	return u, priv, out
}

func TestInstall(t *testing.T) {
	fsys := testutil.NewMemFS()
	testutil.WriteFiles(t, fsys, "/", map[string]string{
		"home/u/bin/installer": "v1",
		"usr/local/bin/.keep":  "",
	})
	u, priv, out := newUpdater(t, fsys, "/home/u/bin/installer", "")

	assert.False(t, u.IsInstalled())
	require.NoError(t, u.Install(context.Background()))

	assert.Equal(t, []string{"install 755 /home/u/bin/installer " + installed}, priv.Actions)
	assert.True(t, u.IsInstalled())
	assert.Equal(t, "v1", testutil.ReadFile(t, fsys, installed))
	assert.Contains(t, out.String(), "Installed to "+installed)
}

func TestInstall_DryRunCountsAsInstalled(t *testing.T) {
	mem := testutil.NewMemFS()
	testutil.WriteFiles(t, mem, "/", map[string]string{"home/u/bin/installer": "v1"})
	u, priv, _ := newUpdater(t, filesystem.NewDryRun(mem, nil), "/home/u/bin/installer", "")

	require.NoError(t, u.Install(context.Background()))

	assert.False(t, filesystem.Exists(mem, installed), "dry run writes nothing")
	assert.True(t, u.IsInstalled())
	assert.Len(t, priv.Actions, 1)
}

func TestInstall_FailureLeavesCommandUninstalled(t *testing.T) {
	fsys := testutil.NewMemFS()
	u, priv, _ := newUpdater(t, fsys, "/home/u/bin/installer", "")
	priv.FailOn(installed)

	require.Error(t, u.Install(context.Background()))
	assert.False(t, u.IsInstalled())
}

func TestInstall_CopyFailure(t *testing.T) {
	fsys := testutil.NewMemFS()
	u, priv, out := newUpdater(t, fsys, "/home/u/bin/installer", "")
	priv.FailOn(installed)

	err := u.Install(context.Background())
	require.Error(t, err)
	assert.Len(t, priv.Actions, 1)
	assert.Contains(t, out.String(), "Error installing command")
}

func TestSource(t *testing.T) {
	fsys := testutil.NewMemFS()

	u, _, _ := newUpdater(t, fsys, "/tmp/download/installer", "/tmp/checkout")
	assert.Equal(t, "/tmp/download/installer", u.Source())

	u, _, _ = newUpdater(t, fsys, installed, "/tmp/checkout")
	assert.Equal(t, "/tmp/checkout/house-overlay-update", u.Source())

	u, _, _ = newUpdater(t, fsys, installed, "")
	assert.Equal(t, "", u.Source())
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		updated   bool
		actions   []string
		finalCopy string
	}{
		{
			name:    "not installed",
			files:   map[string]string{"checkout/house-overlay-update": "v2"},
			updated: false,
		},
		{
			name: "identical content issues no copy",
			files: map[string]string{
				"usr/local/bin/house-overlay-update": "same",
				"checkout/house-overlay-update":      "same",
			},
			updated:   false,
			finalCopy: "same",
		},
		{
			name: "different content is refreshed",
			files: map[string]string{
				"usr/local/bin/house-overlay-update": "#!/bin/sh\necho v1\n",
				"checkout/house-overlay-update":      "#!/bin/sh\necho v2\n",
			},
			updated:   true,
			actions:   []string{"install 755 /checkout/house-overlay-update " + installed},
			finalCopy: "#!/bin/sh\necho v2\n",
		},
		{
			name:      "missing source copy is skipped",
			files:     map[string]string{"usr/local/bin/house-overlay-update": "v1"},
			updated:   false,
			finalCopy: "v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testutil.NewMemFS()
			testutil.WriteFiles(t, fsys, "/", tt.files)
			u, priv, _ := newUpdater(t, fsys, installed, "/checkout")

			updated, err := u.Reconcile(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.updated, updated)
			assert.Equal(t, tt.actions, priv.Actions)
			if tt.finalCopy != "" {
				assert.Equal(t, tt.finalCopy, testutil.ReadFile(t, fsys, installed))
			}
		})
	}
}

func TestReconcile_CopyFailure(t *testing.T) {
	fsys := testutil.NewMemFS()
	testutil.WriteFiles(t, fsys, "/", map[string]string{
		"usr/local/bin/house-overlay-update": "v1",
		"checkout/house-overlay-update":      "v2",
	})
	u, priv, _ := newUpdater(t, fsys, installed, "/checkout")
	priv.FailOn(installed)

	updated, err := u.Reconcile(context.Background())
	assert.False(t, updated)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandFailed))
}

func TestDiff(t *testing.T) {
	diff := selfupdate.Diff("installed", "source", "a\nb\n", "a\nc\n")
	assert.Contains(t, diff, "--- installed")
	assert.Contains(t, diff, "+++ source")
	assert.Contains(t, diff, "-b")
	assert.Contains(t, diff, "+c")
}
