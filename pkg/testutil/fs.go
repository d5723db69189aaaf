package testutil

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/rengeos/house-overlay/pkg/errors"
	"github.com/rengeos/house-overlay/pkg/filesystem"
	"github.com/rengeos/house-overlay/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// NewMemFS returns an empty in-memory filesystem
func NewMemFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

// WriteFiles creates files (path -> content) below root, with parents
func WriteFiles(t *testing.T, fsys types.FS, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, fsys.WriteFile(path, []byte(content), 0644))
	}
}

// ReadFile reads a file as a string, failing the test on error
func ReadFile(t *testing.T, fsys types.FS, path string) string {
	t.Helper()
	data, err := fsys.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// FailingFS wraps a filesystem and fails mutations of selected paths
type FailingFS struct {
	types.FS
	failures map[string]error
}

// NewFailingFS wraps base
func NewFailingFS(base types.FS) *FailingFS {
	return &FailingFS{FS: base, failures: make(map[string]error)}
}

// FailOn makes every mutation of path fail with a permission error
func (f *FailingFS) FailOn(path string) {
	f.failures[filepath.Clean(path)] = errors.Wrapf(fs.ErrPermission, errors.ErrFileAccess, "injected failure on %s", path)
}

func (f *FailingFS) check(path string) error {
	return f.failures[filepath.Clean(path)]
}

// WriteFile implements types.FS
func (f *FailingFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.check(name); err != nil {
		return err
	}
	return f.FS.WriteFile(name, data, perm)
}

// Remove implements types.FS
func (f *FailingFS) Remove(name string) error {
	if err := f.check(name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}

// RemoveAll implements types.FS
func (f *FailingFS) RemoveAll(path string) error {
	if err := f.check(path); err != nil {
		return err
	}
	return f.FS.RemoveAll(path)
}

// Rename implements types.FS
func (f *FailingFS) Rename(oldpath, newpath string) error {
	if err := f.check(oldpath); err != nil {
		return err
	}
	return f.FS.Rename(oldpath, newpath)
}

// MkdirAll implements types.FS
func (f *FailingFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check(path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}
