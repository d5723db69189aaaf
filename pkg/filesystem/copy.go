package filesystem

import (
	"io/fs"
	"path/filepath"

	"github.com/rengeos/house-overlay/pkg/errors"
	"github.com/rengeos/house-overlay/pkg/types"
)

// CopyOptions controls CopyTree
type CopyOptions struct {
	// Protected lists file names (not paths) that are never overwritten when
	// they already exist at the destination.
	Protected []string

	// OnProtected is called with the destination path of every skipped file
	OnProtected func(path string)
}

// Exists reports whether path exists. Any stat error other than "not exist"
// is treated as existing so callers never clobber what they cannot inspect.
func Exists(fsys types.FS, path string) bool {
	_, err := fsys.Lstat(path)
	if err == nil {
		return true
	}
	return !errors.IsNotExist(err)
}

// IsDir reports whether path exists and is a directory
func IsDir(fsys types.FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}

// CopyTree recursively copies the directory src to dst, preserving structure
// and file modes. Symlinks are followed and their content copied.
func CopyTree(fsys types.FS, src, dst string, opts CopyOptions) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileNotFound, "source %s is not accessible", src)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrCopyFailed, "source %s is not a directory", src)
	}

	protected := make(map[string]bool, len(opts.Protected))
	for _, name := range opts.Protected {
		protected[name] = true
	}

	return copyDir(fsys, src, dst, info.Mode().Perm(), protected, opts.OnProtected)
}

func copyDir(fsys types.FS, src, dst string, perm fs.FileMode, protected map[string]bool, onProtected func(string)) error {
	if err := fsys.MkdirAll(dst, perm|0700); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", dst)
	}

	entries, err := fsys.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		info, err := fsys.Stat(srcPath)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", srcPath)
		}

		if info.IsDir() {
			if err := copyDir(fsys, srcPath, dstPath, info.Mode().Perm(), protected, onProtected); err != nil {
				return err
			}
			continue
		}

		if protected[entry.Name()] && Exists(fsys, dstPath) {
			if onProtected != nil {
				onProtected(dstPath)
			}
			continue
		}

		if err := CopyFile(fsys, srcPath, dstPath); err != nil {
			return err
		}
	}

	return nil
}

// CopyFile copies a single file, creating parent directories as needed
func CopyFile(fsys types.FS, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileNotFound, "source %s is not accessible", src)
	}
	if info.IsDir() {
		return errors.Newf(errors.ErrCopyFailed, "source %s is a directory", src)
	}

	data, err := fsys.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", src)
	}

	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create parent of %s", dst)
	}

	if err := fsys.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrCopyFailed, "cannot write %s", dst)
	}

	// WriteFile keeps the mode of a file that already existed.
	if err := fsys.Chmod(dst, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrCopyFailed, "cannot set mode on %s", dst)
	}

	return nil
}

// FindProtected lists the files below root whose base name is protected
func FindProtected(fsys types.FS, root string, protected []string) []string {
	if len(protected) == 0 {
		return nil
	}
	names := make(map[string]bool, len(protected))
	for _, name := range protected {
		names[name] = true
	}

	var found []string
	var walk func(dir string)
	walk = func(dir string) {
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			return
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				walk(path)
				continue
			}
			if names[entry.Name()] {
				found = append(found, path)
			}
		}
	}
	walk(root)

	return found
}
