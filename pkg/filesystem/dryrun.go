package filesystem

import (
	"io/fs"

	"github.com/rengeos/house-overlay/pkg/logging"
	"github.com/rengeos/house-overlay/pkg/types"
	"github.com/rs/zerolog"
)

// Reporter receives a human readable line for every mutation a dry run skips
type Reporter func(action string)

// dryRunFS reads through to the wrapped filesystem and reports every
// mutation instead of performing it
type dryRunFS struct {
	base   types.FS
	report Reporter
	logger zerolog.Logger
}

// NewDryRun wraps base so that reads are served and writes are only reported
func NewDryRun(base types.FS, report Reporter) types.FS {
	if report == nil {
		report = func(string) {}
	}
	return &dryRunFS{
		base:   base,
		report: report,
		logger: logging.GetLogger("filesystem.dryrun"),
	}
}

func (d *dryRunFS) skip(action, path string) error {
	d.logger.Info().Str("action", action).Str("path", path).Msg("Dry run - filesystem change skipped")
	d.report(action + " " + path)
	return nil
}

func (d *dryRunFS) Stat(name string) (fs.FileInfo, error) {
	return d.base.Stat(name)
}

func (d *dryRunFS) Lstat(name string) (fs.FileInfo, error) {
	return d.base.Lstat(name)
}

func (d *dryRunFS) ReadFile(name string) ([]byte, error) {
	return d.base.ReadFile(name)
}

func (d *dryRunFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return d.base.ReadDir(name)
}

func (d *dryRunFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	// Tree copies write many files; they are logged but not reported one by one.
	d.logger.Debug().Str("path", name).Int("bytes", len(data)).Msg("Dry run - write skipped")
	return nil
}

func (d *dryRunFS) Chmod(name string, mode fs.FileMode) error {
	d.logger.Debug().Str("path", name).Str("mode", mode.String()).Msg("Dry run - chmod skipped")
	return nil
}

func (d *dryRunFS) MkdirAll(path string, perm fs.FileMode) error {
	d.logger.Debug().Str("path", path).Msg("Dry run - mkdir skipped")
	return nil
}

func (d *dryRunFS) Remove(name string) error {
	return d.skip("remove", name)
}

func (d *dryRunFS) RemoveAll(path string) error {
	return d.skip("remove recursively", path)
}

func (d *dryRunFS) Rename(oldpath, newpath string) error {
	return d.skip("rename "+oldpath+" ->", newpath)
}
