package testutil

import (
	"context"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/rengeos/house-overlay/pkg/errors"
	"github.com/rengeos/house-overlay/pkg/runner"
	"github.com/rengeos/house-overlay/pkg/types"
)

// FakePrivileged implements privileged.Executor by recording actions. When
// FS is set, installs and removals are applied to it.
type FakePrivileged struct {
	FS       types.FS
	Actions  []string
	failures map[string]error
}

// NewFakePrivileged creates a recorder; fsys may be nil
func NewFakePrivileged(fsys types.FS) *FakePrivileged {
	return &FakePrivileged{FS: fsys, failures: make(map[string]error)}
}

// FailOn makes every action touching path fail
func (f *FakePrivileged) FailOn(path string) {
	f.failures[path] = errors.Newf(errors.ErrCommandFailed, "privileged action on %s failed", path)
}

func (f *FakePrivileged) record(action, path string) error {
	f.Actions = append(f.Actions, action)
	return f.failures[path]
}

// Install implements privileged.Executor
func (f *FakePrivileged) Install(ctx context.Context, src, dst, mode string) error {
	if err := f.record(fmt.Sprintf("install %s %s %s", mode, src, dst), dst); err != nil {
		return err
	}
	if f.FS == nil {
		return nil
	}
	perm, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return err
	}
	data, err := f.FS.ReadFile(src)
	if err != nil {
		return err
	}
	if err := f.FS.WriteFile(dst, data, fs.FileMode(perm)); err != nil {
		return err
	}
	return f.FS.Chmod(dst, fs.FileMode(perm))
}

// Remove implements privileged.Executor
func (f *FakePrivileged) Remove(ctx context.Context, path string) error {
	if err := f.record("remove "+path, path); err != nil {
		return err
	}
	if f.FS == nil {
		return nil
	}
	return f.FS.Remove(path)
}

// Run implements privileged.Executor
func (f *FakePrivileged) Run(ctx context.Context, cmd runner.Command) error {
	return f.record("run "+cmd.String(), Program(cmd))
}
