// Package privileged runs the few operations that need root through sudo.
package privileged

import (
	"context"
	"os"

	"github.com/rengeos/house-overlay/pkg/logging"
	"github.com/rengeos/house-overlay/pkg/runner"
	"github.com/rs/zerolog"
)

// Executor performs elevated filesystem and process operations
type Executor interface {
	// Install places a copy of src at dst with the given octal mode. An
	// existing dst is replaced, never written into, so a running binary at
	// dst can be updated.
	Install(ctx context.Context, src, dst, mode string) error
	Remove(ctx context.Context, path string) error
	Run(ctx context.Context, cmd runner.Command) error
}

// Sudo elevates through the sudo program. When the process already runs as
// root the commands are executed directly.
type Sudo struct {
	runner  runner.Runner
	elevate bool
	logger  zerolog.Logger
}

// NewSudo creates an executor on top of r
func NewSudo(r runner.Runner) *Sudo {
	return &Sudo{
		runner:  r,
		elevate: os.Geteuid() != 0,
		logger:  logging.GetLogger("privileged"),
	}
}

// StagedSuffix names the temporary file Install renames into place
const StagedSuffix = ".new"

// Install stages src next to dst and renames it over dst. Writing into a
// running executable fails with ETXTBSY; a rename swaps the directory entry
// and leaves the running image alone.
func (s *Sudo) Install(ctx context.Context, src, dst, mode string) error {
	staged := dst + StagedSuffix
	if err := s.Run(ctx, runner.Command{Name: "install", Args: []string{"-m", mode, src, staged}}); err != nil {
		return err
	}
	if err := s.Run(ctx, runner.Command{Name: "mv", Args: []string{"-f", staged, dst}}); err != nil {
		if cleanupErr := s.Run(ctx, runner.Command{Name: "rm", Args: []string{"-f", staged}}); cleanupErr != nil {
			s.logger.Warn().Err(cleanupErr).Str("path", staged).Msg("Failed to remove staged copy")
		}
		return err
	}
	return nil
}

// Remove deletes a single file
func (s *Sudo) Remove(ctx context.Context, path string) error {
	return s.Run(ctx, runner.Command{Name: "rm", Args: []string{path}})
}

// Run executes cmd with elevated privileges
func (s *Sudo) Run(ctx context.Context, cmd runner.Command) error {
	elevated := cmd
	if s.elevate {
		elevated.Name = "sudo"
		elevated.Args = append([]string{cmd.Name}, cmd.Args...)
	}

	s.logger.Debug().Str("command", elevated.String()).Msg("Running privileged command")

	_, err := s.runner.Run(ctx, elevated)
	return err
}
