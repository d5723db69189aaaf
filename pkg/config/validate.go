package config

import (
	"strings"

	"github.com/rengeos/house-overlay/pkg/errors"
)

// Validate checks the fields every run depends on
func Validate(cfg *Config) error {
	required := map[string]string{
		"repository.url":            cfg.Repository.URL,
		"command.name":              cfg.Command.Name,
		"command.install_dir":       cfg.Command.InstallDir,
		"deploy.backup_suffix":      cfg.Deploy.BackupSuffix,
		"deploy.overlay_dir":        cfg.Deploy.OverlayDir,
		"dependencies.base_manager": cfg.Dependencies.BaseManager,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return errors.Newf(errors.ErrConfigValid, "%s must not be empty", key).WithDetail("key", key)
		}
	}

	for _, name := range cfg.Deploy.ProtectedFiles {
		if name == "" || strings.ContainsRune(name, '/') {
			return errors.Newf(errors.ErrConfigValid, "protected file %q must be a plain file name", name)
		}
	}

	if strings.ContainsRune(cfg.Command.Name, '/') {
		return errors.Newf(errors.ErrConfigValid, "command name %q must not contain a path separator", cfg.Command.Name)
	}

	for _, script := range cfg.Scripts {
		if len(script.Command) == 0 {
			return errors.Newf(errors.ErrConfigValid, "script %q has no command", script.Name)
		}
	}

	return nil
}
