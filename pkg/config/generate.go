package config

import (
	"github.com/pelletier/go-toml/v2"
	"github.com/rengeos/house-overlay/pkg/errors"
)

// ToTOML renders the effective configuration as TOML
func ToTOML(cfg *Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return string(data), nil
}
