// Package config loads the installer configuration.
//
// Configuration is layered with koanf, lowest priority first:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user file ($XDG_CONFIG_HOME/house-overlay/config.toml, or --config)
//  3. HOUSE_OVERLAY_<SECTION>__<KEY> environment variables
//  4. command-line overrides
//
// Later layers replace scalar values and whole lists of earlier ones.
package config
