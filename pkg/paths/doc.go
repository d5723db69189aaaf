// Package paths provides centralized path handling for house-overlay.
//
// Base directories follow the XDG Base Directory specification through
// github.com/adrg/xdg. The base configuration directory and home directory
// can both be overridden, which is how tests and the --config-dir flag
// redirect every destination without touching the real home.
package paths
