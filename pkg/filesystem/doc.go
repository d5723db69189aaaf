// Package filesystem provides filesystem implementations for house-overlay.
//
// This package contains implementations of the types.FS interface (the
// standard OS filesystem, an afero-backed filesystem used by tests, and a
// dry-run wrapper that reports mutations without performing them) plus the
// recursive copy helpers the deployer and finalizer build on.
package filesystem
