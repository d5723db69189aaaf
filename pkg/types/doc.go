// Package types holds the capability interfaces and value types shared by the
// installer components.
package types
