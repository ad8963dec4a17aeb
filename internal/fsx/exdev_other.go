//go:build !unix

package fsx

// Non-unix platforms report cross-volume moves with their own error codes;
// those surface as plain rename errors.
func isEXDEV(error) bool { return false }
