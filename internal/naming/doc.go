// Package naming owns the temporary-output naming scheme: where a file's
// in-progress encode lives and how such files are recognized so discovery
// never treats them as inputs.
package naming
