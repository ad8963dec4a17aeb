// Package pipeline expands input patterns, runs the per-file
// probe/decide/replace sequence, and folds per-file results into
// per-pattern and whole-run statistics.
//
// Everything runs on the caller's goroutine, one external process at a
// time. Per-file and per-pattern failures are logged and absorbed; only a
// cancelled context stops a run early.
package pipeline
