// Command vidshrink re-encodes video files to HEVC in place and reports the
// space saved.
//
//	vidshrink check   <pattern>...   list what would be processed
//	vidshrink compress <pattern>...  transcode and replace each file
package main

import (
	"fmt"
	"io"
	"os"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code: 1 only for startup failures, 0 once a
// run has started regardless of per-file results.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "vidshrink: %v\n", err)
		return 1
	}
	return 0
}
