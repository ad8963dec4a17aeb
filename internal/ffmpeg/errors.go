package ffmpeg

import (
	"fmt"
	"regexp"
	"strings"
)

// EncodeError reports a failed encode. ExitCode is -1 when ffmpeg could not
// be started or the paths were rejected before launch.
type EncodeError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *EncodeError) Error() string {
	msg := fmt.Sprintf("ffmpeg exit %d: %v", e.ExitCode, e.Err)
	if h := Hint(e.Stderr); h != "" {
		msg += " (" + h + ")"
	}
	return msg
}

func (e *EncodeError) Unwrap() error { return e.Err }

// StderrLines returns up to n trailing non-empty lines of captured stderr.
func (e *EncodeError) StderrLines(n int) []string {
	s := strings.TrimSpace(e.Stderr)
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

// Pre-compiled regexes for classifying ffmpeg stderr into an operator hint.
// Checked in order; the first match wins.
var hints = []struct {
	re   *regexp.Regexp
	hint string
}{
	{regexp.MustCompile(`(?i)Unknown encoder 'libx265'|Encoder libx265 not found`),
		"this ffmpeg build has no libx265"},
	{regexp.MustCompile(`(?i)No space left on device`),
		"disk full"},
	{regexp.MustCompile(`(?i)Permission denied`),
		"permission denied"},
	{regexp.MustCompile(`(?i)Could not find tag for codec .* in stream|codec not currently supported in container`),
		"audio cannot be copied into this container"},
	{regexp.MustCompile(`(?i)Invalid data found when processing input|moov atom not found`),
		"input is corrupt or truncated"},
	{regexp.MustCompile(`(?i)Exiting normally, received signal|received signal 2`),
		"interrupted"},
}

// Hint maps known ffmpeg failure messages to a short explanation, or "".
func Hint(stderr string) string {
	for _, h := range hints {
		if h.re.MatchString(stderr) {
			return h.hint
		}
	}
	return ""
}
