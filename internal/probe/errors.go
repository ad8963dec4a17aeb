package probe

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoVideoStream means the file carries no usable video stream.
	ErrNoVideoStream = errors.New("no video stream")

	// ErrMalformed wraps every schema violation in ffprobe output.
	ErrMalformed = errors.New("malformed ffprobe output")
)

// Error reports a failed ffprobe invocation. ExitCode is -1 when the
// process could not be started.
type Error struct {
	Path     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("ffprobe %q: exit %d: %v", e.Path, e.ExitCode, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + lastLine(s)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// SchemaError names the ffprobe field that is missing or has the wrong type.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrMalformed, e.Field, e.Reason)
}

func (e *SchemaError) Unwrap() error { return ErrMalformed }

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
