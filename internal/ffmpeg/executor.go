package ffmpeg

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
)

const stderrTailBytes = 8 << 10

// Encoder transcodes one file into another.
type Encoder interface {
	Encode(ctx context.Context, in, out string) error
}

// FFmpeg runs the ffmpeg binary at Bin. Stdout and Stderr default to the
// process's own streams.
type FFmpeg struct {
	Bin    string
	Stdout io.Writer
	Stderr io.Writer
}

// Encode runs the fixed encode command and blocks until ffmpeg exits.
// Output streams live to the console; stderr is also tee'd into a bounded
// buffer that becomes the [EncodeError] detail on failure.
func (f FFmpeg) Encode(ctx context.Context, in, out string) error {
	if err := ValidatePaths(in, out); err != nil {
		return &EncodeError{ExitCode: -1, Err: err}
	}

	bin := f.Bin
	if bin == "" {
		bin = "ffmpeg"
	}
	stdout, stderr := f.Stdout, f.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	tail := &tailBuffer{max: stderrTailBytes}
	cmd := exec.CommandContext(ctx, bin, BuildArgs(in, out)...)
	cmd.Stdout = stdout
	cmd.Stderr = io.MultiWriter(stderr, tail)

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &EncodeError{ExitCode: code, Stderr: tail.String(), Err: err}
	}
	return nil
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
