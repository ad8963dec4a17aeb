// Package replace swaps a video file for its HEVC re-encode in place.
//
// The sequence is claim, encode, rename. The original file is only ever
// touched by the final rename, so any failure before it leaves the original
// byte-identical. A failed rename leaves the finished temp file on disk for
// the operator.
package replace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/backmassage/vidshrink/internal/ffmpeg"
	"github.com/backmassage/vidshrink/internal/fsx"
	"github.com/backmassage/vidshrink/internal/naming"
)

// ErrTempInUse means the temp path was already occupied, by a concurrent
// run or an orphan from an earlier one.
var ErrTempInUse = errors.New("temporary output path already exists")

// Error reports a failed rename of a finished encode over its original.
// Temp still exists on disk.
type Error struct {
	Temp   string
	Target string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("replace %s with %s: %v", e.Target, e.Temp, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Result describes a completed replacement.
type Result struct {
	Path       string
	Temp       string
	EncodeTime time.Duration
}

// Replacer runs the claim/encode/rename sequence. Rename defaults to
// [fsx.Rename].
type Replacer struct {
	Encoder ffmpeg.Encoder
	Rename  func(src, dst string) error
}

// Replace re-encodes in and renames the result over it.
func (r Replacer) Replace(ctx context.Context, in string) (Result, error) {
	tmp := naming.TempPath(in)
	res := Result{Path: in, Temp: tmp}

	if err := fsx.ClaimFile(tmp); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return res, fmt.Errorf("%s: %w", tmp, ErrTempInUse)
		}
		return res, fmt.Errorf("claim %s: %w", tmp, err)
	}

	start := time.Now()
	if err := r.Encoder.Encode(ctx, in, tmp); err != nil {
		_ = os.Remove(tmp)
		return res, err
	}
	res.EncodeTime = time.Since(start)

	// A cancelled context may race with a clean encoder exit; never
	// replace the original once the run is stopping.
	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmp)
		return res, err
	}

	rename := r.Rename
	if rename == nil {
		rename = fsx.Rename
	}
	if err := rename(tmp, in); err != nil {
		return res, &Error{Temp: tmp, Target: in, Err: err}
	}
	return res, nil
}
