// Package check validates external tool dependencies before a compress run
// starts, so a missing binary fails once at startup instead of once per file.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/backmassage/vidshrink/internal/config"
	"github.com/backmassage/vidshrink/internal/ffmpeg"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder is missing.
var (
	ErrFFmpegNotFound  = errors.New("ffmpeg not found")
	ErrFFprobeNotFound = errors.New("ffprobe not found")
	ErrX265Unusable    = errors.New("libx265 test encode failed")
)

// CheckDeps verifies that the configured ffprobe and ffmpeg resolve to
// executables and that ffmpeg can actually encode with libx265.
func CheckDeps(ctx context.Context, cfg *config.Config) error {
	ffmpegPath, err := exec.LookPath(cfg.FFmpegBin)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, cfg.FFmpegBin)
	}
	if _, err := exec.LookPath(cfg.FFprobeBin); err != nil {
		return fmt.Errorf("%w: %s", ErrFFprobeNotFound, cfg.FFprobeBin)
	}
	if !runSilent(ctx, ffmpegPath, x265TestArgs()...) {
		return fmt.Errorf("%w (%s)", ErrX265Unusable, ffmpegPath)
	}
	return nil
}

// x265TestArgs returns the ffmpeg arguments for a minimal libx265 encode to
// the null muxer.
func x265TestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", ffmpeg.VideoCodec,
		"-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(ctx context.Context, name string, args ...string) bool {
	return exec.CommandContext(ctx, name, args...).Run() == nil
}
