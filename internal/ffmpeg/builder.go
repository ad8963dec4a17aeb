package ffmpeg

import (
	"errors"
	"path/filepath"
	"strconv"
)

// Fixed encode policy.
const (
	VideoCodec = "libx265"
	AudioCodec = "copy"
	CRF        = 24
)

var (
	ErrSamePath = errors.New("output path must differ from input path")
	ErrOtherDir = errors.New("output path must be in the input's directory")
)

// ValidatePaths enforces that out is a different file in the same directory
// as in, so the later rename stays on one filesystem.
func ValidatePaths(in, out string) error {
	in, out = filepath.Clean(in), filepath.Clean(out)
	if in == out {
		return ErrSamePath
	}
	if filepath.Dir(in) != filepath.Dir(out) {
		return ErrOtherDir
	}
	return nil
}

// BuildArgs returns the ffmpeg argument list (without the binary) that
// encodes in to out under the fixed policy. -y is required because the
// output path is claimed as an empty file before the encoder starts.
func BuildArgs(in, out string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-v", "error",
		"-stats",
		"-i", in,
		"-c:v", VideoCodec,
		"-c:a", AudioCodec,
		"-x265-params", "crf=" + strconv.Itoa(CRF),
		"-y",
		out,
	}
}
