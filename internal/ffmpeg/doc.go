// Package ffmpeg builds and executes the fixed HEVC encode command.
//
// The argument policy is not configurable: libx265 video at CRF 24, audio
// copied verbatim, banner and log noise suppressed, progress statistics
// shown. The encoder's output streams straight to the console so the
// operator can watch progress; only a bounded tail of stderr is kept for the
// [EncodeError] diagnostic.
package ffmpeg
