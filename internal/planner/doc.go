// Package planner decides per-file action: re-encode to HEVC, or skip a file
// that is already in the target codec family.
//
// The policy looks only at the primary video stream's codec name. It does not
// inspect resolution, bitrate, or container; the encode parameters are fixed
// (see package ffmpeg).
package planner
