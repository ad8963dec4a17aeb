package probe

import (
	"context"
	"strconv"
)

// StreamType classifies a stream by ffprobe's codec_type.
type StreamType string

const (
	StreamVideo StreamType = "video"
	StreamAudio StreamType = "audio"
	StreamOther StreamType = "other" // subtitle, data, attachment, ...
)

// Prober inspects one media file.
type Prober interface {
	Probe(ctx context.Context, path string) (*Result, error)
}

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Filename   string
	FormatName string
	Duration   float64 // Seconds.
	Size       int64   // Bytes.
	BitRate    int64   // Bits/sec; informational only.
}

// Stream is the per-stream summary the pipeline needs.
type Stream struct {
	Index         int
	Type          StreamType
	CodecType     string // Raw codec_type as reported.
	Codec         string // codec_name, e.g. "h264", "hevc".
	Width         int
	Height        int
	IsAttachedPic bool
}

// Result is the fully parsed output of a single ffprobe JSON call.
// PrimaryVideo is the first non-attached-pic video stream (nil if none).
type Result struct {
	Format       FormatInfo
	Streams      []Stream
	PrimaryVideo *Stream
}

// Video returns the primary video stream, or [ErrNoVideoStream].
func (r *Result) Video() (*Stream, error) {
	if r == nil || r.PrimaryVideo == nil {
		return nil, ErrNoVideoStream
	}
	return r.PrimaryVideo, nil
}

// Resolution returns "WxH" for the primary video stream, or "unknown".
func (r *Result) Resolution() string {
	if r.PrimaryVideo == nil || r.PrimaryVideo.Width <= 0 || r.PrimaryVideo.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(r.PrimaryVideo.Width) + "x" + strconv.Itoa(r.PrimaryVideo.Height)
}
