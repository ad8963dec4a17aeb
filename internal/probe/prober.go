package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// FFprobe runs the ffprobe binary at Bin (a PATH name or full path).
type FFprobe struct {
	Bin string
}

// Probe runs a single ffprobe JSON call against path and returns the
// parsed result.
func (p FFprobe) Probe(ctx context.Context, path string) (*Result, error) {
	bin := p.Bin
	if bin == "" {
		bin = "ffprobe"
	}
	cmd := exec.CommandContext(ctx, bin,
		"-v", "error",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return nil, &Error{Path: path, ExitCode: code, Stderr: stderr.String(), Err: err}
	}

	pr, err := ParseJSON(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	return pr, nil
}

// ParseJSON converts raw ffprobe JSON output into a Result, enforcing the
// required fields: format.duration, format.size, format.bit_rate,
// streams[].codec_type, and codec_name on video streams.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return buildResult(&raw)
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  *ffprobeFormat   `json:"format"`
	Streams *[]ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string   `json:"filename"`
	FormatName string   `json:"format_name"`
	Duration   ffNumber `json:"duration"`
	Size       ffNumber `json:"size"`
	BitRate    ffNumber `json:"bit_rate"`
}

type ffprobeStream struct {
	Index       int            `json:"index"`
	CodecName   *string        `json:"codec_name"`
	CodecType   *string        `json:"codec_type"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Disposition map[string]int `json:"disposition"`
}

// ffNumber accepts the string-encoded numbers ffprobe emits ("10.000") as
// well as bare JSON numbers, and remembers whether the field was present.
type ffNumber struct {
	raw string
	set bool
}

func (n *ffNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	n.raw = strings.TrimSpace(s)
	n.set = true
	return nil
}

func (n ffNumber) float(field string) (float64, error) {
	if !n.set {
		return 0, &SchemaError{Field: field, Reason: "missing"}
	}
	f, err := strconv.ParseFloat(n.raw, 64)
	if err != nil || f < 0 {
		return 0, &SchemaError{Field: field, Reason: fmt.Sprintf("not a non-negative number: %q", n.raw)}
	}
	return f, nil
}

func (n ffNumber) int64(field string) (int64, error) {
	if !n.set {
		return 0, &SchemaError{Field: field, Reason: "missing"}
	}
	v, err := strconv.ParseInt(n.raw, 10, 64)
	if err != nil || v < 0 {
		return 0, &SchemaError{Field: field, Reason: fmt.Sprintf("not a non-negative integer: %q", n.raw)}
	}
	return v, nil
}

// --- Conversion from wire types to domain types ---

func buildResult(raw *ffprobeOutput) (*Result, error) {
	if raw.Format == nil {
		return nil, &SchemaError{Field: "format", Reason: "missing"}
	}
	if raw.Streams == nil {
		return nil, &SchemaError{Field: "streams", Reason: "missing"}
	}

	format, err := convertFormat(raw.Format)
	if err != nil {
		return nil, err
	}
	pr := &Result{Format: format}

	for i, s := range *raw.Streams {
		st, err := convertStream(i, &s)
		if err != nil {
			return nil, err
		}
		pr.Streams = append(pr.Streams, st)
	}
	for i := range pr.Streams {
		s := &pr.Streams[i]
		if s.Type == StreamVideo && !s.IsAttachedPic {
			pr.PrimaryVideo = s
			break
		}
	}
	return pr, nil
}

func convertFormat(f *ffprobeFormat) (FormatInfo, error) {
	duration, err := f.Duration.float("format.duration")
	if err != nil {
		return FormatInfo{}, err
	}
	size, err := f.Size.int64("format.size")
	if err != nil {
		return FormatInfo{}, err
	}
	bitRate, err := f.BitRate.int64("format.bit_rate")
	if err != nil {
		return FormatInfo{}, err
	}
	return FormatInfo{
		Filename:   f.Filename,
		FormatName: f.FormatName,
		Duration:   duration,
		Size:       size,
		BitRate:    bitRate,
	}, nil
}

func convertStream(i int, s *ffprobeStream) (Stream, error) {
	if s.CodecType == nil {
		return Stream{}, &SchemaError{Field: fmt.Sprintf("streams[%d].codec_type", i), Reason: "missing"}
	}
	st := Stream{
		Index:         s.Index,
		Type:          classify(*s.CodecType),
		CodecType:     *s.CodecType,
		Width:         s.Width,
		Height:        s.Height,
		IsAttachedPic: s.Disposition["attached_pic"] == 1,
	}
	if s.CodecName != nil {
		st.Codec = *s.CodecName
	}
	// Data streams (e.g. MOV timecode tracks) legitimately omit codec_name;
	// the skip decision needs it on video streams.
	if st.Type == StreamVideo && st.Codec == "" {
		return Stream{}, &SchemaError{Field: fmt.Sprintf("streams[%d].codec_name", i), Reason: "missing"}
	}
	return st, nil
}

func classify(codecType string) StreamType {
	switch codecType {
	case "video":
		return StreamVideo
	case "audio":
		return StreamAudio
	}
	return StreamOther
}
