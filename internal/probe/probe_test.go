package probe

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"
)

// Camera footage: H.264 video, PCM audio, and a timecode data track without
// codec_name (as written by many Nikon/Sony MOV files).
const sampleCameraMOV = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "h264",
      "codec_type": "video",
      "width": 1920,
      "height": 1080,
      "disposition": { "default": 1, "attached_pic": 0 }
    },
    {
      "index": 1,
      "codec_name": "pcm_s16le",
      "codec_type": "audio",
      "disposition": { "default": 1 }
    },
    {
      "index": 2,
      "codec_type": "data",
      "codec_tag_string": "tmcd"
    }
  ],
  "format": {
    "filename": "/footage/DSC_6745.MOV",
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "duration": "10.000000",
    "size": "10000000",
    "bit_rate": "8000000"
  }
}`

// HEVC file with cover art stored as the first video stream.
const sampleHEVCWithCover = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "mjpeg",
      "codec_type": "video",
      "width": 600, "height": 900,
      "disposition": { "default": 0, "attached_pic": 1 }
    },
    {
      "index": 1,
      "codec_name": "hevc",
      "codec_type": "video",
      "width": 3840, "height": 2160,
      "disposition": { "default": 1, "attached_pic": 0 }
    }
  ],
  "format": {
    "filename": "clip.mp4",
    "duration": "1437.123000",
    "size": "1234567890",
    "bit_rate": "6873456"
  }
}`

func TestParseJSON_CameraMOV(t *testing.T) {
	pr, err := ParseJSON([]byte(sampleCameraMOV))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	if pr.Format.Duration != 10 {
		t.Errorf("duration: got %f, want 10", pr.Format.Duration)
	}
	if pr.Format.Size != 10000000 {
		t.Errorf("size: got %d", pr.Format.Size)
	}
	if pr.Format.BitRate != 8000000 {
		t.Errorf("bitrate: got %d", pr.Format.BitRate)
	}
	if len(pr.Streams) != 3 {
		t.Fatalf("streams: got %d, want 3", len(pr.Streams))
	}
	if pr.Streams[1].Type != StreamAudio {
		t.Errorf("stream 1 type: got %q", pr.Streams[1].Type)
	}
	if pr.Streams[2].Type != StreamOther || pr.Streams[2].Codec != "" {
		t.Errorf("data stream: got %+v", pr.Streams[2])
	}

	v, err := pr.Video()
	if err != nil {
		t.Fatalf("Video: %v", err)
	}
	if v.Codec != "h264" || v.Index != 0 {
		t.Errorf("video: got %+v", v)
	}
	if got := pr.Resolution(); got != "1920x1080" {
		t.Errorf("resolution: got %q", got)
	}
}

func TestParseJSON_SkipsAttachedPic(t *testing.T) {
	pr, err := ParseJSON([]byte(sampleHEVCWithCover))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	v, err := pr.Video()
	if err != nil {
		t.Fatalf("Video: %v", err)
	}
	if v.Index != 1 || v.Codec != "hevc" {
		t.Errorf("primary video should skip cover art, got %+v", v)
	}
}

func TestParseJSON_NoVideoStream(t *testing.T) {
	j := `{
		"streams": [
			{ "index": 0, "codec_name": "aac", "codec_type": "audio" }
		],
		"format": { "duration": "3.0", "size": "1000", "bit_rate": "128000" }
	}`
	pr, err := ParseJSON([]byte(j))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if _, err := pr.Video(); !errors.Is(err, ErrNoVideoStream) {
		t.Errorf("Video() error = %v, want ErrNoVideoStream", err)
	}
	if got := pr.Resolution(); got != "unknown" {
		t.Errorf("resolution: got %q, want unknown", got)
	}
}

func TestParseJSON_NumericValues(t *testing.T) {
	j := `{
		"streams": [{ "codec_name": "vp9", "codec_type": "video" }],
		"format": { "duration": 12.5, "size": 2048, "bit_rate": 1310 }
	}`
	pr, err := ParseJSON([]byte(j))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if pr.Format.Duration != 12.5 || pr.Format.Size != 2048 || pr.Format.BitRate != 1310 {
		t.Errorf("format: got %+v", pr.Format)
	}
}

func TestParseJSON_SchemaViolations(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		field string
	}{
		{
			"missing format",
			`{"streams": []}`,
			"format",
		},
		{
			"missing streams",
			`{"format": {"duration": "1", "size": "1", "bit_rate": "1"}}`,
			"streams",
		},
		{
			"missing duration",
			`{"streams": [], "format": {"size": "1", "bit_rate": "1"}}`,
			"format.duration",
		},
		{
			"missing size",
			`{"streams": [], "format": {"duration": "1", "bit_rate": "1"}}`,
			"format.size",
		},
		{
			"missing bit_rate",
			`{"streams": [], "format": {"duration": "1", "size": "1"}}`,
			"format.bit_rate",
		},
		{
			"non-numeric size",
			`{"streams": [], "format": {"duration": "1", "size": "N/A", "bit_rate": "1"}}`,
			"format.size",
		},
		{
			"negative duration",
			`{"streams": [], "format": {"duration": "-1", "size": "1", "bit_rate": "1"}}`,
			"format.duration",
		},
		{
			"stream without codec_type",
			`{"streams": [{"codec_name": "h264"}], "format": {"duration": "1", "size": "1", "bit_rate": "1"}}`,
			"streams[0].codec_type",
		},
		{
			"video stream without codec_name",
			`{"streams": [{"codec_type": "audio", "codec_name": "aac"}, {"codec_type": "video"}],
			  "format": {"duration": "1", "size": "1", "bit_rate": "1"}}`,
			"streams[1].codec_name",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.json))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("error = %v, want ErrMalformed", err)
			}
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("error %v is not a SchemaError", err)
			}
			if se.Field != tt.field {
				t.Errorf("field = %q, want %q", se.Field, tt.field)
			}
		})
	}
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	for _, j := range []string{`{invalid`, `{"streams": [{"codec_type": 3}]}`, ``} {
		if _, err := ParseJSON([]byte(j)); !errors.Is(err, ErrMalformed) {
			t.Errorf("ParseJSON(%q) error = %v, want ErrMalformed", j, err)
		}
	}
}

func TestProbe_MissingBinary(t *testing.T) {
	p := FFprobe{Bin: filepath.Join(t.TempDir(), "no-such-ffprobe")}
	_, err := p.Probe(context.Background(), "clip.mp4")

	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *probe.Error", err)
	}
	if pe.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1 for launch failure", pe.ExitCode)
	}
	if pe.Path != "clip.mp4" {
		t.Errorf("Path = %q", pe.Path)
	}
}

func TestProbe_RealFFprobe(t *testing.T) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available")
	}
	_, err := FFprobe{}.Probe(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))

	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *probe.Error", err)
	}
	if pe.ExitCode <= 0 {
		t.Errorf("ExitCode = %d, want non-zero exit", pe.ExitCode)
	}
}
