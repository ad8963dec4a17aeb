package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/backmassage/vidshrink/internal/config"
	"github.com/backmassage/vidshrink/internal/report"
)

func TestRun_StartupErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no args", nil, config.ErrInvalidMode.Error()},
		{"unknown mode", []string{"shrink", "a.mp4"}, config.ErrInvalidMode.Error()},
		{"check without patterns", []string{"check"}, config.ErrNoPatterns.Error()},
		{"compress without patterns", []string{"compress"}, config.ErrNoPatterns.Error()},
		{"bad color", []string{"--color", "rainbow", "check", "x"}, "invalid color mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.HasPrefix(stderr.String(), "vidshrink: ") || !strings.Contains(stderr.String(), tt.want) {
				t.Errorf("stderr = %q, want it to mention %q", stderr.String(), tt.want)
			}
		})
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-V"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "vidshrink "+version) {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRun_CheckModeWritesReport(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(clip, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	reportPath := filepath.Join(t.TempDir(), "run.toml")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--color", "never", "--report", reportPath, "check", filepath.ToSlash(dir)}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr.String())
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var r report.Report
	if err := toml.Unmarshal(data, &r); err != nil {
		t.Fatalf("parse report: %v", err)
	}
	if r.Mode != "check" || len(r.Patterns) != 1 || len(r.Patterns[0].Files) != 1 {
		t.Fatalf("report = %+v", r)
	}
	if r.Patterns[0].Files[0].Path != clip {
		t.Errorf("listed %q, want %q", r.Patterns[0].Files[0].Path, clip)
	}

	got, _ := os.ReadFile(clip)
	if string(got) != "x" {
		t.Errorf("check mode modified input: %q", got)
	}
}

func TestRun_CompressMissingFFmpegIsStartupError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	missing := filepath.Join(t.TempDir(), "no-ffmpeg")
	code := run([]string{"--color", "never", "--ffmpeg", missing, "compress", t.TempDir()}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "ffmpeg not found") {
		t.Errorf("stderr = %q", stderr.String())
	}
}
