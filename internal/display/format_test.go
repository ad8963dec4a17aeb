package display

import (
	"testing"
	"time"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"small bytes", 512, "512 B"},
		{"exactly 1 KiB", 1024, "1.0 KiB"},
		{"1.5 KiB", 1536, "1.5 KiB"},
		{"1 MiB", 1024 * 1024, "1.0 MiB"},
		{"1 GiB", 1024 * 1024 * 1024, "1.0 GiB"},
		{"typical clip 700 MiB", 734003200, "700.0 MiB"},
		{"4.7 GiB", 5046586572, "4.7 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatBytesWithSign(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"positive", 1024 * 1024, "+ 1.0 MiB"},
		{"negative", -1024 * 1024, "- 1.0 MiB"},
		{"zero", 0, "0 B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBytesWithSign(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatBytesWithSign(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatBitrateLabel(t *testing.T) {
	tests := []struct {
		name string
		bps  int64
		want string
	}{
		{"unknown", 0, "unknown"},
		{"sub-megabit", 800_000, "800 kbps"},
		{"exactly 1 Mbps", 1_000_000, "1.0 Mbps"},
		{"typical camera", 24_000_000, "24.0 Mbps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBitrateLabel(tt.bps)
			if got != tt.want {
				t.Errorf("FormatBitrateLabel(%d) = %q, want %q", tt.bps, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"zero", 0, "0s"},
		{"negative clamps", -time.Second, "0s"},
		{"seconds truncated", 9*time.Second + 900*time.Millisecond, "9s"},
		{"minutes", 2*time.Minute + 5*time.Second, "2m 5s"},
		{"exact hour", time.Hour, "1h 0m 0s"},
		{"hours", 3*time.Hour + 4*time.Minute + 5*time.Second, "3h 4m 5s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.d); got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := FormatSeconds(1437.123); got != "23m 57s" {
		t.Errorf("FormatSeconds = %q", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(60); got != "60.0%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatPercent(-12.34); got != "-12.3%" {
		t.Errorf("FormatPercent = %q", got)
	}
}
