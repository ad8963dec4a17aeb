package display

import (
	"fmt"
	"time"
)

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// FormatBytesWithSign prefixes with + or - for delta display (e.g. "- 1.2 GiB").
func FormatBytesWithSign(bytes int64) string {
	sign := ""
	if bytes > 0 {
		sign = "+ "
	} else if bytes < 0 {
		sign = "- "
		bytes = -bytes
	}
	return sign + FormatBytes(bytes)
}

// FormatBitrateLabel returns a short label for a bitrate in bits/sec
// (e.g. "800 kbps", "5.0 Mbps"). Zero means the prober did not report one.
func FormatBitrateLabel(bps int64) string {
	if bps <= 0 {
		return "unknown"
	}
	kbps := bps / 1000
	if kbps < 1000 {
		return fmt.Sprintf("%d kbps", kbps)
	}
	return fmt.Sprintf("%.1f Mbps", float64(kbps)/1000)
}

// FormatDuration renders d as "1h 2m 3s", dropping leading zero units.
// Fractional seconds are truncated.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int64(d / time.Second)
	h := s / 3600
	s -= h * 3600
	m := s / 60
	s -= m * 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatSeconds is FormatDuration for a float seconds value as reported by
// ffprobe.
func FormatSeconds(sec float64) string {
	return FormatDuration(time.Duration(sec * float64(time.Second)))
}

// FormatPercent renders a percentage with one decimal place (e.g. "60.0%").
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
