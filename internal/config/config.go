// Package config holds runtime configuration: defaults, CLI flag binding, and
// validation. The Config value is built once at startup and passed by pointer
// to every package that needs it.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// --- Enum types for validated string fields ---

// Mode selects what the run does with each matched file.
type Mode string

const (
	ModeCheck    Mode = "check"    // List matched files per pattern; no mutation.
	ModeCompress Mode = "compress" // Probe, transcode, and replace each file.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Startup argument errors. Both abort the run before any pattern is touched.
var (
	ErrInvalidMode = errors.New("invalid mode (use 'check' or 'compress')")
	ErrNoPatterns  = errors.New("need at least one path pattern")
)

// Config holds all runtime settings. It is populated by [DefaultConfig], then
// by the bound CLI flags and positional arguments, and validated with
// [Config.Validate] before the run starts.
type Config struct {
	// Run shape (set from positional args).
	Mode     Mode
	Patterns []string // Normalized with forward slashes.

	// External tools. Both default to a PATH lookup.
	FFprobeBin string // Default: "ffprobe".
	FFmpegBin  string // Default: "ffmpeg".

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.

	// Run outputs.
	MetricsFile string // Optional Prometheus textfile path.
	ReportFile  string // Optional TOML run report path.
}

// DefaultConfig returns a Config with every default applied. Mode and
// Patterns are left empty; they always come from the command line.
func DefaultConfig() Config {
	return Config{
		FFprobeBin: "ffprobe",
		FFmpegBin:  "ffmpeg",
		ColorMode:  ColorAuto,
	}
}

// ParseMode converts a mode argument into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCheck, ModeCompress:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidMode, s)
}

// NormalizePattern replaces backslash separators with forward slashes so
// Windows-style and mixed-separator input reach the matcher in one form.
func NormalizePattern(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// SetPatterns normalizes and stores the positional pattern arguments.
func (c *Config) SetPatterns(args []string) {
	c.Patterns = make([]string, 0, len(args))
	for _, a := range args {
		c.Patterns = append(c.Patterns, NormalizePattern(a))
	}
}

// Validate checks the enum fields and that at least one non-empty pattern
// was given.
func (c *Config) Validate() error {
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	if len(c.Patterns) == 0 {
		return ErrNoPatterns
	}
	for i, p := range c.Patterns {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("pattern %d is empty", i+1)
		}
	}

	if c.Mode == ModeCompress {
		if c.FFprobeBin == "" || c.FFmpegBin == "" {
			return errors.New("ffprobe and ffmpeg binaries must not be empty")
		}
	}
	return nil
}
