package config

// This file binds the global CLI flags onto a Config. Negated flags
// (--no-color) are applied after parsing so Config defaults hold unless set.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Flags keeps the flag values that are folded into Config after parsing.
type Flags struct {
	noColor     bool
	ShowVersion bool
}

// BindFlags registers the global flags on fs, writing directly into cfg.
// Call [Flags.Apply] once the flag set has been parsed.
func BindFlags(fs *pflag.FlagSet, cfg *Config) *Flags {
	f := &Flags{}

	fs.StringVar(&cfg.FFprobeBin, "ffprobe", cfg.FFprobeBin, "ffprobe binary (name on PATH or full path)")
	fs.StringVar(&cfg.FFmpegBin, "ffmpeg", cfg.FFmpegBin, "ffmpeg binary (name on PATH or full path)")

	fs.Var(&colorModeValue{&cfg.ColorMode}, "color", "Colored logs: auto | always | never")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored logs (same as --color never)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	fs.StringVarP(&cfg.LogFile, "log", "l", "", "Append logs to file")

	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path when the run ends")
	fs.StringVar(&cfg.ReportFile, "report", "", "Write a TOML run report to this path when the run ends")

	fs.BoolVarP(&f.ShowVersion, "version", "V", false, "Print version and exit")
	return f
}

// Apply folds negated flags into cfg.
func (f *Flags) Apply(cfg *Config) {
	if f.noColor {
		cfg.ColorMode = ColorNever
	}
}

// pflag.Value adapter so ColorMode can be used with fs.Var.

type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string { return string(*c.p) }
func (c *colorModeValue) Type() string   { return "mode" }
func (c *colorModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "auto":
		*c.p = ColorAuto
	case "always":
		*c.p = ColorAlways
	case "never":
		*c.p = ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}
