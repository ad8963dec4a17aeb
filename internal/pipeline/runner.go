package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/backmassage/vidshrink/internal/config"
	"github.com/backmassage/vidshrink/internal/display"
	"github.com/backmassage/vidshrink/internal/logging"
	"github.com/backmassage/vidshrink/internal/naming"
)

// RunReport is the result of a whole run.
type RunReport struct {
	Mode        config.Mode
	Patterns    []PatternReport
	Total       AggregateStats
	Started     time.Time
	Elapsed     time.Duration
	Interrupted bool
}

// Orphans lists finished temp files left on disk by failed renames.
func (r RunReport) Orphans() []string {
	var out []string
	for _, p := range r.Patterns {
		for _, o := range p.Outcomes {
			if o.Orphan != "" {
				out = append(out, o.Orphan)
			}
		}
	}
	return out
}

// Run processes cfg.Patterns in order under cfg.Mode. A pattern that fails
// to expand is logged and skipped. Only ctx cancellation ends the run early.
func Run(ctx context.Context, cfg *config.Config, proc *Processor, log *logging.Logger) RunReport {
	rep := RunReport{Mode: cfg.Mode, Started: time.Now()}
	log.Info("Starting in mode %s", cfg.Mode)
	log.Blank()

	for _, pattern := range cfg.Patterns {
		if ctx.Err() != nil {
			rep.Interrupted = true
			break
		}

		var pr PatternReport
		var err error
		if cfg.Mode == config.ModeCheck {
			pr, err = proc.Inspect(pattern)
		} else {
			pr, err = proc.Process(ctx, pattern)
		}

		var pe *PatternError
		switch {
		case errors.As(err, &pe):
			log.Error("Failed to process %s: %v", pattern, err)
			proc.Metrics.PatternFailed()
		case err != nil && ctx.Err() != nil:
			rep.Interrupted = true
		case err != nil:
			log.Error("Failed to process %s: %v", pattern, err)
		}

		rep.Patterns = append(rep.Patterns, pr)
		rep.Total.Merge(pr.Stats)
		if cfg.Mode == config.ModeCompress && pe == nil {
			logPatternSummary(log, pr)
		}
	}

	rep.Elapsed = time.Since(rep.Started)
	if rep.Interrupted {
		log.Warn("Interrupted; remaining files were not processed")
	}
	if cfg.Mode == config.ModeCompress {
		logSummary(log, &rep)
	}
	log.Info("Finished in %s", display.FormatDuration(rep.Elapsed))
	return rep
}

// --- Logging helpers ---

func logPatternSummary(log *logging.Logger, pr PatternReport) {
	s := pr.Stats
	log.Info("==> %s: %d compressed, %d skipped, %d failed", pr.Pattern, s.Succeeded, s.Skipped, s.Failed)
	if s.Succeeded > 0 {
		log.Info("    clips %s, %s -> %s (saved %s)",
			display.FormatSeconds(s.ClipSeconds),
			display.FormatBytes(s.OriginalBytes),
			display.FormatBytes(s.CompressedBytes),
			display.FormatPercent(s.SavedPercent()))
	}
}

func logSummary(log *logging.Logger, rep *RunReport) {
	t := rep.Total
	log.Info("==============================")
	log.Info("Done: %d compressed, %d skipped, %d failed", t.Succeeded, t.Skipped, t.Failed)
	log.Info("  Clip duration:   %s", display.FormatSeconds(t.ClipSeconds))
	log.Info("  Processing time: %s", display.FormatSeconds(t.ProcessingSeconds))

	saved := t.SavedBytes()
	if saved >= 0 {
		log.Success("  Total space saved: %s (%s, %s -> %s)",
			display.FormatBytes(saved),
			display.FormatPercent(t.SavedPercent()),
			display.FormatBytes(t.OriginalBytes),
			display.FormatBytes(t.CompressedBytes))
	} else {
		log.Warn("  Total space saved: %s (overall output is larger)", display.FormatBytesWithSign(saved))
	}

	for _, orphan := range rep.Orphans() {
		if orig, ok := naming.OriginalPath(orphan); ok {
			log.Warn("  Leftover temp file: %s (encoded output of %s)", orphan, orig)
		} else {
			log.Warn("  Leftover temp file: %s", orphan)
		}
	}
}
