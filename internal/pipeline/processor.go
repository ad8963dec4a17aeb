package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/backmassage/vidshrink/internal/display"
	"github.com/backmassage/vidshrink/internal/ffmpeg"
	"github.com/backmassage/vidshrink/internal/fsx"
	"github.com/backmassage/vidshrink/internal/logging"
	"github.com/backmassage/vidshrink/internal/metrics"
	"github.com/backmassage/vidshrink/internal/planner"
	"github.com/backmassage/vidshrink/internal/probe"
	"github.com/backmassage/vidshrink/internal/replace"
)

// Status is the final state of one file.
type Status int

const (
	StatusSkipped Status = iota
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stage names the step of the per-file sequence a failure happened in.
type Stage string

const (
	StageAccess  Stage = "access"
	StageProbe   Stage = "probe"
	StageVideo   Stage = "video"
	StageEncode  Stage = "encode"
	StageReplace Stage = "replace"
	StageReprobe Stage = "reprobe"
)

// Outcome is the immutable result of processing one file. Delta is set only
// on success; Stage and Err only on failure. Orphan names a finished temp
// file left on disk by a failed rename.
type Outcome struct {
	Path   string
	Status Status
	Codec  string
	Stage  Stage
	Delta  *FileDelta
	Err    error
	Orphan string
}

// AccessError reports an input that vanished or became unreadable between
// listing and processing.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string { return fmt.Sprintf("access %s: %v", e.Path, e.Err) }

func (e *AccessError) Unwrap() error { return e.Err }

var errNotRegular = errors.New("not a regular file")

// PatternReport is the result of one pattern.
type PatternReport struct {
	Pattern  string
	Files    []string
	Outcomes []Outcome
	Stats    AggregateStats
	Err      error
}

// Processor runs the per-file sequence. Metrics may be nil. Rename replaces
// the original with the finished encode and defaults to [fsx.Rename].
type Processor struct {
	Prober  probe.Prober
	Encoder ffmpeg.Encoder
	Rename  func(src, dst string) error
	Log     *logging.Logger
	Metrics *metrics.Recorder
}

// Inspect lists what pattern would process, without probing, encoding or
// touching any file.
func (p *Processor) Inspect(pattern string) (PatternReport, error) {
	rep := PatternReport{Pattern: pattern}
	files, err := Expand(pattern)
	if err != nil {
		rep.Err = err
		return rep, err
	}
	rep.Files = files
	rep.Stats.Files = len(files)

	p.Log.Info("======")
	for _, f := range files {
		p.Log.Info("%s", f)
	}
	p.Log.Success("==> %d for %s", len(files), pattern)
	p.Log.Blank()
	return rep, nil
}

// Process compresses every file pattern matches, in order. Per-file
// failures are recorded in the report and never returned; the error is
// non-nil only when the pattern could not be expanded or ctx was cancelled.
func (p *Processor) Process(ctx context.Context, pattern string) (PatternReport, error) {
	rep := PatternReport{Pattern: pattern}
	files, err := Expand(pattern)
	if err != nil {
		rep.Err = err
		return rep, err
	}
	rep.Files = files
	if len(files) == 0 {
		p.Log.Warn("No files matched %s", pattern)
		return rep, nil
	}
	p.Log.Info("Found %d files for %s", len(files), pattern)

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		p.Log.Info("[%d/%d] %s", i+1, len(files), path)
		o := p.ProcessFile(ctx, path)
		rep.Outcomes = append(rep.Outcomes, o)
		rep.Stats.Record(o)
		p.Log.Blank()
	}
	return rep, ctx.Err()
}

// ProcessFile runs access -> probe -> video -> policy -> replace -> reprobe
// for one path and returns its outcome. It never panics on a bad file and
// never returns an error; failures are logged and carried in the Outcome.
func (p *Processor) ProcessFile(ctx context.Context, path string) Outcome {
	start := time.Now()
	o := Outcome{Path: path}

	fail := func(stage Stage, err error) Outcome {
		o.Status, o.Stage, o.Err = StatusFailed, stage, err
		p.Log.Error("%s: %s failed: %v", path, stage, err)
		var ee *ffmpeg.EncodeError
		if errors.As(err, &ee) {
			for _, line := range ee.StderrLines(10) {
				p.Log.Error("  %s", line)
			}
		}
		p.Metrics.FileDone(o.Status.String(), string(stage))
		return o
	}

	// --- Access ---
	if err := checkAccess(path); err != nil {
		return fail(StageAccess, &AccessError{Path: path, Err: err})
	}

	// --- Probe ---
	before, err := p.Prober.Probe(ctx, path)
	if err != nil {
		return fail(StageProbe, err)
	}
	video, err := before.Video()
	if err != nil {
		return fail(StageVideo, err)
	}
	o.Codec = video.Codec
	p.logBefore(path, start, before, video)

	// --- Policy ---
	decision := planner.Decide(video)
	if decision.Action == planner.ActionSkip {
		o.Status = StatusSkipped
		p.Log.Info("Skipping: %s", decision.Reason)
		p.Metrics.FileDone(o.Status.String(), "")
		return o
	}

	// --- Replace ---
	res, err := replace.Replacer{Encoder: p.Encoder, Rename: p.Rename}.Replace(ctx, path)
	if err != nil {
		var re *replace.Error
		if errors.As(err, &re) {
			o.Orphan = re.Temp
			p.Log.Warn("Encoded output kept at %s", re.Temp)
			if fsx.IsCrossDevice(err) {
				p.Log.Warn("Temp file and original are on different filesystems; move it manually")
			}
			return fail(StageReplace, err)
		}
		if errors.Is(err, replace.ErrTempInUse) {
			return fail(StageReplace, err)
		}
		return fail(StageEncode, err)
	}
	p.Log.Info("Moved result to %s", path)

	// --- Re-probe ---
	delta := FileDelta{
		ClipSeconds:   before.Format.Duration,
		OriginalBytes: before.Format.Size,
	}
	after, err := p.Prober.Probe(ctx, path)
	var newCodec string
	var newBitRate int64
	if err != nil {
		// Replacement already happened; count it with the on-disk size.
		p.Log.Warn("%s: %s failed: %v", path, StageReprobe, err)
		fi, statErr := os.Stat(path)
		if statErr != nil {
			return fail(StageReprobe, errors.Join(err, statErr))
		}
		delta.CompressedBytes = fi.Size()
	} else {
		delta.CompressedBytes = after.Format.Size
		newBitRate = after.Format.BitRate
		if v, err := after.Video(); err == nil {
			newCodec = v.Codec
		}
	}
	delta.ProcessingSeconds = time.Since(start).Seconds()

	o.Status = StatusSucceeded
	o.Delta = &delta
	p.logAfter(path, delta, newBitRate, newCodec, res.EncodeTime)
	p.Metrics.FileDone(o.Status.String(), "")
	p.Metrics.Compressed(delta.OriginalBytes, delta.CompressedBytes, delta.ClipSeconds, delta.ProcessingSeconds)
	return o
}

func checkAccess(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() {
		return errNotRegular
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

// --- Logging helpers ---

func (p *Processor) logBefore(path string, start time.Time, r *probe.Result, v *probe.Stream) {
	p.Log.Info("  File:          %s", path)
	p.Log.Info("  Start-Time:    %s", start.Format(time.RFC1123))
	p.Log.Info("  Duration:      %s", display.FormatSeconds(r.Format.Duration))
	p.Log.Info("  Orig. size:    %s", display.FormatBytes(r.Format.Size))
	p.Log.Info("  Orig. bitrate: %s", display.FormatBitrateLabel(r.Format.BitRate))
	p.Log.Info("  Orig. codec:   %s", v.Codec)
	p.Log.Debug("  Resolution:    %s", r.Resolution())
}

func (p *Processor) logAfter(path string, d FileDelta, bitRate int64, codec string, encodeTime time.Duration) {
	if codec == "" {
		codec = "unknown"
	}
	p.Log.Info("  File:          %s", path)
	p.Log.Info("  New size:      %s (%s)", display.FormatBytes(d.CompressedBytes), display.FormatPercent(d.Ratio()*100))
	p.Log.Info("  New bitrate:   %s", display.FormatBitrateLabel(bitRate))
	p.Log.Info("  New codec:     %s", codec)
	p.Log.Debug("  Encode time:   %s", display.FormatDuration(encodeTime))
	if d.CompressedBytes > d.OriginalBytes && d.OriginalBytes > 0 {
		p.Log.Warn("Output is larger than the original (%s); replaced anyway",
			display.FormatPercent(d.Ratio()*100))
	}
	p.Log.Success("  Time:          %s", display.FormatSeconds(d.ProcessingSeconds))
}
