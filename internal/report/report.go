// Package report serializes a finished run to a TOML document for later
// inspection or scripting.
package report

import (
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/backmassage/vidshrink/internal/config"
	"github.com/backmassage/vidshrink/internal/fsx"
	"github.com/backmassage/vidshrink/internal/pipeline"
)

// File statuses beyond pipeline.Status.
const (
	statusListed       = "listed"
	statusNotProcessed = "not-processed"
)

// Report is the on-disk shape of a run report.
type Report struct {
	Mode           string    `toml:"mode"`
	Started        time.Time `toml:"started"`
	ElapsedSeconds float64   `toml:"elapsed_seconds"`
	Interrupted    bool      `toml:"interrupted"`
	Total          Totals    `toml:"total"`
	Orphans        []string  `toml:"orphans,omitempty"`
	Patterns       []Pattern `toml:"pattern"`
}

// Totals is an aggregate counter set with its derived savings.
type Totals struct {
	Files             int     `toml:"files"`
	Succeeded         int     `toml:"succeeded"`
	Skipped           int     `toml:"skipped"`
	Failed            int     `toml:"failed"`
	ClipSeconds       float64 `toml:"clip_seconds"`
	OriginalBytes     int64   `toml:"original_bytes"`
	CompressedBytes   int64   `toml:"compressed_bytes"`
	SavedBytes        int64   `toml:"saved_bytes"`
	SavedPercent      float64 `toml:"saved_percent"`
	ProcessingSeconds float64 `toml:"processing_seconds"`
}

// Pattern is one input pattern with its stats and matched files.
type Pattern struct {
	Pattern string `toml:"pattern"`
	Error   string `toml:"error,omitempty"`
	Stats   Totals `toml:"stats"`
	Files   []File `toml:"file,omitempty"`
}

// File is one matched file and what happened to it.
type File struct {
	Path              string  `toml:"path"`
	Status            string  `toml:"status"`
	Codec             string  `toml:"codec,omitempty"`
	Stage             string  `toml:"stage,omitempty"`
	Error             string  `toml:"error,omitempty"`
	Orphan            string  `toml:"orphan,omitempty"`
	ClipSeconds       float64 `toml:"clip_seconds,omitempty"`
	OriginalBytes     int64   `toml:"original_bytes,omitempty"`
	CompressedBytes   int64   `toml:"compressed_bytes,omitempty"`
	ProcessingSeconds float64 `toml:"processing_seconds,omitempty"`
}

// FromRun converts a pipeline report.
func FromRun(rep pipeline.RunReport) Report {
	r := Report{
		Mode:           string(rep.Mode),
		Started:        rep.Started.Truncate(time.Second),
		ElapsedSeconds: rep.Elapsed.Seconds(),
		Interrupted:    rep.Interrupted,
		Total:          totals(rep.Total),
		Orphans:        rep.Orphans(),
	}
	for _, pr := range rep.Patterns {
		p := Pattern{Pattern: pr.Pattern, Stats: totals(pr.Stats)}
		if pr.Err != nil {
			p.Error = pr.Err.Error()
		}
		byPath := make(map[string]pipeline.Outcome, len(pr.Outcomes))
		for _, o := range pr.Outcomes {
			byPath[o.Path] = o
		}
		for _, path := range pr.Files {
			p.Files = append(p.Files, file(rep.Mode, path, byPath))
		}
		r.Patterns = append(r.Patterns, p)
	}
	return r
}

func file(mode config.Mode, path string, outcomes map[string]pipeline.Outcome) File {
	f := File{Path: path}
	o, ok := outcomes[path]
	switch {
	case mode == config.ModeCheck:
		f.Status = statusListed
		return f
	case !ok:
		f.Status = statusNotProcessed
		return f
	}
	f.Status = o.Status.String()
	f.Codec = o.Codec
	f.Stage = string(o.Stage)
	f.Orphan = o.Orphan
	if o.Err != nil {
		f.Error = o.Err.Error()
	}
	if d := o.Delta; d != nil {
		f.ClipSeconds = d.ClipSeconds
		f.OriginalBytes = d.OriginalBytes
		f.CompressedBytes = d.CompressedBytes
		f.ProcessingSeconds = d.ProcessingSeconds
	}
	return f
}

func totals(s pipeline.AggregateStats) Totals {
	return Totals{
		Files:             s.Files,
		Succeeded:         s.Succeeded,
		Skipped:           s.Skipped,
		Failed:            s.Failed,
		ClipSeconds:       s.ClipSeconds,
		OriginalBytes:     s.OriginalBytes,
		CompressedBytes:   s.CompressedBytes,
		SavedBytes:        s.SavedBytes(),
		SavedPercent:      s.SavedPercent(),
		ProcessingSeconds: s.ProcessingSeconds,
	}
}

// Marshal renders r as TOML.
func Marshal(r Report) ([]byte, error) {
	return toml.Marshal(r)
}

// Write renders rep and replaces path atomically.
func Write(path string, rep pipeline.RunReport) error {
	data, err := Marshal(FromRun(rep))
	if err != nil {
		return err
	}
	return fsx.WriteFileAtomic(path, data)
}
