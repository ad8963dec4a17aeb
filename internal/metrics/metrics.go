// Package metrics records per-run Prometheus counters for the batch and
// exports them in node_exporter textfile format.
//
// A nil *Recorder is valid and records nothing, so callers never need to
// check whether metrics were requested.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vidshrink"

// Recorder owns a private registry for one run.
type Recorder struct {
	reg *prometheus.Registry

	files           *prometheus.CounterVec
	failures        *prometheus.CounterVec
	originalBytes   prometheus.Counter
	compressedBytes prometheus.Counter
	clipSeconds     prometheus.Counter
	processing      prometheus.Histogram
	patternErrors   prometheus.Counter
}

// New returns a Recorder with all collectors registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		files: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Files handled, by outcome.",
		}, []string{"outcome"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Failed files, by pipeline stage.",
		}, []string{"stage"}),
		originalBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "original_bytes_total",
			Help:      "Size of successfully compressed files before encoding.",
		}),
		compressedBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compressed_bytes_total",
			Help:      "Size of successfully compressed files after encoding.",
		}),
		clipSeconds: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clip_seconds_total",
			Help:      "Media duration of successfully compressed files.",
		}),
		processing: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "processing_seconds",
			Help:      "Wall time spent compressing one file.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8), // 1s .. ~4.5h
		}),
		patternErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pattern_errors_total",
			Help:      "Patterns that could not be expanded.",
		}),
	}
}

// FileDone counts one file under outcome ("skipped", "succeeded", "failed").
// stage is only recorded for failures.
func (r *Recorder) FileDone(outcome, stage string) {
	if r == nil {
		return
	}
	r.files.WithLabelValues(outcome).Inc()
	if stage != "" {
		r.failures.WithLabelValues(stage).Inc()
	}
}

// Compressed records the measurements of one successful replacement.
func (r *Recorder) Compressed(originalBytes, compressedBytes int64, clipSeconds, processingSeconds float64) {
	if r == nil {
		return
	}
	r.originalBytes.Add(float64(max(originalBytes, 0)))
	r.compressedBytes.Add(float64(max(compressedBytes, 0)))
	r.clipSeconds.Add(max(clipSeconds, 0))
	r.processing.Observe(processingSeconds)
}

// PatternFailed counts a pattern that failed to expand.
func (r *Recorder) PatternFailed() {
	if r == nil {
		return
	}
	r.patternErrors.Inc()
}

// Gatherer exposes the run registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.reg
}

// WriteTextfile writes all metrics to path atomically, in the format read
// by node_exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Gatherer())
}
