package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestFileDone(t *testing.T) {
	r := New()
	r.FileDone("succeeded", "")
	r.FileDone("succeeded", "")
	r.FileDone("skipped", "")
	r.FileDone("failed", "probe")

	if got := testutil.ToFloat64(r.files.WithLabelValues("succeeded")); got != 2 {
		t.Errorf("succeeded = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.files.WithLabelValues("skipped")); got != 1 {
		t.Errorf("skipped = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.failures.WithLabelValues("probe")); got != 1 {
		t.Errorf("failures{probe} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.failures); got != 1 {
		t.Errorf("failure series = %d, want 1", got)
	}
}

func TestCompressed(t *testing.T) {
	r := New()
	r.Compressed(10_000_000, 4_000_000, 12.5, 3)
	r.Compressed(1000, 500, 2.5, 1)

	if got := testutil.ToFloat64(r.originalBytes); got != 10_001_000 {
		t.Errorf("original bytes = %v", got)
	}
	if got := testutil.ToFloat64(r.compressedBytes); got != 4_000_500 {
		t.Errorf("compressed bytes = %v", got)
	}
	if got := testutil.ToFloat64(r.clipSeconds); got != 15 {
		t.Errorf("clip seconds = %v", got)
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.FileDone("failed", "encode")
	r.Compressed(1, 1, 1, 1)
	r.PatternFailed()
	if r.Gatherer() == nil {
		t.Fatal("nil recorder returned nil gatherer")
	}
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.FileDone("succeeded", "")
	r.PatternFailed()

	path := filepath.Join(t.TempDir(), "vidshrink.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`vidshrink_files_total{outcome="succeeded"} 1`,
		`vidshrink_pattern_errors_total 1`,
		`# TYPE vidshrink_processing_seconds histogram`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q:\n%s", want, data)
		}
	}
}
