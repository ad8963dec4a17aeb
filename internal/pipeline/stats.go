package pipeline

// FileDelta is the measured effect of compressing one file.
type FileDelta struct {
	ClipSeconds       float64
	OriginalBytes     int64
	CompressedBytes   int64
	ProcessingSeconds float64
}

// SavedBytes is positive when the file shrank.
func (d FileDelta) SavedBytes() int64 { return d.OriginalBytes - d.CompressedBytes }

// Ratio is compressed size as a fraction of the original, or 0 when the
// original size is unknown.
func (d FileDelta) Ratio() float64 {
	if d.OriginalBytes <= 0 {
		return 0
	}
	return float64(d.CompressedBytes) / float64(d.OriginalBytes)
}

// AggregateStats sums FileDeltas and counts outcomes. The zero value is the
// empty aggregate and every update is commutative.
type AggregateStats struct {
	Files     int
	Succeeded int
	Skipped   int
	Failed    int

	ClipSeconds       float64
	OriginalBytes     int64
	CompressedBytes   int64
	ProcessingSeconds float64
}

// Add folds one delta into the sums.
func (a *AggregateStats) Add(d FileDelta) {
	a.ClipSeconds += d.ClipSeconds
	a.OriginalBytes += d.OriginalBytes
	a.CompressedBytes += d.CompressedBytes
	a.ProcessingSeconds += d.ProcessingSeconds
}

// Record counts o and folds its delta when it succeeded.
func (a *AggregateStats) Record(o Outcome) {
	a.Files++
	switch o.Status {
	case StatusSucceeded:
		a.Succeeded++
		if o.Delta != nil {
			a.Add(*o.Delta)
		}
	case StatusSkipped:
		a.Skipped++
	case StatusFailed:
		a.Failed++
	}
}

// Merge folds another aggregate into a.
func (a *AggregateStats) Merge(b AggregateStats) {
	a.Files += b.Files
	a.Succeeded += b.Succeeded
	a.Skipped += b.Skipped
	a.Failed += b.Failed
	a.Add(FileDelta{
		ClipSeconds:       b.ClipSeconds,
		OriginalBytes:     b.OriginalBytes,
		CompressedBytes:   b.CompressedBytes,
		ProcessingSeconds: b.ProcessingSeconds,
	})
}

// SavedBytes returns the aggregate byte difference between originals and
// their replacements. Negative means outputs grew.
func (a AggregateStats) SavedBytes() int64 {
	return a.OriginalBytes - a.CompressedBytes
}

// SavedPercent is the share of original bytes removed, 0 when nothing was
// compressed: 10 MB -> 4 MB is 60.
func (a AggregateStats) SavedPercent() float64 {
	if a.OriginalBytes <= 0 {
		return 0
	}
	return (1 - float64(a.CompressedBytes)/float64(a.OriginalBytes)) * 100
}
