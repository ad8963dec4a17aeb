// Package probe provides ffprobe-based media inspection and typed result
// structures.
//
// A single `ffprobe -print_format json -show_format -show_streams` call per
// file yields a [Result]: container duration, size and bitrate plus one
// [Stream] summary per stream. The JSON is checked against an explicit schema
// ([ParseJSON]) so a malformed or truncated report fails loudly instead of
// producing zero values that would later corrupt the savings totals.
//
// The [Prober] interface lets the pipeline run against fakes in tests;
// [FFprobe] is the production implementation.
package probe
