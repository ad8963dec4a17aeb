package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/backmassage/vidshrink/internal/config"
	"github.com/backmassage/vidshrink/internal/naming"
)

// PatternError reports a pattern that could not be expanded at all.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("expand pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Expand resolves pattern to the sorted, deduplicated absolute paths of the
// regular files it matches.
//
// Backslashes are treated as path separators. A pattern naming an existing
// directory matches everything beneath it, even when the directory name
// contains glob metacharacters. Path segments starting with a dot
// are only matched when the pattern itself spells out a dot segment, and
// in-progress temp outputs are never returned.
func Expand(pattern string) ([]string, error) {
	p := config.NormalizePattern(pattern)
	if p == "" {
		return nil, &PatternError{Pattern: pattern, Err: doublestar.ErrBadPattern}
	}
	dirBase := ""
	if fi, err := os.Stat(filepath.FromSlash(p)); err == nil && fi.IsDir() {
		dirBase = filepath.ToSlash(filepath.Clean(p))
		p = escapeMeta(strings.TrimSuffix(p, "/")) + "/**"
	}
	if !doublestar.ValidatePattern(p) {
		return nil, &PatternError{Pattern: pattern, Err: doublestar.ErrBadPattern}
	}

	matches, err := doublestar.FilepathGlob(p,
		doublestar.WithFilesOnly(),
		doublestar.WithFailOnIOErrors(),
	)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}

	base := dirBase
	if base == "" {
		base, _ = doublestar.SplitPattern(filepath.ToSlash(filepath.Clean(p)))
	}
	allowDot := wantsDotSegments(p)

	seen := make(map[string]bool, len(matches))
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		abs, err := filepath.Abs(m)
		if err != nil {
			return nil, &PatternError{Pattern: pattern, Err: err}
		}
		if seen[abs] || naming.IsTempFile(abs) {
			continue
		}
		if !allowDot && hasDotSegment(base, m) {
			continue
		}
		if fi, err := os.Stat(abs); err == nil && !fi.Mode().IsRegular() {
			continue
		}
		seen[abs] = true
		files = append(files, abs)
	}
	slices.Sort(files)
	return files, nil
}

// escapeMeta quotes glob metacharacters in a literal path. FilepathGlob
// does not honor escapes on Windows, so the path is used as-is there.
func escapeMeta(path string) string {
	if runtime.GOOS == "windows" {
		return path
	}
	return doublestar.EscapeMeta(path)
}

// wantsDotSegments reports whether any segment of pattern starts with a
// literal dot (".hidden/*", "*/.cache/**"), excluding "." and "..".
func wantsDotSegments(pattern string) bool {
	for _, seg := range strings.Split(pattern, "/") {
		if strings.HasPrefix(seg, ".") && seg != "." && seg != ".." {
			return true
		}
	}
	return false
}

// hasDotSegment reports whether match has a dot-prefixed segment below the
// pattern's literal base directory.
func hasDotSegment(base, match string) bool {
	rel := filepath.ToSlash(match)
	if base != "." {
		rel = strings.TrimPrefix(rel, base)
	}
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") && seg != "." && seg != ".." {
			return true
		}
	}
	return false
}
