package naming

import (
	"path/filepath"
	"strings"
)

// TempPrefix marks in-progress encoder output. The leading dot keeps it out
// of casual directory listings.
const TempPrefix = ".vidshrink-tmp-"

// TempPath returns the temporary output path for in: same directory, same
// extension, prefixed base name.
//
//	/videos/trip.mov → /videos/.vidshrink-tmp-trip.mov
func TempPath(in string) string {
	dir, base := filepath.Split(filepath.Clean(in))
	return filepath.Join(dir, TempPrefix+base)
}

// IsTempFile reports whether path names a temporary output of this tool.
func IsTempFile(path string) bool {
	return strings.HasPrefix(filepath.Base(path), TempPrefix)
}

// OriginalPath is the inverse of [TempPath]. ok is false when tmp is not a
// temporary output.
func OriginalPath(tmp string) (orig string, ok bool) {
	dir, base := filepath.Split(filepath.Clean(tmp))
	rest, found := strings.CutPrefix(base, TempPrefix)
	if !found || rest == "" {
		return "", false
	}
	return filepath.Join(dir, rest), true
}
