package utils

import (
	"path/filepath"
	"strings"
)

// ReportSuffix is appended to the target directory name to form the report file name.
const ReportSuffix = "_out.md"

// ArtifactPath returns where the compiled executable for src is written:
// the same path without its extension.
func ArtifactPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src))
}

// DirName returns the base name of dir, ignoring trailing separators.
// Relative names such as "." are resolved against the working directory first.
func DirName(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	return filepath.Base(filepath.Clean(dir))
}

// ReportFileName returns the report file name for a target directory.
func ReportFileName(dir string) string {
	return DirName(dir) + ReportSuffix
}

// HasExt reports whether name ends in ext. An extension on its own
// (a file named ".c") does not count.
func HasExt(name, ext string) bool {
	return len(name) > len(ext) && strings.HasSuffix(name, ext)
}
