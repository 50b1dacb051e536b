package utils

import "path/filepath"

// ConsolePath is the log destination value meaning "write to the console".
const ConsolePath = "-"

// GetAbsolutePath resolves path against baseDir. Absolute paths, the console
// marker and an empty path are returned unchanged, as is anything when baseDir
// is unknown.
func GetAbsolutePath(path, baseDir string) string {
	if path == "" || path == ConsolePath || baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Clean(filepath.Join(baseDir, path))
}
