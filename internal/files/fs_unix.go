//go:build !windows

package files

import "os"

// rename(2) already replaces the destination atomically.
func renameAtomic(from, to string) error { return os.Rename(from, to) }

// Only Windows has reparse points; symlinks are caught by Lstat.
func isReparsePoint(string) (bool, error) { return false, nil }
