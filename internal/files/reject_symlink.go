package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrLinkedPath is returned when a report or log destination resolves
// through a symlink or Windows reparse point.
var ErrLinkedPath = errors.New("path goes through a link")

// RejectSymlinkPath fails if path, or any existing directory above it,
// is a link. Components that do not exist yet are accepted.
func RejectSymlinkPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("output path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	for _, p := range ancestors(abs) {
		info, err := os.Lstat(p)
		switch {
		case errors.Is(err, os.ErrNotExist):
			return nil
		case err != nil:
			return fmt.Errorf("inspect %s: %w", p, err)
		case info.Mode()&os.ModeSymlink != 0:
			return fmt.Errorf("%w: %s is a symlink", ErrLinkedPath, p)
		}
		reparse, err := isReparsePoint(p)
		if err != nil {
			return fmt.Errorf("inspect %s: %w", p, err)
		}
		if reparse {
			return fmt.Errorf("%w: %s is a reparse point", ErrLinkedPath, p)
		}
	}
	return nil
}

// ancestors lists every component of a clean absolute path from the
// first element below the root down to the path itself.
func ancestors(abs string) []string {
	var chain []string
	for p := filepath.Clean(abs); ; {
		parent := filepath.Dir(p)
		if parent == p {
			break
		}
		chain = append(chain, p)
		p = parent
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
