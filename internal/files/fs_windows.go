//go:build windows

package files

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func utf16(path string) (*uint16, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", path, err)
	}
	return p, nil
}

// renameAtomic uses MoveFileEx so an existing report is replaced and the
// move is flushed before returning.
func renameAtomic(from, to string) error {
	src, err := utf16(from)
	if err != nil {
		return err
	}
	dst, err := utf16(to)
	if err != nil {
		return err
	}
	return windows.MoveFileEx(src, dst, windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH)
}

func isReparsePoint(path string) (bool, error) {
	p, err := utf16(path)
	if err != nil {
		return false, err
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false, err
	}
	return attrs&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0, nil
}
