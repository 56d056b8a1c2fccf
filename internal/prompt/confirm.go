// Package prompt asks the operator yes/no questions on the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNonInteractive is returned when a question needs an answer but stdin is not a terminal.
var ErrNonInteractive = errors.New("non-interactive stdin: pass --yes to confirm")

type Confirmer struct {
	In            io.Reader
	Out           io.Writer
	IsInteractive func() bool
}

func DefaultConfirmer() Confirmer {
	return Confirmer{
		In:  os.Stdin,
		Out: os.Stderr,
		IsInteractive: func() bool {
			info, err := os.Stdin.Stat()
			if err != nil {
				return false
			}
			return (info.Mode() & os.ModeCharDevice) != 0
		},
	}
}

// Confirm asks question and accepts "y" or "yes". assumeYes skips the prompt.
func (c Confirmer) Confirm(question string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if c.IsInteractive == nil || !c.IsInteractive() {
		return false, ErrNonInteractive
	}
	if c.Out != nil {
		fmt.Fprintf(c.Out, "%s (y/n): ", question)
	}
	reader := bufio.NewReader(c.In)
	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// ConfirmOverwrite asks before replacing existing translations for targets.
func (c Confirmer) ConfirmOverwrite(scope string, targets []string, assumeYes bool) (bool, error) {
	q := fmt.Sprintf("Warning: existing %s translations for %s will be replaced. Continue?", scope, strings.Join(targets, ", "))
	return c.Confirm(q, assumeYes)
}

// ConfirmReplaceFile asks before overwriting an existing output file.
func (c Confirmer) ConfirmReplaceFile(path string, assumeYes bool) (bool, error) {
	if _, err := os.Lstat(path); errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	return c.Confirm(fmt.Sprintf("Warning: output file %s already exists. Overwrite?", path), assumeYes)
}
