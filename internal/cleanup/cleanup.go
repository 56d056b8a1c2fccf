// Package cleanup runs shutdown hooks such as closing the translation store
// and flushing the log file, including on interrupt.
package cleanup

import (
	"errors"
	"sync"
)

var (
	mu    sync.Mutex
	hooks []namedHook
)

type namedHook struct {
	name string
	fn   func() error
}

// Register adds a named hook. Hooks run in LIFO order.
func Register(name string, hook func() error) {
	if hook == nil {
		return
	}
	mu.Lock()
	hooks = append(hooks, namedHook{name: name, fn: hook})
	mu.Unlock()
}

// Pending returns the number of registered hooks.
func Pending() int {
	mu.Lock()
	defer mu.Unlock()
	return len(hooks)
}

// RunAll executes and clears every hook. A failing hook does not stop the rest.
func RunAll() error {
	mu.Lock()
	local := hooks
	hooks = nil
	mu.Unlock()

	var errs []error
	for i := len(local) - 1; i >= 0; i-- {
		if err := local[i].fn(); err != nil {
			errs = append(errs, &HookError{Name: local[i].name, Err: err})
		}
	}
	return errors.Join(errs...)
}

type HookError struct {
	Name string
	Err  error
}

func (e *HookError) Error() string { return "cleanup " + e.Name + ": " + e.Err.Error() }
func (e *HookError) Unwrap() error { return e.Err }
