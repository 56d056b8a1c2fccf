package cleanup

import (
	"errors"
	"testing"
)

func TestRunAll_LIFOAndJoinedErrors(t *testing.T) {
	var order []string
	boom := errors.New("boom")

	Register("store", func() error { order = append(order, "store"); return boom })
	Register("log", func() error { order = append(order, "log"); return nil })
	Register("nil", nil)

	if Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", Pending())
	}

	err := RunAll()
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to wrap boom, got %v", err)
	}
	var hookErr *HookError
	if !errors.As(err, &hookErr) || hookErr.Name != "store" {
		t.Fatalf("expected HookError for store, got %v", err)
	}
	if len(order) != 2 || order[0] != "log" || order[1] != "store" {
		t.Fatalf("unexpected order %v", order)
	}
	if Pending() != 0 || RunAll() != nil {
		t.Fatalf("hooks should be cleared after RunAll")
	}
}
