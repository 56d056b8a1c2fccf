package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/oukeidos/locsync/internal/fieldfilter"
)

// ModelType declares a translatable record type and its attributes.
type ModelType struct {
	Name       string
	Attributes []string
	Fields     map[string]fieldfilter.FieldConfig
}

// Registry is the explicit list of record types eligible for translation.
type Registry struct {
	mu    sync.RWMutex
	types map[string]ModelType
}

func NewRegistry(types ...ModelType) *Registry {
	r := &Registry{types: make(map[string]ModelType)}
	for _, t := range types {
		r.Register(t)
	}
	return r
}

func (r *Registry) Register(t ModelType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.Name] = t
}

// Lookup returns the registered type or ErrUnknownType.
func (r *Registry) Lookup(name string) (ModelType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	if !ok {
		return ModelType{}, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	return t, nil
}

// Names returns registered type names sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.types))
	for name := range r.types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
