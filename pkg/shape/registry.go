package shape

import (
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
)

// Factory produces a fresh shape for the registered name.
type Factory func(name string) *Shape

// Bag returns a factory for untyped shapes seeded with a copy of defaults.
func Bag(defaults map[string]any) Factory {
	seed := maps.Clone(defaults)
	return func(name string) *Shape {
		s := newUntyped(name)
		for key, value := range seed {
			s.properties[key] = value
		}
		return s
	}
}

// Model returns a factory for shapes carrying a *T payload. The zero value is
// passed through defaults when it is non-nil.
func Model[T any](defaults func(*T)) Factory {
	return func(name string) *Shape {
		payload := new(T)
		if defaults != nil {
			defaults(payload)
		}
		return newTyped(name, payload)
	}
}

// Registry stores shape factories by name, providing discovery and
// duplication safeguards.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register associates a factory with a unique shape name.
func (r *Registry) Register(name string, factory Factory) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("shape: name is required")
	}
	if factory == nil {
		return fmt.Errorf("shape: factory for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRegistration, name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Create builds a new instance of the named shape without customization.
func (r *Registry) Create(name string) (*Shape, error) {
	factory, err := r.factory(name)
	if err != nil {
		return nil, err
	}
	return build(name, factory), nil
}

// CreateAs builds the named shape with a *T payload, running configure on it
// before returning. Errors returned by configure are passed through as is.
func CreateAs[T any](r *Registry, name string, configure func(*T) error) (*Shape, error) {
	factory, err := r.factory(name)
	if err != nil {
		return nil, err
	}

	s := build(name, factory)

	var payload *T
	switch s.kind {
	case KindTyped:
		typed, ok := s.payload.(*T)
		if !ok {
			return nil, fmt.Errorf("%w: %q has %T, want *%T", ErrPayloadType, name, s.payload, *new(T))
		}
		payload = typed
	default:
		payload = new(T)
		s.kind = KindTyped
		s.properties = nil
		s.payload = payload
	}

	if configure != nil {
		if err := configure(payload); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Names returns a sorted list of registered shape names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a shape is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[strings.TrimSpace(name)]
	return ok
}

func (r *Registry) factory(name string) (Factory, error) {
	if r == nil {
		return nil, fmt.Errorf("shape: registry is nil")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, name)
	}
	return factory, nil
}

func build(name string, factory Factory) *Shape {
	name = strings.TrimSpace(name)
	s := factory(name)
	if s == nil {
		return newUntyped(name)
	}
	s.name = name
	if s.kind == KindUntyped && s.properties == nil {
		s.properties = make(map[string]any)
	}
	return s
}
