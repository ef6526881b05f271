// Package stream turns stream names from score documents into engine
// streams.
//
// A Registry maps a name to a Factory. Documents refer to streams either by
// bare name ("inverse_duration") or by a single-key mapping from the name to
// a payload ({sequence: [1, 2, 3]}); the loader passes the payload through
// untouched and the factory decodes it into whatever shape it needs.
//
// Every factory call returns a new stream with its own state, so two parts
// that name the same stream never share counters or random generators.
package stream

import (
	"errors"
	"fmt"
	"sort"

	"github.com/roach88/csgen/internal/engine"
)

var (
	// ErrUnknownStream is returned by Build for a name with no factory.
	ErrUnknownStream = errors.New("unknown stream")

	// ErrDuplicateStream is returned by Register for a name already taken.
	ErrDuplicateStream = errors.New("stream already registered")
)

// Payload is the configuration attached to a stream name. *yaml.Node
// satisfies it. A nil Payload means the stream was named without one.
type Payload interface {
	Decode(v any) error
}

// Factory builds a fresh stream from its payload.
type Factory func(p Payload) (engine.Stream, error)

// Registry maps stream names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return errors.New("stream name is empty")
	}
	if f == nil {
		return fmt.Errorf("stream %q: factory is nil", name)
	}
	if r.Has(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateStream, name)
	}
	r.factories[name] = f
	return nil
}

// MustRegister is like Register but panics on error.
// Use only for built-in registrations.
func (r *Registry) MustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Build creates a new stream named name from payload.
func (r *Registry) Build(name string, payload Payload) (engine.Stream, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStream, name)
	}
	s, err := f(payload)
	if err != nil {
		return nil, fmt.Errorf("stream %q: %w", name, err)
	}
	return s, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
