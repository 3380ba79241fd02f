package codegen

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrUnsupportedFormat is returned for a format no generator is registered for
var ErrUnsupportedFormat = errors.New("unsupported format")

// Registry manages available generators
type Registry struct {
	generators map[string]func(opts Options) Generator
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	r := &Registry{
		generators: make(map[string]func(opts Options) Generator),
	}
	return r
}

// Register adds a new generator factory to the registry
func (r *Registry) Register(format string, factory func(opts Options) Generator) {
	r.generators[format] = factory
}

// Get returns a generator for the specified format
func (r *Registry) Get(format string, opts Options) (Generator, error) {
	factory, exists := r.generators[format]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	return factory(opts), nil
}

// Formats returns the registered format names in sorted order
func (r *Registry) Formats() []string {
	return slices.Sorted(maps.Keys(r.generators))
}
