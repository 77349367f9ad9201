package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/fxgraph/internal/node"
)

// ErrUnknownNodeType is returned by Create for names nobody registered.
var ErrUnknownNodeType = errors.New("unknown node type")

// Module is the interface that all node modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Constructor builds a fresh node with its slots declared.
type Constructor func() node.Node

// Registry holds the node constructors for a single application instance.
type Registry struct {
	constructors map[string]Constructor
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// Register binds a type name to its constructor.
func (r *Registry) Register(typeName string, fn Constructor) {
	if _, exists := r.constructors[typeName]; exists {
		panic(fmt.Sprintf("node type with name '%s' already registered", typeName))
	}
	slog.Debug("Registering node type.", "type", typeName)
	r.constructors[typeName] = fn
}

// Use registers every module in order.
func (r *Registry) Use(modules ...Module) *Registry {
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Create returns a new node of the named type.
func (r *Registry) Create(typeName string) (node.Node, error) {
	fn, ok := r.constructors[typeName]
	if !ok {
		return nil, fmt.Errorf("%q: %w", typeName, ErrUnknownNodeType)
	}
	return fn(), nil
}

// Has reports whether typeName is registered.
func (r *Registry) Has(typeName string) bool {
	_, ok := r.constructors[typeName]
	return ok
}

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
