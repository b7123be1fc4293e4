// Package kind holds the registry of instantiable kinds. A kind pairs a
// constructor with the property table used to configure its instances.
package kind

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actorconf/props"
)

var (
	ErrDuplicateKind = errors.New("kind: kind already registered")
	ErrInvalidKind   = errors.New("kind: invalid kind")
)

// Instance is a runtime object created from a definition.
type Instance interface {
	Name() string
	SetName(name string)
}

// Physical is implemented by instances that need a physics body once they
// have been added to a world.
type Physical interface {
	Instance
	InitPhysics(space *cp.Space) error
}

// Kind describes one constructible kind.
type Kind struct {
	Name  string
	New   func() Instance
	Props *props.Table
}

// Registry resolves kind names to constructible kinds.
type Registry struct {
	kinds map[string]*Kind
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]*Kind)}
}

// Register adds k to the registry.
func (r *Registry) Register(k Kind) error {
	if k.Name == "" || k.New == nil {
		return fmt.Errorf("%w: %q", ErrInvalidKind, k.Name)
	}
	if r.kinds == nil {
		r.kinds = make(map[string]*Kind)
	}
	if _, ok := r.kinds[k.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKind, k.Name)
	}
	if k.Props == nil {
		k.Props = props.NewTable()
	}
	r.kinds[k.Name] = &k
	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// package-level wiring of built-in kinds.
func (r *Registry) MustRegister(k Kind) {
	if err := r.Register(k); err != nil {
		panic(err)
	}
}

// Resolve returns the kind registered under name.
func (r *Registry) Resolve(name string) (*Kind, bool) {
	if r == nil {
		return nil, false
	}
	k, ok := r.kinds[name]
	return k, ok
}

// Names returns the registered kind names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register builds a Kind for concrete type T.
func Register[T Instance](r *Registry, name string, newFn func() T, table *props.Table) error {
	return r.Register(Kind{
		Name:  name,
		New:   func() Instance { return newFn() },
		Props: table,
	})
}
