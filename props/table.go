// Package props maps configuration keys onto the settable properties of a
// kind. Every kind registers a Table of typed setters, and Resolver walks a
// fixed set of candidate names across that table.
package props

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnresolved = errors.New("props: no method or field matched")
	ErrArity      = errors.New("props: wrong number of arguments")
	ErrType       = errors.New("props: argument type mismatch")
	ErrTarget     = errors.New("props: target does not belong to table")
)

// Mode tells whether a property behaves like an invocable setter or a plain
// assignable field.
type Mode int

const (
	ModeField Mode = iota
	ModeMethod
)

func (m Mode) String() string {
	switch m {
	case ModeField:
		return "field"
	case ModeMethod:
		return "method"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Property is a single named entry in a Table.
type Property struct {
	Name string
	Mode Mode
	set  func(target any, args []any) error
}

// Valid reports whether p was built by one of the constructors.
func (p Property) Valid() bool {
	return p.Name != "" && p.set != nil
}

// Invoke calls the setter with args as positional arguments.
func (p Property) Invoke(target any, args ...any) error {
	if p.set == nil {
		return fmt.Errorf("props: %s: %w", p.Name, ErrArity)
	}
	return p.set(target, args)
}

// Apply sets value on target. A method first receives value as a single
// argument and, if that fails and value is a sequence, receives the
// sequence elements spread as positional arguments.
func (p Property) Apply(target any, value any) error {
	err := p.Invoke(target, value)
	if err == nil || p.Mode == ModeField {
		return err
	}
	seq, ok := value.([]any)
	if !ok {
		return err
	}
	if spreadErr := p.Invoke(target, seq...); spreadErr != nil {
		return fmt.Errorf("%w; spread: %w", err, spreadErr)
	}
	return nil
}

// Table is the static property table of one kind. Later additions with an
// existing name replace the earlier entry.
type Table struct {
	props map[string]Property
}

// NewTable builds a table from props.
func NewTable(props ...Property) *Table {
	t := &Table{props: make(map[string]Property, len(props))}
	return t.Add(props...)
}

// Add registers props on t and returns t for chaining.
func (t *Table) Add(props ...Property) *Table {
	if t.props == nil {
		t.props = make(map[string]Property, len(props))
	}
	for _, p := range props {
		if !p.Valid() {
			continue
		}
		t.props[p.Name] = p
	}
	return t
}

// Lookup returns the property registered under name.
func (t *Table) Lookup(name string) (Property, bool) {
	if t == nil {
		return Property{}, false
	}
	p, ok := t.props[name]
	return p, ok
}

// Names returns the registered property names in sorted order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.props))
	for name := range t.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered properties.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.props)
}

// Inherit returns a new table for kind T holding every property of parent,
// rebound through base. It is how a kind that embeds another kind picks up
// the embedded kind's properties before adding its own.
func Inherit[T, P any](parent *Table, base func(T) P) *Table {
	child := NewTable()
	if parent == nil {
		return child
	}
	for name, p := range parent.props {
		inner := p.set
		child.props[name] = Property{
			Name: p.Name,
			Mode: p.Mode,
			set: func(target any, args []any) error {
				t, ok := target.(T)
				if !ok {
					return fmt.Errorf("props: %s: %w", name, ErrTarget)
				}
				return inner(base(t), args)
			},
		}
	}
	return child
}
