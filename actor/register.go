package actor

import (
	"github.com/milk9111/actorconf/kind"
	"github.com/milk9111/actorconf/props"
)

// Built-in kind names.
const (
	KindActor        = "Actor"
	KindTextActor    = "TextActor"
	KindPhysicsActor = "PhysicsActor"
)

// Register adds the built-in kinds to r.
func Register(r *kind.Registry) error {
	base := actorTable()
	if err := kind.Register(r, KindActor, NewActor, base); err != nil {
		return err
	}
	if err := kind.Register(r, KindTextActor, NewTextActor, textTable(base)); err != nil {
		return err
	}
	return kind.Register(r, KindPhysicsActor, NewPhysicsActor, physicsTable(base))
}

// Table returns a fresh copy of the Actor property table. Kinds that embed
// Actor pass it to props.Inherit.
func Table() *props.Table {
	return actorTable()
}

// NewRegistry returns a registry holding the built-in kinds.
func NewRegistry() *kind.Registry {
	r := kind.NewRegistry()
	if err := Register(r); err != nil {
		panic(err)
	}
	return r
}
