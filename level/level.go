// Package level populates a world from a loaded level definition.
package level

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actorconf/defs"
	"github.com/milk9111/actorconf/factory"
	"github.com/milk9111/actorconf/kind"
)

var (
	ErrUnknownLevel   = errors.New("level: level definition not loaded")
	ErrMissingType    = errors.New("level: entity has no type specified")
	ErrNoPhysicsSpace = errors.New("level: world has no physics space")
	ErrInitPhysics    = errors.New("level: physics initialization failed")
)

// World receives created instances. It owns them from then on.
type World interface {
	Add(inst kind.Instance, layer int)
}

// PhysicsHost is implemented by worlds that can simulate physics-capable
// instances.
type PhysicsHost interface {
	Space() *cp.Space
}

// Remover is implemented by worlds that can take back an added instance.
type Remover interface {
	Remove(inst kind.Instance) bool
}

// Levels is the read side of a level store.
type Levels interface {
	Get(name string) (defs.LevelDefinition, bool)
}

// Loader instantiates the entities of a level into a world.
type Loader struct {
	levels  Levels
	factory *factory.Factory
	logger  *slog.Logger
}

func NewLoader(levels Levels, f *factory.Factory, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{levels: levels, factory: f, logger: logger}
}

// Instantiate creates every entity of levelName in file order and adds it
// to world at its layer. Every entity must name a type; that is checked
// before anything is created. Any other failure aborts the remaining
// entities and is returned, leaving earlier entities in world.
func (l *Loader) Instantiate(levelName string, world World) error {
	lvl, ok := l.levels.Get(levelName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLevel, levelName)
	}
	types := make([]string, len(lvl.Entities))
	for i, spec := range lvl.Entities {
		t, ok := spec.Type()
		if !ok {
			return fmt.Errorf("%w: level %q: actor %q", ErrMissingType, levelName, spec.Name)
		}
		types[i] = t
	}

	for i, spec := range lvl.Entities {
		if err := l.instantiate(spec, types[i], world); err != nil {
			return fmt.Errorf("level: %q: entity %q: %w", levelName, spec.Name, err)
		}
	}
	l.logger.Debug("level: loaded", "level", levelName, "entities", len(lvl.Entities))
	return nil
}

func (l *Loader) instantiate(spec defs.EntitySpec, typ string, world World) error {
	inst, k, err := l.factory.CreateKind(typ)
	if err != nil {
		return err
	}
	inst.SetName(spec.Name)
	for _, p := range spec.Overrides() {
		l.factory.Apply(k, inst, p.Key, p.Value)
	}

	return l.Place(inst, spec.Layer(), world)
}

// Place hands inst to world at layer. A physics-capable instance needs a
// world that is a PhysicsHost; that is checked before the hand-off, and
// physics is initialized right after it. If initialization fails the
// instance is taken back out of worlds that implement Remover.
func (l *Loader) Place(inst kind.Instance, layer int, world World) error {
	phys, physical := inst.(kind.Physical)
	var space *cp.Space
	if physical {
		host, ok := world.(PhysicsHost)
		if !ok || host.Space() == nil {
			return ErrNoPhysicsSpace
		}
		space = host.Space()
	}

	world.Add(inst, layer)
	if !physical {
		return nil
	}
	if err := phys.InitPhysics(space); err != nil {
		if r, ok := world.(Remover); ok {
			r.Remove(inst)
		}
		return fmt.Errorf("%w: %w", ErrInitPhysics, err)
	}
	return nil
}
