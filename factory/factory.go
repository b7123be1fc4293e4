// Package factory instantiates actors from loaded definitions.
package factory

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/milk9111/actorconf/defs"
	"github.com/milk9111/actorconf/kind"
	"github.com/milk9111/actorconf/props"
)

var (
	ErrNotLoaded         = errors.New("factory: no actor definitions loaded")
	ErrUnknownDefinition = errors.New("factory: actor definition not loaded")
	ErrUnknownKind       = errors.New("factory: no kind registered under class name")
)

// Definitions is the read side of a definition store.
type Definitions interface {
	Loaded() bool
	Get(name string) (defs.ActorDefinition, bool)
}

// Factory creates instances from actor definitions. The returned instance
// is not added to any world; the caller hands it off.
type Factory struct {
	defs     Definitions
	kinds    *kind.Registry
	resolver *props.Resolver
	logger   *slog.Logger
}

// New returns a factory reading definitions from d and kinds from kinds.
func New(d Definitions, kinds *kind.Registry, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		defs:     d,
		kinds:    kinds,
		resolver: props.NewResolver(logger),
		logger:   logger,
	}
}

// Create instantiates the kind declared by the named definition and applies
// its configuration pairs in file order. Keys that match no property are
// logged and skipped.
func (f *Factory) Create(definitionName string) (kind.Instance, error) {
	inst, _, err := f.create(definitionName)
	return inst, err
}

// CreateKind is like Create but also returns the resolved kind.
func (f *Factory) CreateKind(definitionName string) (kind.Instance, *kind.Kind, error) {
	return f.create(definitionName)
}

func (f *Factory) create(definitionName string) (kind.Instance, *kind.Kind, error) {
	if f.defs == nil || !f.defs.Loaded() {
		f.logger.Warn("factory: no actor definitions loaded", "definition", definitionName)
		return nil, nil, ErrNotLoaded
	}
	def, ok := f.defs.Get(definitionName)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDefinition, definitionName)
	}
	k, ok := f.kinds.Resolve(def.Kind)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q (definition %q)", ErrUnknownKind, def.Kind, definitionName)
	}

	inst := k.New()
	for _, p := range def.Config() {
		f.apply(k, inst, p, "definition", definitionName)
	}
	return inst, k, nil
}

// Apply resolves one pair against an instance of kind k. It is used by the
// level loader for per-instance overrides.
func (f *Factory) Apply(k *kind.Kind, inst kind.Instance, key, value string) bool {
	return f.apply(k, inst, defs.Pair{Key: key, Value: value}, "instance", inst.Name())
}

func (f *Factory) apply(k *kind.Kind, inst kind.Instance, p defs.Pair, scope, name string) bool {
	ok, err := f.resolver.Apply(k.Props, inst, p.Key, p.Value)
	if ok {
		return true
	}
	var rerr *props.ResolutionError
	if !errors.As(err, &rerr) {
		rerr = &props.ResolutionError{Key: p.Key, Candidates: props.Candidates(p.Key)}
	}
	if rerr.Rejected != nil {
		f.logger.Warn("factory: every candidate rejected value",
			scope, name, "kind", k.Name, "key", p.Key, "value", p.Value,
			"candidates", rerr.Candidates[:], "err", rerr.Rejected)
		return false
	}
	f.logger.Warn("factory: no method or field found",
		scope, name, "kind", k.Name, "key", p.Key, "candidates", rerr.Candidates[:])
	return false
}
