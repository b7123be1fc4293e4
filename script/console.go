// Package script exposes the loaders to tengo scripts, so definitions can be
// reloaded and levels populated from a console or a startup script.
package script

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/actorconf/defs"
	"github.com/milk9111/actorconf/factory"
	"github.com/milk9111/actorconf/level"
	"github.com/milk9111/actorconf/world"
)

// ModuleName is the import name scripts use: conf := import("actorconf").
const ModuleName = "actorconf"

// Console binds the stores, factory and world for scripts.
type Console struct {
	Actors  *defs.Store
	Levels  *defs.LevelStore
	Factory *factory.Factory
	Loader  *level.Loader
	World   *world.World
	Logger  *slog.Logger
}

// Run compiles and runs src with the stdlib modules and the actorconf
// module available. The compiled script is returned so callers can read
// its globals.
func (c *Console) Run(ctx context.Context, src []byte) (*tengo.Compiled, error) {
	s := tengo.NewScript(src)
	modules := stdlib.GetModuleMap(stdlib.AllModuleNames()...)
	modules.AddBuiltinModule(ModuleName, c.Module())
	s.SetImports(modules)

	compiled, err := s.RunContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	return compiled, nil
}

// Module returns the functions of the actorconf module. Structural failures
// are returned to the script as error values; check them with is_error.
func (c *Console) Module() map[string]tengo.Object {
	return map[string]tengo.Object{
		"load_actor_defs":   c.fn("load_actor_defs", 1, c.loadActorDefs),
		"load_level_def":    c.fn("load_level_def", 1, c.loadLevelDef),
		"load_level":        c.fn("load_level", 1, c.loadLevel),
		"reload_actor_defs": c.fn("reload_actor_defs", 0, c.reloadActorDefs),
		"reload_level_defs": c.fn("reload_level_defs", 0, c.reloadLevelDefs),
		"create":            c.fn("create", 1, c.create),
		"reset_world":       c.fn("reset_world", 0, c.resetWorld),
		"definitions":       c.fn("definitions", 0, c.definitions),
		"levels":            c.fn("levels", 0, c.levels),
		"world_count":       c.fn("world_count", 0, c.worldCount),
	}
}

// fn wraps impl with an argument count check. impl receives at least
// minArgs arguments.
func (c *Console) fn(name string, minArgs int, impl func(args []tengo.Object) (tengo.Object, error)) *tengo.UserFunction {
	return &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < minArgs {
			return nil, tengo.ErrWrongNumArguments
		}
		return impl(args)
	}}
}

func (c *Console) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c *Console) loadActorDefs(args []tengo.Object) (tengo.Object, error) {
	name, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	return result(c.Actors.LoadActorDefinitions(name)), nil
}

func (c *Console) loadLevelDef(args []tengo.Object) (tengo.Object, error) {
	name, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	return result(c.Levels.LoadLevel(name)), nil
}

func (c *Console) loadLevel(args []tengo.Object) (tengo.Object, error) {
	name, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	return result(c.Loader.Instantiate(name, c.World)), nil
}

func (c *Console) reloadActorDefs([]tengo.Object) (tengo.Object, error) {
	return failures(c.Actors.ReloadAll()), nil
}

func (c *Console) reloadLevelDefs([]tengo.Object) (tengo.Object, error) {
	return failures(c.Levels.ReloadAll()), nil
}

// create instantiates a definition and adds it to the world at the optional
// second argument's layer.
func (c *Console) create(args []tengo.Object) (tengo.Object, error) {
	name, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	layer := 0
	if len(args) > 1 {
		n, ok := tengo.ToInt(args[1])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "layer", Expected: "int", Found: args[1].TypeName()}
		}
		layer = n
	}

	inst, k, err := c.Factory.CreateKind(name)
	if err != nil {
		return errorObject(err), nil
	}
	if err := c.Loader.Place(inst, layer, c.World); err != nil {
		return errorObject(err), nil
	}
	c.logger().Debug("script: created instance", "definition", name, "kind", k.Name, "layer", layer)
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"definition": &tengo.String{Value: name},
		"kind":       &tengo.String{Value: k.Name},
		"layer":      &tengo.Int{Value: int64(layer)},
	}}, nil
}

func (c *Console) resetWorld([]tengo.Object) (tengo.Object, error) {
	c.World.Reset()
	return tengo.UndefinedValue, nil
}

func (c *Console) definitions([]tengo.Object) (tengo.Object, error) {
	return stringArray(c.Actors.Definitions()), nil
}

func (c *Console) levels([]tengo.Object) (tengo.Object, error) {
	return stringArray(c.Levels.Levels()), nil
}

func (c *Console) worldCount([]tengo.Object) (tengo.Object, error) {
	return &tengo.Int{Value: int64(c.World.Len())}, nil
}

func stringArg(args []tengo.Object, i int) (string, error) {
	s, ok := tengo.ToString(args[i])
	if !ok {
		return "", tengo.ErrInvalidArgumentType{Name: fmt.Sprintf("arg %d", i), Expected: "string", Found: args[i].TypeName()}
	}
	return s, nil
}

func result(err error) tengo.Object {
	if err != nil {
		return errorObject(err)
	}
	return tengo.TrueValue
}

func errorObject(err error) tengo.Object {
	return &tengo.Error{Value: &tengo.String{Value: err.Error()}}
}

func failures(results []defs.LoadResult) tengo.Object {
	out := &tengo.Array{}
	for _, r := range defs.Failed(results) {
		out.Value = append(out.Value, &tengo.ImmutableMap{Value: map[string]tengo.Object{
			"file":  &tengo.String{Value: r.File},
			"error": &tengo.String{Value: r.Err.Error()},
		}})
	}
	return out
}

func stringArray(items []string) tengo.Object {
	out := &tengo.Array{Value: make([]tengo.Object, 0, len(items))}
	for _, s := range items {
		out.Value = append(out.Value, &tengo.String{Value: s})
	}
	return out
}
