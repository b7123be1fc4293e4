// Package world is an in-process container for created instances. It owns
// instance lifetime after hand-off, keeps them ordered by layer, steps a
// chipmunk space and dispatches per-frame update and draw calls.
package world

import (
	"log/slog"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/actorconf/kind"
)

// DefaultGravity is the vertical gravity applied to new spaces. The world is
// y-up, so gravity pulls towards negative y.
const DefaultGravity = -4.0

// Updater is implemented by instances that advance each frame.
type Updater interface {
	Update(dt float64)
}

// Renderer is implemented by instances that draw themselves.
type Renderer interface {
	Render(screen *ebiten.Image, cam Camera)
}

// World owns added instances grouped by layer.
type World struct {
	layers  map[int][]kind.Instance
	space   *cp.Space
	gravity float64
	logger  *slog.Logger

	Camera Camera
}

// New creates an empty world with a fresh physics space.
func New(gravity float64, logger *slog.Logger) *World {
	if logger == nil {
		logger = slog.Default()
	}
	w := &World{
		gravity: gravity,
		logger:  logger,
		Camera:  DefaultCamera(),
	}
	w.Reset()
	return w
}

// Reset removes every instance and replaces the physics space.
func (w *World) Reset() {
	w.layers = make(map[int][]kind.Instance)
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: w.gravity})
	w.space = space
}

// Add registers inst at layer. Adding the same instance twice is a no-op.
func (w *World) Add(inst kind.Instance, layer int) {
	if w == nil || inst == nil {
		return
	}
	if _, ok := w.LayerOf(inst); ok {
		w.logger.Warn("world: instance already added", "name", inst.Name())
		return
	}
	if w.layers == nil {
		w.layers = make(map[int][]kind.Instance)
	}
	w.layers[layer] = append(w.layers[layer], inst)
}

// Releaser is implemented by instances that hold objects in the physics
// space and must take them out when removed.
type Releaser interface {
	ReleasePhysics(space *cp.Space)
}

// Remove drops inst from the world and releases its physics objects. It
// reports whether inst was present.
func (w *World) Remove(inst kind.Instance) bool {
	layer, ok := w.LayerOf(inst)
	if !ok {
		return false
	}
	if r, ok := inst.(Releaser); ok {
		r.ReleasePhysics(w.space)
	}
	list := w.layers[layer]
	for i, other := range list {
		if other == inst {
			w.layers[layer] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(w.layers[layer]) == 0 {
		delete(w.layers, layer)
	}
	return true
}

// LayerOf returns the layer inst was added at.
func (w *World) LayerOf(inst kind.Instance) (int, bool) {
	if w == nil {
		return 0, false
	}
	for layer, list := range w.layers {
		for _, other := range list {
			if other == inst {
				return layer, true
			}
		}
	}
	return 0, false
}

// Layers returns the occupied layers in ascending order.
func (w *World) Layers() []int {
	layers := make([]int, 0, len(w.layers))
	for layer := range w.layers {
		layers = append(layers, layer)
	}
	sort.Ints(layers)
	return layers
}

// InLayer returns the instances at layer in insertion order.
func (w *World) InLayer(layer int) []kind.Instance {
	return append([]kind.Instance(nil), w.layers[layer]...)
}

// Instances returns every instance in draw order: ascending layer, then
// insertion order.
func (w *World) Instances() []kind.Instance {
	var out []kind.Instance
	for _, layer := range w.Layers() {
		out = append(out, w.layers[layer]...)
	}
	return out
}

// Find returns the first instance named name in draw order.
func (w *World) Find(name string) (kind.Instance, bool) {
	for _, inst := range w.Instances() {
		if inst.Name() == name {
			return inst, true
		}
	}
	return nil, false
}

// Len returns the number of instances in the world.
func (w *World) Len() int {
	n := 0
	for _, list := range w.layers {
		n += len(list)
	}
	return n
}

// Space returns the physics space physics-capable instances attach to.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// Update steps physics by dt and then updates every instance in draw order.
func (w *World) Update(dt float64) {
	if w == nil {
		return
	}
	if dt > 0 {
		w.space.Step(dt)
	}
	for _, inst := range w.Instances() {
		if u, ok := inst.(Updater); ok {
			u.Update(dt)
		}
	}
}

// Draw renders every instance in draw order.
func (w *World) Draw(screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	for _, inst := range w.Instances() {
		if r, ok := inst.(Renderer); ok {
			r.Render(screen, w.Camera)
		}
	}
}
