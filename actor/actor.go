// Package actor provides the built-in instantiable kinds and their property
// tables: Actor, TextActor and PhysicsActor.
package actor

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/actorconf/props"
	"github.com/milk9111/actorconf/world"
)

var (
	ErrInvalidSize  = errors.New("actor: size must be positive")
	ErrInvalidShape = errors.New("actor: unknown draw shape")
)

// DrawShape selects how an actor without a sprite is drawn.
type DrawShape string

const (
	DrawSquare DrawShape = "square"
	DrawCircle DrawShape = "circle"
)

// Actor is the base kind. Other kinds embed it.
type Actor struct {
	name string
	tags []string

	X, Y          float64
	Width, Height float64
	Rotation      float64
	Color         color.NRGBA
	Sprite        string
	Shape         DrawShape
}

// NewActor returns an actor with unit size drawn as a white square.
func NewActor() *Actor {
	a := &Actor{}
	a.init()
	return a
}

func (a *Actor) init() {
	a.Width, a.Height = 1, 1
	a.Color = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	a.Shape = DrawSquare
}

func (a *Actor) Name() string        { return a.name }
func (a *Actor) SetName(name string) { a.name = name }

// Position returns the actor's center in world units.
func (a *Actor) Position() (float64, float64) { return a.X, a.Y }

func (a *Actor) SetPosition(x, y float64) error {
	a.X, a.Y = x, y
	return nil
}

// SetSize takes either a single uniform size or a width and height.
func (a *Actor) SetSize(dims ...float64) error {
	w, h := dims[0], dims[0]
	if len(dims) > 1 {
		h = dims[1]
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSize, dims)
	}
	a.Width, a.Height = w, h
	return nil
}

// SetRotation sets rotation in degrees.
func (a *Actor) SetRotation(deg float64) error {
	a.Rotation = deg
	return nil
}

func (a *Actor) SetColor(v any) error {
	c, err := ParseColor(v)
	if err != nil {
		return err
	}
	a.Color = c
	return nil
}

// SetAlpha replaces only the alpha channel. alpha is in the 0..1 range.
func (a *Actor) SetAlpha(alpha float64) error {
	if alpha < 0 || alpha > 1 {
		return fmt.Errorf("%w: alpha %v", ErrInvalidColor, alpha)
	}
	a.Color.A = uint8(alpha*255 + 0.5)
	return nil
}

func (a *Actor) SetSprite(path string) error {
	a.Sprite = path
	return nil
}

func (a *Actor) SetDrawShape(shape string) error {
	s := DrawShape(strings.ToLower(strings.TrimSpace(shape)))
	if s != DrawSquare && s != DrawCircle {
		return fmt.Errorf("%w: %q", ErrInvalidShape, shape)
	}
	a.Shape = s
	return nil
}

// Tag adds tags. Each argument may hold several comma-separated tags.
func (a *Actor) Tag(tags ...string) error {
	for _, group := range tags {
		for _, t := range strings.Split(group, ",") {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" || a.IsTagged(t) {
				continue
			}
			a.tags = append(a.tags, t)
		}
	}
	return nil
}

// Tags returns the actor's tags in the order they were added.
func (a *Actor) Tags() []string {
	return append([]string(nil), a.tags...)
}

func (a *Actor) IsTagged(tag string) bool {
	tag = strings.ToLower(tag)
	for _, t := range a.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Render draws the actor as a filled square or circle. Sprites are drawn by
// the host; an actor with a sprite still renders its bounds.
func (a *Actor) Render(screen *ebiten.Image, cam world.Camera) {
	x, y := cam.ToScreen(a.X, a.Y)
	switch a.Shape {
	case DrawCircle:
		r := cam.Scale(math.Min(a.Width, a.Height) / 2)
		vector.FillCircle(screen, x, y, r, a.Color, true)
	default:
		w, h := cam.Scale(a.Width), cam.Scale(a.Height)
		vector.FillRect(screen, x-w/2, y-h/2, w, h, a.Color, false)
	}
}

func actorTable() *props.Table {
	return props.NewTable(
		props.Method("SetName", func(a *Actor, name string) error { a.SetName(name); return nil }),
		props.Method2("SetPosition", (*Actor).SetPosition),
		props.Variadic("SetSize", 1, 2, (*Actor).SetSize),
		props.Method("SetRotation", (*Actor).SetRotation),
		props.Method("SetColor", (*Actor).SetColor),
		props.Method("SetAlpha", (*Actor).SetAlpha),
		props.Method("SetSprite", (*Actor).SetSprite),
		props.Method("SetDrawShape", (*Actor).SetDrawShape),
		props.Variadic("Tag", 1, -1, (*Actor).Tag),
	)
}
