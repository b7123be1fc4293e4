package actor

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/actorconf/props"
	"github.com/milk9111/actorconf/world"
)

// Alignment is the horizontal alignment of a TextActor.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// debugGlyphWidth is the advance of ebitenutil's debug font.
const debugGlyphWidth = 6

// TextActor draws a string at its position.
type TextActor struct {
	Actor

	Text      string
	Font      string
	Alignment Alignment
}

func NewTextActor() *TextActor {
	t := &TextActor{Font: "Console", Alignment: AlignLeft}
	t.init()
	return t
}

func (t *TextActor) SetDisplayString(s string) error {
	t.Text = s
	return nil
}

func (t *TextActor) SetAlignment(a string) error {
	al := Alignment(strings.ToLower(strings.TrimSpace(a)))
	switch al {
	case AlignLeft, AlignCenter, AlignRight:
		t.Alignment = al
		return nil
	}
	return fmt.Errorf("actor: unknown alignment %q", a)
}

func (t *TextActor) Render(screen *ebiten.Image, cam world.Camera) {
	x, y := cam.ToScreen(t.X, t.Y)
	width := float32(len(t.Text) * debugGlyphWidth)
	switch t.Alignment {
	case AlignCenter:
		x -= width / 2
	case AlignRight:
		x -= width
	}
	ebitenutil.DebugPrintAt(screen, t.Text, int(x), int(y))
}

func textTable(base *props.Table) *props.Table {
	return props.Inherit(base, func(t *TextActor) *Actor { return &t.Actor }).Add(
		props.Field("Text", func(t *TextActor) *string { return &t.Text }),
		props.Field("Font", func(t *TextActor) *string { return &t.Font }),
		props.Method("SetDisplayString", (*TextActor).SetDisplayString),
		props.Method("SetAlignment", (*TextActor).SetAlignment),
	)
}
