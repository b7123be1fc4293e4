package world

import (
	"testing"
)

type node struct {
	name    string
	updates int
}

func (n *node) Name() string        { return n.name }
func (n *node) SetName(name string) { n.name = name }
func (n *node) Update(dt float64)   { n.updates++ }

type still struct{ name string }

func (s *still) Name() string        { return s.name }
func (s *still) SetName(name string) { s.name = name }

func TestWorldLayers(t *testing.T) {
	cases := []struct {
		name   string
		adds   []int
		layers []int
	}{
		{"single", []int{0}, []int{0}},
		{"sorted", []int{3, -1, 0, 3}, []int{-1, 0, 3}},
		{"empty", nil, []int{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := New(DefaultGravity, nil)
			for i, layer := range c.adds {
				w.Add(&node{name: string(rune('a' + i))}, layer)
			}
			got := w.Layers()
			if len(got) != len(c.layers) {
				t.Fatalf("Layers() = %v, want %v", got, c.layers)
			}
			for i := range got {
				if got[i] != c.layers[i] {
					t.Fatalf("Layers() = %v, want %v", got, c.layers)
				}
			}
			if w.Len() != len(c.adds) {
				t.Fatalf("Len() = %d, want %d", w.Len(), len(c.adds))
			}
		})
	}
}

func TestWorldDrawOrderAndRemove(t *testing.T) {
	w := New(DefaultGravity, nil)
	a, b, c := &node{name: "a"}, &node{name: "b"}, &still{name: "c"}
	w.Add(a, 5)
	w.Add(b, 1)
	w.Add(c, 1)
	w.Add(a, 0)

	order := w.Instances()
	if len(order) != 3 || order[0] != b || order[1] != c || order[2] != a {
		t.Fatalf("unexpected order %v", order)
	}
	if layer, ok := w.LayerOf(a); !ok || layer != 5 {
		t.Fatalf("duplicate add must keep original layer, got %d", layer)
	}

	if !w.Remove(b) || w.Remove(b) {
		t.Fatalf("Remove should succeed once")
	}
	if got := w.InLayer(1); len(got) != 1 || got[0] != c {
		t.Fatalf("InLayer(1) = %v", got)
	}
	if _, ok := w.Find("b"); ok {
		t.Fatalf("removed instance still findable")
	}
}

func TestWorldUpdateAndReset(t *testing.T) {
	w := New(DefaultGravity, nil)
	n := &node{name: "n"}
	w.Add(n, 0)
	w.Add(&still{name: "s"}, 0)
	w.Update(1.0 / 60)
	w.Update(1.0 / 60)
	if n.updates != 2 {
		t.Fatalf("expected 2 updates, got %d", n.updates)
	}

	space := w.Space()
	if space == nil {
		t.Fatalf("expected a physics space")
	}
	w.Reset()
	if w.Len() != 0 || w.Space() == space {
		t.Fatalf("Reset must clear instances and replace the space")
	}
}

func TestCameraToScreen(t *testing.T) {
	cam := Camera{PixelsPerUnit: 10, Width: 100, Height: 50}
	x, y := cam.ToScreen(1, 1)
	if x != 60 || y != 15 {
		t.Fatalf("ToScreen(1,1) = (%v,%v)", x, y)
	}
	if cam.Scale(2) != 20 {
		t.Fatalf("Scale(2) = %v", cam.Scale(2))
	}
}
