package defs

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
)

const goblinINI = `
[Goblin]
class = Enemy
health = 100
display_name = Grunt

[Bat]
size = 0.5
color = (0.2, 0.2, 0.2)
`

func TestDecode(t *testing.T) {
	cases := []struct {
		name string
		file string
		data string
		want []Section
	}{
		{
			name: "ini_order_and_case",
			file: "a.ini",
			data: "[B]\nZed = 1\nalpha = 'x'\n[A]\nkey=v\n",
			want: []Section{
				{Name: "B", Pairs: []Pair{{"Zed", "1"}, {"alpha", "'x'"}}},
				{Name: "A", Pairs: []Pair{{"key", "v"}}},
			},
		},
		{
			name: "ini_defaults_inherited",
			file: "a.ini",
			data: "[DEFAULT]\nsize = 1\nlayer = 3\n[X]\nlayer = 2\n",
			want: []Section{
				{Name: "X", Pairs: []Pair{{"size", "1"}, {"layer", "2"}}},
			},
		},
		{
			name: "yaml_sections",
			file: "a.yaml",
			data: "Goblin:\n  class: Enemy\n  position: [1, 2]\n  tag: [enemy, \"small\"]\n  title: \"quoted\"\nEmpty:\n",
			want: []Section{
				{Name: "Goblin", Pairs: []Pair{{"class", "Enemy"}, {"position", "[1, 2]"}, {"tag", `["enemy", "small"]`}, {"title", `"quoted"`}}},
				{Name: "Empty"},
			},
		},
		{
			name: "yaml_empty",
			file: "a.yml",
			data: "\n",
			want: nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Decode(c.file, []byte(c.data))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got, c.want) {
				t.Fatalf("Decode = %#v\nwant %#v", got, c.want)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		file string
		data string
		want error
	}{
		{"unknown_ext", "a.txt", "", ErrUnsupportedFormat},
		{"yaml_list_root", "a.yaml", "- a\n- b\n", ErrSyntax},
		{"yaml_nested_map", "a.yaml", "A:\n  b:\n    c: 1\n", ErrSyntax},
		{"yaml_scalar_section", "a.yaml", "A: 3\n", ErrSyntax},
		{"ini_garbage", "a.ini", "[unterminated\n", ErrSyntax},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Decode(c.file, []byte(c.data)); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestStoreLoadAndGet(t *testing.T) {
	fsys := fstest.MapFS{
		"ActorDef/monsters.ini": {Data: []byte(goblinINI)},
	}
	s := NewStore(fsys, Options{Dir: "ActorDef"})
	if s.Loaded() {
		t.Fatalf("new store must not be loaded")
	}
	if err := s.LoadActorDefinitions("monsters"); err != nil {
		t.Fatalf("LoadActorDefinitions: %v", err)
	}
	if !s.Loaded() {
		t.Fatalf("expected store loaded")
	}

	g, ok := s.Get("Goblin")
	if !ok {
		t.Fatalf("Goblin not found")
	}
	wantPairs := []Pair{{"class", "Enemy"}, {"health", "100"}, {"display_name", "Grunt"}}
	if g.Kind != "Enemy" || g.Source != "monsters.ini" || !reflect.DeepEqual(g.Pairs, wantPairs) {
		t.Fatalf("unexpected Goblin %+v", g)
	}
	if got := g.Config(); !reflect.DeepEqual(got, wantPairs[1:]) {
		t.Fatalf("Config() = %v", got)
	}

	b, _ := s.Get("Bat")
	if b.Kind != DefaultClass {
		t.Fatalf("expected default class, got %q", b.Kind)
	}

	g.Pairs[1].Value = "1"
	again, _ := s.Get("Goblin")
	if again.Pairs[1].Value != "100" {
		t.Fatalf("Get must return a copy")
	}

	if got := s.Definitions(); !reflect.DeepEqual(got, []string{"Bat", "Goblin"}) {
		t.Fatalf("Definitions() = %v", got)
	}
}

func TestStoreNotFound(t *testing.T) {
	s := NewStore(fstest.MapFS{}, Options{Dir: "ActorDef"})
	cases := []struct {
		name string
		want error
	}{
		{"missing", ErrNotFound},
		{"", ErrInvalidName},
		{"../escape", ErrInvalidName},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := s.LoadActorDefinitions(c.name); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
	if s.Loaded() {
		t.Fatalf("failed loads must not mark the store loaded")
	}
}

func TestStoreReloadReplacesOnlyFileSections(t *testing.T) {
	fsys := fstest.MapFS{
		"ActorDef/monsters.ini": {Data: []byte(goblinINI)},
		"ActorDef/props.yaml":   {Data: []byte("Crate:\n  class: PhysicsActor\n  density: 2\n")},
	}
	s := NewStore(fsys, Options{Dir: "ActorDef"})
	for _, name := range []string{"monsters", "props"} {
		if err := s.LoadActorDefinitions(name); err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
	}

	fsys["ActorDef/monsters.ini"] = &fstest.MapFile{Data: []byte("[Goblin]\nhealth = 5\n")}
	if err := s.LoadActorDefinitions("monsters"); err != nil {
		t.Fatalf("reload: %v", err)
	}

	g, _ := s.Get("Goblin")
	if g.Kind != DefaultClass || !reflect.DeepEqual(g.Pairs, []Pair{{"health", "5"}}) {
		t.Fatalf("expected Goblin fully replaced, got %+v", g)
	}
	if _, ok := s.Get("Bat"); !ok {
		t.Fatalf("sections missing from the new file content are kept")
	}
	if c, ok := s.Get("Crate"); !ok || c.Kind != "PhysicsActor" {
		t.Fatalf("definitions from other files must be untouched, got %+v", c)
	}
}

func TestStoreReloadAllIsolatesFailures(t *testing.T) {
	fsys := fstest.MapFS{
		"ActorDef/a.ini":     {Data: []byte("[A]\nx = 1\n")},
		"ActorDef/b.yaml":    {Data: []byte("- not a mapping\n")},
		"ActorDef/c.yml":     {Data: []byte("C:\n  y: 2\n")},
		"ActorDef/notes.txt": {Data: []byte("ignored")},
	}
	s := NewStore(fsys, Options{Dir: "ActorDef"})
	results := s.ReloadAll()
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %+v", results)
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].File != "b.yaml" || !errors.Is(failed[0].Err, ErrSyntax) {
		t.Fatalf("unexpected failures %+v", failed)
	}
	for _, name := range []string{"A", "C"} {
		if _, ok := s.Get(name); !ok {
			t.Fatalf("expected %s loaded despite b.yaml failing", name)
		}
	}
}

func TestStoreReloadAllMissingDir(t *testing.T) {
	s := NewStore(fstest.MapFS{}, Options{Dir: "ActorDef"})
	results := s.ReloadAll()
	if len(results) != 1 || results[0].Err == nil {
		t.Fatalf("expected a single directory failure, got %+v", results)
	}
}

func TestLevelStore(t *testing.T) {
	fsys := fstest.MapFS{
		"Level/Level1.ini": {Data: []byte("[g1]\ntype = Goblin\nlayer = 2\nposition = (1, 2)\n[g2]\ntype = Goblin\nlayer = high\n[g3]\nlayer = 1\n")},
	}
	s := NewLevelStore(fsys, Options{Dir: "Level"})
	if err := s.LoadLevel("Level1"); err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	lvl, ok := s.Get("Level1")
	if !ok || len(lvl.Entities) != 3 {
		t.Fatalf("unexpected level %+v", lvl)
	}

	cases := []struct {
		idx       int
		name      string
		typ       string
		hasType   bool
		layer     int
		overrides []Pair
	}{
		{0, "g1", "Goblin", true, 2, []Pair{{"position", "(1, 2)"}}},
		{1, "g2", "Goblin", true, 0, []Pair{}},
		{2, "g3", "", false, 1, []Pair{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := lvl.Entities[c.idx]
			typ, ok := e.Type()
			if e.Name != c.name || typ != c.typ || ok != c.hasType || e.Layer() != c.layer {
				t.Fatalf("unexpected entity %+v type=%q ok=%v layer=%d", e, typ, ok, e.Layer())
			}
			if !reflect.DeepEqual(e.Overrides(), c.overrides) {
				t.Fatalf("Overrides() = %v, want %v", e.Overrides(), c.overrides)
			}
		})
	}

	fsys["Level/Level1.ini"] = &fstest.MapFile{Data: []byte("[only]\ntype = Bat\n")}
	if err := s.LoadLevel("Level1"); err != nil {
		t.Fatalf("reload: %v", err)
	}
	lvl2, _ := s.Get("Level1")
	if len(lvl2.Entities) != 1 || lvl2.Entities[0].Name != "only" {
		t.Fatalf("expected wholesale replacement, got %+v", lvl2)
	}
	if len(lvl.Entities) != 3 {
		t.Fatalf("earlier Get results must not change")
	}
	if err := s.LoadLevel("Nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := s.Levels(); !reflect.DeepEqual(got, []string{"Level1"}) {
		t.Fatalf("Levels() = %v", got)
	}
}

func TestLoadPrefersExtensionOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"ActorDef/dup.ini":  {Data: []byte("[FromINI]\n")},
		"ActorDef/dup.yaml": {Data: []byte("FromYAML:\n  a: 1\n")},
	}
	s := NewStore(fsys, Options{Dir: "ActorDef"})
	if err := s.LoadActorDefinitions("dup"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := s.Get("FromINI"); !ok {
		t.Fatalf("expected .ini to win")
	}
	if _, ok := s.Get("FromYAML"); ok {
		t.Fatalf("yaml file should not be loaded by name")
	}
}

func TestReloadWarnsOnNameCollision(t *testing.T) {
	cases := []struct {
		name   string
		fsys   fstest.MapFS
		reload func(fstest.MapFS, *slog.Logger) (source string)
		want   []string
	}{
		{
			name: "level",
			fsys: fstest.MapFS{
				"Level/Demo.ini":  {Data: []byte("[a]\ntype = Box\n")},
				"Level/Demo.yaml": {Data: []byte("b:\n  type: Ball\n")},
			},
			reload: func(fsys fstest.MapFS, logger *slog.Logger) string {
				s := NewLevelStore(fsys, Options{Dir: "Level", Logger: logger})
				s.ReloadAll()
				s.ReloadAll()
				lvl, _ := s.Get("Demo")
				return lvl.Source
			},
			want: []string{"level replaced by a different file", "name=Demo", "previous=Demo.ini", "file=Demo.yaml"},
		},
		{
			name: "actor",
			fsys: fstest.MapFS{
				"ActorDef/a.ini":  {Data: []byte("[Goblin]\nhealth = 1\n")},
				"ActorDef/b.yaml": {Data: []byte("Goblin:\n  health: 2\n")},
			},
			reload: func(fsys fstest.MapFS, logger *slog.Logger) string {
				s := NewStore(fsys, Options{Dir: "ActorDef", Logger: logger})
				s.ReloadAll()
				s.ReloadAll()
				def, _ := s.Get("Goblin")
				return def.Source
			},
			want: []string{"actor definition replaced by a different file", "definition=Goblin", "previous=a.ini", "file=b.yaml"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
			source := c.reload(c.fsys, logger)
			if !strings.HasSuffix(source, ".yaml") {
				t.Fatalf("expected the later file in sorted order to win, got %q", source)
			}
			out := buf.String()
			for _, want := range c.want {
				if !strings.Contains(out, want) {
					t.Fatalf("expected warning to mention %q, got %q", want, out)
				}
			}
		})
	}
}

func TestReloadSameFileIsQuiet(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	fsys := fstest.MapFS{"Level/Demo.ini": {Data: []byte("[a]\ntype = Box\n")}}
	s := NewLevelStore(fsys, Options{Dir: "Level", Logger: logger})
	for i := 0; i < 2; i++ {
		if err := s.LoadLevel("Demo"); err != nil {
			t.Fatalf("LoadLevel: %v", err)
		}
	}
	if buf.Len() != 0 {
		t.Fatalf("reloading the same file must not warn, got %q", buf.String())
	}
}
