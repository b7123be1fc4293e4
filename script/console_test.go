package script

import (
	"context"
	"testing"

	"github.com/milk9111/actorconf/actor"
	"github.com/milk9111/actorconf/defs"
	"github.com/milk9111/actorconf/factory"
	"github.com/milk9111/actorconf/level"
	"github.com/milk9111/actorconf/sample"
	"github.com/milk9111/actorconf/world"
)

func newConsole() *Console {
	actors := defs.NewStore(sample.FS, defs.Options{Dir: sample.ActorDir})
	levels := defs.NewLevelStore(sample.FS, defs.Options{Dir: sample.LevelDir})
	f := factory.New(actors, actor.NewRegistry(), nil)
	return &Console{
		Actors:  actors,
		Levels:  levels,
		Factory: f,
		Loader:  level.NewLoader(levels, f, nil),
		World:   world.New(world.DefaultGravity, nil),
	}
}

func TestConsoleScript(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		global string
		want   any
		count  int
	}{
		{
			name: "load_and_populate",
			src: `
conf := import("actorconf")
ok := conf.load_actor_defs("basics")
conf.load_actor_defs("scenery")
conf.load_level_def("Demo")
loaded := conf.load_level("Demo")
result := !is_error(ok) && !is_error(loaded)
`,
			global: "result",
			want:   true,
			count:  5,
		},
		{
			name: "missing_file_is_error_value",
			src: `
conf := import("actorconf")
result := is_error(conf.load_actor_defs("nope"))
`,
			global: "result",
			want:   true,
			count:  0,
		},
		{
			name: "reload_all_and_create",
			src: `
conf := import("actorconf")
failed := conf.reload_actor_defs()
conf.reload_level_defs()
made := conf.create("Marker", 3)
result := len(failed) == 0 && made.kind == "Actor" && made.layer == 3 && len(conf.levels()) == 2
`,
			global: "result",
			want:   true,
			count:  1,
		},
		{
			name: "create_unknown_definition",
			src: `
conf := import("actorconf")
conf.reload_actor_defs()
result := is_error(conf.create("Dragon"))
`,
			global: "result",
			want:   true,
			count:  0,
		},
		{
			name: "reset_world",
			src: `
conf := import("actorconf")
conf.reload_actor_defs()
conf.create("Marker")
conf.create("Tree")
before := conf.world_count()
conf.reset_world()
result := before == 2 && conf.world_count() == 0
`,
			global: "result",
			want:   true,
			count:  0,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			con := newConsole()
			compiled, err := con.Run(context.Background(), []byte(c.src))
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got := compiled.Get(c.global).Value(); got != c.want {
				t.Fatalf("%s = %v, want %v", c.global, got, c.want)
			}
			if con.World.Len() != c.count {
				t.Fatalf("world has %d instances, want %d", con.World.Len(), c.count)
			}
		})
	}
}

func TestConsoleArgumentErrors(t *testing.T) {
	con := newConsole()
	if _, err := con.Run(context.Background(), []byte(`conf := import("actorconf"); conf.load_level()`)); err == nil {
		t.Fatalf("expected wrong argument count to fail the script")
	}
	if _, err := con.Run(context.Background(), []byte(`conf := import("actorconf"); conf.create("Marker", "top")`)); err == nil {
		t.Fatalf("expected bad layer type to fail the script")
	}
}

func TestConsoleCreateInitializesPhysics(t *testing.T) {
	con := newConsole()
	src := `
conf := import("actorconf")
conf.reload_actor_defs()
made := conf.create("Box", 1)
`
	if _, err := con.Run(context.Background(), []byte(src)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	insts := con.World.Instances()
	if len(insts) != 1 {
		t.Fatalf("expected one instance, got %d", len(insts))
	}
	box, ok := insts[0].(*actor.PhysicsActor)
	if !ok {
		t.Fatalf("expected *actor.PhysicsActor, got %T", insts[0])
	}
	if !box.Initialized() {
		t.Fatalf("expected a body in the world's space")
	}

	y := box.Y
	for i := 0; i < 30; i++ {
		con.World.Update(1.0 / 60)
	}
	if box.Y >= y {
		t.Fatalf("expected box to fall, y %v -> %v", y, box.Y)
	}
}
