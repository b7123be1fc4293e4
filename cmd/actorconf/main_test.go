package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/milk9111/actorconf/config"
)

func TestSampleLevelsLoad(t *testing.T) {
	cases := []struct {
		level string
		count int
	}{
		{"Demo", 5},
		{"Sky", 2},
	}

	for _, c := range cases {
		t.Run(c.level, func(t *testing.T) {
			var logs bytes.Buffer
			e := wire(config.Default(), slog.New(slog.NewTextHandler(&logs, nil)), true)
			if n := e.reloadAll(); n != 0 {
				t.Fatalf("%d sample files failed to load: %s", n, logs.String())
			}
			if err := e.populate(c.level); err != nil {
				t.Fatalf("populate: %v", err)
			}
			if e.world.Len() != c.count {
				t.Fatalf("world has %d instances, want %d", e.world.Len(), c.count)
			}
			if strings.Contains(logs.String(), "level=WARN") {
				t.Fatalf("sample definitions produced warnings:\n%s", logs.String())
			}
		})
	}
}

func TestPrintWorld(t *testing.T) {
	e := wire(config.Default(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), true)
	e.reloadAll()
	if err := e.populate("Sky"); err != nil {
		t.Fatalf("populate: %v", err)
	}

	var out bytes.Buffer
	if err := printWorld(&out, e.world); err != nil {
		t.Fatalf("printWorld: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header and two instances:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[1], "cloud1") || !strings.Contains(lines[1], "(-4.00, 7.00)") {
		t.Fatalf("unexpected first row %q", lines[1])
	}
}

func TestSampleCannotBeWatched(t *testing.T) {
	e := wire(config.Default(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), true)
	if _, err := e.reloader(); err == nil {
		t.Fatalf("expected an error watching embedded definitions")
	}
}
