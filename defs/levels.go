package defs

import (
	"io/fs"
	"sort"
	"strconv"
	"strings"
)

// Reserved level entity keys.
const (
	TypeKey  = "type"
	LayerKey = "layer"
)

// EntitySpec describes one instance to create when a level is loaded.
type EntitySpec struct {
	Name  string
	Pairs []Pair
}

// Type returns the actor definition the entity is created from.
func (e EntitySpec) Type() (string, bool) {
	t, ok := lookup(e.Pairs, TypeKey)
	if !ok || strings.TrimSpace(t) == "" {
		return "", false
	}
	return strings.TrimSpace(t), true
}

// Layer returns the entity's layer. A missing or non-integer value is 0.
func (e EntitySpec) Layer() int {
	raw, ok := lookup(e.Pairs, LayerKey)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

// Overrides returns the pairs applied on top of the template, without the
// type and layer keys.
func (e EntitySpec) Overrides() []Pair {
	out := make([]Pair, 0, len(e.Pairs))
	for _, p := range e.Pairs {
		if p.Key == TypeKey || p.Key == LayerKey {
			continue
		}
		out = append(out, p)
	}
	return out
}

// LevelDefinition is the ordered set of entity specs from one level file.
type LevelDefinition struct {
	Name     string
	Source   string
	Entities []EntitySpec
}

func (l LevelDefinition) clone() LevelDefinition {
	ents := make([]EntitySpec, len(l.Entities))
	for i, e := range l.Entities {
		ents[i] = EntitySpec{Name: e.Name, Pairs: clonePairs(e.Pairs)}
	}
	l.Entities = ents
	return l
}

// LevelStore holds level definitions keyed by file name.
type LevelStore struct {
	loader
	levels map[string]LevelDefinition
}

// NewLevelStore returns an empty store reading opts.Dir within fsys.
func NewLevelStore(fsys fs.FS, opts Options) *LevelStore {
	return &LevelStore{
		loader: newLoader(fsys, opts),
		levels: make(map[string]LevelDefinition),
	}
}

// LoadLevel loads the level file named name (without extension), replacing
// any previous definition of that level.
func (s *LevelStore) LoadLevel(name string) error {
	fileName, err := s.find(name)
	if err != nil {
		return err
	}
	return s.LoadFile(fileName)
}

// LoadFile loads a single level file from the store directory. The level is
// named after the file.
func (s *LevelStore) LoadFile(fileName string) error {
	sections, err := s.read(fileName)
	if err != nil {
		return err
	}
	lvl := LevelDefinition{
		Name:     baseName(fileName),
		Source:   fileName,
		Entities: make([]EntitySpec, 0, len(sections)),
	}
	for _, sec := range sections {
		lvl.Entities = append(lvl.Entities, EntitySpec{Name: sec.Name, Pairs: clonePairs(sec.Pairs)})
	}
	if prev, ok := s.levels[lvl.Name]; ok && prev.Source != fileName {
		s.logger.Warn("defs: level replaced by a different file",
			"name", lvl.Name, "previous", prev.Source, "file", fileName)
	}
	s.levels[lvl.Name] = lvl
	s.logger.Debug("defs: loaded level", "file", fileName, "entities", len(lvl.Entities))
	return nil
}

// ReloadAll loads every level file in the store directory. A failing file
// does not stop the others from loading.
func (s *LevelStore) ReloadAll() []LoadResult {
	return s.reloadAll(s.LoadFile)
}

// Get returns a copy of the named level.
func (s *LevelStore) Get(name string) (LevelDefinition, bool) {
	l, ok := s.levels[name]
	if !ok {
		return LevelDefinition{}, false
	}
	return l.clone(), true
}

// Levels returns the loaded level names in sorted order.
func (s *LevelStore) Levels() []string {
	names := make([]string, 0, len(s.levels))
	for name := range s.levels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
