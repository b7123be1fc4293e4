package defs

import (
	"io/fs"
	"sort"
)

// Reserved actor definition keys.
const (
	ClassKey     = "class"
	DefaultClass = "Actor"
)

// ActorDefinition is a named template: the kind to instantiate and the raw
// configuration pairs in file order. Pairs include the class key, if the
// file declared one.
type ActorDefinition struct {
	Name   string
	Kind   string
	Source string
	Pairs  []Pair
}

// Config returns the pairs to apply to an instance, without the class key.
func (d ActorDefinition) Config() []Pair {
	out := make([]Pair, 0, len(d.Pairs))
	for _, p := range d.Pairs {
		if p.Key == ClassKey {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Lookup returns the raw value of key.
func (d ActorDefinition) Lookup(key string) (string, bool) {
	return lookup(d.Pairs, key)
}

func (d ActorDefinition) clone() ActorDefinition {
	d.Pairs = clonePairs(d.Pairs)
	return d
}

// Store holds actor definitions keyed by section name. A definition file
// loaded again replaces the sections it declares; sections loaded from other
// files stay untouched.
type Store struct {
	loader
	defs   map[string]ActorDefinition
	loaded bool
}

// NewStore returns an empty store reading opts.Dir within fsys.
func NewStore(fsys fs.FS, opts Options) *Store {
	return &Store{
		loader: newLoader(fsys, opts),
		defs:   make(map[string]ActorDefinition),
	}
}

// LoadActorDefinitions loads the file named name (without extension) from
// the store directory.
func (s *Store) LoadActorDefinitions(name string) error {
	fileName, err := s.find(name)
	if err != nil {
		return err
	}
	return s.LoadFile(fileName)
}

// LoadFile loads a single definition file from the store directory.
func (s *Store) LoadFile(fileName string) error {
	sections, err := s.read(fileName)
	if err != nil {
		return err
	}

	for _, sec := range sections {
		class, ok := sec.Lookup(ClassKey)
		if !ok || class == "" {
			class = DefaultClass
		}
		if prev, ok := s.defs[sec.Name]; ok && prev.Source != fileName {
			s.logger.Warn("defs: actor definition replaced by a different file",
				"definition", sec.Name, "previous", prev.Source, "file", fileName)
		}
		s.defs[sec.Name] = ActorDefinition{
			Name:   sec.Name,
			Kind:   class,
			Source: fileName,
			Pairs:  clonePairs(sec.Pairs),
		}
	}
	s.loaded = true
	s.logger.Debug("defs: loaded actor definitions", "file", fileName, "count", len(sections))
	return nil
}

// ReloadAll loads every definition file in the store directory. A failing
// file does not stop the others from loading.
func (s *Store) ReloadAll() []LoadResult {
	return s.reloadAll(s.LoadFile)
}

// Get returns a copy of the named definition.
func (s *Store) Get(name string) (ActorDefinition, bool) {
	d, ok := s.defs[name]
	if !ok {
		return ActorDefinition{}, false
	}
	return d.clone(), true
}

// Loaded reports whether any definition file has been loaded successfully.
func (s *Store) Loaded() bool {
	return s.loaded
}

// Definitions returns the loaded definition names in sorted order.
func (s *Store) Definitions() []string {
	names := make([]string, 0, len(s.defs))
	for name := range s.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
