package defs

import (
	"bytes"
	"fmt"
	"path"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// DefaultExtensions lists the definition file extensions scanned by
// ReloadAll, in the order LoadX tries them for a bare name.
var DefaultExtensions = []string{".ini", ".yaml", ".yml"}

// Pair is one raw key/value entry of a section.
type Pair struct {
	Key   string
	Value string
}

// Section is one named block of a definition file.
type Section struct {
	Name  string
	Pairs []Pair
}

// Lookup returns the value stored under key.
func (s Section) Lookup(key string) (string, bool) {
	return lookup(s.Pairs, key)
}

func lookup(pairs []Pair, key string) (string, bool) {
	for _, p := range pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

func clonePairs(pairs []Pair) []Pair {
	return append([]Pair(nil), pairs...)
}

// set replaces the value of an existing key in place or appends it.
func set(pairs []Pair, key, value string) []Pair {
	for i := range pairs {
		if pairs[i].Key == key {
			pairs[i].Value = value
			return pairs
		}
	}
	return append(pairs, Pair{Key: key, Value: value})
}

// Decode parses data according to the extension of fileName.
func Decode(fileName string, data []byte) ([]Section, error) {
	switch strings.ToLower(path.Ext(fileName)) {
	case ".ini":
		return decodeINI(data)
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, fileName)
	}
}

// decodeINI keeps section and key order and key case. Keys in the DEFAULT
// section are inherited by every other section unless overridden.
func decodeINI(data []byte) ([]Section, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		PreserveSurroundedQuote:  true,
		SpaceBeforeInlineComment: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	var defaults []Pair
	if sec, err := f.GetSection(ini.DefaultSection); err == nil {
		for _, k := range sec.Keys() {
			defaults = append(defaults, Pair{Key: k.Name(), Value: k.Value()})
		}
	}

	var out []Section
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		pairs := clonePairs(defaults)
		for _, k := range sec.Keys() {
			pairs = set(pairs, k.Name(), k.Value())
		}
		out = append(out, Section{Name: sec.Name(), Pairs: pairs})
	}
	return out, nil
}

// decodeYAML reads a mapping of section name to a mapping of scalar values.
// Sequence values are flattened to bracketed literals.
func decodeYAML(data []byte) ([]Section, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: top level must be a mapping", ErrSyntax, root.Line)
	}

	var out []Section
	for i := 0; i+1 < len(root.Content); i += 2 {
		name, body := root.Content[i], root.Content[i+1]
		sec := Section{Name: name.Value}
		switch body.Kind {
		case yaml.MappingNode:
		case yaml.ScalarNode:
			if body.Tag == "!!null" {
				out = append(out, sec)
				continue
			}
			fallthrough
		default:
			return nil, fmt.Errorf("%w: line %d: section %q must be a mapping", ErrSyntax, body.Line, name.Value)
		}
		for j := 0; j+1 < len(body.Content); j += 2 {
			key, val := body.Content[j], body.Content[j+1]
			raw, err := yamlLiteral(val)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %s.%s: %v", ErrSyntax, val.Line, name.Value, key.Value, err)
			}
			sec.Pairs = set(sec.Pairs, key.Value, raw)
		}
		out = append(out, sec)
	}
	return out, nil
}

func yamlLiteral(n *yaml.Node) (string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
			return strconv.Quote(n.Value), nil
		}
		return n.Value, nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			s, err := yamlLiteral(c)
			if err != nil {
				return "", err
			}
			if c.Kind == yaml.ScalarNode && c.Tag == "!!str" && c.Style == 0 {
				s = strconv.Quote(s)
			}
			items = append(items, s)
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	case yaml.AliasNode:
		return yamlLiteral(n.Alias)
	default:
		return "", fmt.Errorf("unsupported value kind %v", n.Kind)
	}
}
