// Package defs loads actor and level definition files. Definitions are
// replaced wholesale on reload and never mutated otherwise, so instances
// already created from an older definition are unaffected.
package defs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"sort"
	"strings"
)

var (
	ErrNotFound          = errors.New("defs: definition file not found")
	ErrSyntax            = errors.New("defs: malformed definition file")
	ErrUnsupportedFormat = errors.New("defs: unsupported definition file format")
	ErrInvalidName       = errors.New("defs: invalid definition name")
)

// Options configures where a store reads its files from.
type Options struct {
	// Dir is the directory inside the store's file system, e.g. "ActorDef".
	Dir string
	// Extensions overrides DefaultExtensions.
	Extensions []string
	Logger     *slog.Logger
}

// LoadResult reports the outcome of loading one file during ReloadAll.
type LoadResult struct {
	File string
	Name string
	Err  error
}

// Failed returns the results that carry an error.
func Failed(results []LoadResult) []LoadResult {
	var out []LoadResult
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// loader holds the file system plumbing shared by both stores.
type loader struct {
	fsys   fs.FS
	dir    string
	exts   []string
	logger *slog.Logger
}

func newLoader(fsys fs.FS, opts Options) loader {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return loader{
		fsys:   fsys,
		dir:    opts.Dir,
		exts:   slices.Clone(exts),
		logger: logger,
	}
}

// Dir returns the directory scanned by the store.
func (l *loader) Dir() string {
	return l.dir
}

func (l *loader) supported(fileName string) bool {
	ext := strings.ToLower(path.Ext(fileName))
	return slices.Contains(l.exts, ext)
}

// find returns the first existing file for name, trying each extension in
// order.
func (l *loader) find(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	var tried []string
	for _, ext := range l.exts {
		fileName := name + ext
		p := path.Join(l.dir, fileName)
		if _, err := fs.Stat(l.fsys, p); err == nil {
			return fileName, nil
		}
		tried = append(tried, p)
	}
	return "", fmt.Errorf("%w: couldn't find %s", ErrNotFound, strings.Join(tried, " or "))
}

// read decodes fileName, which is relative to the store directory.
func (l *loader) read(fileName string) ([]Section, error) {
	if !l.supported(fileName) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, fileName)
	}
	p := path.Join(l.dir, fileName)
	data, err := fs.ReadFile(l.fsys, p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: couldn't find %s", ErrNotFound, p)
	}
	if err != nil {
		return nil, fmt.Errorf("defs: read %s: %w", p, err)
	}
	sections, err := Decode(fileName, data)
	if err != nil {
		return nil, fmt.Errorf("defs: decode %s: %w", p, err)
	}
	return sections, nil
}

// scan lists the supported files in the store directory, sorted.
func (l *loader) scan() ([]string, error) {
	entries, err := fs.ReadDir(l.fsys, l.dir)
	if err != nil {
		return nil, fmt.Errorf("defs: scan %s: %w", l.dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !l.supported(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

// reloadAll loads every scanned file with load, isolating failures.
func (l *loader) reloadAll(load func(fileName string) error) []LoadResult {
	files, err := l.scan()
	if err != nil {
		l.logger.Error("defs: reload failed", "dir", l.dir, "err", err)
		return []LoadResult{{File: l.dir, Err: err}}
	}
	results := make([]LoadResult, 0, len(files))
	for _, f := range files {
		err := load(f)
		if err != nil {
			l.logger.Error("defs: error loading definition file", "file", path.Join(l.dir, f), "err", err)
		}
		results = append(results, LoadResult{File: f, Name: baseName(f), Err: err})
	}
	return results
}

func baseName(fileName string) string {
	return strings.TrimSuffix(fileName, path.Ext(fileName))
}
