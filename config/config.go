// Package config holds the directory layout and runtime settings used to
// wire the stores, world and CLI together.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no file is given.
const DefaultFile = "actorconf.yaml"

var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Root       string   `yaml:"root"`
	ActorDir   string   `yaml:"actor_dir"`
	LevelDir   string   `yaml:"level_dir"`
	Extensions []string `yaml:"extensions"`
	Gravity    float64  `yaml:"gravity"`
	Watch      bool     `yaml:"watch"`
	LogLevel   string   `yaml:"log_level"`
}

// Default returns the conventional layout: Config/ActorDef and Config/Level.
func Default() Config {
	return Config{
		Root:       "Config",
		ActorDir:   "ActorDef",
		LevelDir:   "Level",
		Extensions: []string{".ini", ".yaml", ".yml"},
		Gravity:    -4,
		LogLevel:   "info",
	}
}

// Load reads path on top of Default. A missing DefaultFile is not an error;
// any other missing path is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && path == DefaultFile {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that directories are relative to Root and extensions are
// well formed.
func (c Config) Validate() error {
	for _, dir := range []string{c.ActorDir, c.LevelDir} {
		if dir == "" || filepath.IsAbs(dir) || strings.HasPrefix(filepath.Clean(dir), "..") {
			return fmt.Errorf("%w: directory %q must be relative to root", ErrInvalid, dir)
		}
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("%w: no definition extensions", ErrInvalid)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: extension %q must start with a dot", ErrInvalid, ext)
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// ActorPath returns the OS path of the actor definition directory.
func (c Config) ActorPath() string {
	return filepath.Join(c.Root, c.ActorDir)
}

// LevelPath returns the OS path of the level definition directory.
func (c Config) LevelPath() string {
	return filepath.Join(c.Root, c.LevelDir)
}

// FSDir converts dir to the slash-separated form fs.FS expects.
func FSDir(dir string) string {
	return filepath.ToSlash(filepath.Clean(dir))
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	return lvl, nil
}
