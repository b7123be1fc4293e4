package main

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/milk9111/actorconf/actor"
	"github.com/milk9111/actorconf/config"
	"github.com/milk9111/actorconf/defs"
	"github.com/milk9111/actorconf/factory"
	"github.com/milk9111/actorconf/level"
	"github.com/milk9111/actorconf/sample"
	"github.com/milk9111/actorconf/world"
	"github.com/spf13/cobra"
)

var (
	configPath string
	rootFlag   string
	logLevel   string
	useSample  bool
)

var rootCmd = &cobra.Command{
	Use:           "actorconf",
	Short:         "Load actor and level definitions",
	Long:          "Load INI or YAML actor and level definitions, build levels into a world and watch for changes.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().StringVarP(&rootFlag, "root", "r", "", "Definition root directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&useSample, "sample", false, "Use the embedded sample definitions")
}

// env is the wired set of stores, factory, loader and world a command runs
// against.
type env struct {
	cfg     config.Config
	logger  *slog.Logger
	actors  *defs.Store
	levels  *defs.LevelStore
	factory *factory.Factory
	loader  *level.Loader
	world   *world.World
	sample  bool
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if rootFlag != "" {
		cfg.Root = rootFlag
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

func newEnv(stderr io.Writer) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl}))
	return wire(cfg, logger, useSample), nil
}

func wire(cfg config.Config, logger *slog.Logger, fromSample bool) *env {
	var (
		fsys               fs.FS
		actorDir, levelDir string
	)
	if fromSample {
		fsys, actorDir, levelDir = sample.FS, sample.ActorDir, sample.LevelDir
	} else {
		fsys, actorDir, levelDir = os.DirFS(cfg.Root), config.FSDir(cfg.ActorDir), config.FSDir(cfg.LevelDir)
	}

	actors := defs.NewStore(fsys, defs.Options{Dir: actorDir, Extensions: cfg.Extensions, Logger: logger})
	levels := defs.NewLevelStore(fsys, defs.Options{Dir: levelDir, Extensions: cfg.Extensions, Logger: logger})
	f := factory.New(actors, actor.NewRegistry(), logger)
	return &env{
		cfg:     cfg,
		logger:  logger,
		actors:  actors,
		levels:  levels,
		factory: f,
		loader:  level.NewLoader(levels, f, logger),
		world:   world.New(cfg.Gravity, logger),
		sample:  fromSample,
	}
}

// reloadAll loads every actor and level file. Individual file failures are
// logged by the stores; the count is returned so commands can report it.
func (e *env) reloadAll() int {
	failed := len(defs.Failed(e.actors.ReloadAll()))
	failed += len(defs.Failed(e.levels.ReloadAll()))
	return failed
}

// populate resets the world and instantiates levelName into it.
func (e *env) populate(levelName string) error {
	e.world.Reset()
	if err := e.loader.Instantiate(levelName, e.world); err != nil {
		return fmt.Errorf("load level %s: %w", levelName, err)
	}
	return nil
}

// reloader watches the definition directories on disk. The embedded sample
// cannot be watched.
func (e *env) reloader() (*defs.Reloader, error) {
	if e.sample {
		return nil, fmt.Errorf("cannot watch the embedded sample definitions")
	}
	w, err := defs.NewWatcher(e.cfg.Extensions, e.cfg.ActorPath(), e.cfg.LevelPath())
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", e.cfg.Root, err)
	}
	return &defs.Reloader{
		Watcher:  w,
		Actors:   e.actors,
		Levels:   e.levels,
		ActorDir: e.cfg.ActorPath(),
		LevelDir: e.cfg.LevelPath(),
		Logger:   e.logger,
	}, nil
}
