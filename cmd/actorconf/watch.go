package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "watch [level]",
		Short: "Reload definition files as they change",
		Long:  "Watch the definition directories and reload changed files. When a level is given it is rebuilt after every reload.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatch,
	}
	cmd.Flags().Duration("interval", 250*time.Millisecond, "How often pending changes are applied")
	rootCmd.AddCommand(cmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	interval, _ := cmd.Flags().GetDuration("interval")

	e, err := newEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	r, err := e.reloader()
	if err != nil {
		return err
	}
	defer r.Watcher.Close()

	e.reloadAll()
	rebuild := func() {
		if len(args) == 0 {
			return
		}
		if err := e.populate(args[0]); err != nil {
			e.logger.Error("actorconf: rebuild failed", "level", args[0], "err", err)
			return
		}
		e.logger.Info("actorconf: level rebuilt", "level", args[0], "instances", e.world.Len())
	}
	rebuild()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	e.logger.Info("actorconf: watching", "actors", e.cfg.ActorPath(), "levels", e.cfg.LevelPath())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.Canceled {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if len(r.Pump()) > 0 {
				rebuild()
			}
		}
	}
}
