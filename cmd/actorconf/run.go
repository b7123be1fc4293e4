package main

import (
	"fmt"
	"os"

	"github.com/milk9111/actorconf/script"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "run <script.tengo>",
		Short: "Run a tengo script against the definition stores",
		Long:  `Scripts import the "actorconf" module to load definitions and build levels.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	cmd.Flags().Bool("print", false, "Print the world after the script finishes")
	rootCmd.AddCommand(cmd)
}

func runScript(cmd *cobra.Command, args []string) error {
	printAfter, _ := cmd.Flags().GetBool("print")

	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	e, err := newEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if _, err := e.console().Run(cmd.Context(), src); err != nil {
		return err
	}
	if printAfter {
		return printWorld(cmd.OutOrStdout(), e.world)
	}
	return nil
}

func (e *env) console() *script.Console {
	return &script.Console{
		Actors:  e.actors,
		Levels:  e.levels,
		Factory: e.factory,
		Loader:  e.loader,
		World:   e.world,
		Logger:  e.logger,
	}
}
