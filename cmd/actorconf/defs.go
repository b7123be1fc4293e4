package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/milk9111/actorconf/defs"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "defs [name]",
		Short: "List actor definitions, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDefs,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "levels [name]",
		Short: "List level definitions, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLevels,
	})
}

func runDefs(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	e.actors.ReloadAll()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		def, ok := e.actors.Get(args[0])
		if !ok {
			return fmt.Errorf("actor definition %q not loaded", args[0])
		}
		fmt.Fprintf(out, "%s (%s) from %s\n", def.Name, def.Kind, def.Source)
		writePairs(out, def.Config())
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCLASS\tKEYS\tSOURCE")
	for _, name := range e.actors.Definitions() {
		def, _ := e.actors.Get(name)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", def.Name, def.Kind, len(def.Config()), def.Source)
	}
	return tw.Flush()
}

func runLevels(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	e.levels.ReloadAll()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		lvl, ok := e.levels.Get(args[0])
		if !ok {
			return fmt.Errorf("level definition %q not loaded", args[0])
		}
		fmt.Fprintf(out, "%s from %s\n", lvl.Name, lvl.Source)
		for _, ent := range lvl.Entities {
			typ, _ := ent.Type()
			fmt.Fprintf(out, "[%s] type=%s layer=%d\n", ent.Name, typ, ent.Layer())
			writePairs(out, ent.Overrides())
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tENTITIES\tSOURCE")
	for _, name := range e.levels.Levels() {
		lvl, _ := e.levels.Get(name)
		fmt.Fprintf(tw, "%s\t%d\t%s\n", lvl.Name, len(lvl.Entities), lvl.Source)
	}
	return tw.Flush()
}

func writePairs(w io.Writer, pairs []defs.Pair) {
	for _, p := range pairs {
		fmt.Fprintf(w, "  %s = %s\n", p.Key, p.Value)
	}
}
