package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/milk9111/actorconf/world"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "load <level>",
		Short: "Build a level into a world and print its instances",
		Args:  cobra.ExactArgs(1),
		RunE:  runLoad,
	}
	cmd.Flags().Int("steps", 0, "Physics steps to simulate before printing")
	rootCmd.AddCommand(cmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	steps, _ := cmd.Flags().GetInt("steps")

	e, err := newEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if n := e.reloadAll(); n > 0 {
		e.logger.Warn("actorconf: some definition files failed to load", "count", n)
	}
	if err := e.populate(args[0]); err != nil {
		return err
	}
	for i := 0; i < steps; i++ {
		e.world.Update(1.0 / 60)
	}
	return printWorld(cmd.OutOrStdout(), e.world)
}

type positioned interface {
	Position() (float64, float64)
}

func printWorld(out io.Writer, w *world.World) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LAYER\tNAME\tTYPE\tPOSITION")
	for _, layer := range w.Layers() {
		for _, inst := range w.InLayer(layer) {
			pos := "-"
			if p, ok := inst.(positioned); ok {
				x, y := p.Position()
				pos = fmt.Sprintf("(%.2f, %.2f)", x, y)
			}
			fmt.Fprintf(tw, "%d\t%s\t%T\t%s\n", layer, inst.Name(), inst, pos)
		}
	}
	return tw.Flush()
}
