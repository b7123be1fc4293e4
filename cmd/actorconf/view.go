package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/actorconf/defs"
	"github.com/spf13/cobra"
	"golang.org/x/image/colornames"
)

func init() {
	cmd := &cobra.Command{
		Use:   "view <level>",
		Short: "Open a window showing a level",
		Long:  "Open a window showing a level. R reloads every definition file, space pauses physics.",
		Args:  cobra.ExactArgs(1),
		RunE:  runView,
	}
	cmd.Flags().Bool("watch", false, "Rebuild the level when definition files change")
	cmd.Flags().Float64("ppu", 0, "Pixels per world unit (overrides the default camera)")
	rootCmd.AddCommand(cmd)
}

func runView(cmd *cobra.Command, args []string) error {
	watch, _ := cmd.Flags().GetBool("watch")
	ppu, _ := cmd.Flags().GetFloat64("ppu")

	e, err := newEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if ppu > 0 {
		e.world.Camera.PixelsPerUnit = ppu
	}

	v := &viewer{env: e, level: args[0]}
	if watch || e.cfg.Watch {
		r, err := e.reloader()
		if err != nil {
			return err
		}
		defer r.Watcher.Close()
		v.reloader = r
	}

	e.reloadAll()
	if err := e.populate(v.level); err != nil {
		return err
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(e.world.Camera.Width, e.world.Camera.Height)
	ebiten.SetWindowTitle("actorconf - " + v.level)
	return ebiten.RunGame(v)
}

// viewer draws a world and rebuilds it when definitions change.
type viewer struct {
	env      *env
	level    string
	reloader *defs.Reloader
	paused   bool
	lastErr  error
}

func (v *viewer) Update() error {
	if v.reloader != nil && len(v.reloader.Pump()) > 0 {
		v.rebuild()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.env.reloadAll()
		v.rebuild()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.paused = !v.paused
	}
	if !v.paused {
		v.env.world.Update(1.0 / float64(ebiten.TPS()))
	}
	return nil
}

func (v *viewer) rebuild() {
	v.lastErr = v.env.populate(v.level)
	if v.lastErr != nil {
		v.env.logger.Error("actorconf: rebuild failed", "level", v.level, "err", v.lastErr)
	}
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)
	v.env.world.Draw(screen)

	status := fmt.Sprintf("%s  instances: %d  TPS: %.1f", v.level, v.env.world.Len(), ebiten.ActualTPS())
	if v.paused {
		status += "  [paused]"
	}
	if v.lastErr != nil {
		status += "\n" + v.lastErr.Error()
	}
	ebitenutil.DebugPrint(screen, status)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	cam := &v.env.world.Camera
	cam.Width, cam.Height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
