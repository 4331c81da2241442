package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/ledgerunner/common"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/prefabs"
	"github.com/milk9111/ledgerunner/system"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// pixelsPerUnit is the top-down zoom.
	pixelsPerUnit = 28.0
)

type Game struct {
	frames int
	paused bool
	debug  bool

	world   *system.World
	watcher *prefabs.Watcher
	pause   *pauseUI
	logger  *slog.Logger
}

func NewGame(cfg config, logger *slog.Logger) (*Game, error) {
	world, err := system.NewWorld(system.Options{Level: cfg.Level, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("load level %s: %w", cfg.Level, err)
	}
	g := &Game{world: world, debug: cfg.Debug, logger: logger}
	g.pause = NewPauseUI(g)

	if cfg.Watch {
		w, err := prefabs.NewWatcher(prefabs.Root)
		if err != nil {
			logger.Warn("hot reload disabled", "err", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) reload() {
	if err := g.world.Load(g.world.LevelName()); err != nil {
		g.logger.Error("reload failed", "err", err)
	}
}

func (g *Game) Update() error {
	g.drainWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}
	if g.paused {
		g.pause.Update(g)
		return nil
	}

	g.frames++
	g.world.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.world.ApplyChange(change); err != nil {
				g.logger.Warn("hot reload failed", "path", change.Path, "err", err)
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.logger.Warn("prefab watcher", "err", err)
			}
		default:
			return
		}
	}
}

// camera returns the world point drawn at the screen centre.
func (g *Game) camera() (float64, float64) {
	tr, ok := ecs.Get(g.world.ECS, g.world.Level.Player, component.TransformComponent.Kind())
	if !ok {
		return 0, 0
	}
	return tr.Position.X(), tr.Position.Z()
}

func (g *Game) toScreen(x, z float64) (float32, float32) {
	cx, cz := g.camera()
	return float32((x-cx)*pixelsPerUnit + baseWidth/2), float32(baseHeight/2 - (z-cz)*pixelsPerUnit)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	w := g.world.ECS

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.ColliderComponent.Kind(), func(e ecs.Entity, tr *component.Transform, col *component.Collider) {
		var c color.Color = colornames.Gray
		if a, ok := ecs.Get(w, e, component.AppearanceComponent.Kind()); ok && a.Color != nil {
			c = a.Color
		}
		x0, y0 := g.toScreen(tr.Position.X()-col.HalfExtents.X(), tr.Position.Z()+col.HalfExtents.Z())
		wpx := float32(col.HalfExtents.X() * 2 * pixelsPerUnit)
		hpx := float32(col.HalfExtents.Z() * 2 * pixelsPerUnit)
		vector.DrawFilledRect(screen, x0, y0, wpx, hpx, c, false)
		if g.world.Highlights.Highlighted(e) {
			vector.StrokeRect(screen, x0, y0, wpx, hpx, 2, colornames.Yellow, false)
		}
	})

	g.drawHeading(screen, g.world.Level.Player, colornames.White)
	for _, e := range g.world.Level.BoxMovers {
		g.drawHeading(screen, e, colornames.Orange)
	}

	if g.debug {
		g.drawNav(screen)
	}

	msg := fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS())
	if st, ok := g.world.PlayerStatus(); ok {
		msg += fmt.Sprintf("\nstate: %s  lock: %s", st.State, st.Forced)
	}
	ebitenutil.DebugPrint(screen, msg)

	if g.paused {
		g.pause.ui.Draw(screen)
	}
}

func (g *Game) drawHeading(screen *ebiten.Image, e ecs.Entity, c color.Color) {
	tr, ok := ecs.Get(g.world.ECS, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	fwd := common.FlatForward(tr.Rotation)
	x0, y0 := g.toScreen(tr.Position.X(), tr.Position.Z())
	x1, y1 := g.toScreen(tr.Position.X()+fwd.X()*0.6, tr.Position.Z()+fwd.Z()*0.6)
	vector.StrokeLine(screen, x0, y0, x1, y1, 2, c, false)
	// height marker: a ring that grows as the entity rises
	r := float32(3 + math.Max(0, tr.Position.Y())*2)
	vector.StrokeCircle(screen, x0, y0, r, 1, c, false)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
