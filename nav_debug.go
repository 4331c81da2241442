package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
)

// drawNav renders the navigation plane's obstacle shapes. Chipmunk X/Y are
// world X/Z.
func (g *Game) drawNav(screen *ebiten.Image) {
	if g.world.Nav == nil || screen == nil {
		return
	}
	space := g.world.Nav.Space()
	if space == nil {
		return
	}
	cp.DrawSpace(space, &navDrawer{screen: screen, g: g})
}

type navDrawer struct {
	screen *ebiten.Image
	g      *Game
}

func (d *navDrawer) line(a, b cp.Vector, c color.Color) {
	x0, y0 := d.g.toScreen(a.X, a.Y)
	x1, y1 := d.g.toScreen(b.X, b.Y)
	vector.StrokeLine(d.screen, x0, y0, x1, y1, 1, c, false)
}

func (d *navDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	x, y := d.g.toScreen(pos.X, pos.Y)
	vector.StrokeCircle(d.screen, x, y, float32(radius*pixelsPerUnit), 1, fcolorToRGBA(outline), false)
}

func (d *navDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, fcolorToRGBA(fill))
}

func (d *navDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, fcolorToRGBA(outline))
}

func (d *navDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count == 0 {
		return
	}
	c := fcolorToRGBA(outline)
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], c)
	}
}

func (d *navDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	x, y := d.g.toScreen(pos.X, pos.Y)
	vector.DrawFilledCircle(d.screen, x, y, float32(size/2), fcolorToRGBA(fill), false)
}

func (d *navDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *navDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
}

func (d *navDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.4, G: 0.7, B: 1.0, A: 1.0}
}

func (d *navDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (d *navDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (d *navDrawer) Data() interface{} {
	return nil
}

func fcolorToRGBA(c cp.FColor) color.RGBA {
	clamp := func(v float32) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v * 255)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
