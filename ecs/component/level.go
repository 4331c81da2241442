package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/common"
)

// LevelBounds is the playable rectangle on the XZ plane.
type LevelBounds struct {
	Center mgl64.Vec3
	Width  float64
	Depth  float64
}

func (b LevelBounds) MinX() float64 { return b.Center.X() - b.Width/2 }
func (b LevelBounds) MaxX() float64 { return b.Center.X() + b.Width/2 }
func (b LevelBounds) MinZ() float64 { return b.Center.Z() - b.Depth/2 }
func (b LevelBounds) MaxZ() float64 { return b.Center.Z() + b.Depth/2 }

// ClampXZ keeps p at least margin inside the rectangle and reports whether
// it moved.
func (b LevelBounds) ClampXZ(p mgl64.Vec3, margin float64) (mgl64.Vec3, bool) {
	x := common.Clamp(p.X(), b.MinX()+margin, b.MaxX()-margin)
	z := common.Clamp(p.Z(), b.MinZ()+margin, b.MaxZ()-margin)
	return mgl64.Vec3{x, p.Y(), z}, x != p.X() || z != p.Z()
}

var LevelBoundsComponent = NewComponent[LevelBounds]("level_bounds")
