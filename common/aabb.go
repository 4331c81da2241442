package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned box in world space.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

func AABBFromCenter(center, half mgl64.Vec3) AABB {
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

func (b AABB) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

func (b AABB) Height() float64 {
	return b.Max.Y() - b.Min.Y()
}

func (b AABB) Intersects(o AABB) bool {
	return b.Min.X() <= o.Max.X() && b.Max.X() >= o.Min.X() &&
		b.Min.Y() <= o.Max.Y() && b.Max.Y() >= o.Min.Y() &&
		b.Min.Z() <= o.Max.Z() && b.Max.Z() >= o.Min.Z()
}

func (b AABB) Contains(p mgl64.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// ContainsXZ ignores the vertical axis.
func (b AABB) ContainsXZ(p mgl64.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// RayHit intersects the ray origin+dir*t, t in [0, maxDist], with b using the
// slab method. dir must be normalized. The returned normal is the face the
// ray entered through; it is zero when the origin starts inside b.
func (b AABB) RayHit(origin, dir mgl64.Vec3, maxDist float64) (float64, mgl64.Vec3, bool) {
	tmin := 0.0
	tmax := maxDist
	var normal mgl64.Vec3

	for axis := 0; axis < 3; axis++ {
		o := origin[axis]
		d := dir[axis]
		if math.Abs(d) < 1e-12 {
			if o < b.Min[axis] || o > b.Max[axis] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		invD := 1.0 / d
		t1 := (b.Min[axis] - o) * invD
		t2 := (b.Max[axis] - o) * invD
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1.0
		}
		if t1 > tmin {
			tmin = t1
			normal = mgl64.Vec3{}
			normal[axis] = sign
		}
		tmax = math.Min(tmax, t2)
		if tmax < tmin {
			return 0, mgl64.Vec3{}, false
		}
	}
	return tmin, normal, true
}
