package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	Up      = mgl64.Vec3{0, 1, 0}
	Forward = mgl64.Vec3{0, 0, 1}
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Clamp01 is Clamp(v, 0, 1).
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// ForwardOf returns the local +Z axis rotated by q.
func ForwardOf(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(Forward)
}

// RightOf returns Cross(up, forward) for rotation q.
func RightOf(q mgl64.Quat) mgl64.Vec3 {
	return Up.Cross(ForwardOf(q))
}

// FlatForward is ForwardOf projected on the XZ plane and normalized. A
// degenerate result falls back to +Z.
func FlatForward(q mgl64.Quat) mgl64.Vec3 {
	f := ForwardOf(q)
	f[1] = 0
	if f.Len() < 1e-9 {
		return Forward
	}
	return f.Normalize()
}

// LookRotation builds the rotation whose forward axis is fwd, using the
// basis (Cross(up, fwd), up, fwd) as matrix columns.
func LookRotation(fwd, up mgl64.Vec3) mgl64.Quat {
	if fwd.Len() < 1e-9 {
		return mgl64.QuatIdent()
	}
	fwd = fwd.Normalize()
	right := up.Cross(fwd)
	if right.Len() < 1e-9 {
		return mgl64.QuatIdent()
	}
	right = right.Normalize()
	up = fwd.Cross(right)
	return mgl64.Mat4ToQuat(mgl64.Mat3FromCols(right, up, fwd).Mat4()).Normalize()
}

// YawRotation rotates by angle radians around +Y.
func YawRotation(angle float64) mgl64.Quat {
	return mgl64.QuatRotate(angle, Up)
}

func FlatDistance(a, b mgl64.Vec3) float64 {
	return math.Hypot(a.X()-b.X(), a.Z()-b.Z())
}
