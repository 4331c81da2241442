package component

import "github.com/go-gl/mathgl/mgl64"

// PositionTween moves an entity linearly from From to To over Duration
// seconds. OnDone runs on the tick the tween lands.
type PositionTween struct {
	From     mgl64.Vec3
	To       mgl64.Vec3
	Duration float64
	Elapsed  float64
	OnDone   func()
}

var PositionTweenComponent = NewComponent[PositionTween]("position_tween")

type RotationTween struct {
	From     mgl64.Quat
	To       mgl64.Quat
	Duration float64
	Elapsed  float64
}

var RotationTweenComponent = NewComponent[RotationTween]("rotation_tween")

// FramesToSeconds converts a 60 fps frame count.
func FramesToSeconds(frames int) float64 {
	return float64(frames) / 60.0
}
