package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/ecs/entity"
	"github.com/milk9111/ledgerunner/ecs/sim"
	"github.com/milk9111/ledgerunner/prefabs"
)

const testDT = 1.0 / 60.0

type fixture struct {
	w     *ecs.World
	scene *sim.Scene
	anims *sim.Animators
	p     ecs.Entity
}

// newFixture builds a world with a floor and the default player standing at
// pos, facing +Z.
func newFixture(t *testing.T, pos mgl64.Vec3) *fixture {
	t.Helper()
	w := ecs.NewWorld()
	scene := sim.NewScene(w, nil)
	_, err := entity.NewWall(w, scene, prefabs.SolidSpec{
		Name:   "floor",
		Center: prefabs.Vec3{0, -0.5, 0},
		Size:   prefabs.Vec3{40, 1, 40},
	})
	require.NoError(t, err)

	p, err := entity.NewPlayerAt(w, scene, entity.DefaultPlayerSpec(), prefabs.SpawnSpec{Position: prefabs.Vec3(pos)})
	require.NoError(t, err)
	return &fixture{w: w, scene: scene, anims: sim.NewAnimators(), p: p}
}

// withPlayerClips attaches an animator carrying every player clip.
func (f *fixture) withPlayerClips() *sim.Animator {
	clips := map[string]float64{}
	for _, name := range playerStateClips {
		clips[name] = 1
	}
	a := sim.NewAnimator(clips)
	f.anims.Attach(f.p, a)
	return a
}

func (f *fixture) crate(t *testing.T, name string, center mgl64.Vec3, size float64, climbable bool) ecs.Entity {
	t.Helper()
	e, err := entity.NewCrate(f.w, f.scene, prefabs.CrateSpec{
		SolidSpec: prefabs.SolidSpec{Name: name, Center: prefabs.Vec3(center), Size: prefabs.Vec3{size, size, size}},
		Climbable: climbable,
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) view(t *testing.T) playerView {
	t.Helper()
	p, ok := lookupPlayer(f.w)
	require.True(t, ok)
	return p
}

func (f *fixture) flags() *component.PlayerFlags {
	flags, _ := ecs.Get(f.w, f.p, component.PlayerFlagsComponent.Kind())
	return flags
}

func (f *fixture) input() *component.Input {
	in, _ := ecs.Get(f.w, f.p, component.InputComponent.Kind())
	return in
}

func (f *fixture) lock() *component.ForcedStateLock {
	l, _ := ecs.Get(f.w, f.p, component.ForcedStateLockComponent.Kind())
	return l
}

func (f *fixture) transform(e ecs.Entity) *component.Transform {
	tr, _ := ecs.Get(f.w, e, component.TransformComponent.Kind())
	return tr
}

func (f *fixture) velocity(t *testing.T, e ecs.Entity) mgl64.Vec3 {
	t.Helper()
	v, ok := velocityOf(f.scene, e)
	require.True(t, ok)
	return v
}

// step runs the given systems once at 60 fps.
func step(w *ecs.World, systems ...ecs.System) {
	w.SetDeltaSeconds(testDT)
	for _, s := range systems {
		s.Update(w)
	}
}

func drainEvents(w *ecs.World, typ string) []ecs.Event {
	var out []ecs.Event
	for _, ev := range w.Events().Drain() {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}
