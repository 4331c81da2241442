package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/ledgerunner/ecs"
)

func TestAnimatorOneShotCompletes(t *testing.T) {
	a := NewAnimator(map[string]float64{"punch": 0.5, "idle": 1})
	done := 0
	a.PlayOnce("punch", 2, func() { done++ })
	require.True(t, a.IsPlaying("punch"))

	for i := 0; i < 14; i++ {
		a.advance(dt)
	}
	assert.True(t, a.IsPlaying("punch"))
	assert.Zero(t, done)

	a.advance(dt)
	a.advance(dt)
	assert.False(t, a.IsPlaying("punch"))
	assert.Equal(t, 1, done)

	a.advance(dt)
	assert.Equal(t, 1, done)
}

func TestAnimatorLoopAndPause(t *testing.T) {
	a := NewAnimator(map[string]float64{"walk": 0.5})
	a.PlayLooping("walk", 0)

	for i := 0; i < 120; i++ {
		a.advance(dt)
	}
	assert.True(t, a.IsPlaying("walk"))

	a.Pause("walk")
	assert.True(t, a.Paused("walk"))
	a.Resume("walk")
	assert.False(t, a.Paused("walk"))

	a.Stop("walk")
	assert.False(t, a.IsPlaying("walk"))
	assert.Equal(t, 1, a.Starts("walk"))
}

func TestAnimatorPausedOneShotWaits(t *testing.T) {
	a := NewAnimator(map[string]float64{"kick": 0.1})
	done := false
	a.PlayOnce("kick", 1, func() { done = true })
	a.Pause("kick")

	for i := 0; i < 60; i++ {
		a.advance(dt)
	}
	assert.False(t, done)

	a.Resume("kick")
	for i := 0; i < 7; i++ {
		a.advance(dt)
	}
	assert.True(t, done)
}

func TestAnimatorClips(t *testing.T) {
	a := NewAnimator(map[string]float64{"b": 1, "a": 1})
	assert.True(t, a.Ready())
	assert.Equal(t, []string{"a", "b"}, a.Names())

	a.PlayLooping("missing", 1)
	assert.False(t, a.IsPlaying("missing"))
	assert.Zero(t, a.Starts("missing"))

	a.PlayLooping("a", 1)
	a.PlayLooping("a", 1)
	assert.Equal(t, 2, a.Starts("a"))

	empty := NewAnimator(nil)
	assert.False(t, empty.Ready())
	empty.SetReady(true)
	assert.True(t, empty.Ready())
}

func TestAnimatorsUpdate(t *testing.T) {
	w := ecs.NewWorld()
	anims := NewAnimators()
	live := ecs.CreateEntity(w)
	dead := ecs.CreateEntity(w)

	a := NewAnimator(map[string]float64{"pickup": 0.05})
	done := false
	a.PlayOnce("pickup", 1, func() { done = true })
	anims.Attach(live, a)
	anims.Attach(dead, NewAnimator(map[string]float64{"idle": 1}))
	ecs.DestroyEntity(w, dead)

	tick(w, 4, anims)

	assert.True(t, done)
	_, ok := anims.Get(dead)
	assert.False(t, ok)
	got, ok := anims.Animator(live)
	require.True(t, ok)
	assert.Same(t, a, got)
	_, ok = anims.Animator(dead)
	assert.False(t, ok)
}

func TestHighlights(t *testing.T) {
	h := NewHighlights()
	h.Highlight(3)
	h.Highlight(3)
	h.Highlight(4)
	assert.Equal(t, 2, h.Len())
	assert.True(t, h.Highlighted(3))

	h.Unhighlight(3)
	assert.False(t, h.Highlighted(3))
	assert.Equal(t, 1, h.Len())
}
