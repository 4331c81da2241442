package system

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/prefabs"
)

func newTestWorld(t *testing.T, input func() component.Input) *World {
	t.Helper()
	if input == nil {
		input = func() component.Input { return component.Input{} }
	}
	w, err := NewWorld(Options{
		Level:  "warehouse",
		Input:  input,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return w
}

func TestNewWorldLoadsLevel(t *testing.T) {
	w := newTestWorld(t, nil)

	assert.Equal(t, "warehouse", w.LevelName())
	assert.Len(t, w.Level.Crates, 4)
	assert.Len(t, w.Level.BoxMovers, 1)

	anim, ok := w.Animators.Get(w.Level.Player)
	require.True(t, ok)
	assert.True(t, anim.Ready())
}

func TestNewWorldRejectsBadLevels(t *testing.T) {
	for _, name := range []string{"", "nowhere"} {
		_, err := NewWorld(Options{Level: name, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
		assert.Error(t, err, "level %q", name)
	}
}

func TestWorldSettlesIdle(t *testing.T) {
	w := newTestWorld(t, nil)

	for i := 0; i < 120; i++ {
		w.Update(1.0 / 60.0)
	}

	st, ok := w.PlayerStatus()
	require.True(t, ok)
	assert.True(t, st.Grounded)
	assert.False(t, st.Climbing)
	assert.False(t, st.Carrying)
	assert.Equal(t, "idle", st.State)
	assert.Equal(t, "none", st.Forced)

	assert.Len(t, w.BoxMoverStates(), 1)
}

func TestWorldRoutesInput(t *testing.T) {
	forward := true
	w := newTestWorld(t, func() component.Input { return component.Input{Forward: forward} })
	start, _ := ecs.Get(w.ECS, w.Level.Player, component.TransformComponent.Kind())
	z0 := start.Position.Z()

	for i := 0; i < 30; i++ {
		w.Update(1.0 / 60.0)
	}
	tr, _ := ecs.Get(w.ECS, w.Level.Player, component.TransformComponent.Kind())
	assert.Greater(t, tr.Position.Z(), z0, "holding forward walks the player along +Z")

	forward = false
	for i := 0; i < 60; i++ {
		w.Update(1.0 / 60.0)
	}
	st, _ := w.PlayerStatus()
	assert.NotEqual(t, "walk", st.State)
}

func TestApplyChange(t *testing.T) {
	w := newTestWorld(t, nil)
	level := w.Level

	require.NoError(t, w.ApplyChange(prefabs.Change{Path: "prefabs/scripts/open_gate.tengo", Kind: prefabs.ChangeScript}))
	require.NoError(t, w.ApplyChange(prefabs.Change{Path: "prefabs/player.yaml", Kind: prefabs.ChangeSpec}))
	require.NoError(t, w.ApplyChange(prefabs.Change{Path: "prefabs/box_mover.yaml", Kind: prefabs.ChangeSpec}))
	require.NoError(t, w.ApplyChange(prefabs.Change{Path: "prefabs/levels/sandbox.yaml", Kind: prefabs.ChangeSpec}))
	assert.Same(t, level, w.Level, "tuning and other levels leave the running level alone")

	require.NoError(t, w.ApplyChange(prefabs.Change{Path: "prefabs/levels/warehouse.yaml", Kind: prefabs.ChangeSpec}))
	assert.NotSame(t, level, w.Level, "editing the running level rebuilds it")
	assert.Equal(t, "warehouse", w.LevelName())
}

func TestNilWorld(t *testing.T) {
	var w *World
	assert.NotPanics(t, func() { w.Update(1.0 / 60.0) })
	_, ok := w.PlayerStatus()
	assert.False(t, ok)
	assert.Nil(t, w.BoxMoverStates())
	assert.Error(t, w.ApplyChange(prefabs.Change{}))
}
