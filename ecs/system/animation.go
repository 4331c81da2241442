package system

import (
	"log/slog"

	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/engine"
)

// animationController wraps an entity's animator. A looping clip that is
// already playing is left alone; a missing clip logs a warning and is skipped.
type animationController struct {
	anim   engine.Animator
	logger *slog.Logger
}

func animationFor(anims engine.Animators, e ecs.Entity, logger *slog.Logger) (animationController, bool) {
	if anims == nil {
		return animationController{}, false
	}
	a, ok := anims.Animator(e)
	if !ok || a == nil {
		return animationController{}, false
	}
	return animationController{anim: a, logger: logger}, true
}

func (c animationController) usable(name string) bool {
	if c.anim == nil {
		return false
	}
	if !c.anim.Ready() || len(c.anim.Names()) == 0 {
		c.logger.Warn("animations not loaded, skipping", "clip", name)
		return false
	}
	if !c.anim.Has(name) {
		c.logger.Warn("animation not found", "clip", name, "loaded", c.anim.Names())
		return false
	}
	return true
}

func (c animationController) stopAllExcept(name string) {
	for _, n := range c.anim.Names() {
		if n != name {
			c.anim.Stop(n)
		}
	}
}

// playLooping starts name looping unless it already plays.
func (c animationController) playLooping(name string, speed float64) {
	if !c.usable(name) {
		return
	}
	if c.anim.IsPlaying(name) {
		return
	}
	c.stopAllExcept(name)
	c.anim.PlayLooping(name, speed)
}

// playOnce reports whether the clip started. onComplete is not called when
// it did not.
func (c animationController) playOnce(name string, speed float64, onComplete func()) bool {
	if !c.usable(name) {
		return false
	}
	c.stopAllExcept(name)
	c.anim.PlayOnce(name, speed, onComplete)
	return true
}

func (c animationController) pause(name string) {
	if c.anim != nil && c.anim.IsPlaying(name) {
		c.anim.Pause(name)
	}
}

func (c animationController) resume(name string) {
	if c.anim != nil && c.anim.IsPlaying(name) {
		c.anim.Resume(name)
	}
}
