package sim

import (
	"maps"
	"slices"

	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/engine"
)

type clipPlayback struct {
	looping    bool
	paused     bool
	speed      float64
	elapsed    float64
	onComplete func()
}

// Animator times named clips without any skeleton. It counts every start
// so callers can tell a restart from a clip that kept playing.
type Animator struct {
	clips   map[string]float64
	playing map[string]*clipPlayback
	starts  map[string]int
	ready   bool
}

// NewAnimator takes clip durations in seconds at speed 1.
func NewAnimator(clips map[string]float64) *Animator {
	return &Animator{
		clips:   clips,
		playing: make(map[string]*clipPlayback),
		starts:  make(map[string]int),
		ready:   len(clips) > 0,
	}
}

func (a *Animator) Ready() bool {
	return a.ready
}

func (a *Animator) SetReady(ready bool) {
	a.ready = ready
}

func (a *Animator) Names() []string {
	names := make([]string, 0, len(a.clips))
	for n := range a.clips {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func (a *Animator) Has(name string) bool {
	_, ok := a.clips[name]
	return ok
}

func (a *Animator) IsPlaying(name string) bool {
	_, ok := a.playing[name]
	return ok
}

func (a *Animator) Paused(name string) bool {
	p, ok := a.playing[name]
	return ok && p.paused
}

func (a *Animator) Starts(name string) int {
	return a.starts[name]
}

func (a *Animator) PlayLooping(name string, speed float64) {
	a.start(name, &clipPlayback{looping: true, speed: speed})
}

func (a *Animator) PlayOnce(name string, speed float64, onComplete func()) {
	a.start(name, &clipPlayback{speed: speed, onComplete: onComplete})
}

func (a *Animator) start(name string, p *clipPlayback) {
	if !a.Has(name) {
		return
	}
	if p.speed <= 0 {
		p.speed = 1
	}
	a.playing[name] = p
	a.starts[name]++
}

func (a *Animator) Stop(name string) {
	delete(a.playing, name)
}

func (a *Animator) Pause(name string) {
	if p, ok := a.playing[name]; ok {
		p.paused = true
	}
}

func (a *Animator) Resume(name string) {
	if p, ok := a.playing[name]; ok {
		p.paused = false
	}
}

// advance moves every clip on by dt and finishes one-shots that ran out.
// Completion callbacks run after all clips have advanced.
func (a *Animator) advance(dt float64) {
	var done []func()
	for _, name := range slices.Sorted(maps.Keys(a.playing)) {
		p := a.playing[name]
		if p.paused {
			continue
		}
		p.elapsed += dt * p.speed
		if p.looping || p.elapsed < a.clips[name] {
			continue
		}
		delete(a.playing, name)
		if p.onComplete != nil {
			done = append(done, p.onComplete)
		}
	}
	for _, fn := range done {
		fn()
	}
}

// Animators maps entities to their animators and advances them each tick.
type Animators struct {
	byEntity map[ecs.Entity]*Animator
}

func NewAnimators() *Animators {
	return &Animators{byEntity: make(map[ecs.Entity]*Animator)}
}

func (a *Animators) Attach(e ecs.Entity, anim *Animator) {
	a.byEntity[e] = anim
}

func (a *Animators) Get(e ecs.Entity) (*Animator, bool) {
	anim, ok := a.byEntity[e]
	return anim, ok
}

func (a *Animators) Animator(e ecs.Entity) (engine.Animator, bool) {
	anim, ok := a.byEntity[e]
	if !ok {
		return nil, false
	}
	return anim, true
}

func (a *Animators) Update(w *ecs.World) {
	dt := w.DeltaSeconds()
	for _, e := range slices.Sorted(maps.Keys(a.byEntity)) {
		if !ecs.IsAlive(w, e) {
			delete(a.byEntity, e)
			continue
		}
		a.byEntity[e].advance(dt)
	}
}
