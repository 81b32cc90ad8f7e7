package render

import (
	"slices"
	"time"

	"github.com/robinovitch61/vl/internal/pool"
	"github.com/robinovitch61/vl/internal/transition"
)

type running struct {
	animation transition.Animation
	start     time.Time
}

// position interpolates linearly through From, the via points and To
func (r running) position(now time.Time) float64 {
	a := r.animation
	t := 1.0
	if d := a.Descriptor.Duration; d > 0 {
		t = min(max(float64(now.Sub(r.start))/float64(d), 0), 1)
	}
	points := make([]float64, 0, len(a.Via)+2)
	points = append(points, a.From)
	for _, v := range a.Via {
		points = append(points, a.From+v)
	}
	points = append(points, a.To)
	segments := len(points) - 1
	seg := min(int(t*float64(segments)), segments-1)
	local := t*float64(segments) - float64(seg)
	return points[seg] + (points[seg+1]-points[seg])*local
}

// Renderer tracks the instances in the scene and where they are drawn. Animations advance on a frame clock
// moved by Advance
type Renderer struct {
	attached map[int]*pool.Instance
	placed   map[int]float64
	running  map[int]running
	now      time.Time
}

func New() *Renderer {
	return &Renderer{
		attached: make(map[int]*pool.Instance),
		placed:   make(map[int]float64),
		running:  make(map[int]running),
		now:      time.Now(),
	}
}

func (r *Renderer) Attach(inst *pool.Instance) {
	r.attached[inst.ID()] = inst
}

func (r *Renderer) Detach(inst *pool.Instance) {
	delete(r.attached, inst.ID())
	delete(r.placed, inst.ID())
	delete(r.running, inst.ID())
}

func (r *Renderer) Attached(inst *pool.Instance) bool {
	_, ok := r.attached[inst.ID()]
	return ok
}

func (r *Renderer) Place(inst *pool.Instance, pos float64) {
	delete(r.running, inst.ID())
	r.placed[inst.ID()] = pos
}

func (r *Renderer) Animate(a transition.Animation) {
	r.running[a.Instance.ID()] = running{animation: a, start: r.now}
	r.placed[a.Instance.ID()] = a.From
}

func (r *Renderer) Stop(inst *pool.Instance) (float64, bool) {
	run, ok := r.running[inst.ID()]
	if !ok {
		return 0, false
	}
	pos := run.position(r.now)
	delete(r.running, inst.ID())
	r.placed[inst.ID()] = pos
	return pos, true
}

// Position returns where inst is drawn, false if it was never placed
func (r *Renderer) Position(inst *pool.Instance) (float64, bool) {
	if run, ok := r.running[inst.ID()]; ok {
		return run.position(r.now), true
	}
	pos, ok := r.placed[inst.ID()]
	return pos, ok
}

// Running returns the number of animations in progress
func (r *Renderer) Running() int {
	return len(r.running)
}

// Advance moves the frame clock to now and returns the animations that ended, in instance id order. Their
// instances rest at the animation's end until placed again
func (r *Renderer) Advance(now time.Time) []transition.Animation {
	r.now = now
	var done []transition.Animation
	for id, run := range r.running {
		if now.Sub(run.start) >= run.animation.Descriptor.Duration {
			done = append(done, run.animation)
			delete(r.running, id)
			r.placed[id] = run.animation.To
		}
	}
	slices.SortFunc(done, func(a, b transition.Animation) int {
		return a.Instance.ID() - b.Instance.ID()
	})
	return done
}
