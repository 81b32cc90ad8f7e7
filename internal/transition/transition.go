package transition

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robinovitch61/vl/internal/pool"
)

type Kind int

const (
	Populate Kind = iota
	Add
	AddDisplaced
	Remove
	RemoveDisplaced
	Move
	MoveDisplaced
	// Displaced is used for any displaced variant without its own descriptor
	Displaced
)

func (k Kind) String() string {
	switch k {
	case Populate:
		return "populate"
	case Add:
		return "add"
	case AddDisplaced:
		return "addDisplaced"
	case Remove:
		return "remove"
	case RemoveDisplaced:
		return "removeDisplaced"
	case Move:
		return "move"
	case MoveDisplaced:
		return "moveDisplaced"
	case Displaced:
		return "displaced"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String
func ParseKind(s string) (Kind, error) {
	for k := Populate; k <= Displaced; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown transition %q", s)
}

// displacedKind returns the displaced variant of an operation kind
func displacedKind(k Kind) Kind {
	switch k {
	case Add:
		return AddDisplaced
	case Remove:
		return RemoveDisplaced
	case Move:
		return MoveDisplaced
	}
	return Displaced
}

// Descriptor describes one configured animation
type Descriptor struct {
	Name     string
	Duration time.Duration
	// Offset displaces the start of add and populate animations and the end of remove animations, relative to
	// the instance's layout position
	Offset float64
	// Via are control points relative to the start position
	Via []float64
}

// Config maps operation kinds to descriptors. Kinds without a descriptor are not animated
type Config map[Kind]Descriptor

// Lookup returns the descriptor for k, falling back to Displaced for displaced variants
func (c Config) Lookup(k Kind) (Descriptor, bool) {
	if d, ok := c[k]; ok {
		return d, true
	}
	switch k {
	case AddDisplaced, RemoveDisplaced, MoveDisplaced:
		d, ok := c[Displaced]
		return d, ok
	}
	return Descriptor{}, false
}

// Animation is one running transition of an instance
type Animation struct {
	ID         uuid.UUID
	Kind       Kind
	Descriptor Descriptor
	Instance   *pool.Instance
	From       float64
	To         float64
	Via        []float64
}

// Effects is the animation engine the dispatcher drives
type Effects interface {
	// Place puts inst directly at pos
	Place(inst *pool.Instance, pos float64)
	// Animate starts a, without blocking
	Animate(a Animation)
	// Stop halts the running animation of inst, returning its rendered position
	Stop(inst *pool.Instance) (pos float64, ok bool)
}

type nopEffects struct{}

func (nopEffects) Place(*pool.Instance, float64) {}
func (nopEffects) Animate(Animation) {}
func (nopEffects) Stop(*pool.Instance) (float64, bool) { return 0, false }

// Target is an instance moving from one layout position to another
type Target struct {
	Instance *pool.Instance
	From     float64
	To       float64
}

// Operation is one reconciled model change: the instances it targets directly and the ones it displaces
type Operation struct {
	Kind      Kind
	Targets   []Target
	Displaced []Target
}

func (o Operation) Empty() bool {
	return len(o.Targets) == 0 && len(o.Displaced) == 0
}

// Dispatcher starts the configured animation for every instance of an operation. An instance is driven by
// at most one animation at a time
type Dispatcher struct {
	Config Config

	// OnRemoved is called when a removed instance is no longer needed, after its animation if it has one
	OnRemoved func(inst *pool.Instance)

	effects Effects
	running map[int]Animation
}

func NewDispatcher(cfg Config, fx Effects) *Dispatcher {
	if fx == nil {
		fx = nopEffects{}
	}
	return &Dispatcher{Config: cfg, effects: fx, running: make(map[int]Animation)}
}

// Dispatch triggers the transitions of op
func (d *Dispatcher) Dispatch(op Operation) {
	for _, t := range op.Targets {
		d.start(op.Kind, t)
	}
	dk := displacedKind(op.Kind)
	for _, t := range op.Displaced {
		d.start(dk, t)
	}
}

// Place puts inst at pos without a transition, unless it is being animated already
func (d *Dispatcher) Place(inst *pool.Instance, pos float64) {
	if a, ok := d.running[inst.ID()]; ok && a.To == pos {
		return
	}
	d.stop(inst)
	d.effects.Place(inst, pos)
}

func (d *Dispatcher) start(k Kind, t Target) {
	inst := t.Instance
	desc, ok := d.Config.Lookup(k)
	from, to := t.From, t.To
	switch k {
	case Populate, Add:
		from = to + desc.Offset
	case Remove:
		to = from + desc.Offset
	}
	if pos, running := d.stop(inst); running {
		from = pos
	}
	if !ok || desc.Duration <= 0 {
		d.effects.Place(inst, to)
		if k == Remove {
			d.removed(inst)
		}
		return
	}
	a := Animation{
		ID:         uuid.New(),
		Kind:       k,
		Descriptor: desc,
		Instance:   inst,
		From:       from,
		To:         to,
		Via:        desc.Via,
	}
	d.running[inst.ID()] = a
	d.effects.Animate(a)
}

func (d *Dispatcher) stop(inst *pool.Instance) (float64, bool) {
	if _, ok := d.running[inst.ID()]; !ok {
		return 0, false
	}
	delete(d.running, inst.ID())
	return d.effects.Stop(inst)
}

// Finished completes the animation with id. Unknown or superseded ids are ignored
func (d *Dispatcher) Finished(id uuid.UUID, inst *pool.Instance) {
	a, ok := d.running[inst.ID()]
	if !ok || a.ID != id {
		return
	}
	delete(d.running, inst.ID())
	d.effects.Place(inst, a.To)
	if a.Kind == Remove {
		d.removed(inst)
	}
}

// Cancel stops any animation of inst without completing it
func (d *Dispatcher) Cancel(inst *pool.Instance) {
	d.stop(inst)
}

func (d *Dispatcher) Running(inst *pool.Instance) (Animation, bool) {
	a, ok := d.running[inst.ID()]
	return a, ok
}

func (d *Dispatcher) RunningCount() int {
	return len(d.running)
}

func (d *Dispatcher) removed(inst *pool.Instance) {
	if d.OnRemoved != nil {
		d.OnRemoved(inst)
	}
}
