package listview

import (
	"fmt"

	"github.com/robinovitch61/vl/internal/dev"
	"github.com/robinovitch61/vl/internal/model"
	"github.com/robinovitch61/vl/internal/pool"
	"github.com/robinovitch61/vl/internal/transition"
)

// do runs fn and then reconciles every change delivered meanwhile, one at a time in delivery order. Calls
// while the view is busy run fn directly
func (v *View) do(fn func()) {
	if v.busy {
		if fn != nil {
			fn()
		}
		return
	}
	v.busy = true
	defer func() { v.busy = false }()
	if fn != nil {
		before := v.offsets()
		v.created = make(map[int]bool)
		fn()
		v.place(before)
	}
	for len(v.queue) > 0 {
		c := v.queue[0]
		v.queue = v.queue[1:]
		v.reconcile(c)
	}
}

func (v *View) onChange(c model.Change) {
	v.queue = append(v.queue, c)
	v.do(nil)
}

// reconcile applies one model change: remap everything indexed by model index, refill the window, then
// trigger transitions
func (v *View) reconcile(c model.Change) {
	if c.Seq != 0 {
		if c.Seq <= v.lastSeq {
			dev.Debug(fmt.Sprintf("ignoring replayed change %s seq %d", c, c.Seq))
			return
		}
		v.lastSeq = c.Seq
	}
	if c.Kind != model.Reset && c.Count == 0 {
		return
	}
	if c.Kind == model.Moved && c.At == c.To {
		return
	}
	if err := v.validate(c); err != nil {
		v.lastErr = err
		dev.Error(err, "rebuilding list view from model")
		v.reset()
		return
	}
	if c.Kind == model.Reset {
		v.reset()
		return
	}

	before := v.offsets()
	v.created = make(map[int]bool)
	a := v.anchorFor(c)

	switch c.Kind {
	case model.Inserted:
		v.count += c.Count
	case model.Removed:
		v.count -= c.Count
	}
	v.sizes.Apply(c, v.count)
	v.sections.Apply(c, v.model)
	dropped := v.pool.RetargetAll(c.MapIndex)
	v.tracker.Remap(c, v.count)
	if c.Kind == model.Changed {
		v.rebind(c)
	}

	var removed []transition.Target
	for _, inst := range dropped {
		v.removing[inst.ID()] = inst
		removed = append(removed, transition.Target{Instance: inst, From: inst.Offset, To: inst.Offset})
	}

	if !v.applyPendingPosition() {
		v.settle(a)
	}
	v.updateCurrent(false)
	v.dispatch(c, before, removed)
	v.fetchMore()
}

// validate checks c against the tracked count. The model must agree with the result unless more changes are
// queued behind c
func (v *View) validate(c model.Change) error {
	bad := c.Count < 0 || c.At < 0
	next := v.count
	switch c.Kind {
	case model.Inserted:
		bad = bad || c.At > v.count
		next += c.Count
	case model.Removed:
		bad = bad || c.At+c.Count > v.count
		next -= c.Count
	case model.Moved:
		bad = bad || c.To < 0 || c.At+c.Count > v.count || c.To+c.Count > v.count
	case model.Changed:
		bad = bad || c.At+c.Count > v.count
	case model.Reset:
		return nil
	}
	if !bad && len(v.queue) == 0 && next != v.model.Count() {
		bad = true
	}
	if bad {
		return &InconsistentModelNotificationError{Change: c, Count: v.count, ModelCount: v.model.Count()}
	}
	return nil
}

// anchorFor decides whether c keeps the visible content in place. Insertions and removals entirely above the
// view, changes above it and moves that leave the first visible item alone pin that item
func (v *View) anchorFor(c model.Change) *anchor {
	first, last := v.visibleRange()
	if last < first {
		return nil
	}
	from, _ := v.scroll.VisibleRegion()
	pinned := false
	switch c.Kind {
	case model.Inserted:
		pinned = v.slotStart(c.At) < from
	case model.Removed, model.Changed:
		pinned = v.slotStart(c.At+c.Count) <= from
	case model.Moved:
		pinned = first < c.At || first >= c.At+c.Count
	}
	if !pinned {
		return nil
	}
	return &anchor{index: c.MapIndex(first), offset: v.layout.Start(first) - from}
}

// rebind refreshes live instances whose data changed
func (v *View) rebind(c model.Change) {
	for i := c.At; i < c.At+c.Count; i++ {
		inst, ok := v.pool.Live(i)
		if !ok {
			continue
		}
		fresh, err := v.pool.Rebind(inst)
		if err != nil {
			dev.Error(err, "rebinding instance", "index", i)
			continue
		}
		if fresh != inst {
			v.transitions.Cancel(inst)
			v.created[fresh.ID()] = true
		}
		v.measure(fresh)
	}
}

// dispatch triggers the transitions of a reconciled change. Instances the change targets run its transition,
// instances that only moved as a side effect run the displaced one and new ones are placed directly
func (v *View) dispatch(c model.Change, before map[int]float64, removed []transition.Target) {
	op := transition.Operation{Kind: transition.Displaced}
	switch c.Kind {
	case model.Inserted:
		op.Kind = transition.Add
	case model.Removed:
		op.Kind = transition.Remove
		op.Targets = removed
	case model.Moved:
		op.Kind = transition.Move
	}
	for _, inst := range v.pool.Instances() {
		to := inst.Offset
		from, existed := before[inst.ID()]
		existed = existed && !v.created[inst.ID()]
		targeted := (c.Kind == model.Inserted || c.Kind == model.Moved) && c.Touches(inst.Index())
		switch {
		case targeted:
			if !existed {
				from = to
			}
			op.Targets = append(op.Targets, transition.Target{Instance: inst, From: from, To: to})
		case existed && from != to:
			op.Displaced = append(op.Displaced, transition.Target{Instance: inst, From: from, To: to})
		case !existed:
			v.transitions.Place(inst, to)
		}
	}
	v.transitions.Dispatch(op)
}

// finishRemoval releases an instance once its removal transition is done
func (v *View) finishRemoval(inst *pool.Instance) {
	delete(v.removing, inst.ID())
	v.pool.Release(inst)
}

// reset discards all derived state and rebuilds from the model
func (v *View) reset() {
	for _, inst := range v.pool.Instances() {
		v.transitions.Cancel(inst)
	}
	for _, inst := range v.removing {
		v.transitions.Cancel(inst)
		v.pool.Release(inst)
	}
	v.removing = make(map[int]*pool.Instance)
	v.pool.Clear()
	v.created = make(map[int]bool)

	v.count = v.model.Count()
	v.tracker.Reset()
	v.sizes.Reset(v.count)
	v.sections.Rebuild(v.model)
	v.relayout()
	v.scroll.Stop()
	v.scroll.SetPosition(v.scroll.MinExtent())
	v.populate()
}

// populate fills the window after the view was created or reset and runs the populate transition
func (v *View) populate() {
	if !v.applyPendingPosition() {
		v.settle(nil)
	}
	v.updateCurrent(false)
	op := transition.Operation{Kind: transition.Populate}
	for _, inst := range v.pool.Instances() {
		op.Targets = append(op.Targets, transition.Target{Instance: inst, To: inst.Offset})
	}
	v.transitions.Dispatch(op)
	v.fetchMore()
}
