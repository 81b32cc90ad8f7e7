package listview

import (
	"errors"
	"fmt"

	"github.com/robinovitch61/vl/internal/current"
	"github.com/robinovitch61/vl/internal/dev"
	"github.com/robinovitch61/vl/internal/layout"
	"github.com/robinovitch61/vl/internal/model"
	"github.com/robinovitch61/vl/internal/pool"
	"github.com/robinovitch61/vl/internal/viewport"
)

// anchor pins an item to a position in the view: its start stays offset past the content position
type anchor struct {
	index  int
	offset float64
}

// relayout recomputes every position from the origin
func (v *View) relayout() {
	in := layout.Input{
		Count:   v.count,
		Size:    v.sizes.Size,
		Spacing: v.cfg.Spacing,
		Header:  v.cfg.HeaderSize,
		Footer:  v.cfg.FooterSize,
	}
	if v.sections.Enabled() {
		in.Label = v.sections.Label
		in.Trailer = v.sections.Trailer
	}
	v.layout = layout.Compute(in)
	v.scroll.SetGeometry(v.layout)
}

// slotStart is where the slot of index i begins, the footer for i == count
func (v *View) slotStart(i int) float64 {
	if i >= v.layout.Count() {
		return v.layout.FooterStart()
	}
	return v.layout.LabelStart(i)
}

// visibleRange returns the first and last index intersecting the view
func (v *View) visibleRange() (first, last int) {
	from, to := v.scroll.VisibleRegion()
	return v.layout.Range(from, to)
}

// window returns the first and last index to materialize
func (v *View) window() (first, last int) {
	from, to := v.scroll.VisibleRegion()
	return v.layout.Range(from-v.cfg.CacheBuffer, to+v.cfg.CacheBuffer)
}

// topAnchor pins the first visible item where it is now
func (v *View) topAnchor() *anchor {
	first, last := v.visibleRange()
	if last < first {
		return nil
	}
	return &anchor{index: first, offset: v.layout.Start(first) - v.scroll.Position()}
}

// refill lays out and materializes the window until measured sizes stop changing. When a is set, the content
// position follows the anchored item, otherwise the first visible item after the first pass is kept in place
func (v *View) refill(a *anchor) {
	for pass := 0; ; pass++ {
		v.relayout()
		if a != nil && a.index >= 0 && a.index < v.count {
			v.scroll.SetPosition(v.layout.Start(a.index) - a.offset)
		} else {
			a = v.topAnchor()
		}
		if !v.materialize() {
			break
		}
		if pass == maxPasses {
			v.relayout()
			break
		}
	}
	v.positionInstances()
}

// materialize releases instances and cancels pending creations outside the window, then fills the window. It
// reports whether anything materialized has a size the last layout pass did not use
func (v *View) materialize() bool {
	first, last := v.window()
	for _, i := range v.pool.Indices() {
		if i < first || i > last {
			inst, _ := v.pool.Live(i)
			v.transitions.Cancel(inst)
			v.pool.Release(inst)
		}
	}
	for _, i := range v.pool.PendingIndices() {
		if i < first || i > last {
			v.pool.Cancel(i)
			dev.Debug(fmt.Sprintf("index %d left the window: %v", i, pool.ErrPendingCreationCancelled))
		}
	}

	v.resized = false
	for i := first; i <= last; i++ {
		if _, ok := v.pool.Live(i); ok || v.pool.Pending(i) {
			continue
		}
		if v.cfg.Asynchronous {
			if _, err := v.pool.Request(i); err != nil {
				dev.Error(err, "requesting instance", "index", i)
			}
			continue
		}
		inst, err := v.pool.Acquire(i)
		if err != nil {
			dev.Error(err, "acquiring instance", "index", i)
			continue
		}
		v.created[inst.ID()] = true
		v.measure(inst)
	}
	return v.resized
}

// measure records the size of a bound instance
func (v *View) measure(inst *pool.Instance) {
	i := inst.Index()
	if i < 0 {
		return
	}
	v.sizes.Measure(i, inst.Size())
	if v.layout.Size(i) != inst.Size() {
		v.resized = true
	}
}

// onResize handles instances changing size after creation
func (v *View) onResize(inst *pool.Instance, _ float64) {
	if v.busy {
		v.measure(inst)
		return
	}
	v.do(func() {
		var a *anchor
		if first, last := v.visibleRange(); last >= first && inst.Index() < first {
			a = v.topAnchor()
		}
		v.measure(inst)
		v.settle(a)
		v.updateCurrent(false)
	})
}

// positionInstances copies layout results onto the live instances
func (v *View) positionInstances() {
	from, to := v.scroll.VisibleRegion()
	cur := v.tracker.Index()
	for _, inst := range v.pool.Instances() {
		i := inst.Index()
		start, size := v.layout.Start(i), v.layout.Size(i)
		inst.Offset = v.mapOffset(start, size)
		inst.Cross = 0
		inst.Visible = start+size > from && start < to
		inst.Current = i == cur
		inst.Section, inst.SectionBoundary = v.Section(i)
	}
}

// offsets returns the layout offset of every live instance by id
func (v *View) offsets() map[int]float64 {
	out := make(map[int]float64, v.pool.Len())
	for _, inst := range v.pool.Instances() {
		out[inst.ID()] = inst.Offset
	}
	return out
}

// place puts instances that are new or moved since before directly at their layout offset
func (v *View) place(before map[int]float64) {
	for _, inst := range v.pool.Instances() {
		from, ok := before[inst.ID()]
		if !ok || v.created[inst.ID()] || from != inst.Offset {
			v.transitions.Place(inst, inst.Offset)
		}
	}
}

// scrolled catches up with a new content position
func (v *View) scrolled() {
	v.refill(nil)
	if v.tracker.RangeMode == current.StrictlyEnforceRange && !v.scroll.Flicking() {
		if i := v.tracker.RangeIndex(v.scroll.Position(), v.layout.SlotAt); i >= 0 {
			v.tracker.Set(i, v.count)
		}
	}
	v.updateCurrent(false)
	v.fetchMore()
}

// positionAt scrolls item i into place according to mode. Sizes of items before i may be estimates, so the
// window around the target is materialized and the position recomputed until the sizes settle
func (v *View) positionAt(i int, mode viewport.PositionMode) {
	v.scroll.Stop()
	for pass := 0; pass < maxPasses; pass++ {
		v.relayout()
		v.scroll.SetPosition(v.scroll.PositionAt(v.layout.Start(i), v.layout.Size(i), mode))
		if !v.materialize() {
			break
		}
	}
	v.settle(nil)
	v.updateCurrent(false)
	v.fetchMore()
}

// applyPendingPosition serves a PositionViewAtIndex request once its index exists
func (v *View) applyPendingPosition() bool {
	req := v.pendingPosition
	if req == nil || req.index >= v.count {
		return false
	}
	v.pendingPosition = nil
	v.positionAt(req.index, req.mode)
	return true
}

// updateCurrent marks the current instance and moves the highlight. With follow, or when a strictly enforced
// range lost its current instance, the view scrolls to the current item
func (v *View) updateCurrent(follow bool) {
	idx := v.tracker.Index()
	if idx < 0 || idx >= v.count {
		v.tracker.UpdateHighlight(0, 0)
		v.positionInstances()
		return
	}
	_, materialized := v.pool.Live(idx)
	strict := v.tracker.RangeMode == current.StrictlyEnforceRange
	if follow || (strict && !materialized) {
		v.follow(idx)
	}
	v.tracker.UpdateHighlight(v.layout.Start(idx), v.layout.Size(idx))
	v.positionInstances()
}

// follow scrolls so item i sits where the tracker wants it. Sizes around i may be estimates, so the window is
// materialized and the position recomputed until it stops moving
func (v *View) follow(i int) {
	moved := false
	for pass := 0; pass < maxPasses; pass++ {
		start, size := v.layout.Start(i), v.layout.Size(i)
		pos := v.scroll.Clamp(v.tracker.Follow(v.scroll.Position(), v.scroll.ViewSize, start, size))
		if !v.scroll.MoveTo(pos) {
			break
		}
		if !moved {
			v.scroll.Stop()
			moved = true
		}
		v.materialize()
		v.relayout()
	}
	if moved {
		v.settle(nil)
	}
}

// settle refills the window, then returns into the extents until newly measured sizes stop moving them. A drag
// or flick in progress is left outside the extents
func (v *View) settle(a *anchor) {
	v.refill(a)
	if v.scroll.Dragging() || v.scroll.Flicking() {
		return
	}
	for pass := 0; pass < maxPasses; pass++ {
		if !v.scroll.ReturnToBounds() {
			return
		}
		v.refill(nil)
	}
}

// fetchMore asks an incremental model for more rows once the window reaches the end of the content
func (v *View) fetchMore() {
	f, ok := v.model.(model.Fetcher)
	if !ok || !f.CanFetchMore() {
		return
	}
	_, to := v.scroll.VisibleRegion()
	if to+v.cfg.CacheBuffer+v.cfg.FetchThreshold >= v.layout.FooterStart() {
		dev.Debug(fmt.Sprintf("fetching more rows at count %d", v.count))
		f.FetchMore()
	}
}

// complete finishes a pending creation
func (v *View) complete(t pool.Ticket) error {
	inst, err := v.pool.Complete(t)
	if err != nil {
		if errors.Is(err, pool.ErrPendingCreationCancelled) {
			dev.Debug(err.Error())
		} else {
			dev.Error(err, "completing pending creation", "ticket", t.String())
		}
		return err
	}
	v.created[inst.ID()] = true
	v.measure(inst)
	return nil
}
