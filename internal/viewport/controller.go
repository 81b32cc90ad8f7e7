package viewport

import (
	"fmt"
	"math"
)

// Terminology:
// - position: the content position, i.e. the scroll offset along the primary axis
// - extents: the smallest and largest position the view returns to when it is not being dragged
// - geometry: item starts and sizes along the primary axis, in content coordinates
//
//   content coordinates     view
//   0    header             -
//   10   item 0             -
//   30   item 1             <- position 30, the view starts here
//   50   item 2
//   70   item 3             <- view size 60, the view ends at 90
//   90   item 4             -

type SnapMode int

const (
	NoSnap SnapMode = iota
	// SnapToItem ends a flick on the nearest item boundary
	SnapToItem
	// SnapOneItem moves at most one item per flick, regardless of velocity
	SnapOneItem
)

func (s SnapMode) String() string {
	switch s {
	case NoSnap:
		return "none"
	case SnapToItem:
		return "item"
	case SnapOneItem:
		return "one"
	}
	return fmt.Sprintf("SnapMode(%d)", int(s))
}

type PositionMode int

const (
	Beginning PositionMode = iota
	Center
	End
	// Visible scrolls the least amount needed for the item to be at least partially visible
	Visible
	// Contain scrolls the least amount needed for the item to be fully visible. If it is larger than the view,
	// its start is shown
	Contain
)

func (p PositionMode) String() string {
	switch p {
	case Beginning:
		return "beginning"
	case Center:
		return "center"
	case End:
		return "end"
	case Visible:
		return "visible"
	case Contain:
		return "contain"
	}
	return fmt.Sprintf("PositionMode(%d)", int(p))
}

// Geometry is the item layout the controller scrolls over
type Geometry interface {
	Count() int
	Start(i int) float64
	Size(i int) float64
	ContentSize() float64
	// SlotAt returns the item whose slot contains pos, clamped to the first and last item
	SlotAt(pos float64) int
}

// DefaultDeceleration is in content units per second squared
const DefaultDeceleration = 1500

// Controller owns the content position of a view
type Controller struct {
	// ViewSize is the primary-axis size of the view
	ViewSize float64

	TopMargin    float64
	BottomMargin float64

	SnapMode SnapMode

	// Deceleration slows down flicks
	Deceleration float64

	// StrictRange keeps the first and last item able to reach the preferred range [RangeBegin, RangeEnd]
	// instead of the view edges
	StrictRange bool
	RangeBegin  float64
	RangeEnd    float64

	// position is the content position, allowed outside the extents while dragging
	position float64

	// dragging is true between the first Drag and EndDrag
	dragging bool

	// flick is the flick in progress, if any
	flick *flick

	geometry Geometry
}

type flick struct {
	velocity float64
	target   float64
}

type emptyGeometry struct{}

func (emptyGeometry) Count() int { return 0 }
func (emptyGeometry) Start(int) float64 { return 0 }
func (emptyGeometry) Size(int) float64 { return 0 }
func (emptyGeometry) ContentSize() float64 { return 0 }
func (emptyGeometry) SlotAt(float64) int { return -1 }

// NewController creates a controller for a view of viewSize, positioned at its minimum extent
func NewController(viewSize float64) *Controller {
	c := &Controller{
		ViewSize:     viewSize,
		Deceleration: DefaultDeceleration,
		geometry:     emptyGeometry{},
	}
	c.position = c.MinExtent()
	return c
}

// SetGeometry updates the layout the controller scrolls over. The position is left as is
func (c *Controller) SetGeometry(g Geometry) {
	if g == nil {
		g = emptyGeometry{}
	}
	c.geometry = g
}

func (c *Controller) Position() float64 {
	return c.position
}

// SetPosition moves the content position without clamping it to the extents
func (c *Controller) SetPosition(p float64) {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return
	}
	c.position = p
}

// MoveTo sets the content position to p, reporting whether it moved
func (c *Controller) MoveTo(p float64) bool {
	if math.IsNaN(p) || math.IsInf(p, 0) || almostEqual(p, c.position) {
		return false
	}
	c.position = p
	return true
}

// VisibleRegion returns the content range covered by the view
func (c *Controller) VisibleRegion() (from, to float64) {
	return c.position, c.position + c.ViewSize
}

func (c *Controller) ContentSize() float64 {
	return c.geometry.ContentSize()
}

// ContentExtent is the whole scrollable size, margins included
func (c *Controller) ContentExtent() float64 {
	return c.TopMargin + c.geometry.ContentSize() + c.BottomMargin
}

func (c *Controller) strict() bool {
	return c.StrictRange && c.geometry.Count() > 0
}

// MinExtent is the smallest position the view returns to
func (c *Controller) MinExtent() float64 {
	if !c.strict() {
		return 0 - c.TopMargin
	}
	minimum := c.geometry.Start(0) - c.RangeBegin
	if c.RangeEnd > c.RangeBegin {
		minimum = min(minimum, c.geometry.Start(0)+c.geometry.Size(0)-c.RangeEnd)
	}
	return minimum
}

// MaxExtent is the largest position the view returns to, never less than MinExtent
func (c *Controller) MaxExtent() float64 {
	minimum := c.MinExtent()
	if !c.strict() {
		return max(minimum, c.geometry.ContentSize()+c.BottomMargin-c.ViewSize)
	}
	last := c.geometry.Count() - 1
	maximum := c.geometry.Start(last) - c.RangeBegin
	if c.RangeEnd > c.RangeBegin {
		maximum = max(maximum, c.geometry.Start(last)+c.geometry.Size(last)-c.RangeEnd)
	}
	return max(minimum, maximum)
}

// Clamp returns p limited to the extents
func (c *Controller) Clamp(p float64) float64 {
	return clampValMinMax(p, c.MinExtent(), c.MaxExtent())
}

// AtBeginning is true when the position is at or before the minimum extent
func (c *Controller) AtBeginning() bool {
	return c.position <= c.MinExtent()
}

func (c *Controller) AtEnd() bool {
	return c.position >= c.MaxExtent()
}

// ReturnToBounds clamps the position into the extents, reporting whether it moved
func (c *Controller) ReturnToBounds() bool {
	p := c.Clamp(c.position)
	if almostEqual(p, c.position) {
		return false
	}
	c.position = p
	return true
}

// PositionAt returns the position that shows an item at [start, start+size) according to mode, clamped to
// the extents. Visible and Contain return the current position when no scrolling is needed
func (c *Controller) PositionAt(start, size float64, mode PositionMode) float64 {
	pos := c.position
	end := start + size
	switch mode {
	case Beginning:
		pos = start
	case Center:
		pos = start - (c.ViewSize-size)/2
	case End:
		pos = end - c.ViewSize
	case Visible:
		if start > pos+c.ViewSize {
			pos = end - c.ViewSize
		} else if end <= pos {
			pos = start
		}
	case Contain:
		if end >= pos+c.ViewSize {
			pos = end - c.ViewSize
		}
		if start < pos {
			pos = start
		}
	}
	return c.Clamp(pos)
}

func (c *Controller) PositionAtBeginning() {
	c.stopFlick()
	c.position = c.MinExtent()
}

func (c *Controller) PositionAtEnd() {
	c.stopFlick()
	c.position = c.MaxExtent()
}

// Drag moves the position by delta. Dragging past the extents is allowed until EndDrag
func (c *Controller) Drag(delta float64) {
	c.stopFlick()
	c.dragging = true
	c.SetPosition(c.position + delta)
}

func (c *Controller) Dragging() bool {
	return c.dragging
}

// EndDrag finishes a drag, returning into the extents and applying the snap mode
func (c *Controller) EndDrag() {
	c.dragging = false
	c.ReturnToBounds()
	if c.SnapMode != NoSnap {
		c.position = c.Clamp(c.snap(c.position))
	}
}

// FlickTarget returns where a flick with velocity, in content units per second, comes to rest
func (c *Controller) FlickTarget(velocity float64) float64 {
	decel := c.Deceleration
	if decel <= 0 {
		decel = DefaultDeceleration
	}
	target := c.position + sign(velocity)*velocity*velocity/(2*decel)
	switch c.SnapMode {
	case SnapToItem:
		target = c.snap(target)
	case SnapOneItem:
		target = c.snapOne(velocity)
	}
	return c.Clamp(target)
}

// Flick starts a flick with velocity. Tick moves the position towards the flick's target
func (c *Controller) Flick(velocity float64) {
	c.dragging = false
	if velocity == 0 {
		c.EndDrag()
		return
	}
	target := c.FlickTarget(velocity)
	if almostEqual(target, c.position) {
		c.flick = nil
		return
	}
	c.flick = &flick{velocity: velocity, target: target}
}

func (c *Controller) Flicking() bool {
	return c.flick != nil
}

// Tick advances a flick by dt seconds, returning whether the position moved. A flick whose velocity has
// decayed before reaching its target lands on the target
func (c *Controller) Tick(dt float64) bool {
	if c.flick == nil || dt <= 0 {
		return false
	}
	f := c.flick
	decel := c.Deceleration
	if decel <= 0 {
		decel = DefaultDeceleration
	}
	step := f.velocity * dt
	next := c.position + step
	f.velocity -= sign(f.velocity) * decel * dt
	passed := (step > 0 && next >= f.target) || (step < 0 && next <= f.target)
	decayed := math.Abs(f.velocity) < decel*dt
	if passed || decayed {
		next = f.target
		c.flick = nil
	}
	c.position = next
	return true
}

// Stop abandons a drag or flick in progress where it is
func (c *Controller) Stop() {
	c.flick = nil
	c.dragging = false
}

// Settle finishes a flick in progress immediately
func (c *Controller) Settle() {
	if c.flick == nil {
		return
	}
	c.position = c.flick.target
	c.flick = nil
}

func (c *Controller) stopFlick() {
	c.flick = nil
}

// snapOffset is where in the view snapped items are aligned
func (c *Controller) snapOffset() float64 {
	if c.StrictRange {
		return c.RangeBegin
	}
	return 0
}

// snap returns the position that aligns the item boundary nearest to p
func (c *Controller) snap(p float64) float64 {
	n := c.geometry.Count()
	if n == 0 {
		return p
	}
	offset := c.snapOffset()
	i := c.geometry.SlotAt(p + offset)
	if i < 0 {
		return p
	}
	best := c.geometry.Start(i) - offset
	if i+1 < n {
		next := c.geometry.Start(i+1) - offset
		if math.Abs(next-p) < math.Abs(best-p) {
			best = next
		}
	}
	return best
}

// snapOne returns the boundary one item away from the currently snapped item, in the direction of velocity
func (c *Controller) snapOne(velocity float64) float64 {
	n := c.geometry.Count()
	if n == 0 {
		return c.position
	}
	offset := c.snapOffset()
	i := c.geometry.SlotAt(c.snap(c.position) + offset)
	if i < 0 {
		return c.position
	}
	if velocity > 0 {
		i = min(i+1, n-1)
	} else {
		i = max(i-1, 0)
	}
	return c.geometry.Start(i) - offset
}
