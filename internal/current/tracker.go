package current

import (
	"fmt"

	"github.com/robinovitch61/vl/internal/model"
)

type RangeMode int

const (
	NoRange RangeMode = iota
	// ApplyRange scrolls to keep the current item inside the preferred range when it changes
	ApplyRange
	// StrictlyEnforceRange never lets the current item leave the preferred range: scrolling changes the current
	// item instead
	StrictlyEnforceRange
)

func (r RangeMode) String() string {
	switch r {
	case NoRange:
		return "none"
	case ApplyRange:
		return "apply"
	case StrictlyEnforceRange:
		return "strict"
	}
	return fmt.Sprintf("RangeMode(%d)", int(r))
}

// Tracker owns the current index and the highlight that follows it
type Tracker struct {
	// Wraps lets Increment and Decrement wrap around the ends
	Wraps bool

	// FollowsCurrent moves the highlight along with the current item
	FollowsCurrent bool

	RangeMode      RangeMode
	PreferredBegin float64
	PreferredEnd   float64

	// index is the current index, -1 for none
	index int

	// cleared is true when the current index was set to -1 on purpose, which stops a newly populated model
	// from selecting its first item
	cleared bool

	highlightOffset float64
	highlightSize   float64
	highlightValid  bool
}

func New() *Tracker {
	return &Tracker{index: -1, FollowsCurrent: true}
}

func (t *Tracker) Index() int {
	return t.index
}

// Set makes i current, returning whether the index changed. -1 clears the current index, out of range indices
// are ignored and an empty model always has no current index
func (t *Tracker) Set(i, count int) bool {
	prev := t.index
	switch {
	case count <= 0:
		t.index = -1
	case i == -1:
		t.index = -1
		t.cleared = true
	case i >= 0 && i < count:
		t.index = i
		t.cleared = false
	}
	return t.index != prev
}

// Increment moves to the next item, wrapping to the first only when Wraps is set
func (t *Tracker) Increment(count int) bool {
	if count <= 0 {
		return false
	}
	next := t.index + 1
	if next >= count {
		if !t.Wraps {
			return false
		}
		next = 0
	}
	return t.Set(next, count)
}

// Decrement moves to the previous item, wrapping to the last only when Wraps is set
func (t *Tracker) Decrement(count int) bool {
	if count <= 0 {
		return false
	}
	prev := t.index - 1
	if prev < 0 {
		if !t.Wraps {
			return false
		}
		prev = count - 1
	}
	return t.Set(prev, count)
}

// Remap rewrites the current index for a model change, count being the model size after it. An index inside
// a removed range moves to the item now in its slot, or the last item. The first item becomes current when an
// empty model is populated, unless the current index was cleared on purpose
func (t *Tracker) Remap(c model.Change, count int) {
	if c.Kind == model.Reset {
		t.Reset()
		return
	}
	if count <= 0 {
		t.index = -1
		return
	}
	if t.index == -1 {
		if c.Kind == model.Inserted && count == c.Count && !t.cleared {
			t.index = 0
		}
		return
	}
	idx := c.MapIndex(t.index)
	if idx < 0 {
		idx = min(t.index, count-1)
	}
	t.index = idx
}

// Reset clears the current index. It stays clear until set again
func (t *Tracker) Reset() {
	t.index = -1
	t.cleared = true
	t.highlightValid = false
}

// Populate selects the first item of a freshly attached, non-empty model
func (t *Tracker) Populate(count int) {
	t.cleared = false
	if count > 0 && t.index == -1 {
		t.index = 0
	}
}

// UpdateHighlight moves the highlight to the current item's slot. Without FollowsCurrent the highlight keeps
// its position
func (t *Tracker) UpdateHighlight(start, size float64) {
	if t.index == -1 {
		t.highlightValid = false
		return
	}
	if !t.FollowsCurrent && t.highlightValid {
		return
	}
	t.highlightOffset = start
	t.highlightSize = size
	t.highlightValid = true
}

// Highlight returns the highlight's offset and size, ok being false when there is no current item
func (t *Tracker) Highlight() (offset, size float64, ok bool) {
	return t.highlightOffset, t.highlightSize, t.highlightValid
}

func (t *Tracker) rangeEnd() float64 {
	return max(t.PreferredBegin, t.PreferredEnd)
}

// Follow returns the content position that keeps the current item at [start, start+size) where the range
// mode wants it, starting from the view at pos with viewSize. Without a range the item is kept inside the view
func (t *Tracker) Follow(pos, viewSize, start, size float64) float64 {
	begin, end := pos, pos+viewSize
	if t.RangeMode != NoRange {
		begin, end = pos+t.PreferredBegin, pos+t.rangeEnd()
		if t.rangeEnd() == t.PreferredBegin {
			return start - t.PreferredBegin
		}
	}
	switch {
	case start+size > end && size <= end-begin:
		pos += start + size - end
	case start+size > end:
		pos += start - begin
	case start < begin:
		pos -= begin - start
	}
	return pos
}

// RangeIndex returns the index that becomes current when a strictly enforced view scrolls to pos. slotAt maps
// a content position to the item whose slot contains it
func (t *Tracker) RangeIndex(pos float64, slotAt func(float64) int) int {
	if t.RangeMode != StrictlyEnforceRange {
		return t.index
	}
	return slotAt(pos + t.PreferredBegin)
}
