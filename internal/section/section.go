package section

import (
	"math"
	"unicode/utf8"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/robinovitch61/vl/internal/layout"
	"github.com/robinovitch61/vl/internal/model"
)

type Criteria int

const (
	FullString Criteria = iota
	FirstCharacter
)

// Positioning flags can be combined
type Positioning int

const (
	InlineLabels Positioning = 1 << iota
	CurrentLabelAtStart
	NextLabelAtEnd
)

// Boundary is the first index of a section
type Boundary struct {
	Index int
	Value string
}

// Slot describes the section membership of one index
type Slot struct {
	Index    int
	Section  string
	Boundary bool
	// Last is true for the last item of its section
	Last bool
}

// Pinned is a floating label held at an edge of the viewport
type Pinned struct {
	Section string
	// Index is the first item of the labelled section
	Index  int
	Offset float64
	AtEnd  bool
}

// Grouper tracks the indices where the section key changes
type Grouper struct {
	Field       string
	Criteria    Criteria
	Positioning Positioning
	LabelSize   float64
	FooterSize  float64

	boundaries *redblacktree.Tree
	count      int
}

func New(field string, criteria Criteria, positioning Positioning) *Grouper {
	return &Grouper{
		Field:       field,
		Criteria:    criteria,
		Positioning: positioning,
		boundaries:  redblacktree.NewWithIntComparator(),
	}
}

func (g *Grouper) Enabled() bool {
	return g != nil && g.Field != ""
}

// Key returns the section key of item
func (g *Grouper) Key(item model.Item) string {
	v := item.String(g.Field)
	if g.Criteria == FirstCharacter && v != "" {
		_, size := utf8.DecodeRuneInString(v)
		return v[:size]
	}
	return v
}

// Rebuild scans the whole model
func (g *Grouper) Rebuild(m model.ListModel) {
	g.boundaries.Clear()
	g.count = m.Count()
	if !g.Enabled() {
		return
	}
	prev := ""
	for i := 0; i < g.count; i++ {
		key := g.Key(m.ItemAt(i))
		if i == 0 || key != prev {
			g.boundaries.Put(i, key)
		}
		prev = key
	}
}

// Apply updates boundaries for one change. m must already reflect the change. Only the indices next to the
// edit are rescanned
func (g *Grouper) Apply(c model.Change, m model.ListModel) {
	if c.Kind == model.Reset || !g.Enabled() {
		g.Rebuild(m)
		return
	}
	g.count = m.Count()
	switch c.Kind {
	case model.Inserted:
		g.remap(c)
		g.rescan(m, c.At, c.At+c.Count)
	case model.Removed:
		g.remap(c)
		g.rescan(m, c.At, c.At)
	case model.Moved:
		g.remap(c)
		g.rescan(m, c.To, c.To+c.Count)
		if c.At < c.To {
			g.rescan(m, c.At, c.At)
		} else {
			g.rescan(m, c.At+c.Count, c.At+c.Count)
		}
	case model.Changed:
		g.rescan(m, c.At, c.At+c.Count)
	}
}

// remap shifts the boundary keys at or after the edit to their new indices, dropping removed and moved ones.
// Keys before the edit, and after the moved range of a move, keep their index
func (g *Grouper) remap(c model.Change) {
	lo, hi := c.At, math.MaxInt
	if c.Kind == model.Moved {
		lo, hi = min(c.At, c.To), max(c.At, c.To)+c.Count
	}
	var keys []int
	var values []any
	node, ok := g.boundaries.Ceiling(lo)
	for ok && node.Key.(int) < hi {
		keys = append(keys, node.Key.(int))
		values = append(values, node.Value)
		node, ok = g.boundaries.Ceiling(node.Key.(int) + 1)
	}
	for _, k := range keys {
		g.boundaries.Remove(k)
	}
	for i, old := range keys {
		if c.Kind == model.Moved && old >= c.At && old < c.At+c.Count {
			continue
		}
		if idx := c.MapIndex(old); idx >= 0 {
			g.boundaries.Put(idx, values[i])
		}
	}
}

// rescan recomputes boundaries for indices from..to inclusive
func (g *Grouper) rescan(m model.ListModel, from, to int) {
	from = max(from, 0)
	to = min(to, g.count-1)
	if from > to {
		return
	}
	prev := ""
	if from > 0 {
		prev = g.Key(m.ItemAt(from - 1))
	}
	for i := from; i <= to; i++ {
		key := g.Key(m.ItemAt(i))
		if i == 0 || key != prev {
			g.boundaries.Put(i, key)
		} else {
			g.boundaries.Remove(i)
		}
		prev = key
	}
}

func (g *Grouper) IsBoundary(i int) bool {
	if !g.Enabled() {
		return false
	}
	_, ok := g.boundaries.Get(i)
	return ok
}

// Section returns the section key of index i
func (g *Grouper) Section(i int) string {
	if b, ok := g.boundaryOf(i); ok {
		return b.Value
	}
	return ""
}

func (g *Grouper) boundaryOf(i int) (Boundary, bool) {
	if !g.Enabled() || i < 0 || i >= g.count {
		return Boundary{}, false
	}
	node, ok := g.boundaries.Floor(i)
	if !ok {
		return Boundary{}, false
	}
	return Boundary{Index: node.Key.(int), Value: node.Value.(string)}, true
}

// nextBoundary returns the first boundary after index i
func (g *Grouper) nextBoundary(i int) (Boundary, bool) {
	if !g.Enabled() {
		return Boundary{}, false
	}
	node, ok := g.boundaries.Ceiling(i + 1)
	if !ok {
		return Boundary{}, false
	}
	return Boundary{Index: node.Key.(int), Value: node.Value.(string)}, true
}

func (g *Grouper) IsLast(i int) bool {
	if !g.Enabled() || i < 0 || i >= g.count {
		return false
	}
	return i == g.count-1 || g.IsBoundary(i+1)
}

func (g *Grouper) Boundaries() []Boundary {
	var out []Boundary
	if g == nil {
		return out
	}
	it := g.boundaries.Iterator()
	for it.Next() {
		out = append(out, Boundary{Index: it.Key().(int), Value: it.Value().(string)})
	}
	return out
}

// Label is the size of the inline label slot before item i
func (g *Grouper) Label(i int) float64 {
	if g.Positioning&InlineLabels == 0 || !g.IsBoundary(i) {
		return 0
	}
	return g.LabelSize
}

// Trailer is the size of the section footer slot after item i
func (g *Grouper) Trailer(i int) float64 {
	if g.FooterSize <= 0 || !g.IsLast(i) {
		return 0
	}
	return g.FooterSize
}

// Derive returns the section slots of indices
func (g *Grouper) Derive(indices []int) []Slot {
	out := make([]Slot, 0, len(indices))
	for _, i := range indices {
		out = append(out, Slot{
			Index:    i,
			Section:  g.Section(i),
			Boundary: g.IsBoundary(i),
			Last:     g.IsLast(i),
		})
	}
	return out
}

// Floating returns the labels pinned to the viewport [viewStart, viewEnd) for the enabled positioning flags
func (g *Grouper) Floating(r layout.Result, viewStart, viewEnd float64) []Pinned {
	if !g.Enabled() || r.Count() == 0 {
		return nil
	}
	var out []Pinned
	if g.Positioning&CurrentLabelAtStart != 0 {
		idx := r.SlotAt(viewStart)
		if b, ok := g.boundaryOf(idx); ok {
			offset := max(viewStart, r.LabelStart(b.Index))
			if next, ok := g.nextBoundary(idx); ok && g.Positioning&InlineLabels != 0 {
				// the next inline label pushes the pinned one out
				if limit := r.LabelStart(next.Index) - g.LabelSize; offset > limit {
					offset = limit
				}
			}
			out = append(out, Pinned{Section: b.Value, Index: b.Index, Offset: offset})
		}
	}
	if g.Positioning&NextLabelAtEnd != 0 {
		if first, last := r.Range(viewStart, viewEnd); last >= first {
			if next, ok := g.nextBoundary(last); ok {
				out = append(out, Pinned{Section: next.Value, Index: next.Index, Offset: viewEnd - g.LabelSize, AtEnd: true})
			}
		}
	}
	return out
}
