package listview

import (
	"github.com/robinovitch61/vl/internal/pool"
)

// Row is one materialized item. Offsets are in content coordinates, mirrored for right to left views
type Row struct {
	Instance *pool.Instance
	Index    int
	Offset   float64
	Size     float64
	Section  string
	Current  bool
	Visible  bool

	// Label is set for items that start a section with an inline label
	Label       bool
	LabelOffset float64
}

// Label is a section label pinned to an edge of the view
type Label struct {
	Section string
	Offset  float64
	AtEnd   bool
}

// Snapshot is everything a renderer needs to draw the view
type Snapshot struct {
	Orientation     Orientation
	LayoutDirection LayoutDirection
	Width           float64
	Height          float64

	// Origin is ContentX for horizontal views and ContentY for vertical ones. An offset minus Origin is a
	// position in the view
	Origin      float64
	ViewSize    float64
	ContentSize float64

	Count   int
	Current int

	HighlightOffset float64
	HighlightSize   float64
	HasHighlight    bool

	LabelSize float64

	Rows     []Row
	Removing []*pool.Instance
	Pending  []int
	Floating []Label
}

// Snapshot captures the current state of the view
func (v *View) Snapshot() Snapshot {
	s := Snapshot{
		Orientation:     v.cfg.Orientation,
		LayoutDirection: v.cfg.LayoutDirection,
		Width:           v.cfg.Width,
		Height:          v.cfg.Height,
		Origin:          v.ContentY(),
		ViewSize:        v.scroll.ViewSize,
		ContentSize:     v.layout.ContentSize(),
		Count:           v.count,
		Current:         v.tracker.Index(),
		LabelSize:       v.cfg.SectionLabelSize,
		Removing:        v.Removing(),
		Pending:         v.pool.PendingIndices(),
	}
	if v.cfg.Orientation == Horizontal {
		s.Origin = v.ContentX()
	}
	s.HighlightOffset, s.HighlightSize, s.HasHighlight = v.Highlight()

	for _, inst := range v.pool.Instances() {
		i := inst.Index()
		start, size := v.layout.Start(i), v.layout.Size(i)
		row := Row{
			Instance: inst,
			Index:    i,
			Offset:   v.mapOffset(start, size),
			Size:     size,
			Section:  inst.Section,
			Current:  inst.Current,
			Visible:  inst.Visible,
		}
		if v.sections.Enabled() && v.sections.Label(i) > 0 {
			labelStart := v.layout.LabelStart(i)
			row.Label = true
			row.LabelOffset = v.mapOffset(labelStart, v.sections.Label(i))
		}
		s.Rows = append(s.Rows, row)
	}
	for _, p := range v.FloatingSections() {
		s.Floating = append(s.Floating, Label{
			Section: p.Section,
			Offset:  v.mapOffset(p.Offset, v.cfg.SectionLabelSize),
			AtEnd:   p.AtEnd,
		})
	}
	return s
}
