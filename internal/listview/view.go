package listview

import (
	"math"

	"github.com/robinovitch61/vl/internal/current"
	"github.com/robinovitch61/vl/internal/layout"
	"github.com/robinovitch61/vl/internal/model"
	"github.com/robinovitch61/vl/internal/pool"
	"github.com/robinovitch61/vl/internal/section"
	"github.com/robinovitch61/vl/internal/transition"
	"github.com/robinovitch61/vl/internal/viewport"
)

// Terminology:
// - primary axis: the scrolling axis, y for vertical views and x for horizontal ones
// - offset: a position along the primary axis in content coordinates, where 0 is the start of the header
// - window: the visible region plus the cache buffer on both sides, in which items are materialized
// - materialized: an index with a live instance bound to it. Pending indices wait for an asynchronous creation
//
//   offset  slot                       materialized
//   0       header                     -
//   20      item 0                     -
//   40      item 1        <- window    yes
//   60      item 2        <- view      yes
//   ...
//   380     item 18       <- view end  yes
//   400     item 19       <- window    yes
//   420     item 20                    -

// maxPasses bounds the layout passes of one refill while measured sizes replace estimates
const maxPasses = 8

// View keeps a virtualized row of delegate instances consistent with a list model
type View struct {
	cfg Config

	model       model.ListModel
	pool        *pool.Pool
	sizes       *layout.SizeTable
	sections    *section.Grouper
	scroll      *viewport.Controller
	tracker     *current.Tracker
	transitions *transition.Dispatcher

	// layout is the result of the last layout pass
	layout layout.Result

	// count is the model size as known from the changes reconciled so far
	count int

	// lastSeq is the sequence number of the last reconciled change
	lastSeq uint64

	// queue holds changes delivered while the view is busy. They are reconciled in delivery order
	queue []model.Change
	busy  bool

	unsubscribe func()

	// pendingPosition is a PositionViewAtIndex request waiting for its index to exist
	pendingPosition *positionRequest

	// removing holds unbound instances whose removal transition is running, by instance id
	removing map[int]*pool.Instance

	// created holds the ids of instances materialized since the current operation started
	created map[int]bool

	// resized is set when a measured size differs from the one used by the last layout pass
	resized bool

	lastErr error
}

type positionRequest struct {
	index int
	mode  viewport.PositionMode
}

// New creates a view of m. The renderer and effects may be nil
func New(m model.ListModel, f pool.Factory, r pool.Renderer, fx transition.Effects, cfg Config) *View {
	if cfg.SizeHint <= 0 {
		cfg.SizeHint = DefaultSizeHint
	}
	v := &View{
		cfg:      cfg,
		model:    m,
		removing: make(map[int]*pool.Instance),
		created:  make(map[int]bool),
	}
	v.pool = pool.New(m, f, r)
	v.pool.OnResize = v.onResize
	v.sections = section.New(cfg.SectionField, cfg.SectionCriteria, cfg.SectionPositioning)
	v.sections.LabelSize = cfg.SectionLabelSize
	v.sections.FooterSize = cfg.SectionFooterSize
	v.tracker = current.New()
	v.tracker.Wraps = cfg.KeyNavigationWraps
	v.tracker.FollowsCurrent = cfg.HighlightFollowsCurrentItem
	v.tracker.RangeMode = cfg.HighlightRangeMode
	v.tracker.PreferredBegin = cfg.PreferredHighlightBegin
	v.tracker.PreferredEnd = cfg.PreferredHighlightEnd
	v.scroll = viewport.NewController(cfg.viewSize())
	v.scroll.TopMargin = cfg.TopMargin
	v.scroll.BottomMargin = cfg.BottomMargin
	v.scroll.SnapMode = cfg.SnapMode
	v.scroll.Deceleration = cfg.FlickDeceleration
	v.scroll.StrictRange = cfg.HighlightRangeMode == current.StrictlyEnforceRange
	v.scroll.RangeBegin = cfg.PreferredHighlightBegin
	v.scroll.RangeEnd = cfg.PreferredHighlightEnd
	v.transitions = transition.NewDispatcher(cfg.Transitions, fx)
	v.transitions.OnRemoved = v.finishRemoval
	v.unsubscribe = m.Subscribe(v.onChange)

	// changes delivered while populating, e.g. by fetching more rows, wait in the queue
	v.busy = true
	v.count = m.Count()
	v.sizes = layout.NewSizeTable(v.count, cfg.SizeHint)
	v.sections.Rebuild(m)
	v.tracker.Populate(v.count)
	v.relayout()
	v.scroll.SetPosition(v.scroll.MinExtent())
	v.populate()
	v.busy = false
	v.do(nil)
	return v
}

// Close stops listening to the model
func (v *View) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}

func (v *View) Config() Config {
	return v.cfg
}

func (v *View) Model() model.ListModel {
	return v.model
}

// Count is the number of items in the model
func (v *View) Count() int {
	return v.count
}

// LastError returns the last inconsistent notification the view recovered from
func (v *View) LastError() error {
	return v.lastErr
}

// Transitions exposes the dispatcher so an animation engine can report finished animations
func (v *View) Transitions() *transition.Dispatcher {
	return v.transitions
}

// Layout is the result of the last layout pass
func (v *View) Layout() layout.Result {
	return v.layout
}

// Instance returns the live instance bound to index i
func (v *View) Instance(i int) (*pool.Instance, bool) {
	return v.pool.Live(i)
}

// Materialized returns the indices with a live instance, sorted
func (v *View) Materialized() []int {
	return v.pool.Indices()
}

// Pending returns the indices waiting for an asynchronous creation, sorted
func (v *View) Pending() []int {
	return v.pool.PendingIndices()
}

func (v *View) PendingTickets() []pool.Ticket {
	return v.pool.PendingTickets()
}

// Removing returns the instances still running their removal transition
func (v *View) Removing() []*pool.Instance {
	out := make([]*pool.Instance, 0, len(v.removing))
	for _, inst := range v.removing {
		out = append(out, inst)
	}
	return out
}

// ItemStart is the primary-axis offset of item i in content coordinates, mirrored for right to left views
func (v *View) ItemStart(i int) float64 {
	return v.mapOffset(v.layout.Start(i), v.layout.Size(i))
}

func (v *View) ItemSize(i int) float64 {
	return v.layout.Size(i)
}

// ContentSize is the laid out size of header, items, section slots and footer
func (v *View) ContentSize() float64 {
	return v.layout.ContentSize()
}

func (v *View) FooterStart() float64 {
	return v.layout.FooterStart()
}

// Section returns the section of item i and whether it starts that section
func (v *View) Section(i int) (string, bool) {
	return v.sections.Section(i), v.sections.IsBoundary(i)
}

// FloatingSections returns the section labels pinned to the edges of the view
func (v *View) FloatingSections() []section.Pinned {
	from, to := v.scroll.VisibleRegion()
	return v.sections.Floating(v.layout, from, to)
}

// Highlight returns the highlight's offset and size, ok being false when there is no current item
func (v *View) Highlight() (offset, size float64, ok bool) {
	offset, size, ok = v.tracker.Highlight()
	return v.mapOffset(offset, size), size, ok
}

func (v *View) CurrentIndex() int {
	return v.tracker.Index()
}

// CurrentItem returns the instance of the current item, if it is materialized
func (v *View) CurrentItem() (*pool.Instance, bool) {
	if v.tracker.Index() < 0 {
		return nil, false
	}
	return v.pool.Live(v.tracker.Index())
}

// SetCurrentIndex makes i current. The view scrolls to keep it where the highlight range wants it
func (v *View) SetCurrentIndex(i int) {
	v.do(func() {
		if v.tracker.Set(i, v.count) {
			v.updateCurrent(true)
		}
	})
}

func (v *View) IncrementCurrentIndex() {
	v.do(func() {
		if v.tracker.Increment(v.count) {
			v.updateCurrent(true)
		}
	})
}

func (v *View) DecrementCurrentIndex() {
	v.do(func() {
		if v.tracker.Decrement(v.count) {
			v.updateCurrent(true)
		}
	})
}

// ContentPosition is the scroll offset along the primary axis, independent of the layout direction
func (v *View) ContentPosition() float64 {
	return v.scroll.Position()
}

// SetContentPosition scrolls to p without clamping it to the extents
func (v *View) SetContentPosition(p float64) {
	v.do(func() {
		v.scroll.Stop()
		v.scroll.SetPosition(p)
		v.scrolled()
	})
}

func (v *View) ContentX() float64 {
	if v.cfg.Orientation != Horizontal {
		return 0
	}
	if v.cfg.mirrored() {
		return -(v.scroll.Position() + v.scroll.ViewSize)
	}
	return v.scroll.Position()
}

func (v *View) ContentY() float64 {
	if v.cfg.Orientation != Vertical {
		return 0
	}
	return v.scroll.Position()
}

func (v *View) SetContentX(x float64) {
	if v.cfg.Orientation != Horizontal {
		return
	}
	if v.cfg.mirrored() {
		x = -x - v.scroll.ViewSize
	}
	v.SetContentPosition(x)
}

func (v *View) SetContentY(y float64) {
	if v.cfg.Orientation != Vertical {
		return
	}
	v.SetContentPosition(y)
}

func (v *View) MinExtent() float64 {
	return v.scroll.MinExtent()
}

func (v *View) MaxExtent() float64 {
	return v.scroll.MaxExtent()
}

// VisibleRegion is the primary-axis range of content coordinates covered by the view
func (v *View) VisibleRegion() (from, to float64) {
	return v.scroll.VisibleRegion()
}

// ReturnToBounds scrolls back into the extents
func (v *View) ReturnToBounds() {
	v.do(func() {
		if v.scroll.ReturnToBounds() {
			v.scrolled()
		}
	})
}

// PositionViewAtIndex scrolls so item i is shown according to mode. A request for an index the model does not
// have yet is kept until the index exists
func (v *View) PositionViewAtIndex(i int, mode viewport.PositionMode) {
	v.do(func() {
		if i < 0 {
			return
		}
		if i >= v.count {
			v.pendingPosition = &positionRequest{index: i, mode: mode}
			return
		}
		v.pendingPosition = nil
		v.positionAt(i, mode)
	})
}

func (v *View) PositionViewAtBeginning() {
	v.do(func() {
		v.pendingPosition = nil
		v.scroll.PositionAtBeginning()
		v.scrolled()
	})
}

func (v *View) PositionViewAtEnd() {
	v.do(func() {
		v.pendingPosition = nil
		// estimated sizes may change once the end is materialized
		for pass := 0; pass < maxPasses; pass++ {
			v.scroll.PositionAtEnd()
			v.relayout()
			v.scroll.PositionAtEnd()
			if !v.materialize() {
				break
			}
		}
		v.scrolled()
	})
}

// IndexAt returns the index of the item at the content coordinates x, y, or -1
func (v *View) IndexAt(x, y float64) int {
	primary, cross := y, x
	if v.cfg.Orientation == Horizontal {
		primary, cross = x, y
	}
	if cross < 0 || cross >= v.cfg.crossSize() {
		return -1
	}
	if v.cfg.mirrored() {
		// items span [-(start+size), -start), i.e. (start, start+size] once negated
		primary = math.Nextafter(-primary, math.Inf(-1))
	}
	return v.layout.IndexAt(primary)
}

// ItemAt returns the instance at the content coordinates x, y, if one is materialized there
func (v *View) ItemAt(x, y float64) (*pool.Instance, bool) {
	i := v.IndexAt(x, y)
	if i < 0 {
		return nil, false
	}
	return v.pool.Live(i)
}

// Drag moves the content by delta, allowing it past the extents until EndDrag
func (v *View) Drag(delta float64) {
	v.do(func() {
		v.scroll.Drag(delta)
		v.scrolled()
	})
}

func (v *View) EndDrag() {
	v.do(func() {
		v.scroll.EndDrag()
		v.scrolled()
	})
}

// Flick starts a flick with velocity in content units per second. Tick moves it along
func (v *View) Flick(velocity float64) {
	v.do(func() {
		v.scroll.Flick(velocity)
		v.scrolled()
	})
}

func (v *View) Flicking() bool {
	return v.scroll.Flicking()
}

// Tick advances a flick by dt seconds, returning whether the view moved
func (v *View) Tick(dt float64) bool {
	moved := false
	v.do(func() {
		if moved = v.scroll.Tick(dt); moved {
			v.scrolled()
		}
	})
	return moved
}

// Settle lands a flick in progress on its target
func (v *View) Settle() {
	v.do(func() {
		if v.scroll.Flicking() {
			v.scroll.Settle()
			v.scrolled()
		}
	})
}

// SetSize resizes the view
func (v *View) SetSize(width, height float64) {
	v.do(func() {
		v.cfg.Width, v.cfg.Height = width, height
		v.scroll.ViewSize = v.cfg.viewSize()
		v.settle(v.topAnchor())
		v.updateCurrent(false)
		v.fetchMore()
	})
}

// Incubate completes up to n pending creations in index order, returning how many completed
func (v *View) Incubate(n int) int {
	done := 0
	v.do(func() {
		for _, t := range v.pool.PendingTickets() {
			if done >= n {
				break
			}
			if v.complete(t) == nil {
				done++
			}
		}
		if done > 0 {
			v.settle(nil)
			v.updateCurrent(false)
			v.fetchMore()
		}
	})
	return done
}

// CompleteCreation completes one pending creation. A ticket whose index left the window in the meantime
// returns pool.ErrPendingCreationCancelled
func (v *View) CompleteCreation(t pool.Ticket) error {
	var err error
	v.do(func() {
		if err = v.complete(t); err == nil {
			v.settle(nil)
			v.updateCurrent(false)
		}
	})
	return err
}

func (v *View) mapOffset(start, size float64) float64 {
	if v.cfg.mirrored() {
		return -(start + size)
	}
	return start
}
