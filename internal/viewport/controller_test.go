package viewport

import (
	"math"
	"testing"
)

// rows is a uniform geometry of n items of size each, with no spacing
type rows struct {
	n    int
	size float64
}

func (r rows) Count() int { return r.n }
func (r rows) Start(i int) float64 { return float64(i) * r.size }
func (r rows) Size(int) float64 { return r.size }
func (r rows) ContentSize() float64 { return float64(r.n) * r.size }
func (r rows) SlotAt(pos float64) int {
	if r.n == 0 {
		return -1
	}
	return int(clampValMinMax(float64(int(pos/r.size)), 0, float64(r.n-1)))
}

func newController(n int) *Controller {
	c := NewController(320)
	c.SetGeometry(rows{n: n, size: 20})
	return c
}

func TestController_Extents(t *testing.T) {
	c := newController(40)
	c.TopMargin = 10
	c.BottomMargin = 5
	if c.MinExtent() != -10 {
		t.Errorf("expected min -10, got %v", c.MinExtent())
	}
	if c.MaxExtent() != 800+5-320 {
		t.Errorf("expected max 485, got %v", c.MaxExtent())
	}
	if c.ContentExtent() != 815 {
		t.Errorf("expected extent 815, got %v", c.ContentExtent())
	}

	short := newController(3)
	if short.MaxExtent() != short.MinExtent() {
		t.Errorf("expected max to equal min for short content, got %v", short.MaxExtent())
	}
	if math.Signbit(short.MinExtent()) {
		t.Errorf("expected min 0 without a top margin, got %v", short.MinExtent())
	}
}

func TestController_MoveTo(t *testing.T) {
	c := newController(40)
	if !c.MoveTo(100) || c.Position() != 100 {
		t.Errorf("expected a move to 100, got %v", c.Position())
	}
	if c.MoveTo(100 + 1e-12) {
		t.Error("expected no move to the same position")
	}
	if c.MoveTo(math.NaN()) || c.Position() != 100 {
		t.Errorf("expected NaN ignored, got %v", c.Position())
	}
}

func TestController_StrictRangeExtents(t *testing.T) {
	c := newController(10)
	c.StrictRange = true
	c.RangeBegin = 100
	c.RangeEnd = 120
	if c.MinExtent() != -100 {
		t.Errorf("expected min -100, got %v", c.MinExtent())
	}
	if c.MaxExtent() != 180-100 {
		t.Errorf("expected max 80, got %v", c.MaxExtent())
	}
}

func TestController_PositionAt(t *testing.T) {
	tests := []struct {
		name     string
		position float64
		start    float64
		mode     PositionMode
		expected float64
	}{
		{"beginning", 0, 440, Beginning, 440},
		{"beginning clamped", 0, 780, Beginning, 480},
		{"center", 0, 440, Center, 290},
		{"end", 0, 440, End, 140},
		{"visible already", 100, 400, Visible, 100},
		{"visible partially", 100, 410, Visible, 100},
		{"visible below", 0, 500, Visible, 200},
		{"visible above", 300, 100, Visible, 100},
		{"contain already", 100, 300, Contain, 100},
		{"contain partially below", 100, 410, Contain, 110},
		{"contain partially above", 100, 90, Contain, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(40)
			c.SetPosition(tt.position)
			if got := c.PositionAt(tt.start, 20, tt.mode); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestController_ContainLargerThanView(t *testing.T) {
	c := NewController(50)
	c.SetGeometry(rows{n: 10, size: 100})
	c.SetPosition(0)
	// the item is larger than the view, so its start is shown
	if got := c.PositionAt(300, 100, Contain); got != 300 {
		t.Errorf("expected 300, got %v", got)
	}
}

func TestController_DragOvershootsUntilEnd(t *testing.T) {
	c := newController(40)
	c.Drag(-50)
	if c.Position() != -50 || !c.Dragging() {
		t.Fatalf("expected overshoot to -50 while dragging, got %v", c.Position())
	}
	c.EndDrag()
	if c.Position() != 0 || c.Dragging() {
		t.Errorf("expected return to 0, got %v", c.Position())
	}
}

func TestController_EndDragSnaps(t *testing.T) {
	c := newController(40)
	c.SnapMode = SnapToItem
	c.Drag(49)
	c.EndDrag()
	if c.Position() != 40 {
		t.Errorf("expected snap to 40, got %v", c.Position())
	}
	c.Drag(2)
	c.EndDrag()
	if c.Position() != 40 {
		t.Errorf("expected snap back to 40, got %v", c.Position())
	}
}

func TestController_FlickTarget(t *testing.T) {
	c := newController(40)
	c.Deceleration = 1000
	if got := c.FlickTarget(200); got != 20 {
		t.Errorf("expected 20, got %v", got)
	}
	if got := c.FlickTarget(-200); got != 0 {
		t.Errorf("expected clamp to 0, got %v", got)
	}

	c.SnapMode = SnapToItem
	if got := c.FlickTarget(300); got != 40 {
		t.Errorf("expected 45 snapped to 40, got %v", got)
	}

	c.SnapMode = SnapOneItem
	c.SetPosition(100)
	if got := c.FlickTarget(5000); got != 120 {
		t.Errorf("expected one item forward to 120, got %v", got)
	}
	if got := c.FlickTarget(-5000); got != 80 {
		t.Errorf("expected one item back to 80, got %v", got)
	}
}

func TestController_FlickTicksToTarget(t *testing.T) {
	c := newController(40)
	c.Deceleration = 1000
	c.Flick(400)
	if !c.Flicking() {
		t.Fatalf("expected flicking")
	}
	prev := c.Position()
	for i := 0; i < 1000 && c.Flicking(); i++ {
		c.Tick(1.0 / 60)
		if c.Position() < prev {
			t.Fatalf("expected monotonic flick, went from %v to %v", prev, c.Position())
		}
		prev = c.Position()
	}
	if c.Flicking() {
		t.Fatalf("expected flick to finish")
	}
	if c.Position() != 80 {
		t.Errorf("expected to land on 80, got %v", c.Position())
	}
}

func TestController_SettleAndInterrupt(t *testing.T) {
	c := newController(40)
	c.Deceleration = 1000
	c.Flick(400)
	c.Settle()
	if c.Position() != 80 || c.Flicking() {
		t.Errorf("expected settled at 80, got %v", c.Position())
	}
	c.Flick(400)
	c.Drag(1)
	if c.Flicking() {
		t.Errorf("expected drag to stop the flick")
	}
}

func TestController_ReturnToBounds(t *testing.T) {
	c := newController(40)
	c.SetPosition(1000)
	if !c.ReturnToBounds() {
		t.Errorf("expected a move")
	}
	if c.Position() != 480 {
		t.Errorf("expected 480, got %v", c.Position())
	}
	if c.ReturnToBounds() {
		t.Errorf("expected no move when in bounds")
	}
}
