package render

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"
	"github.com/robinovitch61/vl/internal/listview"
	"github.com/robinovitch61/vl/internal/model"
	"github.com/robinovitch61/vl/internal/pool"
	"github.com/robinovitch61/vl/internal/style"
	"github.com/robinovitch61/vl/internal/transition"
	"github.com/robinovitch61/vl/internal/util"
)

func plainStyles() style.Styles {
	plain := lipgloss.NewStyle()
	return style.Styles{
		Row:           plain,
		CurrentRow:    plain,
		Label:         plain,
		FloatingLabel: plain,
		Removing:      plain,
		Highlight:     plain,
		TopBar:        plain,
	}
}

func items(names ...string) []model.Item {
	var out []model.Item
	for _, n := range names {
		out = append(out, model.NewItem(map[string]any{NameRole: n}))
	}
	return out
}

func instance(t *testing.T) *pool.Instance {
	t.Helper()
	p := pool.New(model.NewRoleList([]string{NameRole}, items("a")...), Delegate{}, nil)
	inst, err := p.Acquire(0)
	if err != nil {
		t.Fatal(err)
	}
	return inst
}

func TestAnimationPosition(t *testing.T) {
	start := time.Unix(0, 0)
	tests := []struct {
		name     string
		via      []float64
		elapsed  time.Duration
		expected float64
	}{
		{"start", nil, 0, 0},
		{"halfway", nil, 500 * time.Millisecond, 5},
		{"end", nil, time.Second, 10},
		{"past the end", nil, 2 * time.Second, 10},
		{"towards via point", []float64{20}, 250 * time.Millisecond, 10},
		{"back from via point", []float64{20}, 750 * time.Millisecond, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := running{
				animation: transition.Animation{
					Descriptor: transition.Descriptor{Duration: time.Second},
					From:       0,
					To:         10,
					Via:        tt.via,
				},
				start: start,
			}
			if got := run.position(start.Add(tt.elapsed)); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRenderer(t *testing.T) {
	r := New()
	start := time.Unix(0, 0)
	r.Advance(start)
	inst := instance(t)
	r.Attach(inst)
	if _, ok := r.Position(inst); ok {
		t.Error("expected no position before the instance is placed")
	}
	r.Place(inst, 4)
	if pos, _ := r.Position(inst); pos != 4 {
		t.Errorf("expected 4, got %v", pos)
	}

	a := transition.Animation{
		Descriptor: transition.Descriptor{Duration: time.Second},
		Instance:   inst,
		From:       4,
		To:         8,
	}
	r.Animate(a)
	if done := r.Advance(start.Add(500 * time.Millisecond)); len(done) != 0 {
		t.Errorf("expected nothing finished, got %v", done)
	}
	if pos, _ := r.Position(inst); pos != 6 {
		t.Errorf("expected 6 halfway, got %v", pos)
	}
	if pos, ok := r.Stop(inst); !ok || pos != 6 {
		t.Errorf("expected to stop at 6, got %v %v", pos, ok)
	}
	if _, ok := r.Stop(inst); ok {
		t.Error("stopping twice should report no animation")
	}

	r.Animate(a)
	done := r.Advance(start.Add(2 * time.Second))
	if len(done) != 1 || done[0].Instance != inst || r.Running() != 0 {
		t.Errorf("expected the animation finished, got %v", done)
	}
	if pos, _ := r.Position(inst); pos != 8 {
		t.Errorf("expected to rest at 8, got %v", pos)
	}
	r.Detach(inst)
	if r.Attached(inst) {
		t.Error("expected the instance detached")
	}
}

func TestDelegate(t *testing.T) {
	tall := model.NewItem(map[string]any{NameRole: "tall", LinesRole: 3})
	wide := model.NewItem(map[string]any{NameRole: "日本"})
	if (Delegate{}).Kind(tall) != "tall" || (Delegate{Horizontal: true}).Kind(tall) != "row" {
		t.Error("unexpected kinds")
	}
	p := pool.New(model.NewRoleList([]string{NameRole, LinesRole}, tall, wide), Delegate{}, nil)
	inst, _ := p.Acquire(0)
	if inst.Size() != 3 || Text(inst) != "tall" {
		t.Errorf("expected 3 lines of tall, got %v %q", inst.Size(), Text(inst))
	}
	hp := pool.New(model.NewRoleList([]string{NameRole}, wide), Delegate{Horizontal: true}, nil)
	inst, _ = hp.Acquire(0)
	if inst.Size() != 5 {
		t.Errorf("expected two wide runes and a gap, got %v", inst.Size())
	}
}

func newView(t *testing.T, l model.ListModel, cfg listview.Config) (*listview.View, *Renderer) {
	t.Helper()
	r := New()
	v := listview.New(l, Delegate{Horizontal: cfg.Orientation == listview.Horizontal}, r, r, cfg)
	t.Cleanup(v.Close)
	return v, r
}

func TestFrameVertical(t *testing.T) {
	cfg := listview.DefaultConfig()
	cfg.Width, cfg.Height, cfg.SizeHint = 6, 4, 1
	rows := items("a", "b", "c", "d", "e")
	rows[1] = rows[1].With(LinesRole, 2)
	l := model.NewRoleList([]string{NameRole, LinesRole}, rows...)
	v, r := newView(t, l, cfg)
	expected := strings.Join([]string{
		"a     ",
		"b     ",
		"  ┆   ",
		"c     ",
	}, "\n")
	util.CmpStr(t, expected, Frame(v.Snapshot(), r, plainStyles(), 6, 4))

	v.SetContentY(2)
	expected = strings.Join([]string{
		"  ┆   ",
		"c     ",
		"d     ",
		"e     ",
	}, "\n")
	util.CmpStr(t, expected, Frame(v.Snapshot(), r, plainStyles(), 6, 4))
}

func TestFrameTruncates(t *testing.T) {
	cfg := listview.DefaultConfig()
	cfg.Width, cfg.Height, cfg.SizeHint = 4, 2, 1
	v, r := newView(t, model.NewRoleList([]string{NameRole}, items("abcdef", "xy")...), cfg)
	util.CmpStr(t, "abc…\nxy  ", Frame(v.Snapshot(), r, plainStyles(), 4, 2))
}

func TestFrameSections(t *testing.T) {
	cfg := listview.DefaultConfig()
	cfg.Width, cfg.Height, cfg.SizeHint, cfg.SectionLabelSize = 10, 5, 1, 1
	cfg.SectionField = GroupRole
	var rows []model.Item
	for i, n := range []string{"a", "b", "c", "d"} {
		g := "x"
		if i >= 2 {
			g = "y"
		}
		rows = append(rows, model.NewItem(map[string]any{NameRole: n, GroupRole: g}))
	}
	v, r := newView(t, model.NewRoleList([]string{NameRole, GroupRole}, rows...), cfg)
	expected := strings.Join([]string{
		"── x ──   ",
		"a         ",
		"b         ",
		"── y ──   ",
		"c         ",
	}, "\n")
	// labels are colored by section whatever the styles
	util.CmpStr(t, expected, ansi.Strip(Frame(v.Snapshot(), r, plainStyles(), 10, 5)))
}

func TestFrameHorizontal(t *testing.T) {
	tests := []struct {
		name      string
		direction listview.LayoutDirection
		expected  string
	}{
		{"left to right", listview.LeftToRight, "ab c    "},
		{"right to left", listview.RightToLeft, "   c ab "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := listview.DefaultConfig()
			cfg.Orientation = listview.Horizontal
			cfg.LayoutDirection = tt.direction
			cfg.Width, cfg.Height, cfg.SizeHint = 8, 1, 2
			v, r := newView(t, model.NewRoleList([]string{NameRole}, items("ab", "c")...), cfg)
			util.CmpStr(t, tt.expected, Frame(v.Snapshot(), r, plainStyles(), 8, 1))
		})
	}
}

func TestFrameRemoval(t *testing.T) {
	cfg := listview.DefaultConfig()
	cfg.Width, cfg.Height, cfg.SizeHint = 4, 3, 1
	cfg.Transitions = transition.Config{
		transition.Remove: {Duration: time.Second},
	}
	l := model.NewRoleList([]string{NameRole}, items("a", "b", "c")...)
	v, r := newView(t, l, cfg)
	start := time.Now()
	r.Advance(start)
	if err := l.Remove(0, 1); err != nil {
		t.Fatal(err)
	}
	// the removed row is still drawn until its transition ends, under the rows that moved up
	util.CmpStr(t, "b   \nc   \n    ", Frame(v.Snapshot(), r, plainStyles(), 4, 3))
	if len(v.Removing()) != 1 {
		t.Fatalf("expected one removing instance, got %d", len(v.Removing()))
	}
	for _, a := range r.Advance(start.Add(time.Second)) {
		v.Transitions().Finished(a.ID, a.Instance)
	}
	if len(v.Removing()) != 0 {
		t.Errorf("expected the removal finished")
	}
}

func TestDescribe(t *testing.T) {
	cfg := listview.DefaultConfig()
	cfg.Width, cfg.Height, cfg.SizeHint = 4, 2, 1
	v, _ := newView(t, model.NewRoleList([]string{NameRole}, items("a", "b", "c")...), cfg)
	expected := []string{
		"# vertical ltr count=3 current=0 origin=0 view=2 content=3",
		"*     0        0      1              a",
		"      1        1      1              b",
	}
	if diff := cmp.Diff(expected, Describe(v.Snapshot())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
