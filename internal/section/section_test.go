package section

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/robinovitch61/vl/internal/layout"
	"github.com/robinovitch61/vl/internal/model"
)

func listOf(keys string) *model.RoleList {
	var items []model.Item
	for _, k := range strings.Split(keys, "") {
		items = append(items, model.NewItem(map[string]any{"group": k}))
	}
	return model.NewRoleList([]string{"group"}, items...)
}

func boundaryIndices(g *Grouper) []int {
	var out []int
	for _, b := range g.Boundaries() {
		out = append(out, b.Index)
	}
	return out
}

func TestGrouper_Rebuild(t *testing.T) {
	g := New("group", FullString, InlineLabels)
	g.Rebuild(listOf("aaabba"))
	expected := []Boundary{{0, "a"}, {3, "b"}, {5, "a"}}
	if diff := cmp.Diff(expected, g.Boundaries()); diff != "" {
		t.Errorf("boundaries mismatch (-expected +actual):\n%s", diff)
	}
	if g.Section(4) != "b" || !g.IsLast(4) || g.IsLast(3) {
		t.Errorf("unexpected membership for index 4")
	}
}

func TestGrouper_FirstCharacter(t *testing.T) {
	l := model.NewRoleList([]string{"name"},
		model.NewItem(map[string]any{"name": "Alice"}),
		model.NewItem(map[string]any{"name": "Anna"}),
		model.NewItem(map[string]any{"name": "Bob"}),
	)
	g := New("name", FirstCharacter, InlineLabels)
	g.Rebuild(l)
	if diff := cmp.Diff([]Boundary{{0, "A"}, {2, "B"}}, g.Boundaries()); diff != "" {
		t.Errorf("boundaries mismatch (-expected +actual):\n%s", diff)
	}
}

func TestGrouper_ApplyRemoveMergesSections(t *testing.T) {
	l := listOf("aabaa")
	g := New("group", FullString, InlineLabels)
	g.Rebuild(l)
	_ = l.Remove(2, 1)
	g.Apply(model.RemovedAt(2, 1), l)
	if diff := cmp.Diff([]int{0}, boundaryIndices(g)); diff != "" {
		t.Errorf("boundaries mismatch (-expected +actual):\n%s", diff)
	}
}

func TestGrouper_ApplyShiftsLaterBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		edit     func(l *model.RoleList) error
		change   model.Change
		expected []int
	}{
		{
			"insert",
			func(l *model.RoleList) error { return l.Insert(4, model.NewItem(map[string]any{"group": "x"})) },
			model.InsertedAt(4, 1),
			[]int{0, 2, 4, 5, 7},
		},
		{
			"remove",
			func(l *model.RoleList) error { return l.Remove(2, 2) },
			model.RemovedAt(2, 2),
			[]int{0, 2, 4},
		},
		{
			"move down",
			func(l *model.RoleList) error { return l.Move(0, 4, 2) },
			model.MovedFrom(0, 4, 2),
			[]int{0, 2, 4, 6},
		},
		{
			"move up inside",
			func(l *model.RoleList) error { return l.Move(5, 2, 1) },
			model.MovedFrom(5, 2, 1),
			[]int{0, 2, 3, 5, 6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := listOf("aabbccdd")
			g := New("group", FullString, InlineLabels)
			g.Rebuild(l)
			if err := tt.edit(l); err != nil {
				t.Fatal(err)
			}
			g.Apply(tt.change, l)
			if diff := cmp.Diff(tt.expected, boundaryIndices(g)); diff != "" {
				t.Errorf("boundaries mismatch (-expected +actual):\n%s", diff)
			}
		})
	}
}

func TestGrouper_ApplyMatchesRebuild(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	l := listOf("aabbbcaaddde")
	g := New("group", FullString, InlineLabels)
	g.Rebuild(l)
	var got []model.Change
	l.Subscribe(func(c model.Change) { got = append(got, c) })

	for step := 0; step < 300; step++ {
		got = got[:0]
		count := l.Count()
		switch op := r.IntN(4); {
		case op == 0 || count < 2:
			key := string(rune('a' + r.IntN(4)))
			_ = l.Insert(r.IntN(count+1), model.NewItem(map[string]any{"group": key}))
		case op == 1:
			at := r.IntN(count)
			_ = l.Remove(at, 1+r.IntN(min(2, count-at)))
		case op == 2:
			n := 1 + r.IntN(min(3, count-1))
			_ = l.Move(r.IntN(count-n+1), r.IntN(count-n+1), n)
		default:
			_ = l.Set(r.IntN(count), "group", string(rune('a'+r.IntN(4))))
		}
		for _, c := range got {
			g.Apply(c, l)
		}
		full := New("group", FullString, InlineLabels)
		full.Rebuild(l)
		if diff := cmp.Diff(full.Boundaries(), g.Boundaries()); diff != "" {
			t.Fatalf("step %d after %v: incremental boundaries differ (-rebuild +incremental):\n%s", step, got, diff)
		}
	}
}

func TestGrouper_Slots(t *testing.T) {
	l := listOf("aab")
	g := New("group", FullString, InlineLabels)
	g.LabelSize = 20
	g.FooterSize = 5
	g.Rebuild(l)
	if g.Label(0) != 20 || g.Label(1) != 0 || g.Label(2) != 20 {
		t.Errorf("unexpected label sizes %v %v %v", g.Label(0), g.Label(1), g.Label(2))
	}
	if g.Trailer(0) != 0 || g.Trailer(1) != 5 || g.Trailer(2) != 5 {
		t.Errorf("unexpected trailer sizes %v %v %v", g.Trailer(0), g.Trailer(1), g.Trailer(2))
	}
	expected := []Slot{
		{Index: 1, Section: "a", Last: true},
		{Index: 2, Section: "b", Boundary: true, Last: true},
	}
	if diff := cmp.Diff(expected, g.Derive([]int{1, 2})); diff != "" {
		t.Errorf("slots mismatch (-expected +actual):\n%s", diff)
	}
}

func TestGrouper_Floating(t *testing.T) {
	l := listOf("aaaabbbbcccc")
	g := New("group", FullString, InlineLabels|CurrentLabelAtStart|NextLabelAtEnd)
	g.LabelSize = 10
	g.Rebuild(l)
	r := layout.Compute(layout.Input{
		Count: l.Count(),
		Size:  func(int) float64 { return 10 },
		Label: g.Label,
	})
	// labels at 0, 50, 100, items of b start at 60

	pinned := g.Floating(r, 25, 45)
	expected := []Pinned{
		{Section: "a", Index: 0, Offset: 25},
		{Section: "b", Index: 4, Offset: 35, AtEnd: true},
	}
	if diff := cmp.Diff(expected, pinned); diff != "" {
		t.Errorf("pinned mismatch (-expected +actual):\n%s", diff)
	}

	// the inline "b" label at 50 pushes the pinned "a" label up
	pinned = g.Floating(r, 45, 95)
	if pinned[0].Section != "a" || pinned[0].Offset != 40 {
		t.Errorf("expected pushed label a at 40, got %+v", pinned[0])
	}
	if pinned[1].Section != "c" {
		t.Errorf("expected next label c, got %+v", pinned[1])
	}
}
