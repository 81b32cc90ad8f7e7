package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func names(m ListModel) []string {
	var out []string
	for i := 0; i < m.Count(); i++ {
		out = append(out, m.ItemAt(i).String("name"))
	}
	return out
}

func items(ns ...string) []Item {
	var out []Item
	for _, n := range ns {
		out = append(out, NewItem(map[string]any{"name": n}))
	}
	return out
}

func record(m ListModel) *[]Change {
	var got []Change
	m.Subscribe(func(c Change) {
		c.Seq = 0
		got = append(got, c)
	})
	return &got
}

func TestChange_MapIndex(t *testing.T) {
	tests := []struct {
		name     string
		change   Change
		expected []int
	}{
		{"insert", InsertedAt(2, 2), []int{0, 1, 4, 5, 6}},
		{"remove", RemovedAt(1, 2), []int{0, -1, -1, 1, 2}},
		{"move down", MovedFrom(0, 2, 2), []int{2, 3, 0, 1, 4}},
		{"move up", MovedFrom(3, 1, 2), []int{0, 3, 4, 1, 2}},
		{"changed", ChangedAt(0, 5), []int{0, 1, 2, 3, 4}},
		{"reset", ResetAll(), []int{-1, -1, -1, -1, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			for i := 0; i < 5; i++ {
				got = append(got, tt.change.MapIndex(i))
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("MapIndex mismatch (-expected +actual):\n%s", diff)
			}
		})
	}
}

func TestRoleList_MutationsEmitChanges(t *testing.T) {
	l := NewRoleList([]string{"name"}, items("a", "b", "c", "d")...)
	got := record(l)

	if err := l.Insert(1, items("x")...); err != nil {
		t.Fatal(err)
	}
	if err := l.Move(0, 2, 2); err != nil {
		t.Fatal(err)
	}
	if err := l.Remove(4, 1); err != nil {
		t.Fatal(err)
	}
	if err := l.Set(0, "name", "B"); err != nil {
		t.Fatal(err)
	}
	l.Append(items("e")...)

	expectedNames := []string{"B", "c", "a", "x", "e"}
	if diff := cmp.Diff(expectedNames, names(l)); diff != "" {
		t.Errorf("names mismatch (-expected +actual):\n%s", diff)
	}
	expected := []Change{
		InsertedAt(1, 1),
		MovedFrom(0, 2, 2),
		RemovedAt(4, 1),
		ChangedAt(0, 1, "name"),
		InsertedAt(4, 1),
	}
	if diff := cmp.Diff(expected, *got); diff != "" {
		t.Errorf("changes mismatch (-expected +actual):\n%s", diff)
	}
}

func TestRoleList_InvalidMutationsEmitNothing(t *testing.T) {
	l := NewRoleList([]string{"name"}, items("a", "b")...)
	got := record(l)

	if err := l.Insert(3, items("x")...); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := l.Remove(1, 2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := l.Move(0, 1, 2); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("expected ErrInvalidMove, got %v", err)
	}
	if err := l.Set(2, "name", "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if len(*got) != 0 {
		t.Errorf("expected no changes, got %v", *got)
	}
}

func TestEmitter_SeqIncreasesAndUnsubscribe(t *testing.T) {
	l := NewRoleList([]string{"name"})
	var seqs []uint64
	unsub := l.Subscribe(func(c Change) { seqs = append(seqs, c.Seq) })
	l.Append(items("a")...)
	l.Append(items("b")...)
	unsub()
	l.Append(items("c")...)
	if diff := cmp.Diff([]uint64{1, 2}, seqs); diff != "" {
		t.Errorf("seq mismatch (-expected +actual):\n%s", diff)
	}
	if l.LastSeq() != 3 {
		t.Errorf("expected last seq 3, got %d", l.LastSeq())
	}
}

func TestItemModel_BeginEnd(t *testing.T) {
	s := NewSliceModel([]string{"name"}, items("a", "b", "c", "d", "e")...)
	got := record(s)

	// move rows 0..1 in front of row 4, i.e. after "d"
	if err := s.BeginMoveRows(0, 1, 4); err != nil {
		t.Fatal(err)
	}
	s.rows = []Item{s.rows[2], s.rows[3], s.rows[0], s.rows[1], s.rows[4]}
	if err := s.EndMoveRows(); err != nil {
		t.Fatal(err)
	}
	if err := s.Move(3, 0, 2); err != nil {
		t.Fatal(err)
	}
	expected := []Change{MovedFrom(0, 2, 2), MovedFrom(3, 0, 2)}
	if diff := cmp.Diff(expected, *got); diff != "" {
		t.Errorf("changes mismatch (-expected +actual):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b", "e", "c", "d", "a"}, names(s)); diff != "" {
		t.Errorf("names mismatch (-expected +actual):\n%s", diff)
	}
}

func TestItemModel_Unbalanced(t *testing.T) {
	s := NewSliceModel([]string{"name"}, items("a", "b")...)
	if err := s.EndInsertRows(); !errors.Is(err, ErrUnbalanced) {
		t.Errorf("expected ErrUnbalanced, got %v", err)
	}
	if err := s.BeginRemoveRows(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.BeginInsertRows(0, 0); !errors.Is(err, ErrUnbalanced) {
		t.Errorf("expected ErrUnbalanced, got %v", err)
	}
	if err := s.EndInsertRows(); !errors.Is(err, ErrUnbalanced) {
		t.Errorf("expected ErrUnbalanced, got %v", err)
	}
	if err := s.BeginMoveRows(0, 0, 1); err == nil {
		t.Errorf("expected error for move while remove is open")
	}
}

func TestItemModel_MoveIntoOwnRangeRejected(t *testing.T) {
	s := NewSliceModel([]string{"name"}, items("a", "b", "c")...)
	if err := s.BeginMoveRows(0, 1, 2); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("expected ErrInvalidMove, got %v", err)
	}
}

func TestIncremental_FetchMore(t *testing.T) {
	src := NewRoleList([]string{"name"}, items("a", "b", "c", "d", "e")...)
	inc := NewIncremental(src, 2)
	got := record(inc)

	if inc.Count() != 2 {
		t.Fatalf("expected 2 loaded, got %d", inc.Count())
	}
	inc.FetchMore()
	inc.FetchMore()
	if inc.CanFetchMore() {
		t.Errorf("expected everything loaded")
	}
	inc.FetchMore()
	expected := []Change{InsertedAt(2, 2), InsertedAt(4, 1)}
	if diff := cmp.Diff(expected, *got); diff != "" {
		t.Errorf("changes mismatch (-expected +actual):\n%s", diff)
	}
}

func TestIncremental_ForwardsLoadedRange(t *testing.T) {
	src := NewRoleList([]string{"name"}, items("a", "b", "c", "d", "e", "f")...)
	inc := NewIncremental(src, 3)
	got := record(inc)

	// past the loaded range, hidden
	_ = src.Remove(5, 1)
	_ = src.Insert(1, items("x")...)
	// straddles the loaded boundary
	_ = src.Remove(3, 2)
	_ = src.Set(0, "name", "A")
	expected := []Change{InsertedAt(1, 1), RemovedAt(3, 1), ChangedAt(0, 1, "name")}
	if diff := cmp.Diff(expected, *got); diff != "" {
		t.Errorf("changes mismatch (-expected +actual):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "x", "b"}, names(inc)); diff != "" {
		t.Errorf("names mismatch (-expected +actual):\n%s", diff)
	}
	if !inc.CanFetchMore() {
		t.Errorf("expected more rows to fetch")
	}
}
