package model

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
)

// RoleList is a role-indexed list model. Every successful mutation emits exactly one Change
type RoleList struct {
	Emitter
	roles []string
	items *arraylist.List
}

func NewRoleList(roles []string, items ...Item) *RoleList {
	l := &RoleList{roles: append([]string(nil), roles...), items: arraylist.New()}
	for _, it := range items {
		l.items.Add(it)
	}
	return l
}

func (l *RoleList) Count() int {
	return l.items.Size()
}

func (l *RoleList) ItemAt(index int) Item {
	v, ok := l.items.Get(index)
	if !ok {
		return Item{}
	}
	return v.(Item)
}

func (l *RoleList) RoleNames() []string {
	return append([]string(nil), l.roles...)
}

// Items returns a copy of all items in order
func (l *RoleList) Items() []Item {
	out := make([]Item, 0, l.items.Size())
	l.items.Each(func(_ int, v interface{}) {
		out = append(out, v.(Item))
	})
	return out
}

func (l *RoleList) Insert(at int, items ...Item) error {
	if at < 0 || at > l.Count() {
		return fmt.Errorf("insert at %d with count %d: %w", at, l.Count(), ErrIndexOutOfRange)
	}
	if len(items) == 0 {
		return nil
	}
	vals := make([]interface{}, len(items))
	for i := range items {
		vals[i] = items[i]
	}
	l.items.Insert(at, vals...)
	l.Emit(InsertedAt(at, len(items)))
	return nil
}

func (l *RoleList) Append(items ...Item) {
	_ = l.Insert(l.Count(), items...)
}

func (l *RoleList) Remove(at, n int) error {
	if n <= 0 {
		return nil
	}
	if at < 0 || at+n > l.Count() {
		return fmt.Errorf("remove %d at %d with count %d: %w", n, at, l.Count(), ErrIndexOutOfRange)
	}
	for i := 0; i < n; i++ {
		l.items.Remove(at)
	}
	l.Emit(RemovedAt(at, n))
	return nil
}

// Move moves n items starting at from so that the first of them ends up at index to
func (l *RoleList) Move(from, to, n int) error {
	if !validMove(l.Count(), from, to, n) {
		return fmt.Errorf("move %d from %d to %d with count %d: %w", n, from, to, l.Count(), ErrInvalidMove)
	}
	if from == to {
		return nil
	}
	moved := make([]interface{}, 0, n)
	for i := 0; i < n; i++ {
		v, _ := l.items.Get(from)
		moved = append(moved, v)
		l.items.Remove(from)
	}
	l.items.Insert(to, moved...)
	l.Emit(MovedFrom(from, to, n))
	return nil
}

func (l *RoleList) Set(at int, role string, v any) error {
	if at < 0 || at >= l.Count() {
		return fmt.Errorf("set %q at %d with count %d: %w", role, at, l.Count(), ErrIndexOutOfRange)
	}
	l.items.Set(at, l.ItemAt(at).With(role, v))
	l.Emit(ChangedAt(at, 1, role))
	return nil
}

func (l *RoleList) ResetItems(items []Item) {
	l.items.Clear()
	for _, it := range items {
		l.items.Add(it)
	}
	l.Emit(ResetAll())
}
