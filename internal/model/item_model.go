package model

import (
	"fmt"
	"slices"
)

// RowSource is the data side of an abstract item model
type RowSource interface {
	RowCount() int
	Row(row int) Item
	RoleNames() []string
}

// ItemModel adapts a RowSource driven by begin/end notification pairs. A Change is emitted at each End call
type ItemModel struct {
	Emitter
	source    RowSource
	pending   *Change
	resetting bool
}

func NewItemModel(src RowSource) *ItemModel {
	return &ItemModel{source: src}
}

func (m *ItemModel) Count() int {
	return m.source.RowCount()
}

func (m *ItemModel) ItemAt(index int) Item {
	if index < 0 || index >= m.source.RowCount() {
		return Item{}
	}
	return m.source.Row(index)
}

func (m *ItemModel) RoleNames() []string {
	return m.source.RoleNames()
}

func (m *ItemModel) begin(c Change) error {
	if m.pending != nil || m.resetting {
		return fmt.Errorf("begin %s while another operation is open: %w", c.Kind, ErrUnbalanced)
	}
	m.pending = &c
	return nil
}

func (m *ItemModel) end(kind ChangeKind) error {
	if m.pending == nil || m.pending.Kind != kind {
		return fmt.Errorf("end %s without matching begin: %w", kind, ErrUnbalanced)
	}
	c := *m.pending
	m.pending = nil
	m.Emit(c)
	return nil
}

// BeginInsertRows announces that rows first..last (inclusive) are about to be inserted
func (m *ItemModel) BeginInsertRows(first, last int) error {
	if first < 0 || last < first || first > m.Count() {
		return fmt.Errorf("begin insert rows %d..%d with count %d: %w", first, last, m.Count(), ErrIndexOutOfRange)
	}
	return m.begin(InsertedAt(first, last-first+1))
}

func (m *ItemModel) EndInsertRows() error {
	return m.end(Inserted)
}

func (m *ItemModel) BeginRemoveRows(first, last int) error {
	if first < 0 || last < first || last >= m.Count() {
		return fmt.Errorf("begin remove rows %d..%d with count %d: %w", first, last, m.Count(), ErrIndexOutOfRange)
	}
	return m.begin(RemovedAt(first, last-first+1))
}

func (m *ItemModel) EndRemoveRows() error {
	return m.end(Removed)
}

// BeginMoveRows announces moving rows first..last in front of destination, where destination is an index in
// the list before the rows are taken out. Destinations inside or directly after the moved range are rejected
func (m *ItemModel) BeginMoveRows(first, last, destination int) error {
	count := m.Count()
	if first < 0 || last < first || last >= count || destination < 0 || destination > count {
		return fmt.Errorf("begin move rows %d..%d to %d with count %d: %w", first, last, destination, count, ErrIndexOutOfRange)
	}
	if destination >= first && destination <= last+1 {
		return fmt.Errorf("begin move rows %d..%d to %d: %w", first, last, destination, ErrInvalidMove)
	}
	n := last - first + 1
	to := destination
	if destination > last {
		to = destination - n
	}
	return m.begin(MovedFrom(first, to, n))
}

func (m *ItemModel) EndMoveRows() error {
	return m.end(Moved)
}

// DataChanged reports that roles of rows first..last changed. No roles means all roles
func (m *ItemModel) DataChanged(first, last int, roles ...string) error {
	if first < 0 || last < first || last >= m.Count() {
		return fmt.Errorf("data changed %d..%d with count %d: %w", first, last, m.Count(), ErrIndexOutOfRange)
	}
	if m.pending != nil || m.resetting {
		return fmt.Errorf("data changed while another operation is open: %w", ErrUnbalanced)
	}
	m.Emit(ChangedAt(first, last-first+1, roles...))
	return nil
}

func (m *ItemModel) BeginResetModel() error {
	if m.pending != nil || m.resetting {
		return fmt.Errorf("begin reset while another operation is open: %w", ErrUnbalanced)
	}
	m.resetting = true
	return nil
}

func (m *ItemModel) EndResetModel() error {
	if !m.resetting {
		return fmt.Errorf("end reset without matching begin: %w", ErrUnbalanced)
	}
	m.resetting = false
	m.Emit(ResetAll())
	return nil
}

// SliceModel is an Editable backed by a slice and notifying through an ItemModel
type SliceModel struct {
	*ItemModel
	roles []string
	rows  []Item
}

func NewSliceModel(roles []string, rows ...Item) *SliceModel {
	s := &SliceModel{roles: append([]string(nil), roles...), rows: append([]Item(nil), rows...)}
	s.ItemModel = NewItemModel(s)
	return s
}

func (s *SliceModel) RowCount() int       { return len(s.rows) }
func (s *SliceModel) Row(row int) Item    { return s.rows[row] }
func (s *SliceModel) RoleNames() []string { return append([]string(nil), s.roles...) }

func (s *SliceModel) Insert(at int, items ...Item) error {
	if len(items) == 0 {
		return nil
	}
	if err := s.BeginInsertRows(at, at+len(items)-1); err != nil {
		return err
	}
	s.rows = slices.Insert(s.rows, at, items...)
	return s.EndInsertRows()
}

func (s *SliceModel) Remove(at, n int) error {
	if n <= 0 {
		return nil
	}
	if err := s.BeginRemoveRows(at, at+n-1); err != nil {
		return err
	}
	s.rows = slices.Delete(s.rows, at, at+n)
	return s.EndRemoveRows()
}

// Move moves n rows from from so the first lands at to, translating to a pre-removal destination
func (s *SliceModel) Move(from, to, n int) error {
	if !validMove(len(s.rows), from, to, n) {
		return fmt.Errorf("move %d from %d to %d with count %d: %w", n, from, to, len(s.rows), ErrInvalidMove)
	}
	if from == to {
		return nil
	}
	dest := to
	if to > from {
		dest = to + n
	}
	if err := s.BeginMoveRows(from, from+n-1, dest); err != nil {
		return err
	}
	moved := append([]Item(nil), s.rows[from:from+n]...)
	s.rows = slices.Delete(s.rows, from, from+n)
	s.rows = slices.Insert(s.rows, to, moved...)
	return s.EndMoveRows()
}

func (s *SliceModel) Set(at int, role string, v any) error {
	if at < 0 || at >= len(s.rows) {
		return fmt.Errorf("set %q at %d with count %d: %w", role, at, len(s.rows), ErrIndexOutOfRange)
	}
	s.rows[at] = s.rows[at].With(role, v)
	return s.DataChanged(at, at, role)
}

func (s *SliceModel) ResetItems(items []Item) {
	_ = s.BeginResetModel()
	s.rows = append([]Item(nil), items...)
	_ = s.EndResetModel()
}
