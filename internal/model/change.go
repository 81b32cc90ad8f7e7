package model

import "fmt"

type ChangeKind int

const (
	Inserted ChangeKind = iota
	Removed
	Moved
	Changed
	Reset
)

func (k ChangeKind) String() string {
	switch k {
	case Inserted:
		return "Inserted"
	case Removed:
		return "Removed"
	case Moved:
		return "Moved"
	case Changed:
		return "Changed"
	case Reset:
		return "Reset"
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// Change is one atomic structural notification from a list model.
//
// For Moved, At is the first source index and To is the index of the first moved item after the move,
// i.e. the target start once the moved run has been taken out of the list.
type Change struct {
	Kind  ChangeKind
	At    int
	Count int
	To    int
	Roles []string
	// Seq is stamped by the Emitter and increases strictly with every delivered change
	Seq uint64
}

func InsertedAt(at, count int) Change { return Change{Kind: Inserted, At: at, Count: count} }

func RemovedAt(at, count int) Change { return Change{Kind: Removed, At: at, Count: count} }

func MovedFrom(from, to, count int) Change { return Change{Kind: Moved, At: from, To: to, Count: count} }

func ChangedAt(at, count int, roles ...string) Change {
	return Change{Kind: Changed, At: at, Count: count, Roles: roles}
}

func ResetAll() Change { return Change{Kind: Reset} }

func (c Change) String() string {
	switch c.Kind {
	case Moved:
		return fmt.Sprintf("Moved(from=%d, to=%d, count=%d)", c.At, c.To, c.Count)
	case Changed:
		return fmt.Sprintf("Changed(at=%d, count=%d, roles=%v)", c.At, c.Count, c.Roles)
	case Reset:
		return "Reset()"
	}
	return fmt.Sprintf("%s(at=%d, count=%d)", c.Kind, c.At, c.Count)
}

// MapIndex returns the index that i has after the change is applied, or -1 if the item at i was removed.
// Every index maps to -1 for Reset
func (c Change) MapIndex(i int) int {
	switch c.Kind {
	case Inserted:
		if i >= c.At {
			return i + c.Count
		}
	case Removed:
		if i >= c.At+c.Count {
			return i - c.Count
		}
		if i >= c.At {
			return -1
		}
	case Moved:
		from, to, n := c.At, c.To, c.Count
		if i >= from && i < from+n {
			return to + (i - from)
		}
		if from < to && i >= from+n && i < to+n {
			return i - n
		}
		if from > to && i >= to && i < from {
			return i + n
		}
	case Reset:
		return -1
	}
	return i
}

// Touches reports whether the change involves index i directly, i.e. i is inserted, removed, moved or changed
func (c Change) Touches(i int) bool {
	switch c.Kind {
	case Inserted, Removed, Changed:
		return i >= c.At && i < c.At+c.Count
	case Moved:
		return i >= c.To && i < c.To+c.Count
	case Reset:
		return true
	}
	return false
}
