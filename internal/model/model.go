package model

import "errors"

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrUnbalanced      = errors.New("unbalanced begin/end notification")
	ErrInvalidMove     = errors.New("invalid move")
)

// ListModel is what the list view requires from a backing model: ordered, indexable items and an ordered
// stream of structural changes
type ListModel interface {
	Count() int
	// ItemAt returns the item at index, valid for index in [0, Count())
	ItemAt(index int) Item
	// Subscribe registers fn to receive every change in delivery order. The returned func unsubscribes
	Subscribe(fn func(Change)) (unsubscribe func())
}

// Editable is a ListModel that can be mutated by index
type Editable interface {
	ListModel
	Insert(at int, items ...Item) error
	Remove(at, n int) error
	Move(from, to, n int) error
	Set(at int, role string, v any) error
	ResetItems(items []Item)
}

// Fetcher is implemented by models that expose their rows in batches
type Fetcher interface {
	CanFetchMore() bool
	FetchMore()
}

type subscription struct {
	id int
	fn func(Change)
}

// Emitter delivers changes to subscribers synchronously, in subscription order
type Emitter struct {
	subs   []subscription
	nextID int
	seq    uint64
}

func (e *Emitter) Subscribe(fn func(Change)) func() {
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscription{id: id, fn: fn})
	return func() {
		for i := range e.subs {
			if e.subs[i].id == id {
				e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// Emit stamps c with the next sequence number and delivers it
func (e *Emitter) Emit(c Change) {
	e.seq++
	c.Seq = e.seq
	subs := append([]subscription(nil), e.subs...)
	for _, s := range subs {
		s.fn(c)
	}
}

// LastSeq returns the sequence number of the most recently emitted change
func (e *Emitter) LastSeq() uint64 {
	return e.seq
}

func validMove(count, from, to, n int) bool {
	return n > 0 && from >= 0 && to >= 0 && from+n <= count && to+n <= count
}
