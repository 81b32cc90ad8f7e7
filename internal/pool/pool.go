package pool

import (
	"errors"
	"fmt"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/google/uuid"
	"github.com/robinovitch61/vl/internal/model"
)

var ErrPendingCreationCancelled = errors.New("pending creation cancelled")

type OutOfRangeError struct {
	Index int
	Count int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Count)
}

// Factory creates delegate content for items
type Factory interface {
	// Kind groups instances for recycling. Instances are only reused for items of the same kind
	Kind(item model.Item) string
	// Bind fills inst with the data of item. It may call inst.SetSize
	Bind(inst *Instance, item model.Item)
}

// Renderer is told when instances enter and leave the rendered scene
type Renderer interface {
	Attach(inst *Instance)
	Detach(inst *Instance)
}

type nopRenderer struct{}

func (nopRenderer) Attach(*Instance) {}
func (nopRenderer) Detach(*Instance) {}

// Ticket identifies a pending asynchronous creation
type Ticket uuid.UUID

func (t Ticket) String() string {
	return uuid.UUID(t).String()
}

const DefaultMaxFree = 32

// Pool owns delegate instances: the live ones bound to model indices, pending creations and a recycle
// free list per delegate kind. It is not safe for concurrent use
type Pool struct {
	// MaxFree bounds the free list of each kind
	MaxFree int
	// OnResize is called when a bound instance changes size
	OnResize func(inst *Instance, old float64)

	model    model.ListModel
	factory  Factory
	renderer Renderer
	// live maps bound indices to instances, pending maps indices to tickets. Both are kept in index order
	live     *redblacktree.Tree
	free     map[string][]*Instance
	pending  *redblacktree.Tree
	tickets  map[Ticket]int
	nextID   int
}

func New(m model.ListModel, f Factory, r Renderer) *Pool {
	if r == nil {
		r = nopRenderer{}
	}
	return &Pool{
		MaxFree:  DefaultMaxFree,
		model:    m,
		factory:  f,
		renderer: r,
		live:     redblacktree.NewWithIntComparator(),
		free:     make(map[string][]*Instance),
		pending:  redblacktree.NewWithIntComparator(),
		tickets:  make(map[Ticket]int),
	}
}

func (p *Pool) checkRange(index int) error {
	if count := p.model.Count(); index < 0 || index >= count {
		return &OutOfRangeError{Index: index, Count: count}
	}
	return nil
}

// Acquire returns the instance bound to index, creating or recycling one if needed
func (p *Pool) Acquire(index int) (*Instance, error) {
	if err := p.checkRange(index); err != nil {
		return nil, err
	}
	if inst, ok := p.Live(index); ok {
		return inst, nil
	}
	p.Cancel(index)

	item := p.model.ItemAt(index)
	kind := p.factory.Kind(item)
	inst := p.take(kind)
	inst.index = index
	inst.bound = true
	inst.released = false
	p.live.Put(index, inst)
	p.factory.Bind(inst, item)
	p.renderer.Attach(inst)
	return inst, nil
}

func (p *Pool) take(kind string) *Instance {
	if free := p.free[kind]; len(free) > 0 {
		inst := free[len(free)-1]
		p.free[kind] = free[:len(free)-1]
		return inst
	}
	p.nextID++
	return &Instance{id: p.nextID, kind: kind, pool: p}
}

// Release unbinds inst, detaches it from the renderer and keeps it for reuse
func (p *Pool) Release(inst *Instance) {
	if inst == nil || inst.released {
		return
	}
	p.Unbind(inst)
	p.renderer.Detach(inst)
	inst.released = true
	inst.Visible = false
	inst.Current = false
	inst.SectionBoundary = false
	inst.Section = ""
	inst.Payload = nil
	if len(p.free[inst.kind]) < p.MaxFree {
		p.free[inst.kind] = append(p.free[inst.kind], inst)
	}
}

// Unbind removes the index binding of inst but leaves it attached, e.g. while a removal transition runs
func (p *Pool) Unbind(inst *Instance) {
	if !inst.bound {
		return
	}
	if bound, ok := p.Live(inst.index); ok && bound == inst {
		p.live.Remove(inst.index)
	}
	inst.bound = false
	inst.index = -1
}

// Retarget binds inst to a new index and refreshes its data. An instance already bound there is released
func (p *Pool) Retarget(inst *Instance, index int) error {
	if err := p.checkRange(index); err != nil {
		return err
	}
	if occupant, ok := p.Live(index); ok && occupant != inst {
		p.Release(occupant)
	}
	p.Cancel(index)
	if bound, ok := p.Live(inst.index); inst.bound && ok && bound == inst {
		p.live.Remove(inst.index)
	}
	inst.index = index
	inst.bound = true
	p.live.Put(index, inst)
	p.factory.Bind(inst, p.model.ItemAt(index))
	return nil
}

// Rebind refreshes inst from the model after its data changed. If the item's kind changed, inst is released
// and a fresh instance is returned in its place
func (p *Pool) Rebind(inst *Instance) (*Instance, error) {
	index := inst.Index()
	if err := p.checkRange(index); err != nil {
		return nil, err
	}
	item := p.model.ItemAt(index)
	if p.factory.Kind(item) != inst.kind {
		p.Release(inst)
		return p.Acquire(index)
	}
	p.factory.Bind(inst, item)
	return inst, nil
}

// RetargetAll moves every live binding and pending creation through mapping. Live instances mapped to -1
// are unbound and returned in their previous index order, pending creations mapped to -1 are cancelled
func (p *Pool) RetargetAll(mapping func(old int) int) []*Instance {
	var dropped []*Instance
	live := redblacktree.NewWithIntComparator()
	for _, inst := range p.Instances() {
		idx := mapping(inst.index)
		if idx < 0 {
			inst.bound = false
			inst.index = -1
			dropped = append(dropped, inst)
			continue
		}
		inst.index = idx
		live.Put(idx, inst)
	}
	p.live = live

	pending := redblacktree.NewWithIntComparator()
	it := p.pending.Iterator()
	for it.Next() {
		t := it.Value().(Ticket)
		idx := mapping(it.Key().(int))
		if idx < 0 {
			delete(p.tickets, t)
			continue
		}
		pending.Put(idx, t)
		p.tickets[t] = idx
	}
	p.pending = pending
	return dropped
}

// Request records a pending creation for index. Requesting an index that is already pending returns the
// existing ticket
func (p *Pool) Request(index int) (Ticket, error) {
	if err := p.checkRange(index); err != nil {
		return Ticket{}, err
	}
	if t, ok := p.pending.Get(index); ok {
		return t.(Ticket), nil
	}
	t := Ticket(uuid.New())
	p.pending.Put(index, t)
	p.tickets[t] = index
	return t, nil
}

// Complete finishes a pending creation, returning ErrPendingCreationCancelled for unknown or cancelled tickets
func (p *Pool) Complete(t Ticket) (*Instance, error) {
	index, ok := p.tickets[t]
	if !ok {
		return nil, fmt.Errorf("complete %s: %w", t, ErrPendingCreationCancelled)
	}
	delete(p.tickets, t)
	p.pending.Remove(index)
	return p.Acquire(index)
}

// Cancel drops the pending creation for index, if any
func (p *Pool) Cancel(index int) bool {
	t, ok := p.pending.Get(index)
	if !ok {
		return false
	}
	p.pending.Remove(index)
	delete(p.tickets, t.(Ticket))
	return true
}

func (p *Pool) Pending(index int) bool {
	_, ok := p.pending.Get(index)
	return ok
}

// PendingIndices returns the indices of pending creations, sorted
func (p *Pool) PendingIndices() []int {
	return intKeys(p.pending)
}

// PendingTickets returns pending tickets in index order
func (p *Pool) PendingTickets() []Ticket {
	out := make([]Ticket, 0, p.pending.Size())
	for _, t := range p.pending.Values() {
		out = append(out, t.(Ticket))
	}
	return out
}

func (p *Pool) Live(index int) (*Instance, bool) {
	inst, ok := p.live.Get(index)
	if !ok {
		return nil, false
	}
	return inst.(*Instance), true
}

// Indices returns the bound indices, sorted
func (p *Pool) Indices() []int {
	return intKeys(p.live)
}

// Instances returns the live instances in index order
func (p *Pool) Instances() []*Instance {
	out := make([]*Instance, 0, p.live.Size())
	for _, inst := range p.live.Values() {
		out = append(out, inst.(*Instance))
	}
	return out
}

func (p *Pool) Len() int {
	return p.live.Size()
}

func (p *Pool) FreeLen(kind string) int {
	return len(p.free[kind])
}

// Clear releases every live instance and cancels every pending creation
func (p *Pool) Clear() {
	for _, inst := range p.Instances() {
		p.Release(inst)
	}
	p.pending.Clear()
	p.tickets = make(map[Ticket]int)
}

func intKeys(t *redblacktree.Tree) []int {
	out := make([]int, 0, t.Size())
	for _, k := range t.Keys() {
		out = append(out, k.(int))
	}
	return out
}
