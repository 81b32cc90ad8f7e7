package pool

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/robinovitch61/vl/internal/model"
)

type textFactory struct {
	binds int
}

func (f *textFactory) Kind(item model.Item) string {
	if item.String("kind") != "" {
		return item.String("kind")
	}
	return "row"
}

func (f *textFactory) Bind(inst *Instance, item model.Item) {
	f.binds++
	inst.Payload = item.String("name")
	inst.SetSize(float64(len(item.String("name"))))
}

type recordingRenderer struct {
	attached map[int]bool
}

func (r *recordingRenderer) Attach(inst *Instance) { r.attached[inst.ID()] = true }
func (r *recordingRenderer) Detach(inst *Instance) { delete(r.attached, inst.ID()) }

func newTestPool(names ...string) (*Pool, *model.RoleList, *recordingRenderer) {
	var items []model.Item
	for _, n := range names {
		items = append(items, model.NewItem(map[string]any{"name": n}))
	}
	l := model.NewRoleList([]string{"name", "kind"}, items...)
	r := &recordingRenderer{attached: map[int]bool{}}
	return New(l, &textFactory{}, r), l, r
}

func TestPool_AcquireOutOfRange(t *testing.T) {
	p, _, _ := newTestPool("a", "b")
	_, err := p.Acquire(2)
	var oor *OutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("expected OutOfRangeError, got %v", err)
	}
	if oor.Index != 2 || oor.Count != 2 {
		t.Errorf("expected index 2 count 2, got %+v", oor)
	}
	if p.Len() != 0 {
		t.Errorf("expected no instances, got %d", p.Len())
	}
}

func TestPool_AtMostOneInstancePerIndex(t *testing.T) {
	p, _, r := newTestPool("a", "bb")
	first, _ := p.Acquire(1)
	second, _ := p.Acquire(1)
	if first != second {
		t.Errorf("expected the same instance")
	}
	if first.Size() != 2 || first.Payload != "bb" {
		t.Errorf("expected bound data, got size %v payload %v", first.Size(), first.Payload)
	}
	if !r.attached[first.ID()] {
		t.Errorf("expected instance attached")
	}
}

func TestPool_ReleaseRecyclesByKind(t *testing.T) {
	p, l, r := newTestPool("a", "b", "c")
	_ = l.Set(2, "kind", "special")
	a, _ := p.Acquire(0)
	id := a.ID()
	p.Release(a)
	p.Release(a)
	if r.attached[id] {
		t.Errorf("expected instance detached")
	}
	if p.FreeLen("row") != 1 {
		t.Errorf("expected 1 free row, got %d", p.FreeLen("row"))
	}

	special, _ := p.Acquire(2)
	if special.ID() == id {
		t.Errorf("expected a fresh instance for another kind")
	}
	b, _ := p.Acquire(1)
	if b.ID() != id {
		t.Errorf("expected recycled instance %d, got %d", id, b.ID())
	}
	if b.Released() || b.Index() != 1 {
		t.Errorf("expected recycled instance bound to 1, got index %d", b.Index())
	}
}

func TestPool_MaxFree(t *testing.T) {
	p, _, _ := newTestPool("a", "b", "c")
	p.MaxFree = 1
	for i := 0; i < 3; i++ {
		inst, _ := p.Acquire(i)
		p.Release(inst)
	}
	if p.FreeLen("row") != 1 {
		t.Errorf("expected 1 free, got %d", p.FreeLen("row"))
	}
}

func TestPool_RetargetAllKeepsIdentity(t *testing.T) {
	p, _, _ := newTestPool("a", "b", "c", "d")
	ids := map[int]int{}
	for i := 0; i < 4; i++ {
		inst, _ := p.Acquire(i)
		ids[i] = inst.ID()
	}
	p.Release(mustLive(t, p, 3))
	_, _ = p.Request(3)

	dropped := p.RetargetAll(model.RemovedAt(1, 1).MapIndex)
	if len(dropped) != 1 || dropped[0].ID() != ids[1] || dropped[0].Bound() {
		t.Fatalf("expected instance %d dropped and unbound, got %v", ids[1], dropped)
	}
	if diff := cmp.Diff([]int{0, 1}, p.Indices()); diff != "" {
		t.Errorf("indices mismatch (-expected +actual):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2}, p.PendingIndices()); diff != "" {
		t.Errorf("pending mismatch (-expected +actual):\n%s", diff)
	}

	p.RetargetAll(model.MovedFrom(0, 2, 1).MapIndex)
	if mustLive(t, p, 2).ID() != ids[0] {
		t.Errorf("expected moved instance keeps id %d", ids[0])
	}
	if mustLive(t, p, 0).ID() != ids[2] {
		t.Errorf("expected shifted instance keeps id %d", ids[2])
	}
}

func TestPool_IndexOrderAfterMove(t *testing.T) {
	p, _, _ := newTestPool("a", "b", "c", "d", "e", "f")
	for _, i := range []int{4, 0, 2, 1} {
		if _, err := p.Acquire(i); err != nil {
			t.Fatal(err)
		}
	}
	for _, i := range []int{5, 3} {
		if _, err := p.Request(i); err != nil {
			t.Fatal(err)
		}
	}
	five, _ := p.Request(5)

	// item 0 moves to the end, everything after it shifts up
	p.RetargetAll(model.MovedFrom(0, 5, 1).MapIndex)
	if diff := cmp.Diff([]int{0, 1, 3, 5}, p.Indices()); diff != "" {
		t.Errorf("indices mismatch (-expected +actual):\n%s", diff)
	}
	var payloads []any
	for _, inst := range p.Instances() {
		payloads = append(payloads, inst.Payload)
	}
	if diff := cmp.Diff([]any{"b", "c", "e", "a"}, payloads); diff != "" {
		t.Errorf("instances out of index order (-expected +actual):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2, 4}, p.PendingIndices()); diff != "" {
		t.Errorf("pending mismatch (-expected +actual):\n%s", diff)
	}
	if tickets := p.PendingTickets(); len(tickets) != 2 || tickets[1] != five {
		t.Errorf("expected pending tickets in index order, got %v", tickets)
	}
	if p.Len() != 4 {
		t.Errorf("expected 4 live instances, got %d", p.Len())
	}
}

func TestPool_IncubationCancelledTicket(t *testing.T) {
	p, _, _ := newTestPool("a", "b")
	ticket, err := p.Request(1)
	if err != nil {
		t.Fatal(err)
	}
	again, _ := p.Request(1)
	if again != ticket {
		t.Errorf("expected same ticket for the same pending index")
	}
	if !p.Cancel(1) {
		t.Errorf("expected cancel to report a pending creation")
	}
	if _, err := p.Complete(ticket); !errors.Is(err, ErrPendingCreationCancelled) {
		t.Errorf("expected ErrPendingCreationCancelled, got %v", err)
	}

	ticket, _ = p.Request(0)
	inst, err := p.Complete(ticket)
	if err != nil {
		t.Fatal(err)
	}
	if inst.Index() != 0 || p.Pending(0) {
		t.Errorf("expected completed instance at 0 and nothing pending")
	}
}

func TestPool_OnResize(t *testing.T) {
	p, _, _ := newTestPool("abc")
	var got []float64
	p.OnResize = func(inst *Instance, old float64) {
		got = append(got, old, inst.Size())
	}
	inst, _ := p.Acquire(0)
	inst.SetSize(5)
	inst.SetSize(5)
	if diff := cmp.Diff([]float64{0, 3, 3, 5}, got); diff != "" {
		t.Errorf("resize mismatch (-expected +actual):\n%s", diff)
	}
}

func mustLive(t *testing.T, p *Pool, index int) *Instance {
	t.Helper()
	inst, ok := p.Live(index)
	if !ok {
		t.Fatalf("expected live instance at %d", index)
	}
	return inst
}
