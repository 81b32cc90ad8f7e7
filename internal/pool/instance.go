package pool

// Instance is a delegate instance bound to at most one model index at a time
type Instance struct {
	id       int
	index    int
	kind     string
	size     float64
	pool     *Pool
	bound    bool
	released bool

	// Offset is the primary-axis layout position, Cross the cross-axis one
	Offset float64
	Cross  float64

	Visible         bool
	Current         bool
	SectionBoundary bool
	Section         string

	// Payload is opaque delegate data, e.g. the rendered text of a row
	Payload any
}

func (i *Instance) ID() int {
	return i.id
}

// Index returns the bound model index, or -1 when unbound
func (i *Instance) Index() int {
	if !i.bound {
		return -1
	}
	return i.index
}

func (i *Instance) Kind() string {
	return i.kind
}

func (i *Instance) Size() float64 {
	return i.size
}

// SetSize updates the primary-axis extent and reports it to the owning pool
func (i *Instance) SetSize(size float64) {
	if size < 0 {
		size = 0
	}
	if size == i.size {
		return
	}
	old := i.size
	i.size = size
	if i.pool != nil && i.pool.OnResize != nil && i.bound {
		i.pool.OnResize(i, old)
	}
}

func (i *Instance) Bound() bool {
	return i.bound
}

func (i *Instance) Released() bool {
	return i.released
}
