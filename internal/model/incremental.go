package model

// Incremental exposes a complete source model in batches of BatchSize rows. Rows past the loaded range are
// invisible until FetchMore loads them
type Incremental struct {
	Emitter
	BatchSize int
	src       ListModel
	loaded    int
	unsub     func()
}

func NewIncremental(src ListModel, batchSize int) *Incremental {
	if batchSize < 1 {
		batchSize = 1
	}
	m := &Incremental{BatchSize: batchSize, src: src}
	m.loaded = min(batchSize, src.Count())
	m.unsub = src.Subscribe(m.onSourceChange)
	return m
}

func (m *Incremental) Count() int {
	return m.loaded
}

func (m *Incremental) ItemAt(index int) Item {
	if index < 0 || index >= m.loaded {
		return Item{}
	}
	return m.src.ItemAt(index)
}

func (m *Incremental) CanFetchMore() bool {
	return m.loaded < m.src.Count()
}

// FetchMore loads the next batch and emits it as one insertion at the end
func (m *Incremental) FetchMore() {
	n := min(m.BatchSize, m.src.Count()-m.loaded)
	if n <= 0 {
		return
	}
	at := m.loaded
	m.loaded += n
	m.Emit(InsertedAt(at, n))
}

// Close stops listening to the source
func (m *Incremental) Close() {
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
}

func (m *Incremental) onSourceChange(c Change) {
	switch c.Kind {
	case Inserted:
		if c.At < m.loaded {
			m.loaded += c.Count
			m.Emit(InsertedAt(c.At, c.Count))
		}
	case Removed:
		if c.At >= m.loaded {
			return
		}
		n := min(c.At+c.Count, m.loaded) - c.At
		m.loaded -= n
		m.Emit(RemovedAt(c.At, n))
	case Moved:
		inside := c.At+c.Count <= m.loaded && c.To+c.Count <= m.loaded
		outside := c.At >= m.loaded && c.To >= m.loaded
		switch {
		case inside:
			m.Emit(MovedFrom(c.At, c.To, c.Count))
		case outside:
		default:
			// the move crosses the loaded boundary, so loaded rows are replaced wholesale
			m.loaded = min(m.loaded, m.src.Count())
			m.Emit(ResetAll())
		}
	case Changed:
		if c.At >= m.loaded {
			return
		}
		n := min(c.At+c.Count, m.loaded) - c.At
		m.Emit(ChangedAt(c.At, n, c.Roles...))
	case Reset:
		m.loaded = min(m.BatchSize, m.src.Count())
		m.Emit(ResetAll())
	}
}
