package layout

import (
	"slices"

	"github.com/robinovitch61/vl/internal/model"
)

const unknown = -1

// SizeTable holds a measured size or "unknown" for every model index. Unknown sizes are estimated as the mean
// of the measured ones, or Hint before anything is measured
type SizeTable struct {
	Hint  float64
	sizes []float64
	sum   float64
	n     int
}

func NewSizeTable(count int, hint float64) *SizeTable {
	t := &SizeTable{Hint: hint}
	t.Reset(count)
	return t
}

func (t *SizeTable) Len() int {
	return len(t.sizes)
}

func (t *SizeTable) Measure(i int, size float64) {
	if i < 0 || i >= len(t.sizes) {
		return
	}
	if size < 0 {
		size = 0
	}
	t.Forget(i)
	t.sizes[i] = size
	t.sum += size
	t.n++
}

// Forget marks the size at i unknown again
func (t *SizeTable) Forget(i int) {
	if i < 0 || i >= len(t.sizes) || t.sizes[i] == unknown {
		return
	}
	t.sum -= t.sizes[i]
	t.n--
	t.sizes[i] = unknown
}

func (t *SizeTable) Measured(i int) (float64, bool) {
	if i < 0 || i >= len(t.sizes) || t.sizes[i] == unknown {
		return 0, false
	}
	return t.sizes[i], true
}

func (t *SizeTable) MeasuredCount() int {
	return t.n
}

func (t *SizeTable) Estimate() float64 {
	if t.n == 0 {
		return t.Hint
	}
	return t.sum / float64(t.n)
}

// Size returns the measured size at i, or the estimate
func (t *SizeTable) Size(i int) float64 {
	if s, ok := t.Measured(i); ok {
		return s
	}
	return t.Estimate()
}

func (t *SizeTable) Insert(at, n int) {
	if n <= 0 || at < 0 || at > len(t.sizes) {
		return
	}
	t.sizes = slices.Insert(t.sizes, at, slices.Repeat([]float64{unknown}, n)...)
}

func (t *SizeTable) Remove(at, n int) {
	if n <= 0 || at < 0 || at+n > len(t.sizes) {
		return
	}
	for i := at; i < at+n; i++ {
		t.Forget(i)
	}
	t.sizes = slices.Delete(t.sizes, at, at+n)
}

func (t *SizeTable) Move(from, to, n int) {
	if n <= 0 || from == to || from < 0 || to < 0 || from+n > len(t.sizes) || to+n > len(t.sizes) {
		return
	}
	moved := slices.Clone(t.sizes[from : from+n])
	t.sizes = slices.Delete(t.sizes, from, from+n)
	t.sizes = slices.Insert(t.sizes, to, moved...)
}

// Reset forgets every size and resizes the table to count
func (t *SizeTable) Reset(count int) {
	t.sizes = slices.Repeat([]float64{unknown}, max(count, 0))
	t.sum = 0
	t.n = 0
}

// Apply mirrors a structural model change. Changed items are forgotten so they are measured again
func (t *SizeTable) Apply(c model.Change, count int) {
	switch c.Kind {
	case model.Inserted:
		t.Insert(c.At, c.Count)
	case model.Removed:
		t.Remove(c.At, c.Count)
	case model.Moved:
		t.Move(c.At, c.To, c.Count)
	case model.Changed:
		for i := c.At; i < c.At+c.Count; i++ {
			t.Forget(i)
		}
	case model.Reset:
		t.Reset(count)
	}
}
