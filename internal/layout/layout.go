package layout

import "sort"

// Input describes one layout pass. Label and Trailer may be nil
type Input struct {
	Count   int
	Size    func(i int) float64
	Spacing float64
	Header  float64
	Footer  float64
	// Label is the size of a section label slot directly before item i
	Label func(i int) float64
	// Trailer is the size of a section footer slot directly after item i
	Trailer func(i int) float64
}

// Result holds the primary-axis positions of every item of a pass
type Result struct {
	starts      []float64
	sizes       []float64
	labels      []float64
	trailers    []float64
	spacing     float64
	header      float64
	footerStart float64
	contentSize float64
}

// Compute lays out items in strict index order starting from the origin:
//
//	start(0) = Header + Label(0)
//	start(i) = end(i-1) + Trailer(i-1) + Spacing + Label(i)
//	footer   = end(last) + Trailer(last) + Spacing, or Header without items
func Compute(in Input) Result {
	n := max(in.Count, 0)
	r := Result{
		starts:   make([]float64, n),
		sizes:    make([]float64, n),
		labels:   make([]float64, n),
		trailers: make([]float64, n),
		spacing:  in.Spacing,
		header:   in.Header,
	}
	pos := in.Header
	for i := 0; i < n; i++ {
		if i > 0 {
			pos += in.Spacing
		}
		var label, trailer float64
		if in.Label != nil {
			label = in.Label(i)
		}
		if in.Trailer != nil {
			trailer = in.Trailer(i)
		}
		size := in.Size(i)
		if size < 0 {
			size = 0
		}
		r.labels[i] = pos
		pos += label
		r.starts[i] = pos
		r.sizes[i] = size
		pos += size
		r.trailers[i] = trailer
		pos += trailer
	}
	if n > 0 {
		pos += in.Spacing
	}
	r.footerStart = pos
	r.contentSize = pos + in.Footer
	return r
}

func (r Result) Count() int {
	return len(r.starts)
}

func (r Result) valid(i int) bool {
	return i >= 0 && i < len(r.starts)
}

func (r Result) Start(i int) float64 {
	if !r.valid(i) {
		return 0
	}
	return r.starts[i]
}

func (r Result) Size(i int) float64 {
	if !r.valid(i) {
		return 0
	}
	return r.sizes[i]
}

func (r Result) End(i int) float64 {
	return r.Start(i) + r.Size(i)
}

// LabelStart is where the label slot before item i begins. Without a label it equals Start(i)
func (r Result) LabelStart(i int) float64 {
	if !r.valid(i) {
		return 0
	}
	return r.labels[i]
}

// TrailerSize is the size of the section footer slot after item i
func (r Result) TrailerSize(i int) float64 {
	if !r.valid(i) {
		return 0
	}
	return r.trailers[i]
}

// SlotEnd is where the slot of item i ends, before spacing
func (r Result) SlotEnd(i int) float64 {
	return r.End(i) + r.TrailerSize(i)
}

func (r Result) Spacing() float64 {
	return r.spacing
}

func (r Result) HeaderSize() float64 {
	return r.header
}

func (r Result) FooterStart() float64 {
	return r.footerStart
}

func (r Result) ContentSize() float64 {
	return r.contentSize
}

// IndexAt returns the item whose [Start, End) contains pos, or -1 for labels, spacing, header and footer
func (r Result) IndexAt(pos float64) int {
	i := sort.Search(len(r.starts), func(i int) bool { return r.starts[i] > pos }) - 1
	if i < 0 || pos >= r.End(i) {
		return -1
	}
	return i
}

// SlotAt returns the item whose slot, from its label start up to the next label start, contains pos.
// Positions before the first item map to 0 and positions after the last map to the last item
func (r Result) SlotAt(pos float64) int {
	if len(r.starts) == 0 {
		return -1
	}
	i := sort.Search(len(r.labels), func(i int) bool { return r.labels[i] > pos }) - 1
	return max(i, 0)
}

// Range returns the first and last item whose slot intersects [from, to). last < first when none does
func (r Result) Range(from, to float64) (first, last int) {
	n := len(r.starts)
	if n == 0 || to <= r.labels[0] || from >= r.footerStart || to <= from {
		return 0, -1
	}
	first = r.SlotAt(from)
	last = sort.Search(n, func(i int) bool { return r.labels[i] >= to }) - 1
	return first, last
}
