package render

import (
	"github.com/mattn/go-runewidth"
	"github.com/robinovitch61/vl/internal/model"
	"github.com/robinovitch61/vl/internal/pool"
)

const (
	NameRole  = "name"
	GroupRole = "group"
	LinesRole = "lines"
)

// Delegate binds items as rows of text. A vertical row is as many cells tall as its lines role, a horizontal
// one as wide as its text plus a gap
type Delegate struct {
	Horizontal bool
}

// Kind separates multi-line rows from single-line ones so recycled instances keep their shape
func (d Delegate) Kind(item model.Item) string {
	if !d.Horizontal && lines(item) > 1 {
		return "tall"
	}
	return "row"
}

func (d Delegate) Bind(inst *pool.Instance, item model.Item) {
	text := item.String(NameRole)
	inst.Payload = text
	if d.Horizontal {
		inst.SetSize(float64(runewidth.StringWidth(text) + 1))
		return
	}
	inst.SetSize(float64(lines(item)))
}

func lines(item model.Item) int {
	switch n := item.Value(LinesRole).(type) {
	case int:
		return max(n, 1)
	case float64:
		return max(int(n), 1)
	}
	return 1
}

// Text returns the text an instance shows
func Text(inst *pool.Instance) string {
	if s, ok := inst.Payload.(string); ok {
		return s
	}
	return ""
}
