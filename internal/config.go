package internal

import (
	"github.com/robinovitch61/vl/internal/keymap"
	"github.com/robinovitch61/vl/internal/listview"
	"github.com/robinovitch61/vl/internal/transition"
	"time"
)

type Config struct {
	KeyMap keymap.KeyMap
	// View is the list configuration. Its width and height follow the terminal
	View listview.Config
	// Count is the number of items the model starts with
	Count int
	// Incremental serves the model in batches of BatchSize, fetched as the view nears the end
	Incremental bool
	BatchSize   int
	// IncubateBatchSize is the number of asynchronous creations completed per incubation tick
	IncubateBatchSize int
	SaveDir           string
	Version           string
}

// DefaultTransitions animates every operation over d, new items sliding in from offset cells away
func DefaultTransitions(d time.Duration, offset float64) transition.Config {
	if d <= 0 {
		return nil
	}
	return transition.Config{
		transition.Populate:  {Name: "populate", Duration: d, Offset: offset},
		transition.Add:       {Name: "add", Duration: d, Offset: offset},
		transition.Remove:    {Name: "remove", Duration: d, Offset: offset},
		transition.Move:      {Name: "move", Duration: d},
		transition.Displaced: {Name: "displaced", Duration: d},
	}
}
