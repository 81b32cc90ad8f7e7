package listview

import (
	"fmt"

	"github.com/robinovitch61/vl/internal/current"
	"github.com/robinovitch61/vl/internal/section"
	"github.com/robinovitch61/vl/internal/transition"
	"github.com/robinovitch61/vl/internal/viewport"
)

type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

type LayoutDirection int

const (
	LeftToRight LayoutDirection = iota
	// RightToLeft mirrors a horizontal view: item 0 is at the right and x positions are negative
	RightToLeft
)

func (d LayoutDirection) String() string {
	switch d {
	case LeftToRight:
		return "ltr"
	case RightToLeft:
		return "rtl"
	}
	return fmt.Sprintf("LayoutDirection(%d)", int(d))
}

type Config struct {
	// Width and Height are the size of the view
	Width  float64
	Height float64

	Orientation     Orientation
	LayoutDirection LayoutDirection

	// CacheBuffer is how far beyond the visible region items are materialized
	CacheBuffer float64

	Spacing      float64
	TopMargin    float64
	BottomMargin float64
	HeaderSize   float64
	FooterSize   float64

	// SizeHint is the estimated size of items that were never materialized, until some are measured. Zero means
	// DefaultSizeHint
	SizeHint float64

	HighlightRangeMode          current.RangeMode
	PreferredHighlightBegin     float64
	PreferredHighlightEnd       float64
	HighlightFollowsCurrentItem bool

	SnapMode viewport.SnapMode

	// FlickDeceleration is in content units per second squared, zero meaning viewport.DefaultDeceleration
	FlickDeceleration float64

	// SectionField is the item role sections are derived from. Empty disables sections
	SectionField       string
	SectionCriteria    section.Criteria
	SectionPositioning section.Positioning
	SectionLabelSize   float64
	SectionFooterSize  float64

	KeyNavigationWraps bool

	// Asynchronous creates instances through pending creations completed by Incubate
	Asynchronous bool

	// FetchThreshold is how close to the end of the content the window gets before more rows are fetched
	FetchThreshold float64

	Transitions transition.Config
}

// DefaultSizeHint is the item size estimate of a view without a SizeHint
const DefaultSizeHint = 20

// DefaultConfig is a 320 by 320 vertical view of 20 unit rows
func DefaultConfig() Config {
	return Config{
		Width:                       320,
		Height:                      320,
		SizeHint:                    DefaultSizeHint,
		HighlightFollowsCurrentItem: true,
		SectionPositioning:          section.InlineLabels,
		SectionLabelSize:            20,
	}
}

func (c Config) viewSize() float64 {
	if c.Orientation == Horizontal {
		return c.Width
	}
	return c.Height
}

func (c Config) crossSize() float64 {
	if c.Orientation == Horizontal {
		return c.Height
	}
	return c.Width
}

func (c Config) mirrored() bool {
	return c.Orientation == Horizontal && c.LayoutDirection == RightToLeft
}
