package constants

import "time"

// *********************************************************************************************************************
// THESE ARE KEY TO SMOOTH SCROLLING & ANIMATION IN THE TERMINAL (EXACT VALUES DETERMINED BY FEEL)

// FrameInterval controls the cadence of flick and transition frames while either is running
var FrameInterval = time.Second / 60

// IncubateInterval controls the cadence at which pending instance creations are completed
var IncubateInterval = 30 * time.Millisecond

// IncubateBatchSize controls how many pending creations are completed per incubation tick
var IncubateBatchSize = 4

// *********************************************************************************************************************

// FlickVelocity controls the initial speed of a keyboard flick, in cells per second
const FlickVelocity = 120.

// FlickDeceleration controls how quickly a flick slows down, in cells per second squared
const FlickDeceleration = 90.

// WheelStep controls how many cells one mouse wheel notch scrolls
const WheelStep = 3.

// ToastDuration controls how long a toast message stays visible
const ToastDuration = 5 * time.Second

// HorizontalSizeHint is the estimated width of a horizontal item before it is measured
const HorizontalSizeHint = 8.

// TallLines is the height of an item toggled tall
const TallLines = 3

// GroupNames are assigned to items in runs of GroupRunLength, giving sections to group by
var GroupNames = []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"}

const GroupRunLength = 7
