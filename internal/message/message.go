package message

import "time"

type ErrMsg struct{ Err error }

func (e ErrMsg) Error() string { return e.Err.Error() }

// FrameMsg advances flicks and running transitions
type FrameMsg struct {
	Time time.Time
}

// IncubateMsg completes a batch of pending instance creations
type IncubateMsg struct{}

type CleanupCompleteMsg struct{}
