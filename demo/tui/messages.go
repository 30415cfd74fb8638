package tui

import "time"

// Messages for the tea program (polling-based)

// RunStartedMsg is sent when the production run has been accepted
type RunStartedMsg struct {
	RunID string
	Err   error
}

// RunStatusMsg is sent when we receive run status from the studio
type RunStatusMsg struct {
	Status *RunStatus
	Err    error
}

// RunCancelledMsg is sent after a cancel request
type RunCancelledMsg struct {
	Err error
}

// TickMsg is sent periodically to trigger polling
type TickMsg struct {
	Time time.Time
}
