package tui

import (
	"time"

	"vidcheck/types"
)

// Messages for the tea program (polling-based)

// RunStartedMsg is sent when the analysis run was accepted
type RunStartedMsg struct {
	RunID string
	Err   error
}

// RunUpdateMsg is sent when we receive a run record from the server
type RunUpdateMsg struct {
	Record *types.RunRecord
	Err    error
}

// TickMsg is sent periodically to trigger polling
type TickMsg struct {
	Time time.Time
}
