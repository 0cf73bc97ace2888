package types

import "time"

// RunState represents the orchestrator state machine for one run
type RunState string

const (
	RunPending     RunState = "pending"
	RunTextStage   RunState = "text_running"
	RunMediaStage  RunState = "media_running"
	RunAggregating RunState = "aggregating"
	RunDone        RunState = "done"
	RunFailed      RunState = "failed"
)

// Terminal reports whether the state admits no further transitions
func (s RunState) Terminal() bool {
	return s == RunDone || s == RunFailed
}

// LogEntry is a single log line with timestamp
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// RunRecord is the externally visible record of one analysis run.
// Only snapshots are handed out; the orchestrator owns the live copy.
type RunRecord struct {
	RunID      string         `json:"run_id"`
	VideoID    string         `json:"video_id"`
	State      RunState       `json:"state"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	Logs       []LogEntry     `json:"logs,omitempty"`
	Modules    *ModuleResults `json:"modules,omitempty"`
	Verdict    *FinalVerdict  `json:"verdict,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// ProgressEvent is an advisory stage-transition notification. Losing one
// never affects the run outcome.
type ProgressEvent struct {
	RunID     string    `json:"run_id"`
	VideoID   string    `json:"video_id"`
	Stage     RunState  `json:"stage"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Stream frame kinds for the NDJSON analyze stream
const (
	FrameProgress = "progress"
	FrameResult   = "result"
	FrameError    = "error"
)

// StreamFrame is one line of the NDJSON stream: zero or more progress
// frames followed by exactly one result or error frame.
type StreamFrame struct {
	Kind     string         `json:"kind"`
	Progress *ProgressEvent `json:"progress,omitempty"`
	Verdict  *FinalVerdict  `json:"verdict,omitempty"`
	Modules  *ModuleResults `json:"modules,omitempty"`
	Error    string         `json:"error,omitempty"`
}
