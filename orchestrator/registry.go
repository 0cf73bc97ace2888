package orchestrator

import (
	"context"
	"log"
	"sync"
	"time"

	"vidcheck/config"
	"vidcheck/store"
	"vidcheck/types"
)

// Registry owns the live run records. All external access goes through
// read-only snapshots; only the runner mutates a record, through the
// registry's methods. Records are mirrored to Redis when a store is set.
type Registry struct {
	mu    sync.RWMutex
	runs  map[string]*types.RunRecord
	store *store.RunStore
}

// NewRegistry creates a run registry. store may be nil.
func NewRegistry(runStore *store.RunStore) *Registry {
	return &Registry{
		runs:  make(map[string]*types.RunRecord),
		store: runStore,
	}
}

// Create registers a new pending run
func (r *Registry) Create(runID, videoID string) {
	record := &types.RunRecord{
		RunID:     runID,
		VideoID:   videoID,
		State:     types.RunPending,
		StartedAt: time.Now(),
	}
	r.mu.Lock()
	r.runs[runID] = record
	r.mu.Unlock()
	r.mirror(record)
}

// SetState transitions a run and appends a log line
func (r *Registry) SetState(runID string, state types.RunState, message string) {
	r.mu.Lock()
	record, ok := r.runs[runID]
	if !ok {
		r.mu.Unlock()
		return
	}
	record.State = state
	appendLog(record, message)
	if state.Terminal() {
		now := time.Now()
		record.FinishedAt = &now
	}
	snapshot := snapshotLocked(record)
	r.mu.Unlock()
	r.mirror(&snapshot)
}

// AddLog appends a log line without a state change
func (r *Registry) AddLog(runID, message string) {
	r.mu.Lock()
	if record, ok := r.runs[runID]; ok {
		appendLog(record, message)
	}
	r.mu.Unlock()
}

// Complete marks a run done with its module results and verdict
func (r *Registry) Complete(runID string, modules *types.ModuleResults, verdict *types.FinalVerdict) {
	r.mu.Lock()
	record, ok := r.runs[runID]
	if !ok {
		r.mu.Unlock()
		return
	}
	record.State = types.RunDone
	record.Modules = modules
	record.Verdict = verdict
	now := time.Now()
	record.FinishedAt = &now
	appendLog(record, "Analysis complete")
	snapshot := snapshotLocked(record)
	r.mu.Unlock()
	r.mirror(&snapshot)
}

// Fail marks a run failed with the orchestration error
func (r *Registry) Fail(runID string, modules *types.ModuleResults, err error) {
	r.mu.Lock()
	record, ok := r.runs[runID]
	if !ok {
		r.mu.Unlock()
		return
	}
	record.State = types.RunFailed
	record.Modules = modules
	record.Error = err.Error()
	now := time.Now()
	record.FinishedAt = &now
	appendLog(record, "Error: "+err.Error())
	snapshot := snapshotLocked(record)
	r.mu.Unlock()
	r.mirror(&snapshot)
}

// Get returns a read-only snapshot of a run record. Falls back to the
// Redis mirror for runs started by another instance or before a restart.
func (r *Registry) Get(ctx context.Context, runID string) (*types.RunRecord, bool) {
	r.mu.RLock()
	record, ok := r.runs[runID]
	var snapshot types.RunRecord
	if ok {
		snapshot = snapshotLocked(record)
	}
	r.mu.RUnlock()
	if ok {
		return &snapshot, true
	}

	if r.store != nil {
		stored, found, err := r.store.Get(ctx, runID)
		if err != nil {
			log.Printf("⚠️ Run record lookup failed: %v", err)
			return nil, false
		}
		return stored, found
	}
	return nil, false
}

// mirror writes the record to Redis, best effort
func (r *Registry) mirror(record *types.RunRecord) {
	if r.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.store.Save(ctx, *record); err != nil {
		log.Printf("⚠️ Failed to mirror run record: %v", err)
	}
}

// appendLog adds a ring-buffered log entry (caller holds the lock)
func appendLog(record *types.RunRecord, message string) {
	record.Logs = append(record.Logs, types.LogEntry{
		Timestamp: time.Now(),
		Message:   message,
	})
	if len(record.Logs) > config.MaxRunLogs {
		record.Logs = record.Logs[len(record.Logs)-config.MaxRunLogs:]
	}
}

// snapshotLocked deep-copies the mutable fields (caller holds the lock)
func snapshotLocked(record *types.RunRecord) types.RunRecord {
	snapshot := *record
	snapshot.Logs = append([]types.LogEntry{}, record.Logs...)
	return snapshot
}
