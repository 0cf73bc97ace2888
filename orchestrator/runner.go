package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"vidcheck/archive"
	"vidcheck/config"
	"vidcheck/events"
	"vidcheck/types"
	"vidcheck/youtube"
)

// ErrAllModulesFailed is the only fatal run outcome: no module produced
// a usable result, so no verdict can honestly be aggregated.
var ErrAllModulesFailed = errors.New("all analysis modules failed")

// TextModule analyzes the transcript track
type TextModule interface {
	Analyze(ctx context.Context, req types.AnalysisRequest) (*types.TextResult, error)
}

// ImageModule analyzes sampled frames
type ImageModule interface {
	Analyze(ctx context.Context, req types.AnalysisRequest) (*types.ImageResult, error)
}

// AudioModule analyzes the audio track, reusing the text module's
// transcript when one exists for the request
type AudioModule interface {
	Analyze(ctx context.Context, req types.AnalysisRequest, sharedTranscript string) (*types.AudioResult, error)
}

// VerdictAggregator merges module results into the final verdict
type VerdictAggregator interface {
	Aggregate(results types.ModuleResults) (*types.FinalVerdict, error)
}

// MetadataLookup fills in video metadata missing from the request
type MetadataLookup interface {
	Lookup(ctx context.Context, videoID string) (*youtube.Metadata, error)
}

// ProgressFunc observes stage transitions for one run. May be nil.
type ProgressFunc func(types.ProgressEvent)

// Runner sequences one analysis run: text first, then image and audio
// concurrently, then aggregation over whatever succeeded.
type Runner struct {
	registry   *Registry
	publisher  events.Publisher
	text       TextModule
	image      ImageModule
	audio      AudioModule
	aggregator VerdictAggregator
	metadata   MetadataLookup
	archiver   *archive.Archiver

	textTimeout  time.Duration
	imageTimeout time.Duration
	audioTimeout time.Duration
}

// NewRunner wires the orchestrator. metadata and archiver may be nil;
// publisher must not be (use events.NopPublisher).
func NewRunner(registry *Registry, publisher events.Publisher, text TextModule, image ImageModule, audio AudioModule, aggregator VerdictAggregator, metadata MetadataLookup, archiver *archive.Archiver, cfg config.Config) *Runner {
	return &Runner{
		registry:     registry,
		publisher:    publisher,
		text:         text,
		image:        image,
		audio:        audio,
		aggregator:   aggregator,
		metadata:     metadata,
		archiver:     archiver,
		textTimeout:  cfg.TextTimeout,
		imageTimeout: cfg.ImageTimeout,
		audioTimeout: cfg.AudioTimeout,
	}
}

// NewRun registers a pending run and returns its id
func (r *Runner) NewRun(videoID string) string {
	runID := uuid.New().String()
	r.registry.Create(runID, videoID)
	return runID
}

// Execute runs the full pipeline for a previously registered run.
// Returns the verdict and the terminal module results, or an error when
// every module failed. Cancelling ctx aborts in-flight stages.
func (r *Runner) Execute(ctx context.Context, runID string, req types.AnalysisRequest, onProgress ProgressFunc) (*types.FinalVerdict, *types.ModuleResults, error) {
	req = r.enrich(ctx, runID, req)

	results := types.ModuleResults{}

	// Text runs alone first: audio reuses its transcript, and the
	// aggregate must include the text stage's own status either way.
	r.transition(runID, types.RunTextStage, "Text analysis started", onProgress, req.VideoID)
	textResult, err := runStage(ctx, r.textTimeout, func(stageCtx context.Context) (*types.TextResult, error) {
		return r.text.Analyze(stageCtx, req)
	})
	if err != nil {
		log.Printf("❌ [%s] Text module failed: %v", runID, err)
		results.Failures = append(results.Failures, types.ModuleFailure{Module: "text", Reason: err.Error()})
		r.registry.AddLog(runID, "Text module failed: "+err.Error())
	} else {
		results.Text = textResult
		r.registry.AddLog(runID, fmt.Sprintf("Text module done: %s", textResult.Summary))
	}

	sharedTranscript := ""
	if results.Text != nil {
		sharedTranscript = results.Text.Transcript
	}

	// Image and audio run concurrently with independent budgets and
	// write to disjoint slots; nothing reads them until both finish.
	r.transition(runID, types.RunMediaStage, "Image and audio analysis started", onProgress, req.VideoID)

	imageCh := make(chan stageOutcome[*types.ImageResult], 1)
	audioCh := make(chan stageOutcome[*types.AudioResult], 1)
	go func() {
		res, err := runStage(ctx, r.imageTimeout, func(stageCtx context.Context) (*types.ImageResult, error) {
			return r.image.Analyze(stageCtx, req)
		})
		imageCh <- stageOutcome[*types.ImageResult]{res, err}
	}()
	go func() {
		res, err := runStage(ctx, r.audioTimeout, func(stageCtx context.Context) (*types.AudioResult, error) {
			return r.audio.Analyze(stageCtx, req, sharedTranscript)
		})
		audioCh <- stageOutcome[*types.AudioResult]{res, err}
	}()

	imageOut := <-imageCh
	audioOut := <-audioCh

	if imageOut.err != nil {
		log.Printf("❌ [%s] Image module failed: %v", runID, imageOut.err)
		results.Failures = append(results.Failures, types.ModuleFailure{Module: "image", Reason: imageOut.err.Error()})
		r.registry.AddLog(runID, "Image module failed: "+imageOut.err.Error())
	} else {
		results.Image = imageOut.result
		r.registry.AddLog(runID, "Image module done: "+imageOut.result.Summary)
	}
	if audioOut.err != nil {
		log.Printf("❌ [%s] Audio module failed: %v", runID, audioOut.err)
		results.Failures = append(results.Failures, types.ModuleFailure{Module: "audio", Reason: audioOut.err.Error()})
		r.registry.AddLog(runID, "Audio module failed: "+audioOut.err.Error())
	} else {
		results.Audio = audioOut.result
		r.registry.AddLog(runID, "Audio module done: "+audioOut.result.Summary)
	}

	if results.SucceededCount() == 0 {
		err := fmt.Errorf("%w: %s", ErrAllModulesFailed, failureSummary(results.Failures))
		r.registry.Fail(runID, &results, err)
		r.emit(runID, types.RunFailed, err.Error(), onProgress, req.VideoID)
		return nil, &results, err
	}

	r.transition(runID, types.RunAggregating, "Aggregating module results", onProgress, req.VideoID)
	verdict, err := r.aggregator.Aggregate(results)
	if err != nil {
		err = fmt.Errorf("aggregation failed: %w", err)
		r.registry.Fail(runID, &results, err)
		r.emit(runID, types.RunFailed, err.Error(), onProgress, req.VideoID)
		return nil, &results, err
	}

	r.registry.Complete(runID, &results, verdict)
	r.emit(runID, types.RunDone, "Analysis complete", onProgress, req.VideoID)
	r.archiveRun(runID)

	return verdict, &results, nil
}

// RunAnalysis is the one-shot entrypoint: register, execute, return
func (r *Runner) RunAnalysis(ctx context.Context, req types.AnalysisRequest, onProgress ProgressFunc) (*types.FinalVerdict, *types.ModuleResults, error) {
	runID := r.NewRun(req.VideoID)
	return r.Execute(ctx, runID, req, onProgress)
}

// Registry exposes run record snapshots to the API layer
func (r *Runner) Registry() *Registry {
	return r.registry
}

// enrich fills missing request fields from the metadata lookup
func (r *Runner) enrich(ctx context.Context, runID string, req types.AnalysisRequest) types.AnalysisRequest {
	if r.metadata == nil {
		return req
	}
	if req.DurationSec > 0 && req.Title != "" && req.ThumbnailURL != "" {
		return req
	}
	meta, err := r.metadata.Lookup(ctx, req.VideoID)
	if err != nil {
		log.Printf("⚠️ [%s] Metadata lookup failed: %v", runID, err)
		return req
	}
	if req.DurationSec == 0 {
		req.DurationSec = meta.DurationSec
	}
	if req.Title == "" {
		req.Title = meta.Title
	}
	if req.Description == "" {
		req.Description = meta.Description
	}
	if req.PublishedAt == "" {
		req.PublishedAt = meta.PublishedAt
	}
	if req.ThumbnailURL == "" {
		req.ThumbnailURL = meta.ThumbnailURL
	}
	return req
}

// transition updates the record and emits the advisory progress event
func (r *Runner) transition(runID string, state types.RunState, message string, onProgress ProgressFunc, videoID string) {
	r.registry.SetState(runID, state, message)
	r.emit(runID, state, message, onProgress, videoID)
}

// emit publishes a progress event without touching the record
func (r *Runner) emit(runID string, state types.RunState, message string, onProgress ProgressFunc, videoID string) {
	event := types.ProgressEvent{
		RunID:     runID,
		VideoID:   videoID,
		Stage:     state,
		Message:   message,
		Timestamp: time.Now(),
	}
	r.publisher.Publish(event)
	if onProgress != nil {
		onProgress(event)
	}
}

// archiveRun uploads the terminal record, best effort
func (r *Runner) archiveRun(runID string) {
	if r.archiver == nil {
		return
	}
	record, ok := r.registry.Get(context.Background(), runID)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := r.archiver.ArchiveRun(ctx, *record); err != nil {
		log.Printf("⚠️ [%s] Run archive failed: %v", runID, err)
	}
}

type stageOutcome[T any] struct {
	result T
	err    error
}

// runStage executes one module under its own timeout. A stage that
// overruns its budget is converted to a stage failure; the goroutine is
// left to unwind via context cancellation and its late result discarded.
func runStage[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	stageCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		stageCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		stageCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	done := make(chan stageOutcome[T], 1)
	go func() {
		res, err := fn(stageCtx)
		done <- stageOutcome[T]{res, err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-stageCtx.Done():
		var zero T
		if errors.Is(stageCtx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("stage timed out after %s", timeout)
		}
		return zero, stageCtx.Err()
	}
}

func failureSummary(failures []types.ModuleFailure) string {
	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		parts = append(parts, f.Module+": "+f.Reason)
	}
	return strings.Join(parts, "; ")
}
