package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"vidcheck/aggregator"
	"vidcheck/config"
	"vidcheck/events"
	"vidcheck/types"
)

type fakeText struct {
	result *types.TextResult
	err    error
}

func (f *fakeText) Analyze(ctx context.Context, req types.AnalysisRequest) (*types.TextResult, error) {
	return f.result, f.err
}

type fakeImage struct {
	result *types.ImageResult
	err    error
	delay  time.Duration
}

func (f *fakeImage) Analyze(ctx context.Context, req types.AnalysisRequest) (*types.ImageResult, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.result, f.err
}

type fakeAudio struct {
	result     *types.AudioResult
	err        error
	gotShared  string
	wasInvoked bool
}

func (f *fakeAudio) Analyze(ctx context.Context, req types.AnalysisRequest, sharedTranscript string) (*types.AudioResult, error) {
	f.wasInvoked = true
	f.gotShared = sharedTranscript
	return f.result, f.err
}

func testRunner(text TextModule, image ImageModule, audio AudioModule, cfg config.Config) *Runner {
	return NewRunner(
		NewRegistry(nil),
		events.NopPublisher{},
		text, image, audio,
		aggregator.New(0.6),
		nil, nil,
		cfg,
	)
}

func baseConfig() config.Config {
	return config.Config{
		TextTimeout:  time.Second,
		ImageTimeout: time.Second,
		AudioTimeout: time.Second,
	}
}

func goodText() *types.TextResult {
	return &types.TextResult{
		Summary:    "1 of 1 claims verified false",
		Transcript: "the dam failed last week",
		ClaimVerdicts: []types.ClaimVerdict{{
			ClaimID:       "c1",
			ClaimText:     "the dam failed last week",
			VerdictStatus: types.VerdictFalse,
			VerdictReason: "contradicted by the agency record",
		}},
		FakeClaims:  1,
		TotalClaims: 1,
	}
}

func TestRunAnalysisAllModulesFailed(t *testing.T) {
	runner := testRunner(
		&fakeText{err: errors.New("no transcript")},
		&fakeImage{err: errors.New("no frames")},
		&fakeAudio{err: errors.New("no audio")},
		baseConfig(),
	)

	_, modules, err := runner.RunAnalysis(context.Background(), types.AnalysisRequest{VideoID: "v1"}, nil)
	if !errors.Is(err, ErrAllModulesFailed) {
		t.Fatalf("expected ErrAllModulesFailed, got %v", err)
	}
	if len(modules.Failures) != 3 {
		t.Errorf("expected 3 recorded failures, got %d", len(modules.Failures))
	}
}

func TestRunAnalysisFailedRunState(t *testing.T) {
	runner := testRunner(
		&fakeText{err: errors.New("no transcript")},
		&fakeImage{err: errors.New("no frames")},
		&fakeAudio{err: errors.New("no audio")},
		baseConfig(),
	)

	runID := runner.NewRun("v1")
	_, _, err := runner.Execute(context.Background(), runID, types.AnalysisRequest{VideoID: "v1"}, nil)
	if err == nil {
		t.Fatal("expected an error")
	}

	record, ok := runner.Registry().Get(context.Background(), runID)
	if !ok {
		t.Fatal("run record missing")
	}
	if record.State != types.RunFailed {
		t.Errorf("expected failed state, got %s", record.State)
	}
	if record.Error == "" {
		t.Error("failed run should carry an error message")
	}
}

func TestRunAnalysisImageTimeoutIsContained(t *testing.T) {
	cfg := baseConfig()
	cfg.ImageTimeout = 30 * time.Millisecond

	audio := &fakeAudio{result: &types.AudioResult{
		Summary:           "Manipulative tone detected in the audio track",
		ManipulationScore: 0.9,
	}}
	runner := testRunner(
		&fakeText{result: goodText()},
		&fakeImage{result: &types.ImageResult{Summary: "ok"}, delay: 500 * time.Millisecond},
		audio,
		cfg,
	)

	verdict, modules, err := runner.RunAnalysis(context.Background(), types.AnalysisRequest{VideoID: "v1"}, nil)
	if err != nil {
		t.Fatalf("a single timed-out stage must not fail the run: %v", err)
	}
	if modules.Image != nil {
		t.Error("timed-out image stage should not produce a result")
	}
	if len(modules.Failures) != 1 || modules.Failures[0].Module != "image" {
		t.Fatalf("expected exactly the image failure, got %+v", modules.Failures)
	}

	if !verdict.IsFakeNews {
		t.Error("expected fake news verdict")
	}
	if verdict.ConfidenceLevel != types.ConfidenceMedium {
		t.Errorf("confidence must be capped at medium with image unavailable, got %s", verdict.ConfidenceLevel)
	}
	reasoning := strings.ToLower(verdict.OverallReasoning)
	if !strings.Contains(reasoning, "image") || !strings.Contains(reasoning, "unavailable") {
		t.Errorf("reasoning must note the image module as unavailable: %q", verdict.OverallReasoning)
	}
}

func TestRunAnalysisSharesTranscriptWithAudio(t *testing.T) {
	audio := &fakeAudio{result: &types.AudioResult{Summary: "ok", TranscriptReused: true}}
	runner := testRunner(
		&fakeText{result: goodText()},
		&fakeImage{result: &types.ImageResult{Summary: "ok"}},
		audio,
		baseConfig(),
	)

	_, _, err := runner.RunAnalysis(context.Background(), types.AnalysisRequest{VideoID: "v1"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if audio.gotShared != "the dam failed last week" {
		t.Errorf("audio did not receive the text module transcript, got %q", audio.gotShared)
	}
}

func TestRunAnalysisAudioRunsWhenTextFails(t *testing.T) {
	audio := &fakeAudio{result: &types.AudioResult{Summary: "ok"}}
	runner := testRunner(
		&fakeText{err: errors.New("extraction blew up")},
		&fakeImage{result: &types.ImageResult{Summary: "ok"}},
		audio,
		baseConfig(),
	)

	verdict, modules, err := runner.RunAnalysis(context.Background(), types.AnalysisRequest{VideoID: "v1"}, nil)
	if err != nil {
		t.Fatalf("run must survive a text failure when media modules succeed: %v", err)
	}
	if !audio.wasInvoked {
		t.Error("audio must still run after a text failure")
	}
	if modules.Text != nil {
		t.Error("failed text stage should not produce a result")
	}
	if verdict.TextSummary != "unavailable" {
		t.Errorf("verdict should mark text unavailable, got %q", verdict.TextSummary)
	}
}

func TestRunAnalysisProgressOrdering(t *testing.T) {
	runner := testRunner(
		&fakeText{result: goodText()},
		&fakeImage{result: &types.ImageResult{Summary: "ok"}},
		&fakeAudio{result: &types.AudioResult{Summary: "ok"}},
		baseConfig(),
	)

	var stages []types.RunState
	_, _, err := runner.RunAnalysis(context.Background(), types.AnalysisRequest{VideoID: "v1"}, func(event types.ProgressEvent) {
		stages = append(stages, event.Stage)
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []types.RunState{types.RunTextStage, types.RunMediaStage, types.RunAggregating, types.RunDone}
	if len(stages) != len(want) {
		t.Fatalf("expected %d stage events, got %v", len(want), stages)
	}
	for i, s := range want {
		if stages[i] != s {
			t.Fatalf("stage event %d: expected %s, got %s", i, s, stages[i])
		}
	}
}

func TestRunAnalysisDoneRecordHasVerdict(t *testing.T) {
	runner := testRunner(
		&fakeText{result: goodText()},
		&fakeImage{result: &types.ImageResult{Summary: "ok"}},
		&fakeAudio{result: &types.AudioResult{Summary: "ok"}},
		baseConfig(),
	)

	runID := runner.NewRun("v1")
	if _, _, err := runner.Execute(context.Background(), runID, types.AnalysisRequest{VideoID: "v1"}, nil); err != nil {
		t.Fatal(err)
	}

	record, ok := runner.Registry().Get(context.Background(), runID)
	if !ok {
		t.Fatal("run record missing")
	}
	if record.State != types.RunDone {
		t.Errorf("expected done state, got %s", record.State)
	}
	if record.Verdict == nil {
		t.Error("terminal record should carry the verdict")
	}
	if record.FinishedAt == nil {
		t.Error("terminal record should carry a finish time")
	}
}

func TestRunAnalysisCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	runner := testRunner(
		&fakeText{result: goodText()},
		&fakeImage{result: &types.ImageResult{Summary: "ok"}, delay: 2 * time.Second},
		&fakeAudio{result: &types.AudioResult{Summary: "ok"}},
		baseConfig(),
	)

	start := time.Now()
	_, modules, err := runner.RunAnalysis(ctx, types.AnalysisRequest{VideoID: "v1"}, nil)
	// Text and audio complete before the cancel; the cancelled image
	// stage is recorded as a module failure, not a run failure.
	if err != nil {
		t.Fatalf("cancellation of one stage should degrade, not abort: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation did not release the in-flight stage (took %s)", elapsed)
	}
	found := false
	for _, f := range modules.Failures {
		if f.Module == "image" {
			found = true
		}
	}
	if !found {
		t.Errorf("cancelled image stage should be recorded as failed: %+v", modules.Failures)
	}
}
