package config

import "time"

// Claim Extraction Constants
const (
	// DefaultMaxClaims limits how many claims are extracted per video
	DefaultMaxClaims = 5

	// ClaimDedupeOverlap is the word-set overlap ratio above which two
	// claims are considered the same claim
	ClaimDedupeOverlap = 0.7

	// MinClaimImportance drops claims below this importance level
	MinClaimImportance = "medium"
)

// Evidence Retrieval Constants
const (
	// DefaultMaxSearchResults is the number of raw results requested per search
	DefaultMaxSearchResults = 10

	// DefaultMaxEvidence caps evidence items passed to the verdict judge
	DefaultMaxEvidence = 5

	// DefaultMinRelevance discards evidence scored below this value
	DefaultMinRelevance = 0.1

	// SnippetMaxLen truncates evidence snippets to this many bytes
	SnippetMaxLen = 500

	// DefaultMaxConcurrentSearches bounds in-flight evidence searches per run
	DefaultMaxConcurrentSearches = 3
)

// Stage Timeout Constants
const (
	// DefaultTextTimeout is the execution budget for the text stage
	DefaultTextTimeout = 120 * time.Second

	// DefaultImageTimeout is the execution budget for the image stage
	DefaultImageTimeout = 90 * time.Second

	// DefaultAudioTimeout is the execution budget for the audio stage
	DefaultAudioTimeout = 90 * time.Second

	// DefaultClaimTimeout bounds a single claim's search+judgment round trip
	DefaultClaimTimeout = 30 * time.Second
)

// Image Module Constants
const (
	// DefaultFrameCount is the number of frames sampled per video (5-10 band)
	DefaultFrameCount = 8

	// FrameOffsetCeiling stops sampling at this fraction of the duration
	FrameOffsetCeiling = 0.9

	// DefaultTextRatioThreshold is the on-frame text area ratio above which
	// the first-pass screen considers a frame suspicious
	DefaultTextRatioThreshold = 0.2
)

// Aggregation Constants
const (
	// DefaultManipulationSeverity is the score above which image/audio
	// manipulation signals count as "high" in the decision table
	DefaultManipulationSeverity = 0.6
)

// Retry Constants
const (
	// ProviderMaxRetries bounds retries of transient provider failures
	ProviderMaxRetries = 2

	// ProviderRetryBackoff is the base backoff between provider retries
	ProviderRetryBackoff = 500 * time.Millisecond
)

// Run Record Constants
const (
	// DefaultRunTTL is how long terminal run records stay in Redis
	DefaultRunTTL = 24 * time.Hour

	// MaxRunLogs is the ring-buffer size of per-run log entries
	MaxRunLogs = 50
)
