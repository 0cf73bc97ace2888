package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is an immutable snapshot of the server configuration.
// All thresholds are tunable via environment; the defaults mirror the
// values the pipeline was calibrated with, not validated optima.
type Config struct {
	Port string

	// LLM judgment provider
	LLMProvider string // "cohere" or "openai"
	CohereKey   string
	CohereModel string
	OpenAIKey   string
	OpenAIModel string

	// Evidence search
	TavilyKey      string
	TavilyEndpoint string
	SourceListDir  string
	FactCheckFeeds []string

	// Video metadata + media providers
	YouTubeKey string
	VisionKey  string
	ClovaURL   string
	ClovaKey   string
	YtdlpPath  string

	// Progress events (optional)
	KafkaBrokers []string
	KafkaTopic   string

	// Run record store (optional)
	RedisAddr     string
	RedisPassword string
	RunTTL        time.Duration

	// Report archive (optional)
	S3Bucket       string
	S3Region       string
	S3Prefix       string
	S3UsePathStyle bool

	// Pipeline tunables
	MaxClaims             int
	MaxSearchResults      int
	MaxEvidence           int
	MinRelevance          float64
	MaxConcurrentSearches int
	FrameCount            int
	TextRatioThreshold    float64
	ManipulationSeverity  float64

	// Stage budgets
	TextTimeout  time.Duration
	ImageTimeout time.Duration
	AudioTimeout time.Duration
	ClaimTimeout time.Duration

	// Cron schedule for source list reloads, empty disables
	SourceReloadCron string
}

// Load builds a Config from the environment. Call godotenv.Load first if a
// .env file should be honored.
func Load() Config {
	return Config{
		Port: GetEnvOrDefault("PORT", "8080"),

		LLMProvider: GetEnvOrDefault("LLM_PROVIDER", "openai"),
		CohereKey:   os.Getenv("COHERE_API_KEY"),
		CohereModel: GetEnvOrDefault("COHERE_MODEL", "command-r-plus"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel: GetEnvOrDefault("OPENAI_MODEL", "gpt-4o"),

		TavilyKey:      os.Getenv("TAVILY_API_KEY"),
		TavilyEndpoint: GetEnvOrDefault("TAVILY_ENDPOINT", "https://api.tavily.com/search"),
		SourceListDir:  GetEnvOrDefault("SOURCE_LIST_DIR", "data/source_lists"),
		FactCheckFeeds: splitList(os.Getenv("FACTCHECK_FEEDS")),

		YouTubeKey: os.Getenv("YOUTUBE_API_KEY"),
		VisionKey:  os.Getenv("VISION_API_KEY"),
		ClovaURL:   os.Getenv("CLOVA_SPEECH_INVOKE_URL"),
		ClovaKey:   os.Getenv("CLOVA_SPEECH_SECRET_KEY"),
		YtdlpPath:  GetEnvOrDefault("YTDLP_PATH", "yt-dlp"),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   GetEnvOrDefault("KAFKA_PROGRESS_TOPIC", "vidcheck.progress"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RunTTL:        envDuration("RUN_TTL", DefaultRunTTL),

		S3Bucket:       strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
		S3Prefix:       normalizePrefix(os.Getenv("S3_PREFIX")),
		S3UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),

		MaxClaims:             envInt("MAX_CLAIMS", DefaultMaxClaims),
		MaxSearchResults:      envInt("MAX_SEARCH_RESULTS", DefaultMaxSearchResults),
		MaxEvidence:           envInt("MAX_EVIDENCE", DefaultMaxEvidence),
		MinRelevance:          envFloat("MIN_RELEVANCE", DefaultMinRelevance),
		MaxConcurrentSearches: envInt("MAX_CONCURRENT_SEARCHES", DefaultMaxConcurrentSearches),
		FrameCount:            envInt("FRAME_COUNT", DefaultFrameCount),
		TextRatioThreshold:    envFloat("TEXT_RATIO_THRESHOLD", DefaultTextRatioThreshold),
		ManipulationSeverity:  envFloat("MANIPULATION_SEVERITY", DefaultManipulationSeverity),

		TextTimeout:  envDuration("TEXT_TIMEOUT", DefaultTextTimeout),
		ImageTimeout: envDuration("IMAGE_TIMEOUT", DefaultImageTimeout),
		AudioTimeout: envDuration("AUDIO_TIMEOUT", DefaultAudioTimeout),
		ClaimTimeout: envDuration("CLAIM_TIMEOUT", DefaultClaimTimeout),

		SourceReloadCron: os.Getenv("SOURCE_RELOAD_CRON"),
	}
}

// GetEnvOrDefault returns the value of an environment variable or a default value
func GetEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func envFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitList(val string) []string {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ""
	}
	return strings.Trim(prefix, "/") + "/"
}
