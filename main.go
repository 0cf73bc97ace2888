package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"vidcheck/aggregator"
	"vidcheck/api"
	"vidcheck/archive"
	"vidcheck/audiomod"
	"vidcheck/config"
	"vidcheck/events"
	"vidcheck/imagemod"
	"vidcheck/llm"
	"vidcheck/orchestrator"
	"vidcheck/search"
	"vidcheck/store"
	"vidcheck/textmod"
	"vidcheck/types"
	"vidcheck/youtube"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	}
	cfg := config.Load()
	ctx := context.Background()

	llmClient := llm.NewDefaultClient(cfg)
	if llmClient == nil {
		log.Fatal("❌ No LLM provider configured (set OPENAI_API_KEY or COHERE_API_KEY)")
	}
	log.Printf("🧠 Judgment provider ready (model %s)", llmClient.ModelName())

	sources, err := search.NewSourceLists(cfg.SourceListDir)
	if err != nil {
		log.Fatalf("❌ Failed to load source lists: %v", err)
	}
	if cfg.SourceReloadCron != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.SourceReloadCron, func() {
			if err := sources.Reload(); err != nil {
				log.Printf("⚠️ Source list reload failed: %v", err)
			} else {
				log.Println("🔄 Source lists reloaded")
			}
		}); err != nil {
			log.Fatalf("❌ Invalid source reload schedule: %v", err)
		}
		c.Start()
		defer c.Stop()
	}

	var provider search.Provider
	if cfg.TavilyKey != "" {
		provider = search.NewTavilyProvider(cfg.TavilyKey, cfg.TavilyEndpoint)
	} else {
		log.Println("⚠️  TAVILY_API_KEY not set, web evidence search disabled")
		provider = noSearch{}
	}
	var fallback search.Provider
	if feeds := search.NewFeedProvider(cfg.FactCheckFeeds); feeds != nil {
		fallback = feeds
	}
	retriever := search.NewRetriever(provider, fallback, sources, search.NewEnricher(), cfg)

	textAnalyzer := textmod.NewAnalyzer(
		textmod.NewExtractor(llmClient, cfg.MaxClaims),
		retriever,
		textmod.NewJudge(llmClient),
		cfg.MaxConcurrentSearches,
		cfg.ClaimTimeout,
	)

	var metadata orchestrator.MetadataLookup
	if cfg.YouTubeKey != "" {
		ytClient, err := youtube.NewClient(ctx, cfg.YouTubeKey)
		if err != nil {
			log.Printf("⚠️ YouTube metadata client unavailable: %v", err)
		} else {
			metadata = ytClient
		}
	} else {
		log.Println("⚠️  YOUTUBE_API_KEY not set, metadata enrichment disabled")
	}

	resolver := imagemod.NewYtdlpResolver(cfg.YtdlpPath)

	var imageModule orchestrator.ImageModule
	if cfg.VisionKey != "" {
		vision, err := imagemod.NewGoogleVision(ctx, cfg.VisionKey)
		if err != nil {
			log.Printf("⚠️ Vision client unavailable: %v", err)
			imageModule = disabledImage{}
		} else {
			imageModule = imagemod.NewAnalyzer(
				imagemod.NewFFmpegSampler(), resolver, vision, llmClient,
				cfg.FrameCount, cfg.TextRatioThreshold)
		}
	} else {
		log.Println("⚠️  VISION_API_KEY not set, image module disabled")
		imageModule = disabledImage{}
	}

	var stt audiomod.STTProvider
	if cfg.ClovaURL != "" && cfg.ClovaKey != "" {
		stt = audiomod.NewClovaSTT(cfg.ClovaURL, cfg.ClovaKey)
	} else {
		log.Println("⚠️  Clova Speech not configured, audio relies on shared transcripts")
	}
	audioModule := audiomod.NewAnalyzer(audiomod.NewClipper(), stt, resolver, llmClient, cfg.ManipulationSeverity)

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Printf("⚠️ Kafka publisher unavailable: %v", err)
		} else {
			log.Printf("📡 Progress events -> kafka topic %s", cfg.KafkaTopic)
			publisher = kafka
			defer kafka.Close()
		}
	}

	var runStore *store.RunStore
	if cfg.RedisAddr != "" {
		runStore, err = store.NewRunStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RunTTL)
		if err != nil {
			log.Printf("⚠️ Redis unavailable, run records are in-memory only: %v", err)
			runStore = nil
		} else {
			log.Printf("💾 Run records mirrored to redis (%s)", cfg.RedisAddr)
			defer runStore.Close()
		}
	}

	var archiver *archive.Archiver
	if cfg.S3Bucket != "" {
		archiver, err = archive.NewArchiver(ctx, archive.Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			Prefix:       cfg.S3Prefix,
			UsePathStyle: cfg.S3UsePathStyle,
		})
		if err != nil {
			log.Printf("⚠️ S3 archiver unavailable: %v", err)
			archiver = nil
		} else {
			log.Printf("🗄️  Run reports archived to s3://%s/%s", cfg.S3Bucket, cfg.S3Prefix)
		}
	}

	runner := orchestrator.NewRunner(
		orchestrator.NewRegistry(runStore),
		publisher,
		textAnalyzer,
		imageModule,
		audioModule,
		aggregator.New(cfg.ManipulationSeverity),
		metadata,
		archiver,
		cfg,
	)

	router := api.NewRouter(runner)
	log.Printf("🚀 vidcheck listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

// noSearch stands in when no search provider is configured; claims fall
// through to insufficient_evidence.
type noSearch struct{}

func (noSearch) Search(ctx context.Context, query string, maxResults int) ([]types.Evidence, error) {
	return nil, nil
}

// disabledImage stands in when no vision provider is configured; the
// orchestrator records the module as unavailable.
type disabledImage struct{}

func (disabledImage) Analyze(ctx context.Context, req types.AnalysisRequest) (*types.ImageResult, error) {
	return nil, fmt.Errorf("image module disabled: no vision provider configured")
}
