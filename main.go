package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"tooncraft/api"
	"tooncraft/archive"
	"tooncraft/common"
	"tooncraft/config"
	"tooncraft/entitlements"
	"tooncraft/events"
	"tooncraft/pipeline"
	"tooncraft/studio"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := config.Load()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	media := studio.New(cfg)
	log.Printf("🎤 Voice: %s, Gemini credentials in pool: %d", cfg.Voice, media.Pool().Size())

	ent := initializeEntitlements(cfg)
	defer ent.Close()

	store := initializeArchive(cfg)
	publisher := initializePublisher(cfg)
	defer publisher.Close()

	producer := pipeline.NewProducer(media, ent, nil)

	r := api.NewRouter(api.Deps{
		Media:    media,
		Producer: producer,
		Ent:      ent,
		Archive:  store,
		Events:   publisher,
	})

	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET    /health")
	log.Println("  POST   /api/media/script")
	log.Println("  POST   /api/media/narration")
	log.Println("  POST   /api/media/image")
	log.Println("  POST   /api/media/video")
	log.Println("  POST   /api/media/transcribe")
	log.Println("  POST   /api/media/chat")
	log.Println("  POST   /api/productions")
	log.Println("  GET    /api/productions/:id")
	log.Println("  DELETE /api/productions/:id")
	log.Println("  GET    /api/projects")
	log.Println("  POST   /api/projects")
	log.Println("  GET    /api/projects/:id")
	log.Println("  DELETE /api/projects/:id")
	log.Println("  PUT    /api/projects/:id/scenes/:sceneId/sfx")
	log.Println("  GET    /api/entitlements/:userId")
	log.Println("  PUT    /api/entitlements/:userId/tier")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// initializeEntitlements prefers Redis so video allowances survive restarts,
// falling back to in-process counters.
func initializeEntitlements(cfg config.Config) entitlements.Store {
	if cfg.RedisAddr == "" {
		log.Println("Redis not configured; using in-memory entitlements")
		return entitlements.NewMemoryStore()
	}
	store, err := entitlements.NewRedisStore(entitlements.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
	})
	if err != nil {
		log.Printf("⚠️ Redis unavailable (%v); using in-memory entitlements", err)
		return entitlements.NewMemoryStore()
	}
	log.Printf("✅ Entitlements backed by Redis at %s", cfg.RedisAddr)
	return store
}

// initializeArchive stores projects in S3 when a bucket is configured.
// Required: S3_BUCKET. Optional: S3_REGION, S3_PROFILE, S3_PREFIX, S3_USE_PATH_STYLE=true
func initializeArchive(cfg config.Config) archive.Store {
	if cfg.S3Bucket == "" {
		log.Println("S3 not configured; using in-memory project archive")
		return archive.NewMemoryStore()
	}
	client, err := common.NewS3(context.Background(), common.S3Config{
		Region:       cfg.S3Region,
		Profile:      cfg.S3Profile,
		UsePathStyle: cfg.S3UsePathStyle,
	})
	if err != nil {
		log.Printf("⚠️ Failed to init S3 client (%v); using in-memory project archive", err)
		return archive.NewMemoryStore()
	}
	prefix := strings.Trim(cfg.S3Prefix, "/")
	log.Printf("✅ Project archive in S3 bucket %q prefix %q", cfg.S3Bucket, prefix)
	return archive.NewS3Store(client, cfg.S3Bucket, prefix)
}

// initializePublisher connects Kafka when brokers are configured.
func initializePublisher(cfg config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NopPublisher{}
	}
	publisher, err := events.NewKafkaPublisher(events.PublisherConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
	})
	if err != nil {
		log.Printf("⚠️ Kafka unavailable (%v); run events disabled", err)
		return events.NopPublisher{}
	}
	return publisher
}
