package config

import (
	"os"
	"strings"
)

// Config holds the environment-sourced settings for the studio. Model chains
// and pacing live in constants.go; only credentials and collaborator
// endpoints come from the environment.
type Config struct {
	// GeminiKeyPool is the ordered list of API keys rotated on quota
	// exhaustion (GEMINI_API_KEY_1..5).
	GeminiKeyPool []string
	// GeminiPrimaryKey, if set, always wins over the pool (GEMINI_API_KEY).
	GeminiPrimaryKey string
	// HFToken authenticates against the Hugging Face Inference API.
	HFToken string
	// CohereKey enables the "cohere:" text providers when set.
	CohereKey string
	// Voice is the prebuilt TTS voice name.
	Voice string

	RedisAddr string
	RedisPass string

	KafkaBrokers []string
	KafkaTopic   string

	S3Bucket       string
	S3Region       string
	S3Prefix       string
	S3Profile      string
	S3UsePathStyle bool
}

// Load reads configuration from the environment. Call godotenv.Load first if
// a .env file should be honored.
func Load() Config {
	cfg := Config{
		GeminiPrimaryKey: os.Getenv("GEMINI_API_KEY"),
		HFToken:          os.Getenv("HUGGINGFACE_API_KEY"),
		CohereKey:        os.Getenv("COHERE_API_KEY"),
		Voice:            GetEnvOrDefault("TOONCRAFT_VOICE", DefaultVoice),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPass:        os.Getenv("REDIS_PASS"),
		KafkaTopic:       GetEnvOrDefault("KAFKA_TOPIC", "tooncraft.production"),
		S3Bucket:         strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:         strings.TrimSpace(os.Getenv("S3_REGION")),
		S3Profile:        strings.TrimSpace(os.Getenv("S3_PROFILE")),
		S3UsePathStyle:   strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),
	}

	for _, name := range []string{
		"GEMINI_API_KEY_1", "GEMINI_API_KEY_2", "GEMINI_API_KEY_3",
		"GEMINI_API_KEY_4", "GEMINI_API_KEY_5",
	} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			cfg.GeminiKeyPool = append(cfg.GeminiKeyPool, v)
		}
	}

	if brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if prefix := strings.TrimSpace(os.Getenv("S3_PREFIX")); prefix != "" {
		cfg.S3Prefix = strings.Trim(prefix, "/") + "/"
	}

	return cfg
}

// GetEnvOrDefault returns the environment value or a fallback when unset.
func GetEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
