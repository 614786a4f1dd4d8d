package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration, read from the environment
type Config struct {
	// Server settings
	Port   int
	DBPath string

	// Generative text service
	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string
	RateLimitInterval time.Duration // minimum spacing between API calls (free tier)

	// WordPress publishing
	WordPressURL      string
	WordPressUsername string
	WordPressPassword string
	PublishStatus     string // draft or publish

	// Agent execution defaults
	AgentMaxRetries int
	AgentTimeout    time.Duration
	WriterTimeout   time.Duration // content writing takes longer than other stages

	// Pipeline settings
	SkipQualityCheck bool
	SkipPublishing   bool
	OutputDir        string
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is honored when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:              envInt("PORT", 8080),
		DBPath:            envStr("DB_PATH", "pipeline.db"),
		GeminiAPIKey:      envStr("GOOGLE_AI_API_KEY", ""),
		GeminiModel:       envStr("GOOGLE_AI_MODEL", "gemini-pro"),
		GeminiBaseURL:     envStr("GOOGLE_AI_BASE_URL", "https://generativelanguage.googleapis.com"),
		RateLimitInterval: envDuration("GEMINI_MIN_INTERVAL", 4*time.Second),
		WordPressURL:      envStr("WORDPRESS_URL", "http://localhost/wordpress"),
		WordPressUsername: envStr("WORDPRESS_USERNAME", "admin"),
		WordPressPassword: envStr("WORDPRESS_PASSWORD", ""),
		PublishStatus:     envStr("PUBLISH_STATUS", "draft"),
		AgentMaxRetries:   envInt("AGENT_MAX_RETRIES", 3),
		AgentTimeout:      envDuration("AGENT_TIMEOUT", 120*time.Second),
		WriterTimeout:     envDuration("WRITER_TIMEOUT", 300*time.Second),
		SkipQualityCheck:  envBool("SKIP_QUALITY_CHECK", false),
		SkipPublishing:    envBool("SKIP_PUBLISHING", false),
		OutputDir:         envStr("OUTPUT_DIR", "outputs"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
