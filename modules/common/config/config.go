package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting the server uses.
type Config struct {
	// Image generation upstream (Runware-hosted model families)
	RunwareAPIKey string
	RunwareAPIURL string

	// Prompt enhancement upstream (OpenAI-compatible chat completions)
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Gemini family ("nanobanana"). Multiple keys rotate on 429.
	GeminiAPIKeys []string
	GeminiModel   string

	// Gallery store persistence slot
	StoreBackend  string // "file" or "redis"
	StorePath     string
	StoreDebounce time.Duration

	// Redis (only used when StoreBackend == "redis")
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Server
	Port string
}

// LoadConfig reads .env (if present) and environment variables.
// Missing upstream credentials do not abort startup: each affected request
// surfaces a configuration error instead, so the rest of the app keeps working.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	useTLS := false
	if tlsStr := os.Getenv("REDIS_USE_TLS"); tlsStr != "" {
		if parsed, err := strconv.ParseBool(tlsStr); err == nil {
			useTLS = parsed
		}
	}

	debounce := 300 * time.Millisecond
	if msStr := os.Getenv("STORE_DEBOUNCE_MS"); msStr != "" {
		if parsed, err := strconv.Atoi(msStr); err == nil && parsed > 0 {
			debounce = time.Duration(parsed) * time.Millisecond
		}
	}

	cfg := &Config{
		RunwareAPIKey: getEnv("RUNWARE_API_KEY", ""),
		RunwareAPIURL: getEnv("RUNWARE_API_URL", "https://api.runware.ai/v1"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		GeminiAPIKeys: splitKeys(os.Getenv("GEMINI_API_KEYS")),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),

		StoreBackend:  getEnv("STORE_BACKEND", "file"),
		StorePath:     getEnv("STORE_PATH", "gallery.json"),
		StoreDebounce: debounce,

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   useTLS,

		Port: getEnv("PORT", "8080"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Store: %s (slot: %s, debounce: %v)", cfg.StoreBackend, cfg.StorePath, cfg.StoreDebounce)
	log.Printf("   Runware key: %s", maskPresence(cfg.RunwareAPIKey))
	log.Printf("   OpenAI key: %s (model: %s)", maskPresence(cfg.OpenAIAPIKey), cfg.OpenAIModel)
	log.Printf("   Gemini keys: %d (model: %s)", len(cfg.GeminiAPIKeys), cfg.GeminiModel)

	return cfg, nil
}

// validate checks settings that would make the server unusable, not the
// per-request credentials (those degrade to configuration errors per request).
func (c *Config) validate() error {
	switch c.StoreBackend {
	case "file", "redis":
	default:
		return fmt.Errorf("STORE_BACKEND must be \"file\" or \"redis\", got %q", c.StoreBackend)
	}
	if c.StoreBackend == "redis" && c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required when STORE_BACKEND=redis")
	}
	return nil
}

// GetRedisAddr builds the Redis connection string.
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func maskPresence(secret string) string {
	if secret == "" {
		return "not set"
	}
	return "set"
}
