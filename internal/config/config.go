package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port     string
	Env      string
	LogLevel string

	// Database
	DatabaseURL string
	AutoMigrate bool

	// Redis (비어 있으면 분산 락과 이벤트 버스 비활성화)
	RedisURL string

	// CORS
	CORSAllowedOrigins []string

	// Rounds
	DefaultRoundDuration time.Duration
	ExpirySweepInterval  time.Duration
	RoundLockTTL         time.Duration

	// Embeddings (API 키가 없으면 임베딩 생성 생략)
	OpenAIAPIKey   string
	EmbeddingModel string
}

func Load() (*Config, error) {
	// .env 파일 로드 (있는 경우)
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  getEnv("ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		AutoMigrate:          parseBool(getEnv("AUTO_MIGRATE", "true"), true),
		RedisURL:             getEnv("REDIS_URL", ""),
		CORSAllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		DefaultRoundDuration: parseDuration(getEnv("DEFAULT_ROUND_DURATION", "6m"), 6*time.Minute),
		ExpirySweepInterval:  parseDuration(getEnv("EXPIRY_SWEEP_INTERVAL", "15s"), 15*time.Second),
		RoundLockTTL:         parseDuration(getEnv("ROUND_LOCK_TTL", "10s"), 10*time.Second),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		EmbeddingModel:       getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
	}

	return cfg, nil
}

// DefaultRoundDurationSec 새 이벤트의 기본 라운드 길이 (초)
func (c *Config) DefaultRoundDurationSec() int {
	return int(c.DefaultRoundDuration / time.Second)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
