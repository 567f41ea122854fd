package config

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Config holds all configuration for the classifier service.
type Config struct {
	AppEnv                string
	HTTPPort              int
	GRPCPort              int
	GRPCReflectionEnabled bool
	MaxUploadBytes        int
	HTTPReadTimeout       time.Duration

	UseLegacy bool
	ModelPath string
	TeamsFile string
	StaticDir string

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CacheTTL         time.Duration
	BatchConcurrency int

	ZeroShotProvider string
	ZeroShotModel    string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	AnthropicAPIKey  string
	LLMTimeout       time.Duration
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	return &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		HTTPPort:              getEnvInt("HTTP_PORT", 8000),
		GRPCPort:              getEnvInt("GRPC_PORT", 50051),
		GRPCReflectionEnabled: getEnvBool("GRPC_REFLECTION_ENABLED", false),
		MaxUploadBytes:        getEnvInt("MAX_UPLOAD_BYTES", 10*1024*1024),
		HTTPReadTimeout:       getEnvDuration("HTTP_READ_TIMEOUT", 60*time.Second),

		UseLegacy: getEnvBool("USE_LEGACY", false),
		ModelPath: getEnv("MODEL_PATH", "model/classifier.pkl"),
		TeamsFile: os.Getenv("TEAMS_FILE"),
		StaticDir: getEnv("STATIC_DIR", "app/static"),

		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		CacheTTL:         getEnvDuration("CACHE_TTL", 10*time.Minute),
		BatchConcurrency: getEnvInt("BATCH_CONCURRENCY", 4),

		ZeroShotProvider: getEnv("ZEROSHOT_PROVIDER", "openai"),
		ZeroShotModel:    os.Getenv("ZEROSHOT_MODEL"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		LLMTimeout:       getEnvDuration("LLM_TIMEOUT", 30*time.Second),
	}
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

// getEnvBool accepts the strconv.ParseBool spellings, so "1" and "true" both enable.
func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
