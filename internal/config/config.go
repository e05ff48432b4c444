package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	LLM      LLMConfig
	Render   RenderConfig
	Database DatabaseConfig
	Cache    CacheConfig
	R2       R2Config
	Broker   BrokerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type StorageConfig struct {
	OutputDir    string
	UploadDir    string
	AssetsDir    string
	LogoFilename string
	BPFilename   string
	MaxFileSize  int64
}

type LLMConfig struct {
	// Provider is "gemini" or "service".
	Provider     string
	GeminiAPIKey string
	Model        string
	Timeout      time.Duration
	ServiceURL   string
}

type RenderConfig struct {
	ChromePath string
	Timeout    time.Duration
}

type DatabaseConfig struct {
	URL string
}

type CacheConfig struct {
	RedisURL       string
	SkillMatrixTTL time.Duration
}

type R2Config struct {
	AccountID string
	AccessKey string
	SecretKey string
	Bucket    string
}

type BrokerConfig struct {
	URL      string
	Exchange string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found. Using environment and defaults.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Storage: StorageConfig{
			OutputDir:    getEnv("OUTPUT_DIR", "./output"),
			UploadDir:    getEnv("UPLOAD_DIR", "./uploads"),
			AssetsDir:    getEnv("ASSETS_DIR", "./assets"),
			LogoFilename: getEnv("LOGO_FILENAME", "logo.png"),
			BPFilename:   getEnv("BP_FILENAME", "BP.jpeg"),
			MaxFileSize:  getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		LLM: LLMConfig{
			Provider:     getEnv("LLM_PROVIDER", "gemini"),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			Model:        getEnv("LLM_MODEL", ""),
			Timeout:      getEnvAsDuration("LLM_TIMEOUT", "90s"),
			ServiceURL:   getEnv("AI_SERVICE_URL", "http://ai-service:8000"),
		},
		Render: RenderConfig{
			ChromePath: getEnv("CHROME_PATH", ""),
			Timeout:    getEnvAsDuration("RENDER_TIMEOUT", "60s"),
		},
		Database: DatabaseConfig{
			URL: getEnv("JOBS_DATABASE_URL", ""),
		},
		Cache: CacheConfig{
			RedisURL:       getEnv("REDIS_URL", ""),
			SkillMatrixTTL: getEnvAsDuration("SKILL_MATRIX_TTL", "24h"),
		},
		R2: R2Config{
			AccountID: getEnv("R2_ACCOUNT_ID", ""),
			AccessKey: getEnv("R2_ACCESS_KEY", ""),
			SecretKey: getEnv("R2_SECRET_KEY", ""),
			Bucket:    getEnv("R2_BUCKET", ""),
		},
		Broker: BrokerConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "resume_events"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
