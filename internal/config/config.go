package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config is populated from environment variables.
type Config struct {
	App        AppConfig
	Redis      RedisConfig
	JWT        JWTConfig
	MinIO      MinIOConfig
	Transcoder TranscoderConfig
	Media      MediaConfig
	Queue      QueueConfig
	RateLimit  RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	CORSOrigins []string
}

// IsProduction gates debug detail in error responses.
func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret    string
	AccessTTL time.Duration
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the base used to build object URLs; defaults to the endpoint.
	PublicURL string
}

type TranscoderConfig struct {
	Binary  string
	Timeout time.Duration
	Bitrate string
}

type MediaConfig struct {
	DownloadTimeout time.Duration
	MaxAudioSize    int64
	MaxImageSize    int64
	MaxDocumentSize int64
	PresignExpiry   time.Duration
}

type QueueConfig struct {
	MergeQueue  string
	Concurrency int
}

type RateLimitConfig struct {
	UploadsPerMinute int
	Burst            int
}

// Load reads the configuration and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Talenta API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:    getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTTL: getEnvDuration("JWT_ACCESS_TTL", 24*time.Hour),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "talenta"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		},
		Transcoder: TranscoderConfig{
			Binary:  getEnv("FFMPEG_BINARY", "ffmpeg"),
			Timeout: getEnvDuration("FFMPEG_TIMEOUT", 5*time.Minute),
			Bitrate: getEnv("FFMPEG_BITRATE", "128k"),
		},
		Media: MediaConfig{
			DownloadTimeout: getEnvDuration("MEDIA_DOWNLOAD_TIMEOUT", 30*time.Second),
			MaxAudioSize:    int64(getEnvInt("MEDIA_MAX_AUDIO_MB", 50)) << 20,
			MaxImageSize:    int64(getEnvInt("MEDIA_MAX_IMAGE_MB", 5)) << 20,
			MaxDocumentSize: int64(getEnvInt("MEDIA_MAX_DOCUMENT_MB", 50)) << 20,
			PresignExpiry:   getEnvDuration("MEDIA_PRESIGN_EXPIRY", 15*time.Minute),
		},
		Queue: QueueConfig{
			MergeQueue:  getEnv("QUEUE_MERGE", "media"),
			Concurrency: getEnvInt("WORKER_CONCURRENCY", 4),
		},
		RateLimit: RateLimitConfig{
			UploadsPerMinute: getEnvInt("RATE_LIMIT_UPLOADS_PER_MINUTE", 20),
			Burst:            getEnvInt("RATE_LIMIT_UPLOAD_BURST", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate fails fast on settings the service cannot run without.
func (c *Config) Validate() error {
	if c.App.IsProduction() && c.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.MinIO.AccessKey == "" || c.MinIO.SecretKey == "" {
		return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY must be set")
	}
	if c.MinIO.Bucket == "" {
		return fmt.Errorf("MINIO_BUCKET must be set")
	}
	if c.Transcoder.Timeout <= 0 {
		return fmt.Errorf("FFMPEG_TIMEOUT must be positive")
	}
	if c.Media.DownloadTimeout <= 0 {
		return fmt.Errorf("MEDIA_DOWNLOAD_TIMEOUT must be positive")
	}
	if c.RateLimit.UploadsPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_UPLOADS_PER_MINUTE must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
