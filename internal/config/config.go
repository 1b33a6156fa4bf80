package config

import (
	"encoding/hex"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppEnv      string
	AppURL      string
	Port        string
	Location    *time.Location
	CORSOrigins []string

	// Database
	DatabaseURL  string
	MaxOpenConns int
	AutoMigrate  bool

	// Security
	JWTSecret     string
	JWTExpiry     time.Duration
	EncryptionKey []byte // AES-256 key for 2FA secrets; nil disables 2FA setup

	// AI
	GeminiAPIKey string
	GeminiModel  string
	AITimeout    time.Duration

	// Media storage
	StorageDriver  string // "local" or "s3"
	UploadDir      string
	MaxUploadBytes int64
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3Endpoint     string
	S3PresignTTL   time.Duration

	// Rate limiting
	RedisURL       string
	AuthRateLimit  int
	AuthRateWindow time.Duration
	AIRateLimit    int
	AIRateWindow   time.Duration

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability
	SentryDSN     string
	AccessLogFile string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppEnv:      envString("APP_ENV", "development"),
		AppURL:      envString("APP_URL", "http://localhost:5173"),
		Port:        envString("PORT", "5000"),
		Location:    envLocation("APP_TIMEZONE", time.UTC),
		CORSOrigins: envList("CORS_ORIGINS", []string{"*"}),

		DatabaseURL:  envRequired("DATABASE_URL"),
		MaxOpenConns: envInt("DB_MAX_OPEN_CONNS", 10),
		AutoMigrate:  envBool("AUTO_MIGRATE", true),

		JWTSecret:     envRequired("JWT_SECRET"),
		JWTExpiry:     envDuration("JWT_EXPIRY", 168*time.Hour),
		EncryptionKey: envKey("ENCRYPTION_KEY"),

		GeminiAPIKey: envString("GEMINI_API_KEY", ""),
		GeminiModel:  envString("GEMINI_MODEL", "gemini-2.0-flash-exp"),
		AITimeout:    envDuration("AI_TIMEOUT", 8*time.Second),

		StorageDriver:  envString("STORAGE_DRIVER", "local"),
		UploadDir:      envString("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: int64(envInt("MAX_UPLOAD_BYTES", 10<<20)),
		S3Region:       envString("S3_REGION", "us-east-1"),
		S3Bucket:       envString("S3_BUCKET", ""),
		S3AccessKey:    envString("S3_ACCESS_KEY", ""),
		S3SecretKey:    envString("S3_SECRET_KEY", ""),
		S3Endpoint:     envString("S3_ENDPOINT", ""),
		S3PresignTTL:   envDuration("S3_PRESIGN_TTL", time.Hour),

		RedisURL:       envString("REDIS_URL", ""),
		AuthRateLimit:  envInt("RATE_LIMIT_AUTH", 20),
		AuthRateWindow: envDuration("RATE_LIMIT_AUTH_WINDOW", 15*time.Minute),
		AIRateLimit:    envInt("RATE_LIMIT_AI", 30),
		AIRateWindow:   envDuration("RATE_LIMIT_AI_WINDOW", time.Minute),

		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		SentryDSN:     envString("SENTRY_DSN", ""),
		AccessLogFile: envString("ACCESS_LOG_FILE", ""),
	}

	if cfg.StorageDriver == "s3" && cfg.S3Bucket == "" {
		slog.Error("STORAGE_DRIVER=s3 requires S3_BUCKET")
		os.Exit(1)
	}

	return cfg
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// TwoFactorEnabled reports whether a key for encrypting TOTP secrets is set.
func (c *Config) TwoFactorEnabled() bool {
	return len(c.EncryptionKey) == 32
}

// Today is the current calendar date in the configured timezone.
func (c *Config) Today() time.Time {
	y, m, d := time.Now().In(c.Location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func envLocation(key string, def *time.Location) *time.Location {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		slog.Warn("config invalid timezone, using default", "key", key, "value", v, "default", def.String())
		return def
	}
	return loc
}

// envKey decodes a 64 character hex string into a 32 byte key.
func envKey(key string) []byte {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := hex.DecodeString(v)
	if err != nil || len(b) != 32 {
		slog.Warn("config key must be 64 hex characters, two-factor setup disabled", "key", key)
		return nil
	}
	return b
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}
