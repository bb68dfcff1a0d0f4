package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	MediaHostCloudinary = "cloudinary"
	MediaHostS3         = "s3"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret        string
	JWTExpiry        time.Duration
	SessionCacheSize int
	SessionCacheTTL  time.Duration

	// Recent files
	RecentPageSize    int
	RecentMaxPageSize int

	// Media host ("cloudinary" or "s3")
	MediaHost           string
	CloudinaryCloudName string
	S3Region            string
	S3Bucket            string
	S3AccessKey         string
	S3SecretKey         string
	S3Endpoint          string        // Optional: for S3-compatible services (MinIO, R2, etc.)
	S3PresignExpiry     time.Duration // Expiry for preview/thumbnail links

	// Print backend
	PrintBackendURL string
	PrintAPIKey     string
	PrintTimeout    time.Duration

	// HTTP server
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	ShutdownTimeout  time.Duration

	// Observability (optional)
	SentryDSN      string
	MetricsEnabled bool
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "PrintMate"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envString("APP_URL", "http://localhost:8090"),
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/printmate.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Security
		JWTSecret:        envRequired("JWT_SECRET"),
		JWTExpiry:        envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days
		SessionCacheSize: envInt("SESSION_CACHE_SIZE", 1024),
		SessionCacheTTL:  envDuration("SESSION_CACHE_TTL", 1*time.Minute),

		// Recent files
		RecentPageSize:    envInt("RECENT_PAGE_SIZE", 20),
		RecentMaxPageSize: envInt("RECENT_MAX_PAGE_SIZE", 100),

		// Media host
		MediaHost:           envString("MEDIA_HOST", MediaHostCloudinary),
		CloudinaryCloudName: envString("CLOUDINARY_CLOUD_NAME", ""),
		S3Region:            envString("S3_REGION", ""),
		S3Bucket:            envString("S3_BUCKET", ""),
		S3AccessKey:         envString("S3_ACCESS_KEY", ""),
		S3SecretKey:         envString("S3_SECRET_KEY", ""),
		S3Endpoint:          envString("S3_ENDPOINT", ""),
		S3PresignExpiry:     envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour),

		// Print backend
		PrintBackendURL: envRequired("PRINT_BACKEND_URL"),
		PrintAPIKey:     envString("PRINT_API_KEY", ""),
		PrintTimeout:    envDuration("PRINT_TIMEOUT", 30*time.Second),

		// HTTP server
		HTTPReadTimeout:  envDuration("HTTP_READ_TIMEOUT", 30*time.Second),
		HTTPWriteTimeout: envDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
		HTTPIdleTimeout:  envDuration("HTTP_IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout:  envDuration("SHUTDOWN_TIMEOUT", 5*time.Second),

		// Observability
		SentryDSN:      envString("SENTRY_DSN", ""),
		MetricsEnabled: envBool("METRICS_ENABLED", true),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures the media host is configured for production deployments.
// Development tolerates a missing cloud name (previews render as empty URLs).
func validateProduction(cfg *Config) {
	switch cfg.MediaHost {
	case MediaHostCloudinary:
		if cfg.CloudinaryCloudName == "" {
			slog.Error("production deployment requires CLOUDINARY_CLOUD_NAME",
				"hint", "set MEDIA_HOST=s3 to serve previews from a bucket instead")
			os.Exit(1)
		}
	case MediaHostS3:
		if cfg.S3Bucket == "" || cfg.S3Region == "" {
			slog.Error("production deployment requires S3_BUCKET and S3_REGION")
			os.Exit(1)
		}
	default:
		slog.Error("unknown media host", "media_host", cfg.MediaHost)
		os.Exit(1)
	}

	if cfg.PrintAPIKey == "" {
		slog.Warn("PRINT_API_KEY is empty, the print backend will reject jobs")
	}
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

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// Secrets (JWT, S3 keys, print API key) and connection strings are excluded.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		AppURL:  c.AppURL,
		Port:    c.Port,

		RecentPageSize:    c.RecentPageSize,
		RecentMaxPageSize: c.RecentMaxPageSize,

		MediaHost:           c.MediaHost,
		CloudinaryCloudName: c.CloudinaryCloudName,
		S3Endpoint:          c.S3Endpoint,
	}
}
