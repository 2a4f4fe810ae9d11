package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string
	LogFile  string

	// Database
	DBDriver   string // mysql or postgres
	DBLogLevel string

	// Auth
	JWTSecret    string
	JWTTTL       time.Duration
	ResetCodeTTL time.Duration

	CORSOrigins []string

	// Redis room-list cache; empty URL disables it
	RedisURL     string
	RoomCacheTTL time.Duration

	Storage StorageConfig
	SMTP    SMTPConfig

	// Bookings
	SweepInterval             time.Duration
	RevalidateOverlapOnUpdate bool

	SeedAdminEmail    string
	SeedAdminPassword string
}

type StorageConfig struct {
	Driver        string // local or s3
	UploadDir     string
	PublicBaseURL string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether enough settings are present to actually send mail.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.Username != "" && s.Password != ""
}

// Load reads .env (optional) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not found; continuing with environment variables")
	}

	return &Config{
		Port:     EnvOrDefault("PORT", "8080"),
		Env:      EnvOrDefault("APP_ENV", "development"),
		LogLevel: EnvOrDefault("LOG_LEVEL", "info"),
		LogFile:  EnvOrDefault("LOG_FILE", ""),

		DBDriver:   strings.ToLower(EnvOrDefault("DB_DRIVER", "mysql")),
		DBLogLevel: EnvOrDefault("DB_LOG_LEVEL", "warn"),

		JWTSecret:    EnvOrDefault("JWT_SECRET", "change-me-in-production"),
		JWTTTL:       parseDuration(EnvOrDefault("JWT_TTL", "24h"), 24*time.Hour),
		ResetCodeTTL: parseDuration(EnvOrDefault("RESET_CODE_TTL", "15m"), 15*time.Minute),

		CORSOrigins: parseCorsOrigins(os.Getenv("CORS_ORIGINS")),

		RedisURL:     EnvOrDefault("REDIS_URL", ""),
		RoomCacheTTL: parseDuration(EnvOrDefault("ROOM_CACHE_TTL", "5m"), 5*time.Minute),

		Storage: StorageConfig{
			Driver:        strings.ToLower(EnvOrDefault("STORAGE_DRIVER", "local")),
			UploadDir:     EnvOrDefault("UPLOAD_DIR", "./uploads"),
			PublicBaseURL: EnvOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"),
			S3Bucket:      EnvOrDefault("S3_BUCKET", ""),
			S3Region:      EnvOrDefault("S3_REGION", "us-east-1"),
			S3Endpoint:    EnvOrDefault("S3_ENDPOINT", ""),
			S3AccessKey:   EnvOrDefault("S3_ACCESS_KEY", ""),
			S3SecretKey:   EnvOrDefault("S3_SECRET_KEY", ""),
			S3PublicURL:   EnvOrDefault("S3_PUBLIC_URL", ""),
		},

		SMTP: SMTPConfig{
			Host:     EnvOrDefault("SMTP_HOST", ""),
			Port:     parseInt(EnvOrDefault("SMTP_PORT", "587"), 587),
			Username: EnvOrDefault("SMTP_USERNAME", ""),
			Password: EnvOrDefault("SMTP_PASSWORD", ""),
			From:     EnvOrDefault("SMTP_FROM", "Hotel Reservations <no-reply@hotel.local>"),
		},

		SweepInterval:             parseDuration(EnvOrDefault("SWEEP_INTERVAL", "0"), 0),
		RevalidateOverlapOnUpdate: parseBool(EnvOrDefault("REVALIDATE_OVERLAP_ON_UPDATE", "false"), false),

		SeedAdminEmail:    EnvOrDefault("SEED_ADMIN_EMAIL", "admin@hotel.local"),
		SeedAdminPassword: EnvOrDefault("SEED_ADMIN_PASSWORD", ""),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func EnvOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "0" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func parseBool(s string, def bool) bool {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return v
}

func parseInt(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
