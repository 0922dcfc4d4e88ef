package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	StoreDriverPostgres  = "postgres"
	StoreDriverFirestore = "firestore"
	StoreDriverMemory    = "memory"
)

type StoreConfig struct {
	Driver                   string
	DatabaseURL              string
	AutoMigrate              bool
	FirestoreProjectID       string
	FirestoreCredentialsFile string
}

type Config struct {
	Port                string
	AppEnv              string
	Store               StoreConfig
	JWTSecret           string
	SessionTTL          time.Duration
	SessionCookieSecure bool
	AllowOrigins        []string
	LogstashTCPAddr     string
	MinIOEndpoint       string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOUseSSL         bool
	MinIOBucketMedia    string
	MinIOPublicURL      string
	ImageMaxDimension   int
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	CacheTTL            time.Duration
	RabbitMQURL         string
	BookingQueue        string
	TelegramBotToken    string
	TelegramChatID      int64
	SMTPHost            string
	SMTPPort            string
	SMTPUsername        string
	SMTPPassword        string
	SMTPFrom            string
	SMTPUseTLS          bool
	BookingNotifyEmail  string
	NotifyTimeout       time.Duration
	MetricsEnabled      bool
	HTTPReadTimeout     time.Duration
	HTTPWriteTimeout    time.Duration
}

func (c Config) IsDev() bool {
	return c.AppEnv == "dev"
}

// MediaEnabled reports whether object storage is configured. Without it
// image uploads fail and tours are saved with typed-in URLs only.
func (c Config) MediaEnabled() bool {
	return c.MinIOEndpoint != ""
}

func Load() Config {
	loadDotenv()

	minioEndpoint := getenv("MINIO_ENDPOINT", "")
	var minioKey, minioSecret string
	if minioEndpoint != "" {
		minioKey = must("MINIO_ACCESS_KEY")
		minioSecret = must("MINIO_SECRET_KEY")
	}

	return Config{
		Port:                getenv("PORT", "8080"),
		AppEnv:              getenv("APP_ENV", "prod"),
		Store:               loadStore(),
		JWTSecret:           must("JWT_SECRET"),
		SessionTTL:          getDuration("SESSION_TTL", 12*time.Hour),
		SessionCookieSecure: getenv("SESSION_COOKIE_SECURE", "false") == "true",
		AllowOrigins:        splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		LogstashTCPAddr:     getenv("LOGSTASH_TCP_ADDR", ""),
		MinIOEndpoint:       minioEndpoint,
		MinIOAccessKey:      minioKey,
		MinIOSecretKey:      minioSecret,
		MinIOUseSSL:         getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucketMedia:    getenv("MINIO_BUCKET_MEDIA", "hens-media"),
		MinIOPublicURL:      getenv("MINIO_PUBLIC_URL", ""),
		ImageMaxDimension:   getInt("IMAGE_MAX_DIMENSION", 2560),
		RedisAddr:           getenv("REDIS_ADDR", ""),
		RedisPassword:       getenv("REDIS_PASSWORD", ""),
		RedisDB:             getInt("REDIS_DB", 0),
		CacheTTL:            getDuration("CACHE_TTL", 5*time.Minute),
		RabbitMQURL:         getenv("RABBITMQ_URL", ""),
		BookingQueue:        getenv("BOOKING_QUEUE", "booking.created"),
		TelegramBotToken:    getenv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:      int64(getInt("TELEGRAM_CHAT_ID", 0)),
		SMTPHost:            getenv("SMTP_HOST", ""),
		SMTPPort:            getenv("SMTP_PORT", ""),
		SMTPUsername:        getenv("SMTP_USERNAME", ""),
		SMTPPassword:        getenv("SMTP_PASSWORD", ""),
		SMTPFrom:            getenv("SMTP_FROM", ""),
		SMTPUseTLS:          getenv("SMTP_USE_TLS", "false") == "true",
		BookingNotifyEmail:  getenv("BOOKING_NOTIFY_EMAIL", ""),
		NotifyTimeout:       getDuration("NOTIFY_TIMEOUT", 15*time.Second),
		MetricsEnabled:      getenv("METRICS_ENABLED", "true") == "true",
		HTTPReadTimeout:     getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		HTTPWriteTimeout:    getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
	}
}

// LoadStore reads only the document store settings, for hensctl.
func LoadStore() StoreConfig {
	loadDotenv()
	return loadStore()
}

func loadStore() StoreConfig {
	cfg := StoreConfig{
		Driver:                   strings.ToLower(getenv("STORE_DRIVER", StoreDriverPostgres)),
		AutoMigrate:              getenv("AUTO_MIGRATE", "false") == "true",
		FirestoreCredentialsFile: getenv("FIRESTORE_CREDENTIALS_FILE", ""),
	}
	switch cfg.Driver {
	case StoreDriverPostgres:
		cfg.DatabaseURL = must("DATABASE_URL")
	case StoreDriverFirestore:
		cfg.FirestoreProjectID = must("FIRESTORE_PROJECT_ID")
	case StoreDriverMemory:
	default:
		panic("unsupported STORE_DRIVER: " + cfg.Driver)
	}
	return cfg
}

func loadDotenv() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg(".env file not loaded")
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getInt(k string, d int) int {
	raw := getenv(k, "")
	if raw == "" {
		return d
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", k).Str("value", raw).Msg("invalid integer, using default")
		return d
	}
	return v
}

func getDuration(k string, d time.Duration) time.Duration {
	raw := getenv(k, "")
	if raw == "" {
		return d
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Warn().Str("key", k).Str("value", raw).Msg("invalid duration, using default")
		return d
	}
	return v
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
