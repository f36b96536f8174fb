package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Otel     OtelConfig
	Jaspel   JaspelConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	UsageLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	Debug              bool
	GlobalRateLimit    int // requests per minute per IP, before any per-endpoint class applies
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	JwtSecret string
}

type OtelConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

// OperationClass groups endpoints that share a rate limit.
type OperationClass string

const (
	ClassReport  OperationClass = "report"
	ClassSummary OperationClass = "summary"
	ClassExport  OperationClass = "export"
)

// JaspelConfig is built once at startup and never mutated afterwards.
type JaspelConfig struct {
	Tolerance float64

	CacheDriver    string // "memory" or "redis"
	ExportTTL      time.Duration
	ReportTTL      time.Duration
	RoleStatsTTL   time.Duration
	FlowTTL        time.Duration
	SummaryTTL     time.Duration
	ValidationTTL  time.Duration
	UsageRetention time.Duration

	RateLimitWindow time.Duration
	ReportLimit     int
	SummaryLimit    int
	ExportLimit     int

	RequestTimeout     time.Duration
	HealthCheckBudget  time.Duration
	BottleneckPending  int64
	PendingAlertLevel  int64
	ValidationPassMark float64

	RetryAttempts int
	RetryBackoff  time.Duration

	FlowSeedEnabled bool
}

// LimitFor returns the per-window quota for class, or 0 when the class is
// unlimited.
func (c JaspelConfig) LimitFor(class OperationClass) int {
	switch class {
	case ClassReport:
		return c.ReportLimit
	case ClassSummary:
		return c.SummaryLimit
	case ClassExport:
		return c.ExportLimit
	default:
		return 0
	}
}

// DefaultJaspelConfig holds the production defaults without reading the
// environment.
func DefaultJaspelConfig() JaspelConfig {
	return JaspelConfig{
		Tolerance:      0.01,
		CacheDriver:    "memory",
		ExportTTL:      60 * time.Second,
		ReportTTL:      300 * time.Second,
		RoleStatsTTL:   300 * time.Second,
		FlowTTL:        300 * time.Second,
		SummaryTTL:     600 * time.Second,
		ValidationTTL:  300 * time.Second,
		UsageRetention: 48 * time.Hour,

		RateLimitWindow: 60 * time.Second,
		ReportLimit:     60,
		SummaryLimit:    30,
		ExportLimit:     10,

		RequestTimeout:     8 * time.Second,
		HealthCheckBudget:  1000 * time.Millisecond,
		BottleneckPending:  100,
		PendingAlertLevel:  50,
		ValidationPassMark: 80,

		RetryAttempts: 3,
		RetryBackoff:  100 * time.Millisecond,
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			UsageLogFilePath:   getEnv("USAGE_LOG_FILE_PATH", "logs/jaspel_usage.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			Debug:              getEnvAsBool("APP_DEBUG", false),
			GlobalRateLimit:    getEnvAsInt("GLOBAL_RATE_LIMIT", 300),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		Otel: OtelConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "jaspel-be"),
		},
		Jaspel: loadJaspelConfig(),
	}
}

func loadJaspelConfig() JaspelConfig {
	cfg := DefaultJaspelConfig()

	cfg.Tolerance = getEnvAsFloat("JASPEL_TOLERANCE", cfg.Tolerance)
	cfg.CacheDriver = strings.ToLower(getEnv("JASPEL_CACHE_DRIVER", cfg.CacheDriver))
	cfg.ExportTTL = getEnvAsSeconds("JASPEL_TTL_EXPORT", cfg.ExportTTL)
	cfg.ReportTTL = getEnvAsSeconds("JASPEL_TTL_REPORT", cfg.ReportTTL)
	cfg.RoleStatsTTL = getEnvAsSeconds("JASPEL_TTL_ROLE_STATS", cfg.RoleStatsTTL)
	cfg.FlowTTL = getEnvAsSeconds("JASPEL_TTL_FLOW", cfg.FlowTTL)
	cfg.SummaryTTL = getEnvAsSeconds("JASPEL_TTL_SUMMARY", cfg.SummaryTTL)
	cfg.ValidationTTL = getEnvAsSeconds("JASPEL_TTL_VALIDATION", cfg.ValidationTTL)

	cfg.ReportLimit = getEnvAsInt("JASPEL_RATE_LIMIT_REPORT", cfg.ReportLimit)
	cfg.SummaryLimit = getEnvAsInt("JASPEL_RATE_LIMIT_SUMMARY", cfg.SummaryLimit)
	cfg.ExportLimit = getEnvAsInt("JASPEL_RATE_LIMIT_EXPORT", cfg.ExportLimit)

	cfg.RequestTimeout = getEnvAsDuration("JASPEL_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.HealthCheckBudget = getEnvAsDuration("JASPEL_HEALTH_BUDGET", cfg.HealthCheckBudget)
	cfg.BottleneckPending = int64(getEnvAsInt("JASPEL_BOTTLENECK_PENDING", int(cfg.BottleneckPending)))
	cfg.PendingAlertLevel = int64(getEnvAsInt("JASPEL_PENDING_ALERT", int(cfg.PendingAlertLevel)))
	cfg.RetryAttempts = getEnvAsInt("JASPEL_RETRY_ATTEMPTS", cfg.RetryAttempts)
	cfg.FlowSeedEnabled = getEnvAsBool("JASPEL_FLOW_SEED_ENABLED", false)

	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsSeconds(key string, fallback time.Duration) time.Duration {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil && value >= 0 {
		return time.Duration(value) * time.Second
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("8s", "1500ms").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
