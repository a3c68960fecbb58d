package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries the runtime settings of the storefront service.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	// Snapshot storage for carts: "file" or "redis".
	SnapshotBackend string
	SnapshotDir     string
	RedisAddr       string

	// Empty DSN keeps everything in memory.
	PostgresDSN string

	// Comma-separated broker list; empty disables Kafka publishing.
	KafkaBrokers string

	AdminEmails      []string
	AdminSetupSecret string

	PaymentDelay time.Duration
	ConfirmDelay time.Duration

	DescribeEndpoint string
	DescribeAPIKey   string
}

// DefaultConfig returns the local development defaults.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:        ":8080",
		MetricsAddr:     ":9090",
		SnapshotBackend: "file",
		SnapshotDir:     "data/carts",
		PaymentDelay:    4 * time.Second,
		ConfirmDelay:    2 * time.Second,
	}
}

// LoadConfig builds the configuration from defaults, an optional .env file,
// and environment variables.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if v := os.Getenv("STOREFRONT_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("STOREFRONT_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("STOREFRONT_SNAPSHOT_BACKEND"); v != "" {
		cfg.SnapshotBackend = v
	}
	if v := os.Getenv("STOREFRONT_SNAPSHOT_DIR"); v != "" {
		cfg.SnapshotDir = v
	}
	if v := os.Getenv("STOREFRONT_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("STOREFRONT_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}
	if v := os.Getenv("STOREFRONT_ADMIN_EMAILS"); v != "" {
		cfg.AdminEmails = splitAndTrim(v)
	}
	if v := os.Getenv("STOREFRONT_ADMIN_SETUP_SECRET"); v != "" {
		cfg.AdminSetupSecret = v
	}
	if v := os.Getenv("STOREFRONT_PAYMENT_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.PaymentDelay = d
		}
	}
	if v := os.Getenv("STOREFRONT_CONFIRM_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ConfirmDelay = d
		}
	}
	if v := os.Getenv("STOREFRONT_DESCRIBE_ENDPOINT"); v != "" {
		cfg.DescribeEndpoint = v
	}
	if v := os.Getenv("STOREFRONT_DESCRIBE_API_KEY"); v != "" {
		cfg.DescribeAPIKey = v
	}

	return cfg
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
