package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, ":9090", cfg.MetricsAddr)
	require.Equal(t, "file", cfg.SnapshotBackend)
	require.Equal(t, 4*time.Second, cfg.PaymentDelay)
	require.Equal(t, 2*time.Second, cfg.ConfirmDelay)
	require.Empty(t, cfg.PostgresDSN)
	require.Empty(t, cfg.KafkaBrokers)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_ADDR", ":18080")
	t.Setenv("STOREFRONT_ADMIN_EMAILS", "a@x.com, b@x.com ,")
	t.Setenv("STOREFRONT_PAYMENT_DELAY", "50ms")
	t.Setenv("STOREFRONT_CONFIRM_DELAY", "bogus")

	cfg := LoadConfig()

	require.Equal(t, ":18080", cfg.HTTPAddr)
	require.Equal(t, []string{"a@x.com", "b@x.com"}, cfg.AdminEmails)
	require.Equal(t, 50*time.Millisecond, cfg.PaymentDelay)
	// unparseable durations keep the default
	require.Equal(t, 2*time.Second, cfg.ConfirmDelay)
}
