package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("S3_BUCKET", "")
	t.Setenv("REDIS_ADDR", "")

	cfg := Load()

	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
	assert.Equal(t, 48*time.Hour, cfg.PaymentWindow)
	assert.Equal(t, time.Hour, cfg.CompletionGrace)
	assert.False(t, cfg.KafkaEnabled())
	assert.False(t, cfg.EmailEnabled())
	assert.False(t, cfg.S3Enabled())
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SWEEP_INTERVAL", "90s")
	t.Setenv("PAYMENT_WINDOW", "24h")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SITE_URL", "https://clinic.example/")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 90*time.Second, cfg.SweepInterval)
	assert.Equal(t, 24*time.Hour, cfg.PaymentWindow)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.Equal(t, "https://clinic.example", cfg.SiteURL)
	assert.True(t, cfg.KafkaEnabled())
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("COMPLETION_GRACE", "soon")
	assert.Equal(t, time.Hour, Load().CompletionGrace)
}
