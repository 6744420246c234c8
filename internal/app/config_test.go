package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "JWT_SECRET_KEY", "ACCESS_TOKEN_TTL", "REDIS_ADDR", "NOTIFICATION_QUEUE", "OTEL_ENABLED"} {
		t.Setenv(k, "")
	}
	log, logs := logger.NewObserved()
	cfg := LoadConfig(log, "trainermatch-api")

	assert.Equal(t, ":8080", cfg.Address())
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, "notifications", cfg.Redis.Key)
	assert.False(t, cfg.Otel.Enabled)
	assert.Equal(t, "trainermatch-api", cfg.Otel.ServiceName)
	assert.Equal(t, 1, logs.FilterMessage("JWT_SECRET_KEY not set; using insecure default").Len())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("ACCESS_TOKEN_TTL", "120")
	t.Setenv("WORKER_CONCURRENCY", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test")

	log, logs := logger.NewObserved()
	cfg := LoadConfig(log, "trainermatch-worker")

	assert.Equal(t, ":9090", cfg.Address())
	assert.Equal(t, "s3cret", cfg.JWTSecretKey)
	assert.Equal(t, 2*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 3, cfg.Worker.Concurrency)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSOrigins)
	assert.Zero(t, logs.Len())
}
