package app

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/trainermatch-backend/internal/data/db"
	"github.com/yungbote/trainermatch-backend/internal/http/middleware"
	"github.com/yungbote/trainermatch-backend/internal/jobs/queue/redis"
	"github.com/yungbote/trainermatch-backend/internal/jobs/worker"
	"github.com/yungbote/trainermatch-backend/internal/observability"
	"github.com/yungbote/trainermatch-backend/internal/platform/envutil"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	ServiceName     string
	LogMode         string
	Port            string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	DB     db.Config
	Redis  redis.Config
	Worker worker.Config
	Otel   observability.OtelConfig
}

// LoadDotEnv reads .env from the working directory when one exists. Values
// already present in the environment win.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func LogModeFromEnv() string {
	return envutil.String("LOG_MODE", "development")
}

func LoadConfig(log *logger.Logger, serviceName string) Config {
	cfg := Config{
		ServiceName:     serviceName,
		LogMode:         LogModeFromEnv(),
		Port:            envutil.String("PORT", "8080"),
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", defaultJWTSecret),
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour),
		ShutdownTimeout: envutil.Seconds("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		CORSOrigins:     middleware.CORSOriginsFromEnv(),
		DB:              db.ConfigFromEnv(),
		Redis:           redis.ConfigFromEnv(),
		Worker:          worker.ConfigFromEnv(),
		Otel:            observability.OtelConfigFromEnv(serviceName),
	}
	if cfg.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY not set; using insecure default")
	}
	return cfg
}

func (c Config) Address() string {
	return ":" + c.Port
}
