package app

import (
	"fmt"
	"strings"

	"github.com/yungbote/trainermatch-backend/internal/jobs/queue"
	"github.com/yungbote/trainermatch-backend/internal/jobs/queue/redis"
	"github.com/yungbote/trainermatch-backend/internal/platform/gcp"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
	"github.com/yungbote/trainermatch-backend/internal/platform/sendgrid"
	"github.com/yungbote/trainermatch-backend/internal/platform/twilio"
)

type Clients struct {
	Queue  queue.Queue
	Bucket gcp.BucketService
	Mail   sendgrid.Client
	SMS    twilio.Client
}

func usesMemoryQueue(cfg redis.Config) bool {
	return strings.TrimSpace(cfg.Addr) == ""
}

// wireQueue picks Redis when REDIS_ADDR is set. The in-memory queue is only
// consumed by a worker embedded in the same process.
func wireQueue(log *logger.Logger, cfg redis.Config) (queue.Queue, error) {
	if usesMemoryQueue(cfg) {
		log.Warn("REDIS_ADDR not set; using in-memory notification queue")
		return queue.NewMemory(), nil
	}
	q, err := redis.NewNotificationQueue(log, cfg)
	if err != nil {
		return nil, fmt.Errorf("init redis notification queue: %w", err)
	}
	return q, nil
}

func wireBucket(log *logger.Logger) (gcp.BucketService, error) {
	storageCfg, err := gcp.ResolveObjectStorageConfigFromEnv()
	return resolveBucketService(log, storageCfg, err)
}

// wireSenders returns nil clients for providers that are not configured;
// the worker then registers log-only channels for them.
func wireSenders(log *logger.Logger) (sendgrid.Client, twilio.Client) {
	mail, err := sendgrid.NewFromEnv(log)
	if err != nil {
		log.Warn("SendGrid not configured; email notifications are log-only", "error", err)
		mail = nil
	}
	sms, err := twilio.NewFromEnv(log)
	if err != nil {
		log.Warn("Twilio not configured; sms and whatsapp notifications are log-only", "error", err)
		sms = nil
	}
	return mail, sms
}

func (c *Clients) Close(log *logger.Logger) {
	if c == nil {
		return
	}
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Warn("Queue close failed", "error", err)
		}
	}
	if c.Bucket != nil {
		if err := c.Bucket.Close(); err != nil {
			log.Warn("Bucket close failed", "error", err)
		}
	}
}
