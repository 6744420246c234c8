package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/trainermatch-backend/internal/jobs/queue"
	"github.com/yungbote/trainermatch-backend/internal/platform/envutil"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

func ConfigFromEnv() Config {
	return Config{
		Addr:     envutil.String("REDIS_ADDR", ""),
		Password: envutil.String("REDIS_PASSWORD", ""),
		DB:       envutil.Int("REDIS_DB", 0),
		Key:      envutil.String("NOTIFICATION_QUEUE", "notifications"),
	}
}

// notificationQueue is a reliable list queue: producers LPUSH onto key, each
// consumer BLMOVEs from the right end into its own key:processing:<id> list,
// and acks LREM the raw payload from that list. A consumer's liveness key
// key:consumer:<id> expires unless heartbeated; only lists of expired
// consumers are moved back onto key.
type notificationQueue struct {
	log           *logger.Logger
	rdb           *goredis.Client
	key           string
	consumerID    string
	consumersKey  string
	processingKey string
}

func NewNotificationQueue(log *logger.Logger, cfg Config) (queue.Queue, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	key := strings.TrimSpace(cfg.Key)
	if key == "" {
		key = "notifications"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	id := uuid.NewString()
	return &notificationQueue{
		log:           log.With("service", "RedisNotificationQueue", "key", key, "consumer_id", id),
		rdb:           rdb,
		key:           key,
		consumerID:    id,
		consumersKey:  key + ":consumers",
		processingKey: processingKey(key, id),
	}, nil
}

func processingKey(key, consumerID string) string {
	return key + ":processing:" + consumerID
}

func aliveKey(key, consumerID string) string {
	return key + ":consumer:" + consumerID
}

func (q *notificationQueue) Enqueue(ctx context.Context, msg queue.Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := q.rdb.LPush(ctx, q.key, raw).Err(); err != nil {
		return fmt.Errorf("redis lpush: %w", err)
	}
	return nil
}

func (q *notificationQueue) Dequeue(ctx context.Context, wait time.Duration) (*queue.Delivery, error) {
	raw, err := q.rdb.BLMove(ctx, q.key, q.processingKey, "RIGHT", "LEFT", wait).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, queue.ErrEmpty
	}
	if errors.Is(err, goredis.ErrClosed) {
		return nil, queue.ErrClosed
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("redis blmove: %w", err)
	}

	d := &queue.Delivery{Raw: raw}
	if err := json.Unmarshal([]byte(raw), &d.Message); err != nil {
		q.log.Warn("Dropping undecodable queue payload", "error", err, "payload", raw)
		_ = q.Ack(ctx, d)
		return nil, queue.ErrEmpty
	}
	return d, nil
}

func (q *notificationQueue) Ack(ctx context.Context, d *queue.Delivery) error {
	if d == nil {
		return nil
	}
	return q.rdb.LRem(ctx, q.processingKey, 1, d.Raw).Err()
}

func (q *notificationQueue) Heartbeat(ctx context.Context, ttl time.Duration) error {
	_, err := q.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.SAdd(ctx, q.consumersKey, q.consumerID)
		p.Set(ctx, aliveKey(q.key, q.consumerID), time.Now().UTC().Format(time.RFC3339), ttl)
		return nil
	})
	if errors.Is(err, goredis.ErrClosed) {
		return queue.ErrClosed
	}
	if err != nil {
		return fmt.Errorf("redis heartbeat: %w", err)
	}
	return nil
}

// RequeueInflight moves deliveries held by consumers whose liveness key has
// expired back to the consuming end of the main list. Live consumers,
// including this one, keep theirs.
func (q *notificationQueue) RequeueInflight(ctx context.Context) (int, error) {
	ids, err := q.rdb.SMembers(ctx, q.consumersKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis smembers: %w", err)
	}
	n := 0
	for _, id := range ids {
		if id == q.consumerID {
			continue
		}
		alive, err := q.rdb.Exists(ctx, aliveKey(q.key, id)).Result()
		if err != nil {
			return n, fmt.Errorf("redis exists: %w", err)
		}
		if alive > 0 {
			continue
		}
		moved, err := q.drain(ctx, processingKey(q.key, id))
		n += moved
		if err != nil {
			return n, err
		}
		if err := q.rdb.SRem(ctx, q.consumersKey, id).Err(); err != nil {
			return n, fmt.Errorf("redis srem: %w", err)
		}
		q.log.Warn("Reclaimed deliveries from expired consumer", "expired_consumer_id", id, "count", moved)
	}
	return n, nil
}

func (q *notificationQueue) drain(ctx context.Context, from string) (int, error) {
	n := 0
	for {
		err := q.rdb.LMove(ctx, from, q.key, "RIGHT", "RIGHT").Err()
		if errors.Is(err, goredis.Nil) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("redis lmove: %w", err)
		}
		n++
	}
}

// Close drops this consumer's liveness key so its leftovers can be reclaimed
// without waiting for the lease, then closes the client.
func (q *notificationQueue) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := q.rdb.Del(ctx, aliveKey(q.key, q.consumerID)).Err(); err != nil && !errors.Is(err, goredis.ErrClosed) {
		q.log.Warn("Failed to drop consumer liveness key", "error", err)
	}
	return q.rdb.Close()
}
