package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/interference-service/internal/config"
	"github.com/spec-kit/interference-service/internal/events"
)

const redisStartupPing = 2 * time.Second

// Redis holds the client used to mirror report events.
type Redis struct {
	Client  *redis.Client
	channel string
}

// NewRedis builds a client when Redis is enabled and returns nil otherwise.
// Every method tolerates a nil receiver. An unreachable server is logged
// and left to the readiness probe.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	if !cfg.Enabled {
		logger.Info("redis disabled; events stay in process")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisStartupPing)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr), zap.String("events_channel", cfg.EventsChannel))
	}

	return &Redis{Client: client, channel: cfg.EventsChannel}
}

// Publisher returns an event mirror bound to the configured channel.
func (r *Redis) Publisher() *events.RedisPublisher {
	if r == nil || r.Client == nil {
		return nil
	}
	return events.NewRedisPublisher(r.Client, r.channel)
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis not configured")
	}
	return r.Client.Ping(ctx).Err()
}
