package client

import (
	"Lotus/config"
	"Lotus/pkg/log"
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient 未配置 redis 时返回 nil，依赖方需自行降级
func NewRedisClient(conf *config.Config) (*redis.Client, func(), error) {
	if !conf.Redis.Enabled() {
		log.L.Info("redis not configured, checkin guard disabled")
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", conf.Redis.Address, conf.Redis.Port),
		Password: conf.Redis.Password,
		Username: conf.Redis.Username,
		DB:       conf.Redis.Database,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	log.L.Info("redis client success")

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.L.Warn("close redis", zap.Error(err))
		}
	}
	return client, cleanup, nil
}
