package database

import (
	"context"
	"fmt"
	"time"

	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisPingTimeout = 2 * time.Second

// OpenRedis 按配置连接 Redis。未启用时返回 nil 客户端，调用方应退回内存存储。
func OpenRedis(ctx context.Context, log *zap.Logger, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		log.Info("Redis 未启用，覆盖层快照只保存在内存中")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("无法连接到Redis: %w", err)
	}

	log.Info("Redis 连接成功", zap.String("address", cfg.Address))
	return rdb, nil
}
