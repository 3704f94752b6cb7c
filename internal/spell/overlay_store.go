package spell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// OverlayKey 是覆盖层快照在Redis中的键
const OverlayKey = "overlay:snapshot"

// OverlayStore 持久化最近一次同步的覆盖层。Load 在没有快照时返回 (nil, nil)。
type OverlayStore interface {
	Save(ctx context.Context, o *Overlay) error
	Load(ctx context.Context) (*Overlay, error)
}

// NopOverlayStore 用于未启用Redis的情况
type NopOverlayStore struct{}

func (NopOverlayStore) Save(context.Context, *Overlay) error   { return nil }
func (NopOverlayStore) Load(context.Context) (*Overlay, error) { return nil, nil }

// RedisOverlayStore 将快照以JSON字符串保存在单个键中
type RedisOverlayStore struct {
	rdb *redis.Client
	key string
}

func NewRedisOverlayStore(rdb *redis.Client) *RedisOverlayStore {
	return &RedisOverlayStore{rdb: rdb, key: OverlayKey}
}

func (s *RedisOverlayStore) Save(ctx context.Context, o *Overlay) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("无法序列化覆盖层: %w", err)
	}
	return s.rdb.Set(ctx, s.key, data, 0).Err()
}

func (s *RedisOverlayStore) Load(ctx context.Context) (*Overlay, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var o Overlay
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("覆盖层快照格式错误: %w", err)
	}
	return &o, nil
}
