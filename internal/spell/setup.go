package spell

import (
	"context"

	"github.com/SlpAus/noita-wand-engine-backend/internal/phonetic"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewModule 按配置组装法术目录服务。rdb 为 nil 时覆盖层只保存在内存中。
func NewModule(log *zap.Logger, cfg config.DataConfig, idx phonetic.Indexer, rdb *redis.Client) *Service {
	builder := NewBuilder(log, BuilderOptions{
		DataRoot:         cfg.Root,
		TranslationFiles: cfg.TranslationFiles,
		MappingFile:      cfg.MappingFile,
	}, idx)

	var store OverlayStore = NopOverlayStore{}
	if rdb != nil {
		store = NewRedisOverlayStore(rdb)
	}
	return NewService(log, builder, idx, store)
}

// Prime 预热静态目录并恢复上一次的覆盖层快照。快照恢复失败不是致命错误。
func Prime(ctx context.Context, log *zap.Logger, svc *Service) {
	catalog := svc.Static()
	if report := svc.LastReport(); report != nil {
		for _, t := range report.Translations {
			log.Debug("翻译源", zap.String("file", t.Path), zap.Stringer("status", t.Status))
		}
	}
	log.Info("法术目录已就绪", zap.Int("spells", len(catalog)))

	if err := svc.Restore(ctx); err != nil {
		log.Warn("无法恢复覆盖层快照", zap.Error(err))
	}
}
