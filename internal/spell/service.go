package spell

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/SlpAus/noita-wand-engine-backend/internal/phonetic"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service 持有进程级的静态目录和实时覆盖层。
// 两者都是整体替换的快照，读取方只会看到旧值或新值。
type Service struct {
	log      *zap.Logger
	builder  *Builder
	phonetic phonetic.Indexer
	store    OverlayStore

	static  atomic.Pointer[Catalog]
	report  atomic.Pointer[BuildReport]
	overlay atomic.Pointer[Overlay]
	group   singleflight.Group

	now func() time.Time
}

func NewService(log *zap.Logger, builder *Builder, idx phonetic.Indexer, store OverlayStore) *Service {
	if store == nil {
		store = NopOverlayStore{}
	}
	return &Service{
		log:      log,
		builder:  builder,
		phonetic: idx,
		store:    store,
		now:      time.Now,
	}
}

// Static 返回静态目录，首次访问时构建并缓存
func (s *Service) Static() Catalog {
	if c := s.static.Load(); c != nil {
		return *c
	}
	v, _, _ := s.group.Do("static", func() (interface{}, error) {
		if c := s.static.Load(); c != nil {
			return *c, nil
		}
		return s.rebuild(), nil
	})
	return v.(Catalog)
}

// Refresh 丢弃缓存并重新扫描数据源
func (s *Service) Refresh() Catalog {
	v, _, _ := s.group.Do("static", func() (interface{}, error) {
		return s.rebuild(), nil
	})
	return v.(Catalog)
}

func (s *Service) rebuild() Catalog {
	catalog, report := s.builder.Build()
	s.static.Store(&catalog)
	s.report.Store(&report)
	return catalog
}

// LastReport 返回最近一次构建的数据源报告，尚未构建时为 nil
func (s *Service) LastReport() *BuildReport {
	return s.report.Load()
}

// Overlay 返回当前的实时覆盖层，从未同步时为 nil
func (s *Service) Overlay() *Overlay {
	return s.overlay.Load()
}

// ActiveMods 返回最近一次同步得到的启用模组列表
func (s *Service) ActiveMods() []string {
	if o := s.overlay.Load(); o != nil {
		return o.ActiveMods
	}
	return nil
}

// Appends 返回最近一次同步得到的追加脚本
func (s *Service) Appends() map[string]string {
	if o := s.overlay.Load(); o != nil {
		return o.Appends
	}
	return nil
}

// Merged 在静态目录之上叠加覆盖层，同一ID以覆盖层为准
func (s *Service) Merged() Catalog {
	merged := s.Static().Clone()
	if o := s.overlay.Load(); o != nil {
		for id, def := range o.Spells {
			merged[id] = def
		}
	}
	return merged
}

// ApplyLive 根据游戏返回的数据重建覆盖层，并尝试持久化快照
func (s *Service) ApplyLive(ctx context.Context, payload LivePayload) (*Overlay, error) {
	static := s.Static()
	spells := make(Catalog, len(payload.Spells))

	for _, ls := range payload.Spells {
		if ls.ID == "" {
			continue
		}
		name := ls.Name
		if name == "" {
			name = ls.ID
		}
		def := Definition{
			Icon:         strings.TrimLeft(ls.Sprite, "/"),
			Name:         name,
			EnName:       ls.ID,
			Type:         ActionType(ls.Type),
			MaxUses:      ls.MaxUses,
			Mana:         orZero(ls.Mana),
			FireRateWait: orZero(ls.FireRateWait),
			ReloadTime:   orZero(ls.ReloadTime),
			IsMod:        true,
		}
		if def.MaxUses == nil {
			unlimited := -1
			def.MaxUses = &unlimited
		}
		def.Pinyin, def.PinyinInitials = s.phonetic.Keys(name)
		if prev, ok := static[ls.ID]; ok {
			def.Aliases = prev.Aliases
			def.AliasPinyin = prev.AliasPinyin
			def.AliasInitials = prev.AliasInitials
		}
		spells[ls.ID] = def
	}

	o := &Overlay{
		Spells:     spells,
		Appends:    map[string]string(payload.Appends),
		ActiveMods: []string(payload.ActiveMods),
		SyncedAt:   s.now(),
	}
	if o.Appends == nil {
		o.Appends = map[string]string{}
	}
	s.overlay.Store(o)
	s.log.Info("实时法术覆盖层已更新",
		zap.Int("spells", len(spells)), zap.Int("appends", len(o.Appends)), zap.Strings("mods", o.ActiveMods))

	if err := s.store.Save(ctx, o); err != nil {
		return o, fmt.Errorf("保存覆盖层快照失败: %w", err)
	}
	return o, nil
}

// Restore 从持久化存储中恢复上一次的覆盖层
func (s *Service) Restore(ctx context.Context) error {
	o, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("读取覆盖层快照失败: %w", err)
	}
	if o == nil {
		return nil
	}
	s.overlay.Store(o)
	s.log.Info("已恢复覆盖层快照", zap.Int("spells", len(o.Spells)), zap.Time("synced_at", o.SyncedAt))
	return nil
}

func orZero(v *float64) *float64 {
	if v != nil {
		return v
	}
	var zero float64
	return &zero
}
