// Package startup 按配置组装所有服务，供 HTTP 服务器和命令行工具共用
package startup

import (
	"context"
	"fmt"

	"github.com/SlpAus/noita-wand-engine-backend/internal/asset"
	"github.com/SlpAus/noita-wand-engine-backend/internal/eval"
	"github.com/SlpAus/noita-wand-engine-backend/internal/gamelink"
	"github.com/SlpAus/noita-wand-engine-backend/internal/phonetic"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/config"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/database"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/health"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/source"
	"github.com/SlpAus/noita-wand-engine-backend/internal/spell"
	"github.com/SlpAus/noita-wand-engine-backend/internal/wand"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App 持有组装好的服务
type App struct {
	Config   *config.Config
	Log      *zap.Logger
	Phonetic phonetic.Indexer
	Redis    *redis.Client

	Game     *gamelink.Client
	Root     *gamelink.RootLocator
	Monitor  *health.Monitor
	Spells   *spell.Service
	Importer *wand.Importer
	Eval     *eval.Service
	Assets   *asset.Resolver
}

// InitializeApplication 组装服务并预热法术目录。
// Redis 启用但不可达时返回错误，其余数据源缺失都不是致命错误。
func InitializeApplication(ctx context.Context, log *zap.Logger, cfg *config.Config) (*App, error) {
	log.Info("开始初始化应用")

	rdb, err := database.OpenRedis(ctx, log, cfg.Database.Redis)
	if err != nil {
		return nil, fmt.Errorf("初始化Redis失败: %w", err)
	}

	idx := phonetic.New(cfg.Phonetic.Enabled, log.Named("phonetic"))
	game := gamelink.NewClient(log.Named("gamelink"), gamelink.Options{
		Address:      cfg.Game.Address,
		ProbeTimeout: cfg.Game.RootProbeTimeout,
		DataTimeout:  cfg.Game.DataTimeout,
	})
	root := gamelink.NewRootLocator(log.Named("root"), game, cfg.Game.KnownRoots)

	spells := spell.NewModule(log.Named("spell"), cfg.Data, idx, rdb)
	spell.Prime(ctx, log.Named("spell"), spells)

	decoder := wand.NewDecoder(log.Named("decoder"), cfg.Eval.Decoder, cfg.Eval.LuaJIT, cfg.Eval.ImportHelper)
	adapter := wand.NewAdapter(log.Named("wand"), decoder, idx)
	saveDir := cfg.Game.SaveDir
	importer := wand.NewImporter(log.Named("wand"), game, func() (gamelink.Settings, source.Report) {
		return gamelink.ReadSettings(saveDir)
	}, adapter)

	evaluator := eval.NewService(log.Named("eval"), eval.Options{
		LuaJIT:    cfg.Eval.LuaJIT,
		Dir:       cfg.Eval.Dir,
		DataRoot:  cfg.Data.Root,
		SyncModID: cfg.Game.SyncModID,
	}, spells, game, root, nil)

	app := &App{
		Config:   cfg,
		Log:      log,
		Phonetic: idx,
		Redis:    rdb,
		Game:     game,
		Root:     root,
		Monitor:  health.NewMonitor(log.Named("health"), game, root),
		Spells:   spells,
		Importer: importer,
		Eval:     evaluator,
		Assets:   asset.NewResolver(log.Named("asset"), cfg.Data.Root, root, spells),
	}
	log.Info("应用初始化完成", zap.String("game", game.Address()), zap.String("data", cfg.Data.Root))
	return app, nil
}

// Close 释放外部连接
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Warn("关闭Redis连接失败", zap.Error(err))
		}
	}
}
