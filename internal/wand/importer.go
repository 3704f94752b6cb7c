package wand

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SlpAus/noita-wand-engine-backend/internal/gamelink"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/apperr"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/source"
	"go.uber.org/zap"
)

// ErrNoImportData 表示在线和离线都没有找到可导入的数据
var ErrNoImportData = fmt.Errorf("%w: 未找到可导入的法杖数据", apperr.EmptyInput)

// LiveSource 发送指令并返回原始响应，由 gamelink.Client 实现
type LiveSource interface {
	Send(ctx context.Context, cmd string) (string, error)
}

// SettingsReader 读取离线的模组设置
type SettingsReader func() (gamelink.Settings, source.Report)

// Importer 优先从运行中的游戏读取模组数据，游戏不可达时回退到 mod_config.xml
type Importer struct {
	log      *zap.Logger
	game     LiveSource
	settings SettingsReader
	adapter  *Adapter
}

func NewImporter(log *zap.Logger, game LiveSource, settings SettingsReader, adapter *Adapter) *Importer {
	return &Importer{log: log, game: game, settings: settings, adapter: adapter}
}

// WandEditor 导入 Wand Editor 的仓库
func (im *Importer) WandEditor(ctx context.Context) (ImportResult, error) {
	pages := im.liveWandEditorPages(ctx)
	if len(pages) == 0 {
		pages = im.readSettings().WandEditorPages()
	}
	if len(pages) == 0 {
		return ImportResult{}, ErrNoImportData
	}
	return im.adapter.FromWandEditor(ctx, pages), nil
}

func (im *Importer) liveWandEditorPages(ctx context.Context) []string {
	resp, err := im.game.Send(ctx, gamelink.CmdWandEditorData)
	if err != nil || resp == "" {
		im.logLiveFailure(gamelink.CmdWandEditorData, err)
		return nil
	}
	var pages []string
	if err := json.Unmarshal([]byte(resp), &pages); err != nil {
		im.log.Warn("Wand Editor 在线数据格式错误", zap.Error(err))
		return nil
	}
	return pages
}

type spellLabLive struct {
	Shugged  []string `json:"shugged"`
	Original string   `json:"original"`
}

// SpellLab 导入 Spell Lab 的法杖盒与保存的法杖
func (im *Importer) SpellLab(ctx context.Context) (ImportResult, error) {
	if sources := im.liveSpellLabSources(ctx); len(sources) > 0 {
		if res := im.adapter.FromSpellLab(ctx, sources); len(res.Wands) > 0 {
			return res, nil
		}
	}

	pages, saved := im.readSettings().SpellLabPages()
	if saved != "" {
		pages = append(pages, saved)
	}
	if len(pages) == 0 {
		return ImportResult{}, ErrNoImportData
	}
	res := im.adapter.FromSpellLab(ctx, pages)
	if len(res.Wands) == 0 {
		return ImportResult{}, ErrNoImportData
	}
	return res, nil
}

func (im *Importer) liveSpellLabSources(ctx context.Context) []string {
	resp, err := im.game.Send(ctx, gamelink.CmdSpellLabData)
	if err != nil || resp == "" {
		im.logLiveFailure(gamelink.CmdSpellLabData, err)
		return nil
	}
	var live spellLabLive
	if err := json.Unmarshal([]byte(resp), &live); err != nil {
		im.log.Warn("Spell Lab 在线数据格式错误", zap.Error(err))
		return nil
	}
	sources := live.Shugged
	if live.Original != "" {
		sources = append(sources, live.Original)
	}
	return sources
}

func (im *Importer) readSettings() gamelink.Settings {
	s, rep := im.settings()
	switch rep.Status {
	case source.Missing:
		im.log.Info("未找到模组设置文件", zap.String("file", rep.Path))
	case source.Malformed:
		im.log.Warn("模组设置文件解析失败", zap.String("file", rep.Path), zap.Error(rep.Err))
	}
	return s
}

func (im *Importer) logLiveFailure(cmd string, err error) {
	if errors.Is(err, gamelink.ErrNoResponse) {
		im.log.Info("游戏未连接，改用离线数据", zap.String("cmd", cmd))
		return
	}
	im.log.Info("游戏未返回数据，改用离线数据", zap.String("cmd", cmd), zap.Error(err))
}
