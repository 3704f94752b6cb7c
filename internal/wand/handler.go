package wand

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SlpAus/noita-wand-engine-backend/internal/gamelink"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/apperr"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Game 是处理器需要的游戏连接能力
type Game interface {
	LiveSource
	Fetch(ctx context.Context, cmd string) (json.RawMessage, error)
	Push(ctx context.Context, payload any) (string, error)
}

// Handler 提供法杖导入、拉取和推送的HTTP接口
type Handler struct {
	log      *zap.Logger
	game     Game
	importer *Importer
}

func NewHandler(log *zap.Logger, game Game, importer *Importer) *Handler {
	return &Handler{log: log, game: game, importer: importer}
}

// ImportWandEditor 导入 Wand Editor 的仓库
func (h *Handler) ImportWandEditor(c *gin.Context) {
	h.respondImport(c, h.importer.WandEditor)
}

// ImportSpellLab 导入 Spell Lab 的法杖
func (h *Handler) ImportSpellLab(c *gin.Context) {
	h.respondImport(c, h.importer.SpellLab)
}

func (h *Handler) respondImport(c *gin.Context, run func(context.Context) (ImportResult, error)) {
	res, err := run(c.Request.Context())
	if err != nil {
		apperr.Respond(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "wands": res.Wands, "folders": res.Folders})
}

// Pull 读取游戏中玩家持有的全部法杖
func (h *Handler) Pull(c *gin.Context) {
	raw, err := h.game.Fetch(c.Request.Context(), gamelink.CmdAllWands)
	if err != nil {
		apperr.Respond(c, fmt.Errorf("无法读取游戏中的法杖: %w", err), nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "wands": raw})
}

// Sync 将一根法杖推送回游戏。推送失败只记录日志，不重试。
func (h *Handler) Sync(c *gin.Context) {
	var payload json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		apperr.Respond(c, fmt.Errorf("%w: %v", apperr.BadRequest, err), nil)
		return
	}
	h.push(c.Request.Context(), payload)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ParseWiki 解析请求体中的维基模板文本
func (h *Handler) ParseWiki(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		apperr.Respond(c, fmt.Errorf("%w: %v", apperr.BadRequest, err), nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "wand": ParseWiki(string(body))})
}

type syncWikiRequest struct {
	Wiki string `json:"wiki"`
	Slot *int   `json:"slot"`
}

// SyncWiki 解析维基模板并推送到游戏中的指定槽位
func (h *Handler) SyncWiki(c *gin.Context) {
	var req syncWikiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, fmt.Errorf("%w: %v", apperr.BadRequest, err), nil)
		return
	}
	wand := ParseWiki(req.Wiki)
	slot := 1
	if req.Slot != nil {
		slot = *req.Slot
	}
	wand.Slot = &slot

	h.push(c.Request.Context(), wand)
	c.JSON(http.StatusOK, gin.H{"success": true, "parsed_wand": wand})
}

func (h *Handler) push(ctx context.Context, payload any) {
	ack, err := h.game.Push(ctx, payload)
	if err != nil {
		h.log.Warn("推送到游戏失败", zap.Error(err))
		return
	}
	h.log.Debug("游戏已确认推送", zap.String("ack", ack))
}

// RegisterRoutes 注册法杖相关的路由
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/pull", h.Pull)
	rg.POST("/sync", h.Sync)
	rg.GET("/import/wand-editor", h.ImportWandEditor)
	rg.GET("/import/spell-lab", h.ImportSpellLab)
	rg.POST("/parse-wiki", h.ParseWiki)
	rg.POST("/sync-wiki", h.SyncWiki)
}
