package spell

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SlpAus/noita-wand-engine-backend/internal/gamelink"
	"github.com/SlpAus/noita-wand-engine-backend/internal/phonetic"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/apperr"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LiveFetcher 从游戏拉取原始JSON，由 gamelink.Client 实现
type LiveFetcher interface {
	Fetch(ctx context.Context, cmd string) (json.RawMessage, error)
}

// Handler 提供法术目录相关的HTTP接口
type Handler struct {
	log      *zap.Logger
	svc      *Service
	game     LiveFetcher
	phonetic phonetic.Indexer
}

func NewHandler(log *zap.Logger, svc *Service, game LiveFetcher, idx phonetic.Indexer) *Handler {
	return &Handler{log: log, svc: svc, game: game, phonetic: idx}
}

// FetchSpells 返回静态目录与覆盖层合并后的结果
func (h *Handler) FetchSpells(c *gin.Context) {
	merged := h.svc.Merged()
	if len(merged) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "未找到本地法术数据"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "spells": merged})
}

// SyncGameSpells 从游戏拉取全部法术并重建覆盖层
func (h *Handler) SyncGameSpells(c *gin.Context) {
	raw, err := h.game.Fetch(c.Request.Context(), gamelink.CmdAllSpells)
	if err != nil {
		apperr.Respond(c, fmt.Errorf("无法从游戏同步法术: %w", err), nil)
		return
	}

	var payload LivePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.log.Warn("游戏法术数据格式错误", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "游戏法术数据格式错误"})
		return
	}

	o, err := h.svc.ApplyLive(c.Request.Context(), payload)
	if err != nil {
		// 快照持久化失败不影响本次同步
		h.log.Warn("覆盖层快照未能保存", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(o.Spells)})
}

type pinyinRequest struct {
	Text string `json:"text"`
}

// Pinyin 为任意文本生成拼音检索键
func (h *Handler) Pinyin(c *gin.Context) {
	var req pinyinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, fmt.Errorf("%w: %v", apperr.BadRequest, err), nil)
		return
	}
	full, initials := h.phonetic.Keys(req.Text)
	c.JSON(http.StatusOK, gin.H{"success": true, "pinyin": full, "initials": initials})
}

// RegisterRoutes 注册法术相关的路由
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/fetch-spells", h.FetchSpells)
	rg.GET("/sync-game-spells", h.SyncGameSpells)
	rg.POST("/pinyin", h.Pinyin)
}
