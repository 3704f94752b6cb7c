package health

import (
	"context"
	"net/http"

	"github.com/SlpAus/noita-wand-engine-backend/internal/gamelink"
	"github.com/gin-gonic/gin"
)

// RootLocator 是状态接口需要的安装目录信息
type RootLocator interface {
	RootRefresher
	Root(ctx context.Context) string
}

// Handler 提供 /status 接口
type Handler struct {
	monitor *Monitor
	root    RootLocator
}

func NewHandler(monitor *Monitor, root RootLocator) *Handler {
	return &Handler{monitor: monitor, root: root}
}

// Status 立即检查一次连接，并返回安装目录及其来源
func (h *Handler) Status(c *gin.Context) {
	ctx := c.Request.Context()
	h.monitor.PerformCheck(ctx)
	snap := h.monitor.Snapshot()

	root := h.root.Root(ctx)
	source := gamelink.RootNone
	if root != "" {
		source = h.root.Status().Source
	}
	c.JSON(http.StatusOK, gin.H{
		"connected":   snap.Connected,
		"game_root":   root,
		"root_source": source,
	})
}

// RegisterRoutes 注册状态路由
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/status", h.Status)
}
