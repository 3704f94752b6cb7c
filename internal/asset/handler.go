package asset

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const iconCacheControl = "public, max-age=31536000"

// Handler 提供图标文件
type Handler struct {
	resolver *Resolver
}

func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// Icon 返回 *path 对应的图标文件
func (h *Handler) Icon(c *gin.Context) {
	file, ok := h.resolver.Lookup(c.Request.Context(), c.Param("path"))
	if !ok {
		c.String(http.StatusNotFound, "Not Found")
		return
	}
	c.Header("Cache-Control", iconCacheControl)
	c.File(file)
}

// RegisterRoutes 注册图标路由
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/icon/*path", h.Icon)
}
