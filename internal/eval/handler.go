package eval

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/apperr"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 提供评估接口
type Handler struct {
	log *zap.Logger
	svc *Service
}

func NewHandler(log *zap.Logger, svc *Service) *Handler {
	return &Handler{log: log, svc: svc}
}

// Evaluate 运行模拟器并返回其输出
func (h *Handler) Evaluate(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, fmt.Errorf("%w: %v", apperr.BadRequest, err), nil)
		return
	}

	data, err := h.svc.Evaluate(c.Request.Context(), req)
	if err != nil {
		var procErr *ProcessError
		var parseErr *ParseError
		switch {
		case errors.Is(err, ErrNoSpells):
			// 与前端约定：空请求仍返回200
			c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		case errors.As(err, &procErr):
			apperr.Respond(c, err, gin.H{"details": procErr.Stderr})
		case errors.As(err, &parseErr):
			apperr.Respond(c, err, gin.H{"raw": parseErr.Raw})
		default:
			apperr.Respond(c, err, nil)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// RegisterRoutes 注册评估路由
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/evaluate", h.Evaluate)
}
