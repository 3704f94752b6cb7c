package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/SlpAus/noita-wand-engine-backend/internal/asset"
	"github.com/SlpAus/noita-wand-engine-backend/internal/eval"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/health"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/startup"
	"github.com/SlpAus/noita-wand-engine-backend/internal/spell"
	"github.com/SlpAus/noita-wand-engine-backend/internal/wand"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由和前端静态文件
func SetupRoutes(router *gin.Engine, app *startup.App) {
	log := app.Log.Named("http")

	api := router.Group("/api")
	{
		health.NewHandler(app.Monitor, app.Root).RegisterRoutes(api)
		spell.NewHandler(log, app.Spells, app.Game, app.Phonetic).RegisterRoutes(api)
		wand.NewHandler(log, app.Game, app.Importer).RegisterRoutes(api)
		eval.NewHandler(log, app.Eval).RegisterRoutes(api)
		asset.NewHandler(app.Assets).RegisterRoutes(api)
	}

	setupFrontend(router, app.Config.Server.FrontendDist)
}

// setupFrontend 提供打包后的前端。/api 下未匹配的路径仍返回404。
func setupFrontend(router *gin.Engine, dist string) {
	if dist == "" {
		return
	}
	index := filepath.Join(dist, "index.html")

	router.Static("/assets", filepath.Join(dist, "assets"))
	router.GET("/", func(c *gin.Context) {
		c.File(index)
	})
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Not Found"})
			return
		}
		c.File(index)
	})
}
