package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/SlpAus/noita-wand-engine-backend/api"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/config"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/logger"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/shutdown"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/startup"
	"github.com/SlpAus/noita-wand-engine-backend/pkg/lifecycle"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env 是可选的，不存在时只使用真实的环境变量
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	app, err := startup.InitializeApplication(context.Background(), log, cfg)
	if err != nil {
		log.Fatal("应用初始化失败，无法启动", zap.Error(err))
	}

	gracefulMgr := lifecycle.NewManager(log.Named("lifecycle"))
	forcefulMgr := lifecycle.NewManager(log.Named("lifecycle"))
	coordinator := shutdown.NewCoordinator(log, gracefulMgr, forcefulMgr)
	coordinator.OnFinish(app.Close)

	monitorHandle, err := gracefulMgr.NewServiceHandle("game-monitor")
	if err != nil {
		log.Fatal("无法注册游戏连接检查器", zap.Error(err))
	}
	go app.Monitor.Run(monitorHandle, cfg.Health.Interval)

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(api.Recovery(log), api.RequestLogger(log.Named("http")))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	api.SetupRoutes(r, app)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}
	go func() {
		log.Info("服务器已准备就绪，开始监听", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("服务器启动失败", zap.Error(err))
		}
	}()

	coordinator.ListenForSignalsAndShutdown(server)
}
