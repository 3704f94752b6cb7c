// Command wandctl 是法术目录导出、命令行评估和连接诊断的维护工具
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/config"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/logger"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/startup"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "wandctl",
	Short:         "Noita 法杖引擎后端的维护工具",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")

	rootCmd.AddCommand(buildDBCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(statusCmd)
}

// loadApp 读取配置并组装服务。日志写到标准错误，标准输出只用于结果。
func loadApp(ctx context.Context) (*startup.App, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	app, err := startup.InitializeApplication(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, nil, err
	}
	cleanup := func() {
		app.Close()
		_ = log.Sync()
	}
	return app, cleanup, nil
}
