package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/config"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite 打开导出用的 SQLite 数据库，必要时创建所在目录
func OpenSQLite(log *zap.Logger, cfg config.SqliteConfig) (*gorm.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("无法创建数据库目录: %w", err)
		}
	}

	// GORM 的日志转发到 zap，只记录慢查询和错误
	gormLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}
	log.Info("数据库连接成功", zap.String("path", cfg.Path))
	return db, nil
}

// CloseSQLite 关闭底层连接
func CloseSQLite(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
