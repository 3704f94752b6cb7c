package main

import (
	"fmt"
	"time"

	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/database"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/metadata"
	"github.com/SlpAus/noita-wand-engine-backend/internal/spell"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var skipSQLite bool

var buildDBCmd = &cobra.Command{
	Use:   "builddb",
	Short: "从解包数据构建法术目录并导出",
	Long:  `重新抓取 gun_actions.lua、合并翻译和映射表，写出前端静态模式使用的 spells.json，并同步到 SQLite。`,
	Args:  cobra.NoArgs,
	RunE:  runBuildDB,
}

func init() {
	buildDBCmd.Flags().BoolVar(&skipSQLite, "skip-sqlite", false, "只写出 spells.json")
}

func runBuildDB(cmd *cobra.Command, _ []string) error {
	app, cleanup, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	catalog := app.Spells.Refresh()
	report := app.Spells.LastReport()
	if len(catalog) == 0 {
		return fmt.Errorf("法术目录为空，请检查数据目录 %s (%s)", app.Config.Data.Root, report.Actions.Status)
	}

	jsonPath := app.Config.Data.StaticExport
	if err := spell.WriteStaticJSON(jsonPath, catalog); err != nil {
		return err
	}
	app.Log.Info("已写出静态目录", zap.String("file", jsonPath), zap.Int("spells", len(catalog)))

	if skipSQLite {
		return nil
	}

	db, err := database.OpenSQLite(app.Log, app.Config.Database.Sqlite)
	if err != nil {
		return err
	}
	defer database.CloseSQLite(db)

	if err := spell.MigrateDB(db); err != nil {
		return err
	}
	if err := metadata.MigrateDB(db); err != nil {
		return err
	}
	if err := spell.SaveCatalog(db, catalog); err != nil {
		return fmt.Errorf("写入法术表失败: %w", err)
	}
	info := metadata.CatalogInfo{BuiltAt: time.Now(), Count: len(catalog), Source: app.Config.Data.Root}
	if err := metadata.SetCatalogInfo(db, info); err != nil {
		return err
	}

	app.Log.Info("法术表已同步", zap.String("db", app.Config.Database.Sqlite.Path),
		zap.Int("discarded", report.Discarded), zap.Int("mapping_skipped", report.Mapping.Skipped))
	fmt.Fprintf(cmd.OutOrStdout(), "已导出 %d 个法术\n", len(catalog))
	return nil
}
