package main

import (
	"fmt"
	"os"

	"github.com/SlpAus/noita-wand-engine-backend/internal/gamelink"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/database"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/metadata"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "检查游戏连接、安装目录和离线数据",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	app, cleanup, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	app.Monitor.PerformCheck(ctx)
	snap := app.Monitor.Snapshot()
	fmt.Fprintf(out, "游戏连接:   %v (%s)\n", snap.Connected, app.Game.Address())

	root := app.Root.Refresh(ctx)
	fmt.Fprintf(out, "安装目录:   %q (来源 %s)\n", root.Path, root.Source)

	if mods, err := app.Game.ActiveMods(ctx); err == nil {
		fmt.Fprintf(out, "启用模组:   %v\n", mods)
	}

	if report := app.Spells.LastReport(); report != nil {
		fmt.Fprintf(out, "法术脚本:   %s (%d 个法术, 丢弃 %d)\n", report.Actions.Status, report.Actions.Rows, report.Discarded)
		fmt.Fprintf(out, "映射表:     %s %s\n", report.Mapping.Status, report.Mapping.Path)
		for _, t := range report.Translations {
			fmt.Fprintf(out, "翻译:       %s %s\n", t.Status, t.Path)
		}
	}

	_, settingsReport := gamelink.ReadSettings(app.Config.Game.SaveDir)
	fmt.Fprintf(out, "模组设置:   %s %s\n", settingsReport.Status, settingsReport.Path)

	if _, err := os.Stat(app.Config.Database.Sqlite.Path); err == nil {
		db, err := database.OpenSQLite(app.Log, app.Config.Database.Sqlite)
		if err != nil {
			return err
		}
		defer database.CloseSQLite(db)
		if err := metadata.MigrateDB(db); err != nil {
			return err
		}
		if info, ok, err := metadata.GetCatalogInfo(db); err == nil && ok {
			fmt.Fprintf(out, "上次导出:   %s (%d 个法术, 来自 %s)\n", info.BuiltAt.Local().Format("2006-01-02 15:04:05"), info.Count, info.Source)
		}
	}
	return nil
}
