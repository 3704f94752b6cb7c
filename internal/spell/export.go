package spell

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteStaticJSON 将目录写成前端静态模式读取的 spells.json
func WriteStaticJSON(path string, catalog Catalog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("无法创建导出目录: %w", err)
	}
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("无法序列化法术目录: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("无法写入 %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}
