package gamelink

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/source"
)

// ModConfigFile 是存档目录下保存模组设置的文件
const ModConfigFile = "mod_config.xml"

// 模组设置中保存法杖数据的键
const (
	WandEditorDepotPrefix = "wand_editorWandDepot"
	SpellLabPageMaxKey    = "spell_lab_shugged.wand_box_page_max_index"
	SpellLabPagePrefix    = "spell_lab_shugged.wand_box_page_"
	SpellLabSavedWandsKey = "spell_lab_saved_wands"
)

// Settings 是 mod_config.xml 中 (setting_id, value_string) 的扁平映射
type Settings map[string]string

type modConfig struct {
	Items []struct {
		SettingID string `xml:"setting_id,attr"`
		Value     string `xml:"value_string,attr"`
	} `xml:"ConfigItem"`
}

// ReadSettings 读取存档目录中的模组设置。saveDir 支持环境变量，例如 ${USERPROFILE}。
func ReadSettings(saveDir string) (Settings, source.Report) {
	if saveDir == "" {
		return Settings{}, source.Report{Status: source.Missing}
	}
	path := filepath.Join(os.ExpandEnv(saveDir), ModConfigFile)

	f, err := os.Open(path)
	if err != nil {
		return Settings{}, source.Failed(path, err)
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	dec.Strict = false
	var cfg modConfig
	if err := dec.Decode(&cfg); err != nil {
		return Settings{}, source.Report{Path: path, Status: source.Malformed, Err: fmt.Errorf("无法解析 %s: %w", ModConfigFile, err)}
	}

	settings := make(Settings, len(cfg.Items))
	rep := source.Report{Path: path, Status: source.Loaded}
	for _, item := range cfg.Items {
		if item.SettingID == "" || item.Value == "" {
			rep.Skipped++
			continue
		}
		settings[item.SettingID] = item.Value
		rep.Rows++
	}
	return settings, rep
}

// WandEditorPages 按顺序返回 Wand Editor 的仓库页，遇到第一个缺失的编号时停止
func (s Settings) WandEditorPages() []string {
	var pages []string
	for i := 1; ; i++ {
		v, ok := s[WandEditorDepotPrefix+strconv.Itoa(i)]
		if !ok {
			return pages
		}
		pages = append(pages, v)
	}
}

// SpellLabPages 返回 Spell Lab 的法杖盒分页 (编号从1开始) 以及单独保存的法杖列表
func (s Settings) SpellLabPages() (pages []string, saved string) {
	if last, err := strconv.Atoi(s[SpellLabPageMaxKey]); err == nil {
		for i := 1; i <= last; i++ {
			if v, ok := s[SpellLabPagePrefix+strconv.Itoa(i)]; ok {
				pages = append(pages, v)
			}
		}
	}
	return pages, s[SpellLabSavedWandsKey]
}
