package spell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/SlpAus/noita-wand-engine-backend/internal/phonetic"
	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/source"
	"github.com/SlpAus/noita-wand-engine-backend/internal/translation"
	"go.uber.org/zap"
)

// ActionsScript 是法术定义脚本在数据目录中的相对路径
const ActionsScript = "data/scripts/gun/gun_actions.lua"

// BuilderOptions 描述构建目录所需的数据源位置
type BuilderOptions struct {
	DataRoot         string
	TranslationFiles []string
	MappingFile      string
}

// BuildReport 汇总一次构建中各数据源的加载情况
type BuildReport struct {
	Actions      source.Report   `json:"actions"`
	Mapping      source.Report   `json:"mapping"`
	Translations []source.Report `json:"translations"`
	Discarded    int             `json:"discarded"`
}

// Builder 从解包的游戏数据构建静态法术目录
type Builder struct {
	log      *zap.Logger
	opts     BuilderOptions
	merger   *translation.Merger
	phonetic phonetic.Indexer
}

func NewBuilder(log *zap.Logger, opts BuilderOptions, idx phonetic.Indexer) *Builder {
	return &Builder{
		log:      log,
		opts:     opts,
		merger:   translation.NewMerger(log),
		phonetic: idx,
	}
}

// Build 读取所有数据源并生成目录。脚本缺失时返回空目录，并在报告中标记为 Missing。
func (b *Builder) Build() (Catalog, BuildReport) {
	var report BuildReport

	paths := make([]string, 0, len(b.opts.TranslationFiles))
	for _, p := range b.opts.TranslationFiles {
		paths = append(paths, ResolveDataPath(b.opts.DataRoot, p))
	}
	table, reports := b.merger.Load(paths)
	report.Translations = reports

	mapping, mrep := LoadMapping(b.opts.MappingFile)
	report.Mapping = mrep
	if mrep.Status == source.Malformed {
		b.log.Warn("法术映射表解析失败", zap.String("file", mrep.Path), zap.Error(mrep.Err))
	}

	actionsPath := filepath.Join(b.opts.DataRoot, ActionsScript)
	content, err := os.ReadFile(actionsPath)
	if err != nil {
		report.Actions = source.Failed(actionsPath, err)
		b.log.Warn("未找到法术定义脚本，目录为空", zap.String("file", actionsPath), zap.Error(err))
		return Catalog{}, report
	}

	actions, discarded := ScrapeActions(string(content))
	catalog := Assemble(actions, table, mapping, b.phonetic)

	report.Discarded = discarded
	report.Actions = source.Report{Path: actionsPath, Status: source.Loaded, Rows: len(catalog), Skipped: discarded}
	b.log.Info("法术目录构建完成", zap.Int("spells", len(catalog)), zap.Int("discarded", discarded))
	return catalog, report
}

// Assemble 将原始字段、翻译和手工映射合并为目录记录
func Assemble(actions []RawAction, table translation.Table, mapping Mapping, idx phonetic.Indexer) Catalog {
	catalog := make(Catalog, len(actions))
	for _, a := range actions {
		enName, name := a.Name, a.Name
		if strings.HasPrefix(a.Name, "$") {
			if e, ok := table.Lookup(a.Name); ok {
				if e.English != "" {
					enName = e.English
				}
				if e.Localized != "" {
					name = e.Localized
				}
			}
		}

		def := Definition{
			Icon:    a.Sprite,
			EnName:  enName,
			Type:    a.Type,
			MaxUses: a.MaxUses,
		}

		if m, ok := mapping[a.ID]; ok {
			// 翻译没有提供有效名称时使用映射表
			if name == a.Name || name == "" {
				name = firstNonEmpty(m.Mod, m.Official, name)
			}
			def.Aliases = m.Aliases
			if m.Aliases != "" {
				def.AliasPinyin, def.AliasInitials = idx.Keys(m.Aliases)
			}
		}

		def.Name = name
		def.Pinyin, def.PinyinInitials = idx.Keys(name)
		catalog[a.ID] = def
	}
	return catalog
}

// ResolveDataPath 相对路径默认位于数据目录下，以 "./" 开头或绝对路径则原样使用
func ResolveDataPath(root, p string) string {
	if filepath.IsAbs(p) || strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../") {
		return p
	}
	return filepath.Join(root, p)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
