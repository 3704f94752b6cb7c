// Package translation 合并多份格式各异的翻译表，得到 key -> {英文, 本地化} 映射。
package translation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/source"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// 默认列位置 (Noita common.csv 的标准布局)
const (
	defaultEnglishColumn   = 1
	defaultLocalizedColumn = 9
)

// 表头识别
const (
	headerEnglish      = "en"
	headerLocalized    = "zh-cn"
	headerLocalizedAlt = "简体中文"
	headerCommunityMod = "zh-cn汉化mod"
)

// Entry 是某个翻译键合并后的结果
type Entry struct {
	English   string `json:"en"`
	Localized string `json:"zh"`
}

// Table 是合并后的翻译表，构建完成后只读
type Table map[string]Entry

// Lookup 查找翻译键，键前的 "$" 会被忽略
func (t Table) Lookup(key string) (Entry, bool) {
	e, ok := t[strings.TrimLeft(key, "$")]
	return e, ok
}

// Merger 按顺序加载翻译文件，后加载的非空字段覆盖先加载的
type Merger struct {
	log  *zap.Logger
	fold cases.Caser
}

func NewMerger(log *zap.Logger) *Merger {
	return &Merger{log: log, fold: cases.Fold()}
}

// Load 依次合并给定的文件。不存在或无法解析的文件会被跳过，此函数不会返回错误。
func (m *Merger) Load(paths []string) (Table, []source.Report) {
	table := make(Table)
	reports := make([]source.Report, 0, len(paths))

	for _, path := range paths {
		report := m.loadFile(table, path)
		switch report.Status {
		case source.Loaded:
			m.log.Debug("翻译文件已合并",
				zap.String("file", path), zap.Int("rows", report.Rows), zap.Int("skipped", report.Skipped))
		case source.Malformed:
			m.log.Warn("翻译文件解析失败，已跳过", zap.String("file", path), zap.Error(report.Err))
		}
		reports = append(reports, report)
	}

	m.log.Info("翻译表加载完成", zap.Int("keys", len(table)))
	return table, reports
}

func (m *Merger) loadFile(table Table, path string) source.Report {
	f, err := os.Open(path)
	if err != nil {
		return source.Failed(path, err)
	}
	defer f.Close()

	return m.mergeReader(table, path, f)
}

// mergeReader 先把整个文件解析到临时表，成功后才写入 table，失败的文件不留下任何行
func (m *Merger) mergeReader(table Table, path string, r io.Reader) source.Report {
	report := source.Report{Path: path}
	scratch := make(Table)
	if err := m.merge(scratch, r, &report); err != nil {
		report.Status = source.Malformed
		report.Err = err
		report.Rows = 0
		return report
	}
	for key, e := range scratch {
		entry := table[key]
		if e.English != "" {
			entry.English = e.English
		}
		if e.Localized != "" {
			entry.Localized = e.Localized
		}
		table[key] = entry
	}
	report.Status = source.Loaded
	return report
}

// merge 解析一个 CSV 流并写入 table。单行格式错误只会跳过该行。
func (m *Merger) merge(table Table, r io.Reader, report *source.Report) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return fmt.Errorf("空文件")
		}
		return fmt.Errorf("无法读取表头: %w", err)
	}
	enIdx, locIdx := m.resolveColumns(header)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				report.Skipped++
				continue
			}
			return err
		}
		if len(row) < 2 {
			report.Skipped++
			continue
		}
		key := strings.TrimLeft(row[0], "$")
		if key == "" {
			report.Skipped++
			continue
		}

		entry := table[key]
		if v := cell(row, enIdx); v != "" {
			entry.English = v
		}
		if v := cell(row, locIdx); v != "" {
			entry.Localized = v
		}
		table[key] = entry
		report.Rows++
	}
}

// resolveColumns 根据表头动态确定英文列和本地化列。
// 社区汉化列优先于官方 zh-cn 列。
func (m *Merger) resolveColumns(header []string) (enIdx, locIdx int) {
	enIdx = defaultEnglishColumn
	official, alt, community := -1, -1, -1

	for i, h := range header {
		name := m.fold.String(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch {
		case name == headerEnglish:
			enIdx = i
		case name == headerLocalized:
			official = i
		case strings.Contains(name, headerCommunityMod):
			community = i
		case name == headerLocalizedAlt:
			alt = i
		}
	}

	switch {
	case community >= 0:
		locIdx = community
	case official >= 0:
		locIdx = official
	case alt >= 0:
		locIdx = alt
	default:
		locIdx = defaultLocalizedColumn
	}
	return enIdx, locIdx
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	v := strings.ReplaceAll(row[idx], `\n`, "\n")
	return strings.Trim(v, `"`)
}
