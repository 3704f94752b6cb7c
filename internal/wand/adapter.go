package wand

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/SlpAus/noita-wand-engine-backend/internal/phonetic"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 导入文件夹
const (
	WandEditorFolderID = "from_wand_editor"
	SpellLabFolderID   = "from_spell_lab"

	defaultEditorWandName = "未命名魔杖"
	defaultLabWandName    = "SpellLab Wand"
)

// Adapter 负责把模组数据重新映射为规范化记录。
// Lua 反序列化交给 Decoder，Adapter 只做字段映射。
type Adapter struct {
	log      *zap.Logger
	decoder  Decoder
	phonetic phonetic.Indexer
	now      func() time.Time
	newID    func() string
}

func NewAdapter(log *zap.Logger, decoder Decoder, idx phonetic.Indexer) *Adapter {
	return &Adapter{
		log:      log,
		decoder:  decoder,
		phonetic: idx,
		now:      time.Now,
		newID:    func() string { return uuid.NewString()[:8] },
	}
}

func (a *Adapter) decodeList(ctx context.Context, mode Mode, payload string) ([]json.RawMessage, bool) {
	raw, err := a.decoder.Decode(ctx, mode, payload)
	if err != nil {
		a.log.Warn("无法解码模组数据", zap.String("mode", string(mode)), zap.Error(err))
		return nil, false
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		a.log.Warn("模组数据不是列表", zap.String("mode", string(mode)), zap.Error(err))
		return nil, false
	}
	return list, true
}

// FromWandEditor 转换 Wand Editor 的仓库页，每页生成一个子文件夹
func (a *Adapter) FromWandEditor(ctx context.Context, pages []string) ImportResult {
	root := WandEditorFolderID
	result := ImportResult{
		Wands:   []Configuration{},
		Folders: []Folder{{ID: root, Name: "来自 Wand Editor", Order: 0, IsOpen: true}},
	}
	createdAt := a.now().UnixMilli()

	for pageIdx, page := range pages {
		list, ok := a.decodeList(ctx, ModeWandEditor, page)
		if !ok {
			continue
		}
		folderID := fmt.Sprintf("%s_page_%d", root, pageIdx+1)
		result.Folders = append(result.Folders, Folder{
			ID:       folderID,
			Name:     fmt.Sprintf("第 %d 页", pageIdx+1),
			Order:    pageIdx,
			ParentID: &root,
		})

		for wandIdx, raw := range list {
			w, ok := decodeObject[EditorWand](raw)
			if !ok {
				continue
			}
			c := a.editorWand(w)
			c.ID = fmt.Sprintf("we_%d_%d_%s", pageIdx, wandIdx, a.newID())
			c.Tags = []string{"WandEditor"}
			c.CreatedAt = createdAt
			c.FolderID = folderID
			c.Order = wandIdx
			result.Wands = append(result.Wands, c)
		}
	}
	return result
}

func (a *Adapter) editorWand(w *EditorWand) Configuration {
	c := newConfiguration()
	w.Stats.apply(&c)

	for i, raw := range w.Spells.Spells {
		s, ok := decodeObject[EditorSpell](raw)
		if !ok || s.ID == "" || s.ID == "nil" {
			continue
		}
		slot := strconv.Itoa(i + 1)
		c.Spells[slot] = s.ID
		if n, ok := countedUses(s.UsesRemaining); ok {
			c.SpellUses[slot] = n
		}
	}
	for _, raw := range w.Spells.Always {
		if s, ok := decodeObject[EditorSpell](raw); ok && s.ID != "" {
			c.AlwaysCast = append(c.AlwaysCast, s.ID)
		}
	}

	c.Name = firstNonEmpty(w.ItemName, defaultEditorWandName)
	c.Pinyin, c.PinyinInitials = a.phonetic.Keys(c.Name)
	return c
}

// FromSpellLab 转换 Spell Lab 的所有来源，全部放入同一个文件夹
func (a *Adapter) FromSpellLab(ctx context.Context, sources []string) ImportResult {
	result := ImportResult{
		Wands:   []Configuration{},
		Folders: []Folder{{ID: SpellLabFolderID, Name: "来自 Spell Lab", Order: 1, IsOpen: true}},
	}
	createdAt := a.now().UnixMilli()

	var all []json.RawMessage
	for _, src := range sources {
		if list, ok := a.decodeList(ctx, ModeSpellLab, src); ok {
			all = append(all, list...)
		}
	}

	for idx, raw := range all {
		w, ok := decodeObject[LabWand](raw)
		if !ok {
			continue
		}
		c := a.labWand(w)
		c.ID = fmt.Sprintf("sl_%d_%s", idx, a.newID())
		c.Tags = []string{"SpellLab"}
		c.CreatedAt = createdAt
		c.FolderID = SpellLabFolderID
		c.Order = idx
		result.Wands = append(result.Wands, c)
	}
	return result
}

func (a *Adapter) labWand(w *LabWand) Configuration {
	c := newConfiguration()
	w.Stats.Stats.apply(&c)

	for _, raw := range w.AllActions {
		act, ok := decodeObject[LabAction](raw)
		if !ok || act.ActionID == "" {
			continue
		}
		if act.Permanent {
			c.AlwaysCast = append(c.AlwaysCast, act.ActionID)
			continue
		}
		slot := strconv.Itoa(act.X + 1)
		c.Spells[slot] = act.ActionID
		if n, ok := countedUses(act.UsesRemaining); ok {
			c.SpellUses[slot] = n
		}
	}

	c.Name = firstNonEmpty(w.Name, w.Stats.UIName, defaultLabWandName)
	c.Pinyin, c.PinyinInitials = a.phonetic.Keys(c.Name)
	return c
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
