package spell

import (
	"bytes"
	"encoding/json"
	"time"
)

// ActionType 是法术的动作类型，与 gun_actions.lua 中的 ACTION_TYPE_* 常量一一对应
type ActionType int

const (
	TypeProjectile ActionType = iota
	TypeStaticProjectile
	TypeModifier
	TypeDrawMany
	TypeMaterial
	TypeOther
	TypeUtility
	TypePassive
)

var actionTypeByConst = map[string]ActionType{
	"ACTION_TYPE_PROJECTILE":        TypeProjectile,
	"ACTION_TYPE_STATIC_PROJECTILE": TypeStaticProjectile,
	"ACTION_TYPE_MODIFIER":          TypeModifier,
	"ACTION_TYPE_DRAW_MANY":         TypeDrawMany,
	"ACTION_TYPE_MATERIAL":          TypeMaterial,
	"ACTION_TYPE_OTHER":             TypeOther,
	"ACTION_TYPE_UTILITY":           TypeUtility,
	"ACTION_TYPE_PASSIVE":           TypePassive,
}

// ParseActionType 将脚本中的类型常量映射为枚举值，未知常量视为投射物
func ParseActionType(name string) ActionType {
	if t, ok := actionTypeByConst[name]; ok {
		return t
	}
	return TypeProjectile
}

// Definition 是法术目录中的一条记录
type Definition struct {
	// Icon 是图标的相对路径, 例如 "data/ui_gfx/gun_actions/bomb.png"
	Icon string `json:"icon"`

	// Name 是本地化后的显示名称
	Name   string `json:"name"`
	EnName string `json:"en_name"`

	Pinyin         string `json:"pinyin"`
	PinyinInitials string `json:"pinyin_initials"`

	// Aliases 是社区别名 (自由文本)，仅来自手工映射表
	Aliases       string `json:"aliases"`
	AliasPinyin   string `json:"alias_pinyin"`
	AliasInitials string `json:"alias_initials"`

	Type ActionType `json:"type"`

	// MaxUses 为 nil 表示无限次数，与 0 次区分
	MaxUses *int `json:"max_uses"`

	// --- 以下字段只存在于游戏实时同步的覆盖层 ---

	Mana         *float64 `json:"mana,omitempty"`
	FireRateWait *float64 `json:"fire_rate_wait,omitempty"`
	ReloadTime   *float64 `json:"reload_time,omitempty"`
	IsMod        bool     `json:"is_mod,omitempty"`
}

// Catalog 以法术ID为键
type Catalog map[string]Definition

// Clone 返回浅拷贝，调用方可以自由修改返回的映射
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for id, def := range c {
		out[id] = def
	}
	return out
}

// Overlay 是从游戏实时同步得到的快照，整体替换，不做增量修改
type Overlay struct {
	Spells Catalog `json:"spells"`
	// Appends 是模组对 gun_actions.lua 的追加脚本, 键为模组内文件路径
	Appends    map[string]string `json:"appends"`
	ActiveMods []string          `json:"active_mods"`
	SyncedAt   time.Time         `json:"synced_at"`
}

// LiveSpell 是游戏 GET_ALL_SPELLS 返回的单个法术
type LiveSpell struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Sprite       string   `json:"sprite"`
	Type         int      `json:"type"`
	MaxUses      *int     `json:"max_uses"`
	Mana         *float64 `json:"mana"`
	FireRateWait *float64 `json:"fire_rate_wait"`
	ReloadTime   *float64 `json:"reload_time"`
}

// LivePayload 是 GET_ALL_SPELLS 的完整响应
type LivePayload struct {
	Spells     []LiveSpell       `json:"spells"`
	Appends    AppendSet `json:"appends"`
	ActiveMods ModIDs    `json:"active_mods"`
}

// AppendSet 是 ModLuaFileAppend 的目标路径到追加文件的映射
// Lua 侧的 JSON 编码器无法区分空表，空映射可能以 [] 出现
type AppendSet map[string]string

func (a *AppendSet) UnmarshalJSON(data []byte) error {
	if isEmptyContainer(data) {
		*a = AppendSet{}
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*a = m
	return nil
}

// ModIDs 是已启用的模组ID列表，空列表可能以 {} 出现
type ModIDs []string

func (m *ModIDs) UnmarshalJSON(data []byte) error {
	if isEmptyContainer(data) {
		*m = ModIDs{}
		return nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*m = ids
	return nil
}

func isEmptyContainer(data []byte) bool {
	t := bytes.Join(bytes.Fields(data), nil)
	return bytes.Equal(t, []byte("null")) || bytes.Equal(t, []byte("[]")) || bytes.Equal(t, []byte("{}"))
}
