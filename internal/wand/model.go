// Package wand 定义规范化的法杖记录，并把三种外部格式转换为它。
package wand

// 外部格式缺失字段时使用的默认值
const (
	DefaultManaMax         = 400
	DefaultManaChargeSpeed = 10
	DefaultReloadTime      = 30
	DefaultFireRateWait    = 10
	DefaultDeckCapacity    = 10
	DefaultSpread          = 0
	DefaultSpeedMultiplier = 1
	DefaultActionsPerRound = 1
)

// Configuration 是规范化的法杖记录。创建后不再修改，编辑会产生新记录。
type Configuration struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Pinyin         string `json:"pinyin"`
	PinyinInitials string `json:"pinyin_initials"`

	ManaMax              float64 `json:"mana_max"`
	ManaChargeSpeed      float64 `json:"mana_charge_speed"`
	ReloadTime           float64 `json:"reload_time"`
	FireRateWait         float64 `json:"fire_rate_wait"`
	DeckCapacity         int     `json:"deck_capacity"`
	ShuffleDeckWhenEmpty bool    `json:"shuffle_deck_when_empty"`
	SpreadDegrees        float64 `json:"spread_degrees"`
	SpeedMultiplier      float64 `json:"speed_multiplier"`
	ActionsPerRound      int     `json:"actions_per_round"`

	// Spells 的键是从1开始的槽位编号字符串，允许稀疏
	Spells     map[string]string `json:"spells"`
	SpellUses  map[string]int    `json:"spell_uses"`
	AlwaysCast []string          `json:"always_cast"`

	Tags      []string `json:"tags,omitempty"`
	CreatedAt int64    `json:"createdAt,omitempty"`
	FolderID  string   `json:"folderId,omitempty"`
	Order     int      `json:"order"`
}

// Folder 是前端用于分组的文件夹
type Folder struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Order    int     `json:"order"`
	IsOpen   bool    `json:"isOpen"`
	ParentID *string `json:"parentId"`
}

// ImportResult 是一次导入产生的法杖和文件夹
type ImportResult struct {
	Wands   []Configuration `json:"wands"`
	Folders []Folder        `json:"folders"`
}

func newConfiguration() Configuration {
	return Configuration{
		ManaMax:         DefaultManaMax,
		ManaChargeSpeed: DefaultManaChargeSpeed,
		ReloadTime:      DefaultReloadTime,
		FireRateWait:    DefaultFireRateWait,
		DeckCapacity:    DefaultDeckCapacity,
		SpreadDegrees:   DefaultSpread,
		SpeedMultiplier: DefaultSpeedMultiplier,
		ActionsPerRound: DefaultActionsPerRound,
		Spells:          map[string]string{},
		SpellUses:       map[string]int{},
		AlwaysCast:      []string{},
	}
}
