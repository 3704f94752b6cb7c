package wand

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Flag 接受 Lua 序列化中常见的几种布尔写法: true/false, 0/1, "yes"/"true"/"1"
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = false
	case bytes.Equal(data, []byte("true")):
		*f = true
	case bytes.Equal(data, []byte("false")):
		*f = false
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Flag(parseTruthy(s))
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		*f = n != 0
	}
	return nil
}

func parseTruthy(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "yes" || s == "1" || s == "true"
}

// Stats 是两种模组共有的法杖属性，缺失的字段为 nil
type Stats struct {
	ManaMax              *float64 `json:"mana_max"`
	ManaChargeSpeed      *float64 `json:"mana_charge_speed"`
	ReloadTime           *float64 `json:"reload_time"`
	FireRateWait         *float64 `json:"fire_rate_wait"`
	DeckCapacity         *float64 `json:"deck_capacity"`
	ShuffleDeckWhenEmpty Flag     `json:"shuffle_deck_when_empty"`
	SpreadDegrees        *float64 `json:"spread_degrees"`
	SpeedMultiplier      *float64 `json:"speed_multiplier"`
	ActionsPerRound      *float64 `json:"actions_per_round"`
}

// apply 将已有的属性写入配置，缺失的保持默认值
func (s Stats) apply(c *Configuration) {
	setFloat(&c.ManaMax, s.ManaMax)
	setFloat(&c.ManaChargeSpeed, s.ManaChargeSpeed)
	setFloat(&c.ReloadTime, s.ReloadTime)
	setFloat(&c.FireRateWait, s.FireRateWait)
	setInt(&c.DeckCapacity, s.DeckCapacity)
	c.ShuffleDeckWhenEmpty = bool(s.ShuffleDeckWhenEmpty)
	setFloat(&c.SpreadDegrees, s.SpreadDegrees)
	setFloat(&c.SpeedMultiplier, s.SpeedMultiplier)
	setInt(&c.ActionsPerRound, s.ActionsPerRound)
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *float64) {
	if v != nil {
		*dst = int(*v)
	}
}

// EditorSpell 是 Wand Editor 中的一个法术格
type EditorSpell struct {
	ID            string `json:"id"`
	UsesRemaining *int   `json:"uses_remaining"`
}

// EditorWand 是 Wand Editor 仓库中的一根法杖
type EditorWand struct {
	Stats
	ItemName string `json:"item_name"`
	Spells   struct {
		Spells []json.RawMessage `json:"spells"`
		Always []json.RawMessage `json:"always"`
	} `json:"spells"`
}

// LabAction 是 Spell Lab 法杖中的一个法术
type LabAction struct {
	ActionID      string `json:"action_id"`
	Permanent     Flag   `json:"permanent"`
	X             int    `json:"x"`
	UsesRemaining *int   `json:"uses_remaining"`
}

// LabWand 是 Spell Lab 保存的一根法杖
type LabWand struct {
	Name  string `json:"name"`
	Stats struct {
		Stats
		UIName string `json:"ui_name"`
	} `json:"stats"`
	AllActions []json.RawMessage `json:"all_actions"`
}

// decodeObject 只接受JSON对象，其它类型 (null, false, 数字) 视为空位
func decodeObject[T any](raw json.RawMessage) (*T, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// countedUses 返回需要记录的剩余次数。-1 (无限) 和 0 不记录。
func countedUses(n *int) (int, bool) {
	if n == nil || *n == 0 || *n == -1 {
		return 0, false
	}
	return *n, true
}
