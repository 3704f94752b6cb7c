// Package eval 将法杖配置转换为 wand_eval_tree 的命令行调用，并解析其输出。
package eval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// MaxSlot 是可接受的最大槽位编号，远大于任何实际的法杖容量
const MaxSlot = 1024

// SlotList 是按槽位排列的法术ID，下标 i 对应槽位 i+1，空字符串表示空槽。
// JSON 中既可以是数组，也可以是 {"槽位": "法术ID"} 对象。
type SlotList []string

func (s *SlotList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var m map[string]*string
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		var list SlotList
		for k, v := range m {
			slot, err := strconv.Atoi(k)
			if err != nil || slot < 1 || slot > MaxSlot {
				return fmt.Errorf("无效的槽位编号 %q", k)
			}
			if v == nil {
				continue
			}
			for len(list) < slot {
				list = append(list, "")
			}
			list[slot-1] = *v
		}
		*s = list
		return nil
	}

	var arr []*string
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	list := make(SlotList, len(arr))
	for i, v := range arr {
		if v != nil {
			list[i] = *v
		}
	}
	*s = list
	return nil
}

// Slot 是一个非空的法术槽位
type Slot struct {
	Index   int
	SpellID string
	Uses    *float64
}

// Conditions 是三个相互独立的环境模拟开关
type Conditions struct {
	LowHealth       bool `json:"simulate_low_hp"`
	ManyEnemies     bool `json:"simulate_many_enemies"`
	ManyProjectiles bool `json:"simulate_many_projectiles"`
}

// Any 报告是否启用了任意一个环境模拟
func (c Conditions) Any() bool {
	return c.LowHealth || c.ManyEnemies || c.ManyProjectiles
}

// Request 是一次评估请求。数值字段缺失时使用默认值。
type Request struct {
	Spells     SlotList           `json:"spells"`
	SpellUses  map[string]float64 `json:"spell_uses"`
	AlwaysCast []string           `json:"always_cast"`

	ActionsPerRound *float64 `json:"actions_per_round"`
	ManaMax         *float64 `json:"mana_max"`
	ManaChargeSpeed *float64 `json:"mana_charge_speed"`
	ReloadTime      *float64 `json:"reload_time"`
	FireRateWait    *float64 `json:"fire_rate_wait"`
	NumberOfCasts   *float64 `json:"number_of_casts"`

	UnlimitedSpells *bool `json:"unlimited_spells"`
	InitialIfHalf   *bool `json:"initial_if_half"`
	FoldNodes       bool  `json:"fold_nodes"`

	Conditions
}

// 数值参数的默认值
const (
	defaultActionsPerRound = 1
	defaultManaMax         = 100
	defaultManaCharge      = 10
	defaultReloadTime      = 0
	defaultFireRateWait    = 0
	defaultNumberOfCasts   = 10
)

// Slots 按槽位升序返回所有非空槽位及其剩余次数覆盖
func (r Request) Slots() []Slot {
	var slots []Slot
	for i, id := range r.Spells {
		if id == "" {
			continue
		}
		s := Slot{Index: i + 1, SpellID: id}
		if n, ok := r.SpellUses[strconv.Itoa(i+1)]; ok {
			s.Uses = &n
		}
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Index < slots[j].Index })
	return slots
}

func valueOr(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

func flagOr(v *bool, def bool) bool {
	if v != nil {
		return *v
	}
	return def
}
