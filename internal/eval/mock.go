package eval

import (
	"fmt"
	"strings"
)

// ActionsScript 是模组追加脚本的目标文件
const ActionsScript = "data/scripts/gun/gun_actions.lua"

// 模拟环境中使用的虚拟实体
const (
	mockPlayer      = 12345
	mockDamageModel = 67890
	mockCrowdSize   = 30
)

const updatedEntityFragment = `local _twwe_GetUpdatedEntityID = GetUpdatedEntityID
function GetUpdatedEntityID()
    return %[1]d
end
local _twwe_EntityGetTransform = EntityGetTransform
function EntityGetTransform(ent, ...)
    if ent == %[1]d then return 0, 0 end
    if _twwe_EntityGetTransform then return _twwe_EntityGetTransform(ent, ...) end
    return 0, 0
end
`

const lowHealthFragment = `local _twwe_EntityGetWithTag = EntityGetWithTag
function EntityGetWithTag(tag)
    if tag == "player_unit" then return { %[1]d } end
    if _twwe_EntityGetWithTag then return _twwe_EntityGetWithTag(tag) end
    return {}
end
local _twwe_EntityGetFirstComponent = EntityGetFirstComponent
function EntityGetFirstComponent(ent, comp_type, tag)
    if ent == %[1]d and comp_type == "DamageModelComponent" then return %[2]d end
    if _twwe_EntityGetFirstComponent then return _twwe_EntityGetFirstComponent(ent, comp_type, tag) end
    return nil
end
local _twwe_ComponentGetValue2 = ComponentGetValue2
function ComponentGetValue2(comp, field, ...)
    if comp == %[2]d then
        if field == "hp" then return 0.1 end
        if field == "max_hp" then return 1.0 end
    end
    if _twwe_ComponentGetValue2 then return _twwe_ComponentGetValue2(comp, field, ...) end
    return 0
end
`

const crowdHeader = `local function _twwe_crowd(base)
    local t = {}
    for i = 1, %[1]d do t[i] = base + i end
    return t
end
local _twwe_EntityGetInRadiusWithTag = EntityGetInRadiusWithTag
function EntityGetInRadiusWithTag(x, y, radius, tag)
`

const manyEnemiesBranch = `    if tag == "homing_target" or tag == "enemy" then return _twwe_crowd(20000) end
`

const manyProjectilesBranch = `    if tag == "projectile" then return _twwe_crowd(30000) end
`

const crowdFooter = `    if _twwe_EntityGetInRadiusWithTag then return _twwe_EntityGetInRadiusWithTag(x, y, radius, tag) end
    return {}
end
`

// MockScript 生成临时模组的 init.lua。每个环境开关只写入自己的覆盖，互不影响。
// appendFiles 是追加脚本在虚拟文件系统中的路径。
func MockScript(c Conditions, appendFiles []string) string {
	var b strings.Builder
	b.WriteString("-- 由后端生成，评估结束后删除\n")

	if c.Any() {
		fmt.Fprintf(&b, updatedEntityFragment, mockPlayer)
	}
	if c.LowHealth {
		fmt.Fprintf(&b, lowHealthFragment, mockPlayer, mockDamageModel)
	}
	if c.ManyEnemies || c.ManyProjectiles {
		fmt.Fprintf(&b, crowdHeader, mockCrowdSize)
		if c.ManyEnemies {
			b.WriteString(manyEnemiesBranch)
		}
		if c.ManyProjectiles {
			b.WriteString(manyProjectilesBranch)
		}
		b.WriteString(crowdFooter)
	}

	for _, f := range appendFiles {
		fmt.Fprintf(&b, "ModLuaFileAppend(%q, %q)\n", ActionsScript, f)
	}
	return b.String()
}
