package eval

import (
	"path/filepath"
	"strconv"
	"strings"
)

// MainScript 是模拟器的入口脚本
const MainScript = "main.lua"

// negativePrefix 绕过模拟器参数解析器把负数当作选项的缺陷
const negativePrefix = "."

// FormatNumber 格式化数值参数。所有负数都会加上前缀，例如 -12 变为 ".-12"。
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v < 0 {
		return negativePrefix + s
	}
	return s
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Invocation 描述一次调用所需的环境
type Invocation struct {
	DataRoot   string
	GameRoot   string
	ScratchMod string
	Mods       []string
	SyncModID  string
}

// dirArg 将目录转换为模拟器使用的正斜杠格式，并以 "/" 结尾
func dirArg(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	p = strings.ReplaceAll(filepath.ToSlash(p), `\`, "/")
	return strings.TrimRight(p, "/") + "/"
}

// BuildArgs 生成模拟器参数 (不含解释器本身)。调用方需保证请求至少包含一个法术。
func BuildArgs(req Request, inv Invocation) []string {
	dataRoot := dirArg(inv.DataRoot)
	gameRoot := dataRoot
	if inv.GameRoot != "" {
		gameRoot = dirArg(inv.GameRoot)
	}
	mana := valueOr(req.ManaMax, defaultManaMax)

	args := []string{
		MainScript,
		"-dp", dataRoot,
		"-mp", gameRoot,
		"-j",
		"-sc", FormatNumber(valueOr(req.ActionsPerRound, defaultActionsPerRound)),
		"-ma", FormatNumber(mana),
		"-mx", FormatNumber(mana),
		"-mc", FormatNumber(valueOr(req.ManaChargeSpeed, defaultManaCharge)),
		"-rt", FormatNumber(valueOr(req.ReloadTime, defaultReloadTime)),
		"-cd", FormatNumber(valueOr(req.FireRateWait, defaultFireRateWait)),
		"-nc", FormatNumber(valueOr(req.NumberOfCasts, defaultNumberOfCasts)),
		"-u", formatBool(flagOr(req.UnlimitedSpells, true)),
		"-e", formatBool(flagOr(req.InitialIfHalf, true)),
	}

	// 模拟器默认折叠节点，-f 会关闭折叠
	if !req.FoldNodes {
		args = append(args, "-f")
	}

	var always []string
	for _, id := range req.AlwaysCast {
		if id != "" {
			always = append(always, id)
		}
	}
	if len(always) > 0 {
		args = append(args, "-ac")
		args = append(args, always...)
	}

	args = append(args, "-md")
	args = append(args, ModList(inv.ScratchMod, inv.Mods, inv.SyncModID)...)

	args = append(args, "-sp")
	for _, s := range req.Slots() {
		args = append(args, strconv.Itoa(s.Index)+":"+s.SpellID)
		if s.Uses != nil {
			args = append(args, FormatNumber(*s.Uses))
		}
	}
	return args
}

// ModList 返回传给模拟器的模组列表：临时模组在前，其余启用模组去重并排除同步模组
func ModList(scratch string, active []string, syncModID string) []string {
	mods := []string{scratch}
	seen := map[string]bool{scratch: true}
	for _, m := range active {
		if m == "" || m == syncModID || seen[m] {
			continue
		}
		seen[m] = true
		mods = append(mods, m)
	}
	return mods
}
