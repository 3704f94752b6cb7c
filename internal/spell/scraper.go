package spell

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	blockCommentRe = regexp.MustCompile(`(?s)--\[\[.*?\]\]`)
	lineCommentRe  = regexp.MustCompile(`--[^\n]*`)

	// 同时包含 id 与 price 字段的字面量表才是完整的法术定义
	actionBlockRe = regexp.MustCompile(`(?s)\{\s*(id\s*=\s*"[^"]+".*?price\s*=\s*\d+.*?)\s*\},`)

	idFieldRe      = regexp.MustCompile(`id\s*=\s*"([^"]+)"`)
	nameFieldRe    = regexp.MustCompile(`name\s*=\s*"([^"]+)"`)
	spriteFieldRe  = regexp.MustCompile(`sprite\s*=\s*"([^"]+)"`)
	typeFieldRe    = regexp.MustCompile(`type\s*=\s*([A-Z0-9_]+)`)
	maxUsesFieldRe = regexp.MustCompile(`max_uses\s*=\s*(-?\d+)`)
)

// RawAction 是从脚本中抽取出的原始字段
type RawAction struct {
	ID      string
	Name    string
	Sprite  string
	Type    ActionType
	MaxUses *int
}

// StripComments 移除块注释和行注释
func StripComments(src string) string {
	src = blockCommentRe.ReplaceAllString(src, "")
	return lineCommentRe.ReplaceAllString(src, "")
}

// ScrapeActions 只做模式匹配，不执行脚本。缺少 id 或 sprite 的块被丢弃。
func ScrapeActions(src string) (actions []RawAction, discarded int) {
	src = StripComments(src)
	for _, m := range actionBlockRe.FindAllStringSubmatch(src, -1) {
		a, ok := parseBlock(m[1])
		if !ok {
			discarded++
			continue
		}
		actions = append(actions, a)
	}
	return actions, discarded
}

func parseBlock(block string) (RawAction, bool) {
	id := firstGroup(idFieldRe, block)
	sprite := firstGroup(spriteFieldRe, block)
	if id == "" || sprite == "" {
		return RawAction{}, false
	}

	a := RawAction{
		ID:     id,
		Name:   firstGroup(nameFieldRe, block),
		Sprite: strings.TrimLeft(sprite, "/"),
		Type:   ParseActionType(firstGroup(typeFieldRe, block)),
	}
	if a.Name == "" {
		a.Name = id
	}
	if s := firstGroup(maxUsesFieldRe, block); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			a.MaxUses = &n
		}
	}
	return a, true
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}
