package wand

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// 维基模板中以秒为单位的字段需要换算为帧
const ticksPerSecond = 60

var (
	wikiCommentRe = regexp.MustCompile(`(?s)<!--.*?-->`)
	wikiLinkRe    = regexp.MustCompile(`\[\[([^|\]]+\|)?([^\]]+)\]\]`)
	// 法术列表中的链接可能带有 "|"，需要整体匹配
	wikiSpellsRe = regexp.MustCompile(`(?i)\|\s*spells\s*=\s*((?:\[\[[^\]]*\]\]|[^|\n}])+)`)
)

// WikiWand 是从维基 {{Wand2}} 模板解析出的字段，只包含成功解析的部分
type WikiWand struct {
	ManaMax              *float64          `json:"mana_max,omitempty"`
	ManaChargeSpeed      *float64          `json:"mana_charge_speed,omitempty"`
	ReloadTime           *int              `json:"reload_time,omitempty"`
	CastDelay            *int              `json:"cast_delay,omitempty"`
	FireRateWait         *int              `json:"fire_rate_wait,omitempty"`
	DeckCapacity         *int              `json:"deck_capacity,omitempty"`
	ActionsPerRound      *int              `json:"actions_per_round,omitempty"`
	SpreadDegrees        *float64          `json:"spread_degrees,omitempty"`
	SpeedMultiplier      *float64          `json:"speed_multiplier,omitempty"`
	ShuffleDeckWhenEmpty *bool             `json:"shuffle_deck_when_empty,omitempty"`
	Spells               map[string]string `json:"spells,omitempty"`

	// Slot 仅在推送到游戏时使用
	Slot *int `json:"slot,omitempty"`
}

type wikiTemplate struct {
	text  string
	cache map[string]*regexp.Regexp
}

// value 按字段名 (不区分大小写) 查找 "|key = value"，值截止于下一个 "|"、"}" 或换行
func (t *wikiTemplate) value(key string) string {
	re, ok := t.cache[key]
	if !ok {
		re = regexp.MustCompile(`(?i)\|\s*` + regexp.QuoteMeta(key) + `\s*=\s*([^|\n}]+)`)
		t.cache[key] = re
	}
	m := re.FindStringSubmatch(t.text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(wikiCommentRe.ReplaceAllString(strings.TrimSpace(m[1]), ""))
}

func (t *wikiTemplate) float(keys ...string) (float64, bool) {
	for _, k := range keys {
		if v := t.value(k); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			return f, err == nil
		}
	}
	return 0, false
}

func (t *wikiTemplate) seconds(keys ...string) *int {
	if f, ok := t.float(keys...); ok {
		n := int(f * ticksPerSecond)
		return &n
	}
	return nil
}

func (t *wikiTemplate) integer(keys ...string) *int {
	for _, k := range keys {
		if v := t.value(k); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil
			}
			return &n
		}
	}
	return nil
}

func (t *wikiTemplate) number(keys ...string) *float64 {
	if f, ok := t.float(keys...); ok {
		return &f
	}
	return nil
}

// ParseWiki 解析维基法杖模板。单个字段解析失败只会跳过该字段。
// 输入可以是模板文本，也可以是维基编辑页的HTML。
func ParseWiki(text string) WikiWand {
	t := &wikiTemplate{text: ExtractWikitext(text), cache: map[string]*regexp.Regexp{}}

	w := WikiWand{
		ManaMax:         t.number("manaMax"),
		ManaChargeSpeed: t.number("manaCharge"),
		ReloadTime:      t.seconds("rechargeTime"),
		CastDelay:       t.seconds("castDelay"),
		FireRateWait:    t.seconds("castDelay", "fireRate"),
		DeckCapacity:    t.integer("capacity"),
		ActionsPerRound: t.integer("spellsCast", "spellsPerCast"),
		SpreadDegrees:   t.number("spread"),
		SpeedMultiplier: t.number("speed"),
	}

	if v := t.value("shuffle"); v != "" {
		b := parseTruthy(v)
		w.ShuffleDeckWhenEmpty = &b
	}

	if m := wikiSpellsRe.FindStringSubmatch(t.text); m != nil {
		list := wikiCommentRe.ReplaceAllString(m[1], "")
		list = wikiLinkRe.ReplaceAllString(list, "$2")
		spells := map[string]string{}
		for i, s := range strings.Split(list, ",") {
			if s = strings.TrimSpace(s); s != "" {
				spells[strconv.Itoa(i+1)] = s
			}
		}
		if len(spells) > 0 {
			w.Spells = spells
		}
	}
	return w
}

// ExtractWikitext 从维基编辑页HTML中取出模板源码，普通文本原样返回
func ExtractWikitext(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "<") || strings.HasPrefix(trimmed, "<!--") {
		return text
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}
	for _, sel := range []string{"textarea#wpTextbox1", "textarea", "pre"} {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			return node.Text()
		}
	}
	return text
}

// Configuration 在默认值之上应用解析出的字段
func (w WikiWand) Configuration() Configuration {
	c := newConfiguration()
	setFloat(&c.ManaMax, w.ManaMax)
	setFloat(&c.ManaChargeSpeed, w.ManaChargeSpeed)
	if w.ReloadTime != nil {
		c.ReloadTime = float64(*w.ReloadTime)
	}
	if w.FireRateWait != nil {
		c.FireRateWait = float64(*w.FireRateWait)
	}
	if w.DeckCapacity != nil {
		c.DeckCapacity = *w.DeckCapacity
	}
	if w.ActionsPerRound != nil {
		c.ActionsPerRound = *w.ActionsPerRound
	}
	setFloat(&c.SpreadDegrees, w.SpreadDegrees)
	setFloat(&c.SpeedMultiplier, w.SpeedMultiplier)
	if w.ShuffleDeckWhenEmpty != nil {
		c.ShuffleDeckWhenEmpty = *w.ShuffleDeckWhenEmpty
	}
	for k, v := range w.Spells {
		c.Spells[k] = v
	}
	return c
}
