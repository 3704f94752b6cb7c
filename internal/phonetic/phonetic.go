// Package phonetic 为显示文本生成可检索的拼音键 (全拼, 首字母)。
package phonetic

import (
	"strings"

	"github.com/mozillazg/go-pinyin"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Indexer 生成拼音检索键。实现不得 panic，失败时返回空字符串。
type Indexer interface {
	Keys(text string) (full, initials string)
}

// Nop 在拼音后端不可用时使用，总是返回空键
type Nop struct{}

func (Nop) Keys(string) (string, string) { return "", "" }

// Pinyin 基于 go-pinyin 的实现。非汉字字符原样保留。
type Pinyin struct {
	full    pinyin.Args
	initial pinyin.Args
	lower   cases.Caser
	log     *zap.Logger
}

func NewPinyin(log *zap.Logger) *Pinyin {
	keep := func(r rune, _ pinyin.Args) []string { return []string{string(r)} }

	full := pinyin.NewArgs()
	full.Style = pinyin.Normal
	full.Fallback = keep

	initial := pinyin.NewArgs()
	initial.Style = pinyin.FirstLetter
	initial.Fallback = keep

	return &Pinyin{full: full, initial: initial, lower: cases.Lower(language.Und), log: log}
}

// Keys 返回小写的全拼和首字母
func (p *Pinyin) Keys(text string) (full, initials string) {
	if text == "" {
		return "", ""
	}
	defer func() {
		if r := recover(); r != nil {
			p.log.Warn("拼音转换失败", zap.String("text", text), zap.Any("panic", r))
			full, initials = "", ""
		}
	}()

	full = p.lower.String(strings.Join(pinyin.LazyPinyin(text, p.full), ""))
	initials = p.lower.String(strings.Join(pinyin.LazyPinyin(text, p.initial), ""))
	return full, initials
}

// New 根据开关返回拼音实现或空实现
func New(enabled bool, log *zap.Logger) Indexer {
	if !enabled {
		return Nop{}
	}
	return NewPinyin(log)
}
