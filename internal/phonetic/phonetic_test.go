package phonetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestPinyinKeys(t *testing.T) {
	p := NewPinyin(zaptest.NewLogger(t))

	full, initials := p.Keys("火花弹")
	assert.Equal(t, "huohuadan", full)
	assert.Equal(t, "hhd", initials)
}

func TestPinyinKeepsNonHanAndLowercases(t *testing.T) {
	p := NewPinyin(zaptest.NewLogger(t))

	full, initials := p.Keys("Bomb炸弹")
	assert.Equal(t, "bombzhadan", full)
	assert.Equal(t, "bombzd", initials)
}

func TestEmptyInputYieldsEmptyKeys(t *testing.T) {
	full, initials := NewPinyin(zaptest.NewLogger(t)).Keys("")
	assert.Empty(t, full)
	assert.Empty(t, initials)
}

func TestDisabledIndexerIsNop(t *testing.T) {
	idx := New(false, zaptest.NewLogger(t))
	assert.IsType(t, Nop{}, idx)

	full, initials := idx.Keys("火花弹")
	assert.Empty(t, full)
	assert.Empty(t, initials)
}
