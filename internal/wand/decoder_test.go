package wand

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestLuaDecoderExpression(t *testing.T) {
	d := NewLuaDecoder(zaptest.NewLogger(t))

	out, err := d.Decode(context.Background(), ModeWandEditor, `{ {item_name = "A", mana_max = 500}, {item_name = "B"} }`)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"item_name":"A","mana_max":500},{"item_name":"B"}]`, string(out))
}

func TestLuaDecoderChunkWithReturn(t *testing.T) {
	d := NewLuaDecoder(zaptest.NewLogger(t))

	out, err := d.Decode(context.Background(), ModeSpellLab, `local t = { action_id = "BOMB" } return { wands = { { all_actions = { t } } } }`)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"all_actions":[{"action_id":"BOMB"}]}]`, string(out))
}

func TestLuaDecoderSparseArraysKeepPositions(t *testing.T) {
	d := NewLuaDecoder(zaptest.NewLogger(t))

	out, err := d.Decode(context.Background(), ModeWandEditor, `{ [1] = {spells = {spells = { [1] = {id = "A"}, [3] = {id = "C"} }}} }`)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"spells":{"spells":[{"id":"A"},null,{"id":"C"}]}}]`, string(out))
}

func TestLuaDecoderSingleWandIsWrapped(t *testing.T) {
	d := NewLuaDecoder(zaptest.NewLogger(t))

	out, err := d.Decode(context.Background(), ModeSpellLab, `{ name = "solo", all_actions = {} }`)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"solo","all_actions":[]}]`, string(out))
}

func TestLuaDecoderInvalid(t *testing.T) {
	d := NewLuaDecoder(zaptest.NewLogger(t))

	_, err := d.Decode(context.Background(), ModeWandEditor, `{ unclosed = `)
	assert.Error(t, err)

	_, err = d.Decode(context.Background(), ModeWandEditor, `error("boom")`)
	assert.Error(t, err)
}

func TestLuaDecoderHugeNumericKeysDoNotPanic(t *testing.T) {
	d := NewLuaDecoder(zaptest.NewLogger(t))

	require.NotPanics(t, func() {
		out, err := d.Decode(context.Background(), ModeSpellLab, `{ [1] = 1, [1e300] = 2 }`)
		require.NoError(t, err)
		assert.JSONEq(t, `[1,2]`, string(out))
	})
	require.NotPanics(t, func() {
		_, err := d.Decode(context.Background(), ModeWandEditor, `{ [1] = {item_name = "A"}, [math.huge] = 2 }`)
		require.NoError(t, err)
	})
}
