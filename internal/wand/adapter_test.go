package wand

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SlpAus/noita-wand-engine-backend/internal/phonetic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const editorPage = `{
	{
		item_name = "火法杖",
		mana_max = 500,
		reload_time = 12,
		shuffle_deck_when_empty = true,
		spells = {
			spells = { {id = "BOMB", uses_remaining = 3}, {id = "nil"}, {id = "LIGHT_BULLET", uses_remaining = -1}, false },
			always = { {id = "ADD_TRIGGER"}, {} },
		},
	},
	{},
	{ spells = { spells = {} } },
}`

const labPage = `return {
	{
		name = "",
		stats = { ui_name = "Lab Wand", mana_max = 300, shuffle_deck_when_empty = 1, deck_capacity = 26 },
		all_actions = {
			{ action_id = "BOMB", x = 0 },
			{ action_id = "ADD_TRIGGER", permanent = true },
			{ action_id = "DIGGER", x = 4, uses_remaining = 5 },
			{ action_id = "", x = 5 },
		},
	},
}`

func newTestAdapter(t *testing.T) *Adapter {
	log := zaptest.NewLogger(t)
	a := NewAdapter(log, NewLuaDecoder(log), phonetic.NewPinyin(log))
	a.now = func() time.Time { return time.UnixMilli(1700000000000) }
	a.newID = func() string { return "abcd1234" }
	return a
}

func TestFromWandEditor(t *testing.T) {
	res := newTestAdapter(t).FromWandEditor(context.Background(), []string{editorPage, "{ broken"})

	require.Len(t, res.Folders, 2)
	assert.Equal(t, Folder{ID: WandEditorFolderID, Name: "来自 Wand Editor", Order: 0, IsOpen: true}, res.Folders[0])
	assert.Equal(t, "from_wand_editor_page_1", res.Folders[1].ID)
	assert.Equal(t, "第 1 页", res.Folders[1].Name)
	require.NotNil(t, res.Folders[1].ParentID)
	assert.Equal(t, WandEditorFolderID, *res.Folders[1].ParentID)

	require.Len(t, res.Wands, 2)
	w := res.Wands[0]
	assert.Equal(t, "we_0_0_abcd1234", w.ID)
	assert.Equal(t, "火法杖", w.Name)
	assert.Equal(t, "huofazhang", w.Pinyin)
	assert.Equal(t, 500.0, w.ManaMax)
	assert.Equal(t, 12.0, w.ReloadTime)
	assert.Equal(t, float64(DefaultManaChargeSpeed), w.ManaChargeSpeed)
	assert.True(t, w.ShuffleDeckWhenEmpty)
	assert.Equal(t, map[string]string{"1": "BOMB", "3": "LIGHT_BULLET"}, w.Spells)
	assert.Equal(t, map[string]int{"1": 3}, w.SpellUses)
	assert.Equal(t, []string{"ADD_TRIGGER"}, w.AlwaysCast)
	assert.Equal(t, int64(1700000000000), w.CreatedAt)
	assert.Equal(t, "from_wand_editor_page_1", w.FolderID)
	assert.Equal(t, []string{"WandEditor"}, w.Tags)

	unnamed := res.Wands[1]
	assert.Equal(t, "未命名魔杖", unnamed.Name)
	assert.Equal(t, 2, unnamed.Order)
	assert.Equal(t, DefaultDeckCapacity, unnamed.DeckCapacity)
	assert.Empty(t, unnamed.Spells)
}

func TestFromSpellLab(t *testing.T) {
	res := newTestAdapter(t).FromSpellLab(context.Background(), []string{labPage})

	require.Len(t, res.Folders, 1)
	assert.Equal(t, SpellLabFolderID, res.Folders[0].ID)
	assert.Equal(t, 1, res.Folders[0].Order)

	require.Len(t, res.Wands, 1)
	w := res.Wands[0]
	assert.Equal(t, "sl_0_abcd1234", w.ID)
	assert.Equal(t, "Lab Wand", w.Name)
	assert.Equal(t, 300.0, w.ManaMax)
	assert.Equal(t, 26, w.DeckCapacity)
	assert.True(t, w.ShuffleDeckWhenEmpty)
	assert.Equal(t, map[string]string{"1": "BOMB", "5": "DIGGER"}, w.Spells)
	assert.Equal(t, map[string]int{"5": 5}, w.SpellUses)
	assert.Equal(t, []string{"ADD_TRIGGER"}, w.AlwaysCast)
	assert.Equal(t, SpellLabFolderID, w.FolderID)
}

type stubDecoder struct{ err error }

func (s stubDecoder) Decode(context.Context, Mode, string) (json.RawMessage, error) {
	return nil, s.err
}

func TestSpellLabDefaultName(t *testing.T) {
	res := newTestAdapter(t).FromSpellLab(context.Background(), []string{`{ { all_actions = {} } }`})
	require.Len(t, res.Wands, 1)
	assert.Equal(t, "SpellLab Wand", res.Wands[0].Name)
	assert.Equal(t, 1.0, res.Wands[0].SpeedMultiplier)
	assert.Equal(t, DefaultActionsPerRound, res.Wands[0].ActionsPerRound)
}

func TestDecoderFailureSkipsSource(t *testing.T) {
	log := zaptest.NewLogger(t)
	a := NewAdapter(log, stubDecoder{err: errors.New("luajit missing")}, phonetic.Nop{})

	res := a.FromSpellLab(context.Background(), []string{"x"})
	assert.Empty(t, res.Wands)
	assert.Len(t, res.Folders, 1)
}
