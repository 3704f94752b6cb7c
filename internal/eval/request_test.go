package eval

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotListFromArray(t *testing.T) {
	var s SlotList
	require.NoError(t, json.Unmarshal([]byte(`["BOMB", null, "", "DIGGER"]`), &s))
	assert.Equal(t, SlotList{"BOMB", "", "", "DIGGER"}, s)
}

func TestSlotListFromObject(t *testing.T) {
	var s SlotList
	require.NoError(t, json.Unmarshal([]byte(`{"3": "DIGGER", "1": "BOMB", "2": null}`), &s))
	assert.Equal(t, SlotList{"BOMB", "", "DIGGER"}, s)

	assert.Error(t, json.Unmarshal([]byte(`{"zero": "BOMB"}`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"0": "BOMB"}`), &s))
}

func TestSlotListRejectsOutOfRangeSlots(t *testing.T) {
	var s SlotList
	assert.Error(t, json.Unmarshal([]byte(`{"20000000": "SPARK_BOLT"}`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"1025": "SPARK_BOLT"}`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"0": "SPARK_BOLT"}`), &s))

	require.NoError(t, json.Unmarshal([]byte(`{"1024": "SPARK_BOLT"}`), &s))
	assert.Len(t, s, MaxSlot)
	assert.Equal(t, "SPARK_BOLT", s[MaxSlot-1])
}

func TestRequestSlots(t *testing.T) {
	req := Request{
		Spells:    SlotList{"", "BOMB", "", "DIGGER"},
		SpellUses: map[string]float64{"4": 2},
	}
	slots := req.Slots()
	require.Len(t, slots, 2)
	assert.Equal(t, 2, slots[0].Index)
	assert.Nil(t, slots[0].Uses)
	assert.Equal(t, 4, slots[1].Index)
	require.NotNil(t, slots[1].Uses)
	assert.Equal(t, 2.0, *slots[1].Uses)

	assert.Empty(t, Request{Spells: SlotList{"", ""}}.Slots())
}

func TestRequestConditionsFromJSON(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"spells":["BOMB"],"simulate_low_hp":true,"simulate_many_projectiles":true}`), &req))
	assert.True(t, req.LowHealth)
	assert.False(t, req.ManyEnemies)
	assert.True(t, req.ManyProjectiles)
}
