package spell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleActions = `
actions =
{
	{
		id          = "BOMB",
		name 		= "$action_bomb",
		description = "$actiondesc_bomb",
		sprite 		= "/data/ui_gfx/gun_actions/bomb.png",
		type 		= ACTION_TYPE_PROJECTILE,
		spawn_level = "0,1,2,3,4,5,6",
		max_uses    = 3,
		price = 200,
		mana = 25,
		action 		= function()
			add_projectile("data/entities/projectiles/bomb.xml")
		end,
	},
	--[[
	{
		id          = "COMMENTED_OUT",
		sprite 		= "data/ui_gfx/gun_actions/x.png",
		price = 10,
	},
	]]
	{
		id          = "NO_TYPE",
		sprite 		= "data/ui_gfx/gun_actions/no_type.png",
		price = 100, -- 价格
	},
	{
		id          = "NO_SPRITE",
		name 		= "$action_no_sprite",
		type 		= ACTION_TYPE_MODIFIER,
		price = 100,
	},
	{
		id          = "DIGGER",
		name        = "Digger",
		sprite 		= "data/ui_gfx/gun_actions/digger.png",
		type 		= ACTION_TYPE_UTILITY,
		max_uses    = -1,
		price = 70,
	},
	{
		id          = "WEIRD",
		sprite 		= "data/ui_gfx/gun_actions/weird.png",
		type 		= ACTION_TYPE_SOMETHING_NEW,
		price = 1,
	},
}
`

func scrapeByID(t *testing.T, src string) map[string]RawAction {
	t.Helper()
	actions, _ := ScrapeActions(src)
	out := make(map[string]RawAction, len(actions))
	for _, a := range actions {
		out[a.ID] = a
	}
	return out
}

func TestScrapeActions(t *testing.T) {
	actions, discarded := ScrapeActions(sampleActions)
	assert.Len(t, actions, 4)
	assert.Equal(t, 1, discarded)

	byID := scrapeByID(t, sampleActions)

	bomb := byID["BOMB"]
	assert.Equal(t, "$action_bomb", bomb.Name)
	assert.Equal(t, "data/ui_gfx/gun_actions/bomb.png", bomb.Sprite)
	assert.Equal(t, TypeProjectile, bomb.Type)
	require.NotNil(t, bomb.MaxUses)
	assert.Equal(t, 3, *bomb.MaxUses)

	digger := byID["DIGGER"]
	assert.Equal(t, TypeUtility, digger.Type)
	require.NotNil(t, digger.MaxUses)
	assert.Equal(t, -1, *digger.MaxUses)
}

func TestScrapeDefaultsToProjectile(t *testing.T) {
	byID := scrapeByID(t, sampleActions)

	noType := byID["NO_TYPE"]
	assert.Equal(t, TypeProjectile, noType.Type)
	assert.Equal(t, "NO_TYPE", noType.Name)
	assert.Nil(t, noType.MaxUses)

	assert.Equal(t, TypeProjectile, byID["WEIRD"].Type)
}

func TestScrapeDropsIncompleteBlocks(t *testing.T) {
	byID := scrapeByID(t, sampleActions)
	assert.NotContains(t, byID, "NO_SPRITE")
	assert.NotContains(t, byID, "COMMENTED_OUT")

	onlySprite := `{ sprite = "a.png", name = "x", price = 5, },`
	actions, _ := ScrapeActions(onlySprite)
	assert.Empty(t, actions)
}

func TestParseActionType(t *testing.T) {
	assert.Equal(t, TypeStaticProjectile, ParseActionType("ACTION_TYPE_STATIC_PROJECTILE"))
	assert.Equal(t, TypeDrawMany, ParseActionType("ACTION_TYPE_DRAW_MANY"))
	assert.Equal(t, TypePassive, ParseActionType("ACTION_TYPE_PASSIVE"))
	assert.Equal(t, TypeProjectile, ParseActionType(""))
}
